package hardware

import (
	"math"
	"testing"
)

func TestRoundToPPQNSnapsToNearestPulse(t *testing.T) {
	// At 120bpm, 24 ppqn, pulse = 60/(120*24) = 1/48 s.
	got := RoundToPPQN(0.0199, 120, 24)
	want := 1.0 / 48.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRoundToPPQNDisabledOnDegenerateArgs(t *testing.T) {
	if got := RoundToPPQN(1.2345, 120, 0); got != 1.2345 {
		t.Errorf("ppqn<=0 should disable quantization, got %v", got)
	}
	if got := RoundToPPQN(1.2345, 0, 24); got != 1.2345 {
		t.Errorf("bpm<=0 should disable quantization, got %v", got)
	}
	if got := RoundToPPQN(1.2345, -10, 24); got != 1.2345 {
		t.Errorf("negative bpm should disable quantization, got %v", got)
	}
}

func TestProcessPassthroughWhenDisabled(t *testing.T) {
	p := NewProcessor(48000, 2)
	block := []float64{0.1, 0.2, -0.3, 0.4}
	orig := append([]float64(nil), block...)

	out := p.Process(0, block, Params{Enabled: false})
	for i := range out {
		if out[i] != orig[i] {
			t.Errorf("sample %d changed while disabled: got %v, want %v", i, out[i], orig[i])
		}
	}
}

func TestProcessDryWetZeroReturnsDry(t *testing.T) {
	p := NewProcessor(48000, 1)
	block := []float64{0.5, -0.5, 0.25}
	orig := append([]float64(nil), block...)

	out := p.Process(0, block, Params{
		Enabled:           true,
		SaturationEnabled: true,
		SaturationGain:    4,
		DryWet:            0,
	})
	for i := range out {
		if math.Abs(out[i]-orig[i]) > 1e-12 {
			t.Errorf("dry_wet=0 sample %d = %v, want dry %v", i, out[i], orig[i])
		}
	}
}

func TestProcessDryWetOneAppliesFullWet(t *testing.T) {
	p := NewProcessor(48000, 1)
	block := []float64{0.5}
	out := p.Process(0, block, Params{
		Enabled:           true,
		SaturationEnabled: true,
		SaturationGain:    2,
		DryWet:            1,
	})
	want := math.Tanh(2 * 0.5)
	if math.Abs(out[0]-want) > 1e-9 {
		t.Errorf("got %v, want %v", out[0], want)
	}
}

func TestProcessSaturationDisabledLeavesSampleUnshaped(t *testing.T) {
	p := NewProcessor(48000, 1)
	block := []float64{0.5}
	out := p.Process(0, block, Params{
		Enabled:           true,
		SaturationEnabled: false,
		DryWet:            1,
	})
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Errorf("saturation disabled should leave sample unchanged, got %v", out[0])
	}
}

func TestProcessDoesNotAllocateNewSlice(t *testing.T) {
	p := NewProcessor(48000, 1)
	block := make([]float64, 4)
	out := p.Process(0, block, Params{Enabled: true, DryWet: 1})
	if &out[0] != &block[0] {
		t.Error("Process should mutate and return the same backing array")
	}
}

func TestProcessPerChannelStateIsIndependent(t *testing.T) {
	p := NewProcessor(48000, 2)
	params := Params{
		Enabled:           true,
		DownsampleEnabled: true,
		TargetSampleRate:  8000,
		BitDepth:          8,
		DryWet:            1,
	}

	blockA := make([]float64, 16)
	blockB := make([]float64, 16)
	for i := range blockA {
		blockA[i] = 1.0
		blockB[i] = 1.0
	}

	outA := p.Process(0, blockA, params)
	outB := p.Process(1, blockB, params)

	// Both channels start from fresh state and identical input, so they
	// must produce identical output despite being separate channel slots.
	for i := range outA {
		if outA[i] != outB[i] {
			t.Errorf("sample %d: channel states diverged unexpectedly: %v != %v", i, outA[i], outB[i])
		}
	}
}

func TestProcessCrackleDeterministicAcrossProcessors(t *testing.T) {
	params := Params{
		Enabled:       true,
		CrackleAmount: 50,
		DryWet:        1,
	}

	p1 := NewProcessor(48000, 1)
	p2 := NewProcessor(48000, 1)

	block1 := make([]float64, 100)
	block2 := make([]float64, 100)

	out1 := p1.Process(0, block1, params)
	out2 := p2.Process(0, block2, params)

	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("crackle should be deterministic from the fixed seed: sample %d diverged", i)
		}
	}
}

func TestProcessBitDepthRequiresDownsampleEnabled(t *testing.T) {
	p1 := NewProcessor(48000, 1)
	block1 := []float64{0.123456}
	out1 := p1.Process(0, block1, Params{
		Enabled:    true,
		BitDepth:   4,
		DryWet:     1,
	})
	// BitDepth quantization is gated behind DownsampleEnabled, so with it
	// false the sample should pass through unquantized (and unsaturated).
	if math.Abs(out1[0]-0.123456) > 1e-9 {
		t.Errorf("bit depth should not apply without downsample enabled, got %v", out1[0])
	}
}
