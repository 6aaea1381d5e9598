package groovefield

import (
	"math"
	"testing"
)

func TestDragCurvePowerEndpoints(t *testing.T) {
	got := DragCurvePower(0, 16, 10, 2, 1, 1)
	if got != 0 {
		t.Errorf("drag at step 0 = %v, want 0", got)
	}
	got = DragCurvePower(16, 16, 10, 2, 1, 1)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("drag at final step = %v, want 10", got)
	}
}

func TestDragCurvePowerDegenerate(t *testing.T) {
	if got := DragCurvePower(4, 0, 10, 2, 1, 1); got != 0 {
		t.Errorf("stepsPerBar<=0 should yield 0, got %v", got)
	}
	if got := DragCurvePower(4, 16, 10, 0, 1, 1); got != 0 {
		t.Errorf("exponent<=0 should yield 0, got %v", got)
	}
}

func TestDragCurveLogEndpoints(t *testing.T) {
	got := DragCurveLog(0, 16, 10, 5, 1, 1)
	if got != 0 {
		t.Errorf("drag at step 0 = %v, want 0", got)
	}
	got = DragCurveLog(16, 16, 10, 5, 1, 1)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("drag at final step = %v, want 10", got)
	}
}

func TestDragCurveLogDegenerate(t *testing.T) {
	if got := DragCurveLog(4, 0, 10, 5, 1, 1); got != 0 {
		t.Errorf("stepsPerBar<=0 should yield 0, got %v", got)
	}
}

func TestDragCurveLogNonPositiveKTreatedAsOne(t *testing.T) {
	withZero := DragCurveLog(8, 16, 10, 0, 1, 1)
	withOne := DragCurveLog(8, 16, 10, 1, 1, 1)
	if withZero != withOne {
		t.Errorf("k<=0 should behave like k=1: got %v vs %v", withZero, withOne)
	}
}

func TestVelocityPhaseCouplingDirections(t *testing.T) {
	natural := VelocityPhaseCoupling(0.9, 0.5, DirectionNatural, 1)
	inverted := VelocityPhaseCoupling(0.9, 0.5, DirectionInverted, 1)
	none := VelocityPhaseCoupling(0.9, 0.5, DirectionNone, 1)
	unknown := VelocityPhaseCoupling(0.9, 0.5, "bogus", 1)

	if natural <= 0 {
		t.Errorf("natural coupling with velocity above center should be positive, got %v", natural)
	}
	if inverted != -natural {
		t.Errorf("inverted coupling should be the negation of natural: got %v, want %v", inverted, -natural)
	}
	if none != 0 {
		t.Errorf("none direction should yield 0, got %v", none)
	}
	if unknown != 0 {
		t.Errorf("unrecognized direction should yield 0, got %v", unknown)
	}
}

func TestVelocityPhaseCouplingZeroAtCenter(t *testing.T) {
	got := VelocityPhaseCoupling(0.7, 0.5, DirectionNatural, 1)
	if got != 0 {
		t.Errorf("velocity at center should yield zero deviation, got %v", got)
	}
}

func TestMacroDriftDisabled(t *testing.T) {
	if got := MacroDrift(false, 5, 4, 2, WaveformSine, 1); got != 0 {
		t.Errorf("disabled drift should be 0, got %v", got)
	}
	if got := MacroDrift(true, 5, 0, 2, WaveformSine, 1); got != 0 {
		t.Errorf("non-positive period should be 0, got %v", got)
	}
}

func TestMacroDriftSine(t *testing.T) {
	got := MacroDrift(true, 5, 4, 0, WaveformSine, 1)
	if math.Abs(got) > 1e-9 {
		t.Errorf("sine drift at bar 0 should be 0, got %v", got)
	}
	got = MacroDrift(true, 5, 4, 1, WaveformSine, 1)
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("sine drift at quarter period should be amplitude, got %v", got)
	}
}

func TestMacroDriftTriangleShape(t *testing.T) {
	// Per the documented contract: phase 0 -> -amplitude, phase 1/2 -> +amplitude,
	// phase 1 -> -amplitude again.
	start := MacroDrift(true, 4, 8, 0, WaveformTriangle, 1)
	mid := MacroDrift(true, 4, 8, 4, WaveformTriangle, 1)
	end := MacroDrift(true, 4, 8, 8, WaveformTriangle, 1)

	if math.Abs(start-(-4)) > 1e-9 {
		t.Errorf("triangle at phase 0 = %v, want -4", start)
	}
	if math.Abs(mid-4) > 1e-9 {
		t.Errorf("triangle at phase 1/2 = %v, want 4", mid)
	}
	if math.Abs(end-(-4)) > 1e-9 {
		t.Errorf("triangle at phase 1 = %v, want -4", end)
	}
}

func TestMacroDriftUnknownWaveform(t *testing.T) {
	if got := MacroDrift(true, 5, 4, 1, "square", 1); got != 0 {
		t.Errorf("unknown waveform should yield 0, got %v", got)
	}
}

func TestTensionStateDegenerate(t *testing.T) {
	tau, mult := TensionState(0.1, 2, 0, 3)
	if tau != 0 || mult != 1 {
		t.Errorf("non-positive reset period should yield neutral (0,1), got (%v,%v)", tau, mult)
	}
}

func TestTensionStateClampedToUnitRange(t *testing.T) {
	tau, mult := TensionState(10, 1, 4, 3)
	if tau != 1 {
		t.Errorf("tau should clamp to 1, got %v", tau)
	}
	if mult != 2 {
		t.Errorf("exponentMultiplier at tau=1 with amplification=1 should be 2, got %v", mult)
	}
}

func TestTensionStateResetsAcrossPhrase(t *testing.T) {
	_, multAtZero := TensionState(0.25, 1, 4, 4)
	if multAtZero != 1 {
		t.Errorf("tension should reset to 1 at the start of a new phrase, got %v", multAtZero)
	}
}

func TestHarmonicGravityLookupFallback(t *testing.T) {
	table := map[string]float64{"major": 1.2}
	if got := HarmonicGravityLookup(table, "major"); got != 1.2 {
		t.Errorf("known mode lookup = %v, want 1.2", got)
	}
	if got := HarmonicGravityLookup(table, "dorian"); got != 1.0 {
		t.Errorf("unmapped mode should default to 1.0, got %v", got)
	}
	if got := HarmonicGravityLookup(nil, "major"); got != 1.0 {
		t.Errorf("nil table should default to 1.0, got %v", got)
	}
}
