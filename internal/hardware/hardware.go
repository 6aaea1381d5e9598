// Package hardware implements the two pieces of hardware emulation: the
// PPQN time quantizer applied at the end of the per-event scheduling
// pipeline, and the real-time sample-block signal chain (saturation,
// anti-alias filtering, sample-and-hold downsampling, bit-depth
// quantization, crackle) that imitates the emulated hardware's analog and
// digital stages in that fixed order.
package hardware

import (
	"math"

	"github.com/cartomix/groove/internal/grooverand"
)

// RoundToPPQN snaps t (seconds) to the nearest pulse at the given bpm and
// ppqn. A non-positive ppqn or bpm disables quantization and returns t
// unchanged, matching the NumericDegeneracy handling used throughout the
// engine.
func RoundToPPQN(t, bpm float64, ppqn int) float64 {
	if ppqn <= 0 || bpm <= 0 {
		return t
	}
	pulse := 60 / (bpm * float64(ppqn))
	return math.Round(t/pulse) * pulse
}

// Params is the flat k-rate parameter block for the signal chain. Enable
// flags are plain bools, and internal/httpapi and internal/server decode
// them from JSON booleans as-is; numeric 0/1 enable flags are not
// translated and fail to decode.
type Params struct {
	Enabled           bool    `json:"enabled"`
	SaturationEnabled bool    `json:"saturation_enabled"`
	SaturationGain    float64 `json:"saturation_gain"`
	TargetSampleRate  float64 `json:"target_sample_rate"`
	BitDepth          int     `json:"bit_depth"`
	DownsampleEnabled bool    `json:"downsample_enabled"`
	CrackleAmount     float64 `json:"crackle_amount"`
	DryWet            float64 `json:"dry_wet"`
}

// channelState is the persistent per-channel memory the processor owns
// across blocks: one-pole LPF memory, sample-and-hold value and counter.
type channelState struct {
	lpfState   float64
	holdValue  float64
	holdCount  int
}

// Processor runs the signal chain over successive blocks for a fixed
// number of channels at a fixed host sample rate. It owns all per-channel
// state and a crackle PRNG; it never allocates in Process.
type Processor struct {
	hostSampleRate float64
	channels       []channelState
	crackleRNG     *grooverand.RNG
}

// crackleSeed is the fixed constant the crackle PRNG is initialized to,
// independent of any profile or render seed — crackle texture is a
// property of the emulated hardware, not of the musical seed.
const crackleSeed = 0x4372616B // "Crak"

// NewProcessor constructs a Processor for numChannels channels at the
// given host sample rate.
func NewProcessor(hostSampleRate float64, numChannels int) *Processor {
	return &Processor{
		hostSampleRate: hostSampleRate,
		channels:       make([]channelState, numChannels),
		crackleRNG:     grooverand.New(crackleSeed),
	}
}

// Process runs block through the signal chain for the given channel
// index, in place, using p and returns block. With p.Enabled false the
// block passes through unchanged.
func (proc *Processor) Process(channel int, block []float64, p Params) []float64 {
	if !p.Enabled {
		return block
	}
	st := &proc.channels[channel]

	ratio := 1
	var alpha float64
	if p.DownsampleEnabled && p.TargetSampleRate > 0 {
		ratio = int(math.Floor(proc.hostSampleRate / p.TargetSampleRate))
		if ratio < 1 {
			ratio = 1
		}
		alpha = 2 * math.Pi * p.TargetSampleRate / (2 * proc.hostSampleRate)
		if alpha > 1 {
			alpha = 1
		}
	}

	levels := 0.0
	if p.BitDepth > 0 {
		levels = math.Pow(2, float64(p.BitDepth-1))
	}

	for i, dry := range block {
		x := dry

		if p.SaturationEnabled {
			x = math.Tanh(p.SaturationGain * x)
		}

		if p.DownsampleEnabled && ratio > 1 {
			st.lpfState += alpha * (x - st.lpfState)
			x = st.lpfState

			st.holdCount++
			if st.holdCount >= ratio {
				st.holdCount = 0
				st.holdValue = x
			}
			x = st.holdValue
		}

		if p.DownsampleEnabled && levels > 0 {
			x = math.Round(x*levels) / levels
		}

		if p.CrackleAmount > 0 {
			gate := proc.crackleRNG.Next()
			if gate < p.CrackleAmount*0.002 {
				mag := proc.crackleRNG.Next()
				x += (mag - 0.5) * p.CrackleAmount * 0.15
			}
		}

		block[i] = dry*(1-p.DryWet) + x*p.DryWet
	}

	return block
}
