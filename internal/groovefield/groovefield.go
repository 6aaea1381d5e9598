// Package groovefield implements the pure basis functions the displacement
// kernel is built from: drag curves, velocity-phase coupling, macro-drift
// oscillation, phrase tension accumulation, and harmonic-gravity lookup.
//
// Every function here is pure, bounded, and unscaled — none of them know
// about tempo. Each accepts an explicit bpmScale factor so a caller can
// compose them freely; the groove engine's context assembly always passes
// 1.0 and lets the kernel apply tempo scaling exactly once.
package groovefield

import "math"

// DragCurvePower computes the power-curve drag value for step n out of
// stepsPerBar, scaled by the per-channel scalar. It is 0 at n=0 and
// maxDragMs*scale at n=stepsPerBar. Degenerate arguments (stepsPerBar <= 0,
// exponent <= 0) return 0.
func DragCurvePower(step, stepsPerBar int, maxDragMs, exponent, scale, bpmScale float64) float64 {
	if stepsPerBar <= 0 || exponent <= 0 {
		return 0
	}
	n := float64(step) / float64(stepsPerBar)
	return maxDragMs * math.Pow(n, exponent) * scale * bpmScale
}

// DragCurveLog computes the logarithmic drag curve. It is 0 at n=0 and
// maxDragMs*scale at n=stepsPerBar. A non-positive k is treated as 1.
// Degenerate stepsPerBar returns 0.
func DragCurveLog(step, stepsPerBar int, maxDragMs, k, scale, bpmScale float64) float64 {
	if stepsPerBar <= 0 {
		return 0
	}
	if k <= 0 {
		k = 1
	}
	n := float64(step) / float64(stepsPerBar)
	return maxDragMs * math.Log(1+n*k) / math.Log(1+k) * scale * bpmScale
}

// Velocity-phase coupling direction constants.
const (
	DirectionNatural  = "natural"
	DirectionInverted = "inverted"
	DirectionNone     = "none"
)

const velocityCenter = 0.7

// VelocityPhaseCoupling returns the timing contribution from coupling a
// hit's velocity to its phase within the bar. direction selects the sign:
// natural (+1), inverted (-1), or none/unrecognized (0).
func VelocityPhaseCoupling(velocity, ratio float64, direction string, bpmScale float64) float64 {
	var sign float64
	switch direction {
	case DirectionNatural:
		sign = 1
	case DirectionInverted:
		sign = -1
	default:
		sign = 0
	}
	deviation := velocity - velocityCenter
	return sign * deviation * ratio * 10 * bpmScale
}

// Macro-drift waveform constants.
const (
	WaveformSine     = "sine"
	WaveformTriangle = "triangle"
)

// MacroDrift returns the slow oscillation applied across bars. Disabled or
// non-positive periodBars yields 0. For the triangle waveform, phase 0 maps
// to -amplitude and phase 1/2 maps to +amplitude, then back to -amplitude at
// phase 1 — this is the contract the engine relies on, not the textbook
// triangle that starts positive.
func MacroDrift(enabled bool, amplitudeMs, periodBars float64, bar int, waveform string, bpmScale float64) float64 {
	if !enabled || periodBars <= 0 {
		return 0
	}
	switch waveform {
	case WaveformSine:
		return amplitudeMs * math.Sin(2*math.Pi*float64(bar)/periodBars) * bpmScale
	case WaveformTriangle:
		phase := math.Mod(float64(bar)/periodBars, 1)
		if phase < 0 {
			phase += 1
		}
		tri := 1 - 2*math.Abs(2*phase-1)
		return amplitudeMs * tri * bpmScale
	default:
		return 0
	}
}

// TensionState tracks phrase tension accumulation. tau is the clamped
// [0,1] progress through the reset period and exponentMultiplier is the
// 1+tau*amplification factor callers apply to sharpen elastic curves as
// tension builds. A non-positive resetPeriodBars returns a neutral (0, 1).
func TensionState(increment, amplification, resetPeriodBars float64, bar int) (tau, exponentMultiplier float64) {
	if resetPeriodBars <= 0 {
		return 0, 1
	}
	barInPhrase := math.Mod(float64(bar), resetPeriodBars)
	if barInPhrase < 0 {
		barInPhrase += resetPeriodBars
	}
	tau = barInPhrase * increment
	if tau < 0 {
		tau = 0
	}
	if tau > 1 {
		tau = 1
	}
	return tau, 1 + tau*amplification
}

// HarmonicGravityLookup returns the gravity scalar for the given scale
// mode, defaulting to 1.0 (no amplification) for unmapped modes.
func HarmonicGravityLookup(gravityByMode map[string]float64, mode string) float64 {
	if v, ok := gravityByMode[mode]; ok {
		return v
	}
	return 1.0
}
