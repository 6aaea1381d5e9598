// Package groovekernel implements the single closed-form displacement
// equation at the center of the groove engine. It never branches on groove
// type — every feel is a point in the same coefficient space.
package groovekernel

// Context is the fully assembled set of kernel inputs for one scheduled
// event. Every displacement-like field is unscaled milliseconds; the
// kernel is the only place tempo scaling (β = 90/bpm) is applied.
type Context struct {
	BPM             float64
	GrooveAmount    float64
	LinearOffset    float64
	Curvature       float64
	PhaseCoupling   float64
	HarmonicGravity float64
	MacroDrift      float64
	Jitter          float64
	MaxPushMs       float64
	MaxDragMs       float64
	MaxPhaseErrorMs float64
}

// Evaluate returns the total signed displacement in milliseconds for ctx.
// It is straight-line arithmetic with two clamps: no dispatch on any
// groove-type tag, no mutation of ctx, no reads beyond its fields.
func Evaluate(ctx Context) float64 {
	var beta float64
	if ctx.BPM > 0 {
		beta = 90 / ctx.BPM
	}

	elasticRaw := ctx.Curvature + ctx.PhaseCoupling
	elastic := elasticRaw
	if elasticRaw > 0 {
		elastic = ctx.HarmonicGravity * elasticRaw
	}

	raw := beta * (ctx.LinearOffset + elastic + ctx.MacroDrift + ctx.Jitter)

	phraseClamped := raw
	if ctx.MaxPhaseErrorMs > 0 {
		phraseClamped = clamp(raw, -ctx.MaxPhaseErrorMs*beta, ctx.MaxPhaseErrorMs*beta)
	}

	bounded := clamp(phraseClamped, ctx.MaxPushMs*beta, ctx.MaxDragMs*beta)

	return bounded * ctx.GrooveAmount
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
