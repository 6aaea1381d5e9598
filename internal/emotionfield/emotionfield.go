// Package emotionfield implements the single emotional-bias injection point
// between context assembly and kernel evaluation. It never branches on an
// emotion's name: the basis is a fixed ordered tuple and every dimension
// contributes through the same frozen coefficient table.
package emotionfield

import "github.com/cartomix/groove/internal/groovekernel"

// Dimension names, in the fixed order the basis tuple is iterated.
const (
	Loneliness = "loneliness"
	Tension    = "tension"
	Admiration = "admiration"
	Defiance   = "defiance"
	Calm       = "calm"
)

// Order is the fixed iteration order of the emotional basis. Apply never
// ranges over a map of emotion names — it walks this slice — so there is no
// branching on identity anywhere in the bias computation.
var Order = [...]string{Loneliness, Tension, Admiration, Defiance, Calm}

// deltas holds the seven frozen per-dimension coefficients: linear-offset
// delta (ms), multiplicative deltas for curvature/phase-coupling/macro-drift/
// jitter, additive delta for harmonic gravity, additive delta for groove
// amount.
type deltas struct {
	dL  float64
	dC  float64
	dOv float64
	dGm float64
	dPb float64
	dSg float64
	dDW float64
}

// table is frozen at build time. Values are chosen so that, summed across
// all five dimensions at full weight (the worst case no profile can
// actually reach, since dimensions are independent clamp(0,1) scalars, not
// a simplex), 1+Σpositive stays at or under 3 and 1+Σnegative stays at or
// over 0 for every multiplicative field, per the boundedness contract.
//
// loneliness.dL = +3ms is pinned by the reference scenario that exercises
// it (a lonely snare hit drags noticeably later).
var table = map[string]deltas{
	Loneliness: {dL: 3.0, dC: 0.25, dOv: 0.05, dGm: 0.10, dPb: 0.05, dSg: 0.10, dDW: -0.05},
	Tension:    {dL: -1.0, dC: 0.15, dOv: 0.20, dGm: 0.05, dPb: 0.15, dSg: 0.20, dDW: 0.05},
	Admiration: {dL: 0.5, dC: -0.10, dOv: 0.05, dGm: 0.05, dPb: -0.10, dSg: -0.05, dDW: 0.05},
	Defiance:   {dL: -2.0, dC: 0.20, dOv: -0.15, dGm: -0.05, dPb: 0.10, dSg: 0.15, dDW: 0.10},
	Calm:       {dL: 1.0, dC: -0.20, dOv: -0.10, dGm: -0.05, dPb: -0.20, dSg: -0.25, dDW: -0.05},
}

// Vector is the five-scalar emotion vector carried on a groove profile.
// Every field is conceptually clamped to [0,1] on read; Apply performs that
// clamp itself, so a caller need not pre-clamp.
type Vector map[string]float64

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Apply returns a new kernel context with the emotional bias folded in. A
// nil vector is the identity: the returned context equals ctx field for
// field (the reference-equal intent the spec describes, expressed in Go as
// an unmodified copy rather than a shared pointer, since Context is a
// value type). An all-zero vector is numerically the identity as well,
// since every Σ term is 0.
func Apply(ctx groovekernel.Context, vector Vector) groovekernel.Context {
	if vector == nil {
		return ctx
	}

	var sumL, sumC, sumOv, sumGm, sumPb, sumSg, sumDW float64
	for _, name := range Order {
		e, ok := vector[name]
		if !ok {
			continue
		}
		e = clamp01(e)
		if e == 0 {
			continue
		}
		d := table[name]
		sumL += e * d.dL
		sumC += e * d.dC
		sumOv += e * d.dOv
		sumGm += e * d.dGm
		sumPb += e * d.dPb
		sumSg += e * d.dSg
		sumDW += e * d.dDW
	}

	out := ctx
	out.LinearOffset += sumL
	out.Curvature *= 1 + sumC
	out.PhaseCoupling *= 1 + sumOv
	out.HarmonicGravity = max(1.0, out.HarmonicGravity+sumGm)
	out.MacroDrift *= 1 + sumPb
	out.Jitter *= max(0, 1+sumSg)
	out.GrooveAmount = clamp01(out.GrooveAmount + sumDW)

	return out
}
