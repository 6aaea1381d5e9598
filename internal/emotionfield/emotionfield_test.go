package emotionfield

import (
	"testing"

	"github.com/cartomix/groove/internal/groovekernel"
)

func sampleCtx() groovekernel.Context {
	return groovekernel.Context{
		BPM:             120,
		GrooveAmount:    0.5,
		LinearOffset:    2,
		Curvature:       1,
		PhaseCoupling:   1,
		HarmonicGravity: 1,
		MacroDrift:      1,
		Jitter:          1,
	}
}

func TestApplyNilVectorIsIdentity(t *testing.T) {
	ctx := sampleCtx()
	got := Apply(ctx, nil)
	if got != ctx {
		t.Errorf("nil vector should be identity: got %+v, want %+v", got, ctx)
	}
}

func TestApplyZeroVectorIsIdentity(t *testing.T) {
	ctx := sampleCtx()
	zero := Vector{
		Loneliness: 0,
		Tension:    0,
		Admiration: 0,
		Defiance:   0,
		Calm:       0,
	}
	got := Apply(ctx, zero)
	if got != ctx {
		t.Errorf("all-zero vector should be numerically identity: got %+v, want %+v", got, ctx)
	}
}

func TestApplyEmptyVectorIsIdentity(t *testing.T) {
	ctx := sampleCtx()
	got := Apply(ctx, Vector{})
	if got != ctx {
		t.Errorf("empty vector (no entries) should be identity: got %+v, want %+v", got, ctx)
	}
}

func TestApplyUnknownKeysIgnored(t *testing.T) {
	ctx := sampleCtx()
	got := Apply(ctx, Vector{"joy": 1})
	if got != ctx {
		t.Errorf("unrecognized dimension name should be ignored: got %+v, want %+v", got, ctx)
	}
}

func TestApplyClampsInputToUnitRange(t *testing.T) {
	ctx := sampleCtx()
	over := Apply(ctx, Vector{Loneliness: 5})
	atOne := Apply(ctx, Vector{Loneliness: 1})
	if over != atOne {
		t.Errorf("values above 1 should clamp to 1: over=%+v atOne=%+v", over, atOne)
	}

	under := Apply(ctx, Vector{Loneliness: -5})
	atZero := Apply(ctx, Vector{Loneliness: 0})
	if under != atZero {
		t.Errorf("values below 0 should clamp to 0: under=%+v atZero=%+v", under, atZero)
	}
}

func TestApplyLonelinessDragsLinearOffsetLater(t *testing.T) {
	ctx := sampleCtx()
	got := Apply(ctx, Vector{Loneliness: 1})
	if got.LinearOffset <= ctx.LinearOffset {
		t.Errorf("full loneliness should increase linear offset (drag later): got %v, want > %v", got.LinearOffset, ctx.LinearOffset)
	}
}

func TestApplyGrooveAmountStaysBounded(t *testing.T) {
	ctx := sampleCtx()
	ctx.GrooveAmount = 0.95
	got := Apply(ctx, Vector{Tension: 1, Defiance: 1})
	if got.GrooveAmount < 0 || got.GrooveAmount > 1 {
		t.Errorf("grooveAmount must stay within [0,1], got %v", got.GrooveAmount)
	}
}

func TestApplyHarmonicGravityNeverDropsBelowOne(t *testing.T) {
	ctx := sampleCtx()
	ctx.HarmonicGravity = 1
	got := Apply(ctx, Vector{Defiance: 1, Calm: 1})
	if got.HarmonicGravity < 1 {
		t.Errorf("harmonic gravity should never drop below 1, got %v", got.HarmonicGravity)
	}
}

func TestApplyJitterNeverNegative(t *testing.T) {
	ctx := sampleCtx()
	ctx.Jitter = 1
	got := Apply(ctx, Vector{Admiration: 1, Calm: 1, Defiance: 1})
	if got.Jitter < 0 {
		t.Errorf("jitter multiplier should never go negative, got %v", got.Jitter)
	}
}

func TestOrderIsFixedAndComplete(t *testing.T) {
	want := []string{Loneliness, Tension, Admiration, Defiance, Calm}
	if len(Order) != len(want) {
		t.Fatalf("Order length = %d, want %d", len(Order), len(want))
	}
	for i, name := range want {
		if Order[i] != name {
			t.Errorf("Order[%d] = %q, want %q", i, Order[i], name)
		}
	}
}

func TestApplyDeterministicAcrossRepeatedCalls(t *testing.T) {
	ctx := sampleCtx()
	v := Vector{Loneliness: 0.4, Tension: 0.6}
	a := Apply(ctx, v)
	b := Apply(ctx, v)
	if a != b {
		t.Errorf("Apply should be pure/deterministic: %+v != %+v", a, b)
	}
}
