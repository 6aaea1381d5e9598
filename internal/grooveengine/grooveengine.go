// Package grooveengine implements context assembly and the per-event
// scheduling hook, apply_groove: it resolves the canonical channel, builds
// the coefficient context, runs it through the emotional bias layer and
// the kernel, applies velocity humanization and ghost-note attenuation in
// the RNG's fixed consumption order, and finally quantizes to PPQN.
//
// No function in this package branches on a groove-type tag. Every
// feature activates from its own numeric or boolean gate, exactly as
// groovefield and groovekernel do.
package grooveengine

import (
	"math"

	"github.com/cartomix/groove/internal/groovefield"
	"github.com/cartomix/groove/internal/groovehash"
	"github.com/cartomix/groove/internal/groovekernel"
	"github.com/cartomix/groove/internal/grooveprofile"
	"github.com/cartomix/groove/internal/grooverand"
	"github.com/cartomix/groove/internal/hardware"

	"github.com/cartomix/groove/internal/emotionfield"
)

// CanonicalChannel collapses specific hit names to groove buckets. Profile
// lookups always key on the canonical name, never the raw channel id.
var CanonicalChannel = map[string]string{
	"kick":         "kick",
	"snare":        "snare",
	"hihat_closed": "hihat",
	"hihat_open":   "hihat",
	"rim":          "hihat",
	"crash":        "hihat",
	"clap":         "snare",
	"tom":          "kick",
	"bass":         "bass",
	"piano":        "keys",
	"strings":      "keys",
	"lead":         "keys",
	"pluck":        "keys",
}

// Canonicalize maps a raw channel id to its canonical bucket. An unknown
// channel id passes through unchanged — MissingChannelConfig is handled at
// the lookup site (an absent channel_offsets entry resolves to a zero
// ChannelOffset), not here.
func Canonicalize(channelID string) string {
	if c, ok := CanonicalChannel[channelID]; ok {
		return c
	}
	return channelID
}

// ScheduledEvent is the output of ApplyGroove.
type ScheduledEvent struct {
	TimeSeconds float64 `json:"time_seconds"`
	Velocity    float64 `json:"velocity"`
	ShouldPlay  bool    `json:"should_play"`
}

const (
	velocityFloor   = 0.05
	velocityCeiling = 1.0
)

// ApplyGroove computes a scheduled event for one step-sequencer hit. It
// never returns an error: every degenerate input (nil profile,
// groove_amount 0, missing channel config, absent RNG) degrades in-band to
// identity behavior, per the engine's error-handling design.
//
// rng may be nil, in which case jitter, velocity humanization, and ghost
// notes all degrade silently to their identity values.
func ApplyGroove(
	gridTimeSeconds float64,
	stepIndex int,
	channelID string,
	profile *grooveprofile.Profile,
	barIndex int,
	rng *grooverand.RNG,
	scaleMode string,
	baseVelocity float64,
) ScheduledEvent {
	if profile == nil || profile.GrooveAmount == 0 {
		return ScheduledEvent{TimeSeconds: gridTimeSeconds, Velocity: baseVelocity, ShouldPlay: true}
	}

	channel := Canonicalize(channelID)
	chCfg := profile.ChannelOffsets[channel] // zero value on miss: MissingChannelConfig

	limits := grooveprofile.Limits(profile.FeelBias)

	ctx := groovekernel.Context{
		BPM:             profile.BPM,
		GrooveAmount:    profile.GrooveAmount,
		LinearOffset:    chCfg.TimingOffsetMs,
		MaxPushMs:       limits.MaxPushMs,
		MaxDragMs:       limits.MaxDragMs,
		MaxPhaseErrorMs: profile.PhraseConstraints.MaxAccumulatedPhaseErrorMs,
	}

	if profile.DragCurve.Enabled {
		scale := profile.DragCurve.ScaleFor(channel)
		exponent := profile.DragCurve.DragExponent
		k := profile.DragCurve.LogK
		if profile.TemporalState.Enabled {
			_, mult := groovefield.TensionState(
				profile.TemporalState.TensionIncrement,
				profile.TemporalState.ElasticityAmplification,
				profile.TemporalState.ResetPeriodBars,
				barIndex,
			)
			exponent *= mult
			k *= mult
		}
		switch profile.DragCurve.DriftMode {
		case grooveprofile.DriftLog:
			ctx.Curvature = groovefield.DragCurveLog(stepIndex, profile.StepsPerBar, profile.DragCurve.MaxDragMs, k, scale, 1)
		default: // power and linear (linear == power with exponent 1, per drift_mode)
			if profile.DragCurve.DriftMode == grooveprofile.DriftLinear {
				exponent = 1
			}
			ctx.Curvature = groovefield.DragCurvePower(stepIndex, profile.StepsPerBar, profile.DragCurve.MaxDragMs, exponent, scale, 1)
		}
	}

	if profile.TemporalCoupling.Enabled {
		ctx.PhaseCoupling = groovefield.VelocityPhaseCoupling(
			baseVelocity, profile.TemporalCoupling.VelocityPhaseRatio, profile.TemporalCoupling.Direction, 1,
		)
	}

	if profile.HarmonicGravity.Enabled {
		ctx.HarmonicGravity = groovefield.HarmonicGravityLookup(profile.HarmonicGravity.GravityByMode, scaleMode)
	} else {
		ctx.HarmonicGravity = 1.0
	}

	if profile.MacroDrift.Enabled {
		ctx.MacroDrift = groovefield.MacroDrift(
			true, profile.MacroDrift.AmplitudeMs, profile.MacroDrift.PeriodBars, barIndex, profile.MacroDrift.Waveform, 1,
		)
	}

	// Jitter: one Gaussian draw, first RNG consumption of the event, gated
	// purely by jitter_ms > 0.
	if chCfg.JitterMs > 0 && rng != nil {
		ctx.Jitter = chCfg.JitterMs * rng.Gaussian()
	}

	biased := emotionfield.Apply(ctx, emotionfield.Vector(profile.EmotionVector))

	displacementMs := groovekernel.Evaluate(biased)
	timeSeconds := gridTimeSeconds + displacementMs/1000

	velocity := baseVelocity

	// Velocity humanization: second RNG consumption, gated by
	// velocity_variance > 0.
	if chCfg.VelocityVariance > 0 && rng != nil {
		velocity = clamp(baseVelocity+chCfg.VelocityVariance*rng.Gaussian(), velocityFloor, velocityCeiling)
	}

	shouldPlay := true

	// Ghost note: third RNG consumption, gated by ghost_note_probability >
	// 0. should_play remains true; the hit sounds, quietly.
	if chCfg.GhostNoteProbability > 0 && rng != nil {
		if rng.Next() < chCfg.GhostNoteProbability {
			velocity = baseVelocity * math.Pow(10, chCfg.GhostNoteAttenuationDb/20)
		}
	}

	if profile.HardwareEmulation.PPQN > 0 {
		timeSeconds = hardware.RoundToPPQN(timeSeconds, profile.BPM, profile.HardwareEmulation.PPQN)
	}

	if timeSeconds < 0 {
		timeSeconds = 0
	}

	return ScheduledEvent{TimeSeconds: timeSeconds, Velocity: velocity, ShouldPlay: shouldPlay}
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

// Scheduler owns the RNG across a transport session or an offline render
// and is the sole mutator of its state, per the concurrency model: no
// other component resets or advances it.
type Scheduler struct {
	rng     *grooverand.RNG
	seed    int64
	barIdx  int
	stepIdx int
}

// NewScheduler constructs a Scheduler whose RNG starts at seed.
func NewScheduler(seed int64) *Scheduler {
	return &Scheduler{rng: grooverand.New(seed), seed: seed}
}

// ResetTransport resets the RNG and bar/step counters to the scheduler's
// seed, exactly as the engine does at every transport start and at the
// beginning of every offline render.
func (s *Scheduler) ResetTransport() {
	s.rng.Reset(s.seed)
	s.barIdx = 0
	s.stepIdx = 0
}

// SetSeed updates the seed a future ResetTransport will restore to —
// used when a render job targets a different profile than the one the
// scheduler was constructed with.
func (s *Scheduler) SetSeed(seed int64) {
	s.seed = seed
}

// Tick schedules one event at the scheduler's current bar/step, then
// advances the step index, wrapping to the next bar exactly when the step
// index wraps to 0, per the engine's ordering guarantees.
func (s *Scheduler) Tick(
	gridTimeSeconds float64,
	channelID string,
	profile *grooveprofile.Profile,
	scaleMode string,
	baseVelocity float64,
) ScheduledEvent {
	evt := ApplyGroove(gridTimeSeconds, s.stepIdx, channelID, profile, s.barIdx, s.rng, scaleMode, baseVelocity)

	stepsPerBar := profile.StepsPerBar
	if stepsPerBar <= 0 {
		stepsPerBar = 16
	}
	s.stepIdx++
	if s.stepIdx >= stepsPerBar {
		s.stepIdx = 0
		s.barIdx++
	}
	return evt
}

// ComputeProfileHash computes the integrity hash of a profile, delegating
// to groovehash so grooveengine callers don't need a separate import for
// the common case of hashing the profile they just scheduled against.
func ComputeProfileHash(p *grooveprofile.Profile) (string, error) {
	return groovehash.ComputeHash(p)
}
