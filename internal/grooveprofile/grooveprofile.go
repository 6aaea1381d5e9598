// Package grooveprofile defines the groove profile data model: the
// complete declarative description of a feel, its enumerations and
// defaults, the beat-kernel envelope it is embedded in, and JSON
// marshaling that preserves unknown fields across a round trip so older
// profiles stay forward-compatible.
package grooveprofile

import (
	"encoding/json"
	"fmt"
)

// Feel bias names. Each selects a hard push/drag ms limit pair.
const (
	FeelOnTop      = "on_top"
	FeelLaidBack   = "laid_back"
	FeelAhead      = "ahead"
	FeelDeepPocket = "deep_pocket"
)

// FeelLimits is the {max_push_ms, max_drag_ms} pair for a feel bias.
type FeelLimits struct {
	MaxPushMs float64
	MaxDragMs float64
}

// feelLimitsTable is the fixed push/drag limit table from the glossary.
var feelLimitsTable = map[string]FeelLimits{
	FeelOnTop:      {MaxPushMs: -8, MaxDragMs: 8},
	FeelLaidBack:   {MaxPushMs: -5, MaxDragMs: 25},
	FeelAhead:      {MaxPushMs: -20, MaxDragMs: 5},
	FeelDeepPocket: {MaxPushMs: -3, MaxDragMs: 35},
}

// Limits returns the push/drag limits for feel, defaulting to laid_back's
// limits for an unrecognized name so a malformed feel_bias degrades to a
// plausible middle ground instead of a zero-width window.
func Limits(feel string) FeelLimits {
	if l, ok := feelLimitsTable[feel]; ok {
		return l
	}
	return feelLimitsTable[FeelLaidBack]
}

// Drift modes for DragCurve.
const (
	DriftPower  = "power"
	DriftLog    = "log"
	DriftLinear = "linear"
)

// Coupling directions, mirrored from groovefield for profile JSON use.
const (
	DirectionNatural  = "natural"
	DirectionInverted = "inverted"
	DirectionNone     = "none"
)

// Macro-drift waveforms, mirrored from groovefield for profile JSON use.
const (
	WaveformSine     = "sine"
	WaveformTriangle = "triangle"
)

// ChannelOffset is the per-channel timing/velocity/jitter/ghost-note
// configuration keyed by canonical channel name in channel_offsets.
type ChannelOffset struct {
	TimingOffsetMs         float64 `json:"timing_offset_ms"`
	VelocityVariance       float64 `json:"velocity_variance"`
	JitterMs               float64 `json:"jitter_ms"`
	GhostNoteProbability   float64 `json:"ghost_note_probability"`
	GhostNoteAttenuationDb float64 `json:"ghost_note_attenuation_db"`
}

// DragCurve is the power/log/linear drag-curve configuration.
type DragCurve struct {
	Enabled           bool               `json:"enabled"`
	DriftMode         string             `json:"drift_mode"`
	MaxDragMs         float64            `json:"max_drag_ms"`
	DragExponent      float64            `json:"drag_exponent"`
	LogK              float64            `json:"log_k"`
	PerChannelScaling map[string]float64 `json:"per_channel_scaling"`
}

// ScaleFor returns the per-channel scalar for channel, defaulting to 1.0
// when the channel is absent from PerChannelScaling.
func (d DragCurve) ScaleFor(channel string) float64 {
	if d.PerChannelScaling == nil {
		return 1.0
	}
	if v, ok := d.PerChannelScaling[channel]; ok {
		return v
	}
	return 1.0
}

// TemporalCoupling is the velocity-phase coupling configuration.
type TemporalCoupling struct {
	Enabled          bool    `json:"enabled"`
	VelocityPhaseRatio float64 `json:"velocity_phase_ratio"`
	Direction        string  `json:"direction"`
}

// HarmonicGravity is the scale-mode gravity amplification configuration.
type HarmonicGravity struct {
	Enabled       bool               `json:"enabled"`
	GravityByMode map[string]float64 `json:"gravity_by_mode"`
}

// MacroDrift is the slow cross-bar oscillation configuration.
type MacroDrift struct {
	Enabled     bool    `json:"enabled"`
	AmplitudeMs float64 `json:"amplitude_ms"`
	PeriodBars  float64 `json:"period_bars"`
	Waveform    string  `json:"waveform"`
}

// PhraseConstraints bounds the accumulated phase error clamp applied
// inside the kernel.
type PhraseConstraints struct {
	PhraseLengthBars        int     `json:"phrase_length_bars"`
	ResetMode                string  `json:"reset_mode"`
	MaxAccumulatedPhaseErrorMs float64 `json:"max_accumulated_phase_error_ms"`
}

// TemporalState is the phrase-tension accumulation configuration.
type TemporalState struct {
	Enabled               bool    `json:"enabled"`
	TensionIncrement       float64 `json:"tension_increment"`
	ElasticityAmplification float64 `json:"elasticity_amplification"`
	ResetPeriodBars        float64 `json:"reset_period_bars"`
}

// DACSaturation is the analog-domain saturation stage of the hardware
// signal chain.
type DACSaturation struct {
	Enabled bool    `json:"enabled"`
	Curve   string  `json:"curve"`
	Gain    float64 `json:"gain"`
}

// AntiAliasFilter is the anti-alias filter stage ahead of downsampling.
type AntiAliasFilter struct {
	Type      string  `json:"type"`
	CutoffHz  float64 `json:"cutoff_hz"`
	RippleDb  float64 `json:"ripple_db"`
}

// HardwareEmulation bundles the PPQN quantizer granularity with the
// signal-chain stage configuration.
type HardwareEmulation struct {
	PPQN            int             `json:"ppqn"`
	SampleRate      float64         `json:"sample_rate"`
	BitDepth        int             `json:"bit_depth"`
	DACSaturation   DACSaturation   `json:"dac_saturation"`
	AntiAliasFilter AntiAliasFilter `json:"anti_alias_filter"`
}

// knownTopLevelKeys lists every field Profile understands, so unmarshaling
// can capture everything else into Extra for round-trip preservation.
var knownTopLevelKeys = map[string]struct{}{
	"bpm": {}, "groove_amount": {}, "feel_bias": {}, "steps_per_bar": {},
	"randomization_seed": {}, "channel_offsets": {}, "drag_curve": {},
	"temporal_coupling": {}, "harmonic_gravity": {}, "macro_drift": {},
	"phrase_constraints": {}, "temporal_state": {}, "hardware_emulation": {},
	"emotion_vector": {},
}

// Profile is the complete declarative description of a feel.
type Profile struct {
	BPM               float64                  `json:"bpm"`
	GrooveAmount      float64                  `json:"groove_amount"`
	FeelBias          string                   `json:"feel_bias"`
	StepsPerBar       int                      `json:"steps_per_bar"`
	RandomizationSeed int64                    `json:"randomization_seed"`
	ChannelOffsets    map[string]ChannelOffset `json:"channel_offsets"`
	DragCurve         DragCurve                `json:"drag_curve"`
	TemporalCoupling  TemporalCoupling         `json:"temporal_coupling"`
	HarmonicGravity   HarmonicGravity          `json:"harmonic_gravity"`
	MacroDrift        MacroDrift               `json:"macro_drift"`
	PhraseConstraints PhraseConstraints        `json:"phrase_constraints"`
	TemporalState     TemporalState            `json:"temporal_state"`
	HardwareEmulation HardwareEmulation        `json:"hardware_emulation"`
	EmotionVector     map[string]float64       `json:"emotion_vector"`

	// Extra preserves any JSON object keys not in knownTopLevelKeys so a
	// profile survives a load/save round trip even when a newer or older
	// client added fields this build doesn't know about.
	Extra map[string]json.RawMessage `json:"-"`
}

// profileAlias exists solely so MarshalJSON/UnmarshalJSON can delegate to
// encoding/json's struct marshaling without recursing into themselves.
type profileAlias Profile

// ErrInvalidProfile is returned by Load, LoadEnvelope, Validate and
// Profile.UnmarshalJSON for malformed or invalid profile JSON.
// It is the only error the core's public surface raises for profile
// handling; everything else degrades in-band per the numeric-degeneracy
// and missing-channel-config rules.
type ErrInvalidProfile struct {
	Reason string
	Cause  error
}

func (e *ErrInvalidProfile) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("grooveprofile: invalid profile: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("grooveprofile: invalid profile: %s", e.Reason)
}

func (e *ErrInvalidProfile) Unwrap() error { return e.Cause }

// UnmarshalJSON decodes p from data, capturing any unrecognized top-level
// key into p.Extra instead of discarding it.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var alias profileAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return &ErrInvalidProfile{Reason: "malformed JSON", Cause: err}
	}
	*p = Profile(alias)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ErrInvalidProfile{Reason: "malformed JSON", Cause: err}
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if _, known := knownTopLevelKeys[k]; known {
			continue
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		p.Extra = extra
	}
	return nil
}

// MarshalJSON encodes p, merging back in any keys captured in p.Extra on
// load.
func (p Profile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(profileAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Normalize applies the profile-level invariants from the data model:
// emotion_vector values clamped to [0,1] on every read, harmonic_gravity
// values defaulted to 1.0. It does not mutate groove_amount or bpm — those
// invariants are the caller's to enforce at the edges (HTTP/gRPC
// validation), since an out-of-range bpm or groove_amount on a stored
// profile should surface as ProfileInvalid, not be silently coerced.
func (p *Profile) Normalize() {
	for k, v := range p.EmotionVector {
		if v < 0 {
			p.EmotionVector[k] = 0
		} else if v > 1 {
			p.EmotionVector[k] = 1
		}
	}
	for mode, g := range p.HarmonicGravity.GravityByMode {
		if g < 1.0 {
			p.HarmonicGravity.GravityByMode[mode] = 1.0
		}
	}
}

// Validate reports the structural invariants Load/Import must reject as
// ErrInvalidProfile: a non-positive bpm or an out-of-range groove_amount.
// Every other field degrades in-band and is never rejected here.
func Validate(p *Profile) error {
	if p.BPM <= 0 {
		return &ErrInvalidProfile{Reason: "bpm must be positive"}
	}
	if p.GrooveAmount < 0 || p.GrooveAmount > 1 {
		return &ErrInvalidProfile{Reason: "groove_amount must be in [0,1]"}
	}
	return nil
}

// Load decodes and validates a profile from JSON bytes, normalizing it in
// place before returning.
func Load(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

// SchemaMarker is the fixed envelope schema string; a mismatched marker on
// import is a fatal ProfileInvalid error.
const SchemaMarker = "groove-beat-kernel/v1"

// Envelope is the larger beat-kernel document a groove profile is embedded
// inside: metadata, transport, drums, instruments, master FX, and
// arrangement sections are opaque to this engine and passed through
// verbatim via json.RawMessage, since only the groove profile and its
// accompanying hash/seed mirror are this package's concern.
type Envelope struct {
	Schema            string          `json:"schema"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	Transport         json.RawMessage `json:"transport,omitempty"`
	Drums             json.RawMessage `json:"drums,omitempty"`
	Instruments       json.RawMessage `json:"instruments,omitempty"`
	MasterFX          json.RawMessage `json:"master_fx,omitempty"`
	Arrangement       json.RawMessage `json:"arrangement,omitempty"`
	Groove            *Profile        `json:"groove"`
	GrooveHash        string          `json:"groove_hash"`
	RandomizationSeed int64           `json:"randomization_seed"`
}

// LoadEnvelope decodes an envelope from data, rejecting a schema-marker
// mismatch as a fatal ErrInvalidProfile. It does not recompute or compare
// GrooveHash against the embedded profile, and nothing in this module does
// so on envelope load; a hash comparison is only made on request through
// the hash-verify endpoints, which report it as a boolean.
func LoadEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ErrInvalidProfile{Reason: "malformed envelope JSON", Cause: err}
	}
	if env.Schema != SchemaMarker {
		return nil, &ErrInvalidProfile{Reason: fmt.Sprintf("schema marker mismatch: got %q, want %q", env.Schema, SchemaMarker)}
	}
	if env.Groove != nil {
		if err := Validate(env.Groove); err != nil {
			return nil, err
		}
		env.Groove.Normalize()
	}
	return &env, nil
}

// Default returns a profile with every feature disabled and groove_amount
// 1.0 — the S1 "grid identity" reference profile: with every gate off,
// apply_groove is a no-op transform of the input event.
func Default() *Profile {
	return &Profile{
		BPM:               120,
		GrooveAmount:      1.0,
		FeelBias:          FeelLaidBack,
		StepsPerBar:       16,
		RandomizationSeed: 1,
		ChannelOffsets:    map[string]ChannelOffset{},
		DragCurve:         DragCurve{DriftMode: DriftPower, DragExponent: 1.0},
		TemporalCoupling:  TemporalCoupling{Direction: DirectionNone},
		HarmonicGravity:   HarmonicGravity{GravityByMode: map[string]float64{}},
		MacroDrift:        MacroDrift{Waveform: WaveformSine},
		PhraseConstraints: PhraseConstraints{},
		TemporalState:     TemporalState{},
		HardwareEmulation: HardwareEmulation{PPQN: 0, SampleRate: 44100, BitDepth: 16},
		EmotionVector:     map[string]float64{},
	}
}
