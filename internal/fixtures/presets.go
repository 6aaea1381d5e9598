package fixtures

import (
	"fmt"

	"github.com/cartomix/groove/internal/grooveprofile"
)

// PresetNames lists the named genre presets shipped with the engine, in a
// fixed order so manifest output is deterministic.
func PresetNames() []string {
	return []string{
		"boom_bap", "trap", "house", "techno", "dnb", "garage",
		"afrobeat", "reggaeton", "lofi", "dembow", "amapiano", "jersey_club",
	}
}

// Preset returns a fresh, validated-shape groove profile tuned for the
// named genre. The numbers are hand-picked starting points, not derived
// from any reference corpus; a caller is expected to refine them to taste.
func Preset(name string) (*grooveprofile.Profile, error) {
	build, ok := presetBuilders[name]
	if !ok {
		return nil, fmt.Errorf("fixtures: unknown preset %q", name)
	}
	p := grooveprofile.Default()
	build(p)
	p.Normalize()
	return p, nil
}

var presetBuilders = map[string]func(*grooveprofile.Profile){
	"boom_bap": func(p *grooveprofile.Profile) {
		p.BPM = 90
		p.FeelBias = grooveprofile.FeelLaidBack
		p.GrooveAmount = 0.85
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"snare": {TimingOffsetMs: 12, VelocityVariance: 0.12, JitterMs: 3},
			"hihat": {TimingOffsetMs: 6, VelocityVariance: 0.18, JitterMs: 4, GhostNoteProbability: 0.08, GhostNoteAttenuationDb: -14},
			"kick":  {TimingOffsetMs: 2, VelocityVariance: 0.08, JitterMs: 2},
		}
	},
	"trap": func(p *grooveprofile.Profile) {
		p.BPM = 140
		p.FeelBias = grooveprofile.FeelAhead
		p.GrooveAmount = 0.6
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"hihat": {TimingOffsetMs: -4, VelocityVariance: 0.22, JitterMs: 5, GhostNoteProbability: 0.15, GhostNoteAttenuationDb: -10},
			"snare": {TimingOffsetMs: -2, VelocityVariance: 0.1, JitterMs: 2},
		}
		p.TemporalCoupling = grooveprofile.TemporalCoupling{Enabled: true, VelocityPhaseRatio: 0.3, Direction: grooveprofile.DirectionNatural}
	},
	"house": func(p *grooveprofile.Profile) {
		p.BPM = 124
		p.FeelBias = grooveprofile.FeelOnTop
		p.GrooveAmount = 0.4
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"kick":  {TimingOffsetMs: 0, VelocityVariance: 0.05, JitterMs: 1},
			"hihat": {TimingOffsetMs: 3, VelocityVariance: 0.1, JitterMs: 2},
		}
		p.MacroDrift = grooveprofile.MacroDrift{Enabled: true, AmplitudeMs: 2, PeriodBars: 8, Waveform: grooveprofile.WaveformSine}
	},
	"techno": func(p *grooveprofile.Profile) {
		p.BPM = 130
		p.FeelBias = grooveprofile.FeelOnTop
		p.GrooveAmount = 0.25
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"kick":  {TimingOffsetMs: 0, VelocityVariance: 0.03, JitterMs: 0.5},
			"hihat": {TimingOffsetMs: 1, VelocityVariance: 0.06, JitterMs: 1},
		}
	},
	"dnb": func(p *grooveprofile.Profile) {
		p.BPM = 174
		p.FeelBias = grooveprofile.FeelAhead
		p.GrooveAmount = 0.7
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"snare": {TimingOffsetMs: -3, VelocityVariance: 0.15, JitterMs: 4},
			"hihat": {TimingOffsetMs: -5, VelocityVariance: 0.2, JitterMs: 6, GhostNoteProbability: 0.2, GhostNoteAttenuationDb: -16},
		}
		p.DragCurve = grooveprofile.DragCurve{Enabled: true, DriftMode: grooveprofile.DriftPower, MaxDragMs: 15, DragExponent: 1.5}
	},
	"garage": func(p *grooveprofile.Profile) {
		p.BPM = 132
		p.FeelBias = grooveprofile.FeelLaidBack
		p.GrooveAmount = 0.75
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"snare": {TimingOffsetMs: 18, VelocityVariance: 0.15, JitterMs: 3},
			"hihat": {TimingOffsetMs: 10, VelocityVariance: 0.2, JitterMs: 5},
		}
	},
	"afrobeat": func(p *grooveprofile.Profile) {
		p.BPM = 105
		p.FeelBias = grooveprofile.FeelDeepPocket
		p.GrooveAmount = 0.9
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"kick":  {TimingOffsetMs: 20, VelocityVariance: 0.15, JitterMs: 4},
			"snare": {TimingOffsetMs: 25, VelocityVariance: 0.18, JitterMs: 5},
			"bass":  {TimingOffsetMs: 15, VelocityVariance: 0.12, JitterMs: 3},
		}
		p.MacroDrift = grooveprofile.MacroDrift{Enabled: true, AmplitudeMs: 4, PeriodBars: 4, Waveform: grooveprofile.WaveformTriangle}
	},
	"reggaeton": func(p *grooveprofile.Profile) {
		p.BPM = 96
		p.FeelBias = grooveprofile.FeelOnTop
		p.GrooveAmount = 0.5
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"kick":  {TimingOffsetMs: 0, VelocityVariance: 0.06, JitterMs: 1},
			"snare": {TimingOffsetMs: 2, VelocityVariance: 0.1, JitterMs: 2},
		}
	},
	"lofi": func(p *grooveprofile.Profile) {
		p.BPM = 78
		p.FeelBias = grooveprofile.FeelDeepPocket
		p.GrooveAmount = 0.95
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"snare": {TimingOffsetMs: 28, VelocityVariance: 0.25, JitterMs: 8},
			"hihat": {TimingOffsetMs: 15, VelocityVariance: 0.3, JitterMs: 10, GhostNoteProbability: 0.1, GhostNoteAttenuationDb: -18},
			"keys":  {TimingOffsetMs: 10, VelocityVariance: 0.2, JitterMs: 6},
		}
		p.HardwareEmulation = grooveprofile.HardwareEmulation{
			PPQN: 0, SampleRate: 44100, BitDepth: 12,
			DACSaturation: grooveprofile.DACSaturation{Enabled: true, Curve: "tanh", Gain: 1.8},
		}
	},
	"dembow": func(p *grooveprofile.Profile) {
		p.BPM = 110
		p.FeelBias = grooveprofile.FeelOnTop
		p.GrooveAmount = 0.45
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"kick":  {TimingOffsetMs: 0, VelocityVariance: 0.07, JitterMs: 1.5},
			"snare": {TimingOffsetMs: 3, VelocityVariance: 0.1, JitterMs: 2},
		}
	},
	"amapiano": func(p *grooveprofile.Profile) {
		p.BPM = 113
		p.FeelBias = grooveprofile.FeelLaidBack
		p.GrooveAmount = 0.8
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"hihat": {TimingOffsetMs: 14, VelocityVariance: 0.2, JitterMs: 5, GhostNoteProbability: 0.12, GhostNoteAttenuationDb: -12},
			"bass":  {TimingOffsetMs: 8, VelocityVariance: 0.1, JitterMs: 3},
		}
		p.TemporalState = grooveprofile.TemporalState{Enabled: true, TensionIncrement: 0.05, ElasticityAmplification: 0.3, ResetPeriodBars: 8}
	},
	"jersey_club": func(p *grooveprofile.Profile) {
		p.BPM = 138
		p.FeelBias = grooveprofile.FeelAhead
		p.GrooveAmount = 0.55
		p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
			"kick":  {TimingOffsetMs: -2, VelocityVariance: 0.15, JitterMs: 3},
			"snare": {TimingOffsetMs: -3, VelocityVariance: 0.15, JitterMs: 3},
		}
	},
}
