package fixtures

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cartomix/groove/internal/grooveprofile"
)

func TestGenerateProducesPresetsAndManifest(t *testing.T) {
	dir := t.TempDir()

	cfg := Config{
		OutputDir:           dir,
		SampleRate:          48000,
		Seed:                42,
		Presets:             []string{"boom_bap", "techno"},
		IncludeHardwareDemo: true,
	}

	manifest, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(manifest.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(manifest.Presets))
	}
	if manifest.Hardware == nil {
		t.Fatal("expected hardware demo manifest entry")
	}

	presetPath := filepath.Join(dir, "presets", "boom_bap.json")
	data, err := os.ReadFile(presetPath)
	if err != nil {
		t.Fatalf("read preset: %v", err)
	}
	var p grooveprofile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("decode preset: %v", err)
	}
	if p.BPM != 90 {
		t.Errorf("boom_bap bpm = %v, want 90", p.BPM)
	}

	wavPath := filepath.Join(dir, manifest.Hardware.DryFile)
	wav, err := os.ReadFile(wavPath)
	if err != nil {
		t.Fatalf("read dry wav: %v", err)
	}
	if string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("not a wav header")
	}
	sampleRate := binary.LittleEndian.Uint32(wav[24:28])
	if sampleRate != uint32(cfg.SampleRate) {
		t.Fatalf("unexpected sample rate %d", sampleRate)
	}
}

func TestAllPresetNamesBuild(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := Preset(name)
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if p.BPM <= 0 {
			t.Errorf("preset %s has non-positive bpm", name)
		}
		if err := grooveprofile.Validate(p); err != nil {
			t.Errorf("preset %s fails validation: %v", name, err)
		}
	}
}

func TestUnknownPresetErrors(t *testing.T) {
	if _, err := Preset("not-a-real-preset"); err == nil {
		t.Fatal("expected an error for an unknown preset name")
	}
}
