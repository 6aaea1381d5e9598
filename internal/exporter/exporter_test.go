package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cartomix/groove/internal/groovehash"
	"github.com/cartomix/groove/internal/grooveprofile"
)

func goldenEnvelope() *grooveprofile.Envelope {
	p := grooveprofile.Default()
	p.BPM = 92
	p.FeelBias = grooveprofile.FeelLaidBack
	p.ChannelOffsets = map[string]grooveprofile.ChannelOffset{
		"snare": {TimingOffsetMs: 4, JitterMs: 1.5},
	}
	hash, _ := groovehash.ComputeHash(p)
	return &grooveprofile.Envelope{
		Schema:            grooveprofile.SchemaMarker,
		Groove:            p,
		GrooveHash:        hash,
		RandomizationSeed: p.RandomizationSeed,
	}
}

func TestWriteProfileBundle(t *testing.T) {
	dir := t.TempDir()
	env := goldenEnvelope()

	result, err := WriteProfileBundle(dir, "golden-feel", env)
	if err != nil {
		t.Fatalf("WriteProfileBundle failed: %v", err)
	}

	profileData, err := os.ReadFile(result.ProfilePath)
	if err != nil {
		t.Fatalf("failed to read profile JSON: %v", err)
	}
	var decoded grooveprofile.Profile
	if err := json.Unmarshal(profileData, &decoded); err != nil {
		t.Fatalf("profile JSON did not decode: %v", err)
	}
	if decoded.BPM != 92 {
		t.Errorf("bpm = %v, want 92", decoded.BPM)
	}

	envelopeData, err := os.ReadFile(result.EnvelopePath)
	if err != nil {
		t.Fatalf("failed to read envelope JSON: %v", err)
	}
	if !strings.Contains(string(envelopeData), grooveprofile.SchemaMarker) {
		t.Error("envelope JSON missing schema marker")
	}

	if _, err := os.Stat(result.ChecksumsPath); os.IsNotExist(err) {
		t.Error("checksums file not created")
	}
	if _, err := os.Stat(result.BundlePath); os.IsNotExist(err) {
		t.Error("bundle file not created")
	}

	if err := VerifyChecksums(result.ChecksumsPath, dir); err != nil {
		t.Errorf("checksums did not verify: %v", err)
	}
}

func TestWriteProfileBundleNilGroove(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteProfileBundle(dir, "empty", &grooveprofile.Envelope{}); err == nil {
		t.Fatal("expected error for envelope with no groove profile")
	}
}

func TestWriteProfileBundleDefaultName(t *testing.T) {
	dir := t.TempDir()
	env := goldenEnvelope()
	result, err := WriteProfileBundle(dir, "", env)
	if err != nil {
		t.Fatalf("WriteProfileBundle failed: %v", err)
	}
	if filepath.Base(result.ProfilePath) != "profile.json" {
		t.Errorf("profile path = %s, want profile.json", filepath.Base(result.ProfilePath))
	}
}
