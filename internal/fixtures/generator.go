// Package fixtures generates deterministic test/demo artifacts for the
// groove engine: a profile JSON file per named genre preset, and a
// dry/wet WAV pair demonstrating the hardware signal chain on a plain
// tone, following the teacher's own WAV-fixture-generation technique.
package fixtures

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cartomix/groove/internal/groovehash"
	"github.com/cartomix/groove/internal/hardware"
)

// Config controls which fixtures are emitted.
type Config struct {
	OutputDir           string
	SampleRate          int
	Seed                int64
	Presets             []string // preset names to emit; empty means all
	IncludeHardwareDemo bool
	HardwareDemoParams  hardware.Params
}

// Manifest describes generated fixtures for tests/consumers.
type Manifest struct {
	SampleRate int               `json:"sample_rate"`
	Seed       int64             `json:"seed"`
	Presets    []ManifestPreset  `json:"presets,omitempty"`
	Hardware   *ManifestHardware `json:"hardware_demo,omitempty"`
}

type ManifestPreset struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	BPM        float64 `json:"bpm"`
	FeelBias   string `json:"feel_bias"`
	GrooveHash string `json:"groove_hash"`
}

type ManifestHardware struct {
	DryFile     string  `json:"dry_file"`
	WetFile     string  `json:"wet_file"`
	DurationSec float64 `json:"duration_sec"`
}

// Generate writes preset profile JSON files, an optional hardware demo WAV
// pair, and a manifest.json into OutputDir.
func Generate(cfg Config) (*Manifest, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./testdata/fixtures"
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output: %w", err)
	}

	manifest := &Manifest{SampleRate: cfg.SampleRate, Seed: cfg.Seed}

	names := cfg.Presets
	if len(names) == 0 {
		names = PresetNames()
	}

	presetsDir := filepath.Join(cfg.OutputDir, "presets")
	if err := os.MkdirAll(presetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir presets: %w", err)
	}

	for _, name := range names {
		profile, err := Preset(name)
		if err != nil {
			return nil, err
		}
		profile.RandomizationSeed = cfg.Seed

		hash, err := groovehash.ComputeHash(profile)
		if err != nil {
			return nil, fmt.Errorf("hash preset %s: %w", name, err)
		}

		filename := name + ".json"
		path := filepath.Join(presetsDir, filename)
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal preset %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write preset %s: %w", name, err)
		}

		manifest.Presets = append(manifest.Presets, ManifestPreset{
			Name:       name,
			File:       filepath.Join("presets", filename),
			BPM:        profile.BPM,
			FeelBias:   profile.FeelBias,
			GrooveHash: hash,
		})
	}

	if cfg.IncludeHardwareDemo {
		dryFile, wetFile, duration, err := renderHardwareDemo(cfg.OutputDir, cfg.SampleRate, cfg.HardwareDemoParams)
		if err != nil {
			return nil, err
		}
		manifest.Hardware = &ManifestHardware{DryFile: dryFile, WetFile: wetFile, DurationSec: duration}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	return manifest, nil
}

// renderHardwareDemo synthesizes a plain tone, runs it through the hardware
// signal chain, and writes the before/after pair so the emulation can be
// auditioned without a DAW.
func renderHardwareDemo(outDir string, sampleRate int, params hardware.Params) (dryFile, wetFile string, durationSec float64, err error) {
	durationSec = 2.0
	totalSamples := int(durationSec * float64(sampleRate))
	dry := make([]float64, totalSamples)

	freq := 220.0
	for i := range dry {
		t := float64(i) / float64(sampleRate)
		dry[i] = 0.6 * math.Sin(2*math.Pi*freq*t)
	}

	fadeSamples := int(0.02 * float64(sampleRate))
	for i := 0; i < fadeSamples; i++ {
		gain := float64(i) / float64(fadeSamples)
		dry[i] *= gain
		dry[totalSamples-1-i] *= gain
	}

	wet := make([]float64, len(dry))
	copy(wet, dry)

	if params == (hardware.Params{}) {
		params = hardware.Params{
			Enabled:           true,
			SaturationEnabled: true,
			SaturationGain:    1.8,
			DownsampleEnabled: true,
			BitDepth:          12,
			DryWet:            1,
		}
	}
	if params.TargetSampleRate == 0 {
		params.TargetSampleRate = float64(sampleRate) / 4
	}

	proc := hardware.NewProcessor(float64(sampleRate), 1)
	wet = proc.Process(0, wet, params)

	dryFile, wetFile = "hardware_dry.wav", "hardware_wet.wav"
	writeWAV(filepath.Join(outDir, dryFile), dry, sampleRate)
	writeWAV(filepath.Join(outDir, wetFile), wet, sampleRate)
	return dryFile, wetFile, durationSec, nil
}

// writeWAV writes mono 16-bit PCM WAV, clamping samples to [-1, 1].
func writeWAV(path string, samples []float64, sampleRate int) {
	buf := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf[i] = int16(s * 32767)
	}

	byteRate := sampleRate * 2
	blockAlign := int16(2)
	bitsPerSample := int16(16)
	dataSize := len(buf) * 2
	riffSize := 36 + dataSize

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	f.Write([]byte("RIFF"))
	binary.Write(f, binary.LittleEndian, uint32(riffSize))
	f.Write([]byte("WAVE"))
	f.Write([]byte("fmt "))
	binary.Write(f, binary.LittleEndian, uint32(16))
	binary.Write(f, binary.LittleEndian, uint16(1))
	binary.Write(f, binary.LittleEndian, uint16(1))
	binary.Write(f, binary.LittleEndian, uint32(sampleRate))
	binary.Write(f, binary.LittleEndian, uint32(byteRate))
	binary.Write(f, binary.LittleEndian, blockAlign)
	binary.Write(f, binary.LittleEndian, bitsPerSample)
	f.Write([]byte("data"))
	binary.Write(f, binary.LittleEndian, uint32(dataSize))
	for _, v := range buf {
		binary.Write(f, binary.LittleEndian, v)
	}
}
