package main

import (
	"flag"
	"log"
	"strings"

	"github.com/cartomix/groove/internal/fixtures"
)

// fixturegen produces a profile JSON file per named genre preset plus a
// dry/wet WAV pair demonstrating the hardware signal chain.
func main() {
	outDir := flag.String("out", "./testdata/fixtures", "output directory for generated fixtures")
	seed := flag.Int64("seed", 1337, "random seed baked into every preset")
	sampleRate := flag.Int("sample-rate", 48000, "sample rate for the hardware demo WAV pair")
	presetsStr := flag.String("presets", "", "comma-separated preset names (default: all)")
	includeHardwareDemo := flag.Bool("include-hardware-demo", true, "render the hardware signal-chain dry/wet demo")

	flag.Parse()

	var presets []string
	if *presetsStr != "" {
		for _, p := range strings.Split(*presetsStr, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				presets = append(presets, p)
			}
		}
	}

	cfg := fixtures.Config{
		OutputDir:           *outDir,
		SampleRate:          *sampleRate,
		Seed:                *seed,
		Presets:             presets,
		IncludeHardwareDemo: *includeHardwareDemo,
	}

	manifest, err := fixtures.Generate(cfg)
	if err != nil {
		log.Fatalf("generate fixtures: %v", err)
	}

	log.Printf("fixturegen wrote %d presets to %s (sample_rate=%d)", len(manifest.Presets), cfg.OutputDir, cfg.SampleRate)
}
