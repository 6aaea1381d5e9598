package exporter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cartomix/groove/internal/groovehash"
)

// VerifyChecksums reads the checksum manifest written alongside a profile
// export bundle (format: "<hex>  <filename>", one entry per bundled
// artifact) and verifies every referenced file is still present and
// unmodified. Returns nil when every entry in the manifest matches.
//
// Hashing is delegated to groovehash.HashFile rather than computed here:
// groovehash owns the profile integrity hashes and the bundle checksums,
// so this function's job is
// just the manifest's line format and the per-file mismatch reporting.
func VerifyChecksums(manifestPath, baseDir string) error {
	f, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("exporter: open manifest: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return fmt.Errorf("exporter: invalid manifest line %d: %q", lineNo, line)
		}
		want := parts[0]
		name := parts[len(parts)-1]
		path := filepath.Join(baseDir, name)

		got, err := groovehash.HashFile(path)
		if err != nil {
			return fmt.Errorf("exporter: hash %s: %w", path, err)
		}
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("exporter: checksum mismatch for %s: want %s got %s", name, want, got)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("exporter: read manifest: %w", err)
	}

	return nil
}
