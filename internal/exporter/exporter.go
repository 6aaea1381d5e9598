// Package exporter writes a groove profile export bundle — the profile
// JSON, the enclosing beat-kernel envelope JSON, a SHA-256 checksums
// manifest, and a tar.gz bundle of all three — following the teacher's own
// exporter technique (M3U8/analysis-JSON/checksums/tar.gz for a DJ set)
// rebound to groove profiles instead of playlists.
package exporter

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cartomix/groove/internal/groovehash"
	"github.com/cartomix/groove/internal/grooveprofile"
)

// Result contains paths to the generated export artifacts.
type Result struct {
	ProfilePath   string
	EnvelopePath  string
	ChecksumsPath string
	BundlePath    string
}

// WriteProfileBundle writes the profile JSON, its enclosing envelope, a
// checksums manifest, and a tar.gz bundle of all three to outputDir.
func WriteProfileBundle(outputDir, name string, env *grooveprofile.Envelope) (*Result, error) {
	if env == nil || env.Groove == nil {
		return nil, fmt.Errorf("exporter: envelope has no groove profile")
	}
	if name == "" {
		name = "profile"
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	result := &Result{
		ProfilePath:   filepath.Join(outputDir, name+".json"),
		EnvelopePath:  filepath.Join(outputDir, name+"-envelope.json"),
		ChecksumsPath: filepath.Join(outputDir, name+"-checksums.txt"),
		BundlePath:    filepath.Join(outputDir, name+"-bundle.tar.gz"),
	}

	if err := writeProfileJSON(result.ProfilePath, env.Groove); err != nil {
		return nil, err
	}
	if err := writeEnvelopeJSON(result.EnvelopePath, env); err != nil {
		return nil, err
	}
	if err := writeChecksums(result.ChecksumsPath, result.ProfilePath, result.EnvelopePath); err != nil {
		return nil, err
	}
	if err := writeBundle(result.BundlePath, result.ProfilePath, result.EnvelopePath, result.ChecksumsPath); err != nil {
		return nil, err
	}

	return result, nil
}

func writeProfileJSON(path string, p *grooveprofile.Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeEnvelopeJSON(path string, env *grooveprofile.Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeChecksums writes a SHA256 manifest for the exported artifacts.
func writeChecksums(path string, files ...string) error {
	var b strings.Builder
	for _, fp := range files {
		sum, err := groovehash.HashFile(fp)
		if err != nil {
			return err
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", sum, filepath.Base(fp)))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writeBundle creates a tar.gz containing the primary artifacts for quick sharing.
func writeBundle(bundlePath string, files ...string) error {
	f, err := os.Create(bundlePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	defer gw.Close()

	tw := tar.NewWriter(gw)
	defer tw.Close()

	for _, fp := range files {
		info, err := os.Stat(fp)
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.Base(fp)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		data, err := os.ReadFile(fp)
		if err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}

	return nil
}
