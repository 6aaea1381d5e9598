package exporter

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/cartomix/groove/internal/grooveprofile"
)

var updateGolden = flag.Bool("update-golden", false, "update golden test files")

// TestProfileEnvelopeGolden pins the exact envelope JSON shape this
// package exports, the way the teacher's golden tests pinned exact
// playlist export formats.
func TestProfileEnvelopeGolden(t *testing.T) {
	dir := t.TempDir()
	env := goldenEnvelope()

	result, err := WriteProfileBundle(dir, "golden-feel", env)
	if err != nil {
		t.Fatalf("WriteProfileBundle failed: %v", err)
	}

	actual, err := os.ReadFile(result.EnvelopePath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	goldenPath := filepath.Join("testdata", "golden-envelope.json")

	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, actual, 0o644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		t.Log("updated golden file:", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Skip("golden file does not exist, run with -update-golden to create")
	}
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}

	if string(actual) != string(expected) {
		t.Errorf("envelope JSON does not match golden file\n--- got ---\n%s\n--- want ---\n%s", actual, expected)
	}
}

func TestEnvelopeSchemaMismatchIsFatal(t *testing.T) {
	data := []byte(`{"schema":"wrong-marker","groove":{"bpm":120,"groove_amount":1}}`)
	if _, err := grooveprofile.LoadEnvelope(data); err == nil {
		t.Fatal("expected schema marker mismatch to be a fatal error")
	}
}
