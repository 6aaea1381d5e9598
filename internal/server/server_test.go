package server

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/cartomix/groove/internal/config"
	"github.com/cartomix/groove/internal/grooveprofile"
	"github.com/cartomix/groove/internal/storage"
)

func newTestGrooveServer(t *testing.T) *GrooveServer {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := storage.Open(dir, logger)
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGrooveServer(&config.Config{DefaultSampleRate: 44100}, logger, db)
}

func TestGrooveServerPutAndGetProfile(t *testing.T) {
	s := newTestGrooveServer(t)
	ctx := context.Background()

	p := grooveprofile.Default()
	p.BPM = 140
	rec, err := s.PutProfile(ctx, &PutProfileRequest{Name: "dnb-preview", Profile: p})
	if err != nil {
		t.Fatalf("PutProfile failed: %v", err)
	}
	if rec.GrooveHash == "" {
		t.Fatal("expected a non-empty groove hash")
	}

	fetched, err := s.GetProfile(ctx, &GetProfileRequest{ID: rec.ID})
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if fetched.Profile.BPM != 140 {
		t.Errorf("bpm = %v, want 140", fetched.Profile.BPM)
	}
}

func TestGrooveServerPutProfileRejectsInvalid(t *testing.T) {
	s := newTestGrooveServer(t)
	p := grooveprofile.Default()
	p.GrooveAmount = 5
	if _, err := s.PutProfile(context.Background(), &PutProfileRequest{Name: "bad", Profile: p}); err == nil {
		t.Fatal("expected an error for an out-of-range groove_amount")
	}
}

func TestGrooveServerApplyGrooveUnknownProfile(t *testing.T) {
	s := newTestGrooveServer(t)
	_, err := s.ApplyGroove(context.Background(), &ApplyGrooveRequest{ProfileID: "missing"})
	if err == nil {
		t.Fatal("expected an error for an unknown profile id")
	}
}

func TestGrooveServerVerifyHash(t *testing.T) {
	s := newTestGrooveServer(t)
	p := grooveprofile.Default()
	resp, err := s.VerifyHash(context.Background(), &VerifyHashRequest{Profile: p, GrooveHash: "wrong"})
	if err != nil {
		t.Fatalf("VerifyHash failed: %v", err)
	}
	if resp.Matches {
		t.Error("expected matches=false for a deliberately wrong hash")
	}
}

func TestGrooveServerProcessHardwarePassthroughWhenDisabled(t *testing.T) {
	s := newTestGrooveServer(t)
	resp, err := s.ProcessHardware(context.Background(), &ProcessHardwareRequest{
		Channel: 0,
		Samples: []float64{0.5, -0.5, 0.25},
	})
	if err != nil {
		t.Fatalf("ProcessHardware failed: %v", err)
	}
	if len(resp.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(resp.Samples))
	}
	if resp.Samples[0] != 0.5 {
		t.Errorf("expected passthrough when hardware emulation is disabled, got %v", resp.Samples[0])
	}
}

func TestGrooveServerListAndDeleteProfile(t *testing.T) {
	s := newTestGrooveServer(t)
	ctx := context.Background()

	rec, err := s.PutProfile(ctx, &PutProfileRequest{Name: "house-preview", Profile: grooveprofile.Default()})
	if err != nil {
		t.Fatalf("PutProfile failed: %v", err)
	}

	list, err := s.ListProfiles(ctx, &Empty{})
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(list.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(list.Profiles))
	}

	if _, err := s.DeleteProfile(ctx, &DeleteProfileRequest{ID: rec.ID}); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}

	after, err := s.GetProfile(ctx, &GetProfileRequest{ID: rec.ID})
	if err == nil || after != nil {
		t.Fatal("expected profile to be gone after delete")
	}
}
