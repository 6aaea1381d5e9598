// Package httpapi exposes a secondary REST surface over the groove engine,
// mirroring the same resources the gRPC control plane serves. It follows the
// teacher's deprecation-header convention: the gRPC API is the primary
// surface and this one exists for curl/browser convenience, so every
// response carries Sunset/Deprecation headers pointing callers at gRPC.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cartomix/groove/internal/config"
	"github.com/cartomix/groove/internal/grooveengine"
	"github.com/cartomix/groove/internal/groovehash"
	"github.com/cartomix/groove/internal/grooveprofile"
	"github.com/cartomix/groove/internal/grooverand"
	"github.com/cartomix/groove/internal/hardware"
	"github.com/cartomix/groove/internal/storage"
)

// Server serves the REST API.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *storage.DB
	mux    *http.ServeMux
}

// NewServer constructs a Server and registers all routes.
func NewServer(cfg *config.Config, logger *slog.Logger, db *storage.DB) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the wrapped HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return deprecationMiddleware(corsMiddleware(s.mux))
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/profiles", s.handleListProfiles)
	s.mux.HandleFunc("POST /api/profiles", s.handleCreateProfile)
	s.mux.HandleFunc("GET /api/profiles/{id}", s.handleGetProfile)
	s.mux.HandleFunc("DELETE /api/profiles/{id}", s.handleDeleteProfile)

	s.mux.HandleFunc("POST /api/profiles/{id}/apply", s.handleApplyGroove)
	s.mux.HandleFunc("POST /api/profiles/{id}/hash", s.handleComputeHash)
	s.mux.HandleFunc("POST /api/hash/verify", s.handleVerifyHash)
	s.mux.HandleFunc("POST /api/hardware/process", s.handleHardwareProcess)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleListProfiles returns every stored profile.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListProfiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": records})
}

type createProfileRequest struct {
	Name    string                 `json:"name"`
	Profile *grooveprofile.Profile `json:"profile"`
}

// handleCreateProfile validates and upserts a named groove profile,
// computing and storing its integrity hash.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Profile == nil {
		writeError(w, http.StatusBadRequest, "profile is required", nil)
		return
	}
	if err := grooveprofile.Validate(req.Profile); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "profile invalid", err)
		return
	}
	req.Profile.Normalize()

	hash, err := groovehash.ComputeHash(req.Profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute groove hash", err)
		return
	}

	rec, err := s.db.PutProfile(req.Name, req.Profile, hash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.db.GetProfile(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch profile", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "profile not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.db.DeleteProfile(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyGrooveRequest struct {
	GridTimeSeconds float64 `json:"grid_time_seconds"`
	StepIndex       int     `json:"step_index"`
	BarIndex        int     `json:"bar_index"`
	Channel         string  `json:"channel"`
	BaseVelocity    float64 `json:"base_velocity"`
	ScaleMode       string  `json:"scale_mode"`
	Seed            int64   `json:"seed"`
}

// handleApplyGroove runs a single grid event through the groove kernel and
// returns the humanized event, for quick previewing of a stored profile
// without running the whole offline render.
func (s *Server) handleApplyGroove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.db.GetProfile(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch profile", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "profile not found", nil)
		return
	}

	var req applyGrooveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.BaseVelocity == 0 {
		req.BaseVelocity = 1.0
	}

	seed := req.Seed
	if seed == 0 {
		seed = rec.Profile.RandomizationSeed
	}
	rng := grooverand.New(seed)

	event := grooveengine.ApplyGroove(
		req.GridTimeSeconds, req.StepIndex, req.Channel,
		rec.Profile, req.BarIndex, rng, req.ScaleMode, req.BaseVelocity,
	)
	writeJSON(w, http.StatusOK, event)
}

// handleComputeHash recomputes the stored profile's integrity hash, useful
// to confirm a round-tripped profile still matches what was originally saved.
func (s *Server) handleComputeHash(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.db.GetProfile(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch profile", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "profile not found", nil)
		return
	}
	hash, err := groovehash.ComputeHash(rec.Profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute groove hash", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groove_hash":    hash,
		"matches_stored": hash == rec.GrooveHash,
	})
}

type verifyHashRequest struct {
	Profile    *grooveprofile.Profile `json:"profile"`
	GrooveHash string                 `json:"groove_hash"`
}

// handleVerifyHash checks a caller-supplied profile against a caller-supplied
// hash without requiring the profile to be stored first.
func (s *Server) handleVerifyHash(w http.ResponseWriter, r *http.Request) {
	var req verifyHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Profile == nil {
		writeError(w, http.StatusBadRequest, "profile is required", nil)
		return
	}
	hash, err := groovehash.ComputeHash(req.Profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute groove hash", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groove_hash": hash,
		"matches":     hash == req.GrooveHash,
	})
}

type hardwareProcessRequest struct {
	Channel        int             `json:"channel"`
	Samples        []float64       `json:"samples"`
	HostSampleRate float64         `json:"host_sample_rate"`
	Params         hardware.Params `json:"params"`
}

// handleHardwareProcess runs a block of samples through the signal-chain
// emulator (saturation, anti-alias, downsample, bit-depth, crackle, dry/wet).
func (s *Server) handleHardwareProcess(w http.ResponseWriter, r *http.Request) {
	var req hardwareProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.HostSampleRate == 0 {
		req.HostSampleRate = s.cfg.DefaultSampleRate
	}

	proc := hardware.NewProcessor(req.HostSampleRate, req.Channel+1)
	out := proc.Process(req.Channel, req.Samples, req.Params)
	writeJSON(w, http.StatusOK, map[string]any{"samples": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// deprecationMiddleware marks this REST surface as secondary to the gRPC
// control plane, the way the teacher's HTTP API deprecated itself in favor
// of the generated gRPC client once that surface stabilized.
func deprecationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Deprecation", "true")
		w.Header().Set("Sunset", "Wed, 31 Dec 2026 00:00:00 GMT")
		w.Header().Set("X-API-Deprecation-Notice", "prefer the gRPC control plane; this REST surface is kept for convenience")
		w.Header().Set("Link", `</docs/grpc-migration>; rel="deprecation"`)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows browser-based tooling to hit the API during local
// development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if strings.EqualFold(r.Method, http.MethodOptions) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
