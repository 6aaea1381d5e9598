// Package server implements the gRPC control plane for the groove engine:
// profile storage, groove evaluation, integrity hashing, and hardware
// signal-chain processing, reached over a hand-written unary-only service
// (see groovecontrol.go) since there is no protoc toolchain available to
// generate the usual request/response types.
package server

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cartomix/groove/internal/config"
	"github.com/cartomix/groove/internal/grooveengine"
	"github.com/cartomix/groove/internal/groovehash"
	"github.com/cartomix/groove/internal/grooveprofile"
	"github.com/cartomix/groove/internal/grooverand"
	"github.com/cartomix/groove/internal/hardware"
	"github.com/cartomix/groove/internal/storage"
)

// GrooveServer implements GrooveControlServer against a storage.DB.
type GrooveServer struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *storage.DB
}

// NewGrooveServer constructs a GrooveServer.
func NewGrooveServer(cfg *config.Config, logger *slog.Logger, db *storage.DB) *GrooveServer {
	return &GrooveServer{cfg: cfg, logger: logger, db: db}
}

func (s *GrooveServer) PutProfile(ctx context.Context, req *PutProfileRequest) (*storage.ProfileRecord, error) {
	if req.Profile == nil {
		return nil, status.Error(codes.InvalidArgument, "profile is required")
	}
	if err := grooveprofile.Validate(req.Profile); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "profile invalid: %v", err)
	}
	req.Profile.Normalize()

	hash, err := groovehash.ComputeHash(req.Profile)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "compute groove hash: %v", err)
	}

	rec, err := s.db.PutProfile(req.Name, req.Profile, hash)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "store profile: %v", err)
	}
	return rec, nil
}

func (s *GrooveServer) GetProfile(ctx context.Context, req *GetProfileRequest) (*storage.ProfileRecord, error) {
	rec, err := s.db.GetProfile(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "fetch profile: %v", err)
	}
	if rec == nil {
		return nil, status.Errorf(codes.NotFound, "profile %q not found", req.ID)
	}
	return rec, nil
}

func (s *GrooveServer) ListProfiles(ctx context.Context, req *Empty) (*ListProfilesResponse, error) {
	records, err := s.db.ListProfiles()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list profiles: %v", err)
	}
	return &ListProfilesResponse{Profiles: records}, nil
}

func (s *GrooveServer) DeleteProfile(ctx context.Context, req *DeleteProfileRequest) (*Empty, error) {
	if err := s.db.DeleteProfile(req.ID); err != nil {
		return nil, status.Errorf(codes.Internal, "delete profile: %v", err)
	}
	return &Empty{}, nil
}

func (s *GrooveServer) ApplyGroove(ctx context.Context, req *ApplyGrooveRequest) (*ApplyGrooveResponse, error) {
	rec, err := s.db.GetProfile(req.ProfileID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "fetch profile: %v", err)
	}
	if rec == nil {
		return nil, status.Errorf(codes.NotFound, "profile %q not found", req.ProfileID)
	}

	baseVelocity := req.BaseVelocity
	if baseVelocity == 0 {
		baseVelocity = 1.0
	}
	seed := req.Seed
	if seed == 0 {
		seed = rec.Profile.RandomizationSeed
	}
	rng := grooverand.New(seed)

	event := grooveengine.ApplyGroove(
		req.GridTimeSeconds, req.StepIndex, req.Channel,
		rec.Profile, req.BarIndex, rng, req.ScaleMode, baseVelocity,
	)
	return &ApplyGrooveResponse{Event: event}, nil
}

func (s *GrooveServer) ComputeHash(ctx context.Context, req *ComputeHashRequest) (*ComputeHashResponse, error) {
	rec, err := s.db.GetProfile(req.ProfileID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "fetch profile: %v", err)
	}
	if rec == nil {
		return nil, status.Errorf(codes.NotFound, "profile %q not found", req.ProfileID)
	}
	hash, err := groovehash.ComputeHash(rec.Profile)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "compute groove hash: %v", err)
	}
	return &ComputeHashResponse{GrooveHash: hash, MatchesStored: hash == rec.GrooveHash}, nil
}

func (s *GrooveServer) VerifyHash(ctx context.Context, req *VerifyHashRequest) (*VerifyHashResponse, error) {
	if req.Profile == nil {
		return nil, status.Error(codes.InvalidArgument, "profile is required")
	}
	hash, err := groovehash.ComputeHash(req.Profile)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "compute groove hash: %v", err)
	}
	return &VerifyHashResponse{GrooveHash: hash, Matches: hash == req.GrooveHash}, nil
}

func (s *GrooveServer) ProcessHardware(ctx context.Context, req *ProcessHardwareRequest) (*ProcessHardwareResponse, error) {
	hostRate := req.HostSampleRate
	if hostRate == 0 {
		hostRate = s.cfg.DefaultSampleRate
	}
	proc := hardware.NewProcessor(hostRate, req.Channel+1)
	out := proc.Process(req.Channel, req.Samples, req.Params)
	return &ProcessHardwareResponse{Samples: out}, nil
}
