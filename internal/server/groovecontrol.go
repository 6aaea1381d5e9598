package server

import (
	"context"

	"google.golang.org/grpc"

	"github.com/cartomix/groove/internal/grooveengine"
	"github.com/cartomix/groove/internal/grooveprofile"
	"github.com/cartomix/groove/internal/hardware"
	"github.com/cartomix/groove/internal/storage"
)

// Empty is the request/response for RPCs that carry no payload, standing in
// for google.protobuf.Empty since the engine has no protoc-generated
// well-known types wired up.
type Empty struct{}

type PutProfileRequest struct {
	Name    string                 `json:"name"`
	Profile *grooveprofile.Profile `json:"profile"`
}

type GetProfileRequest struct {
	ID string `json:"id"`
}

type DeleteProfileRequest struct {
	ID string `json:"id"`
}

type ListProfilesResponse struct {
	Profiles []*storage.ProfileRecord `json:"profiles"`
}

type ApplyGrooveRequest struct {
	ProfileID       string  `json:"profile_id"`
	GridTimeSeconds float64 `json:"grid_time_seconds"`
	StepIndex       int     `json:"step_index"`
	BarIndex        int     `json:"bar_index"`
	Channel         string  `json:"channel"`
	BaseVelocity    float64 `json:"base_velocity"`
	ScaleMode       string  `json:"scale_mode"`
	Seed            int64   `json:"seed"`
}

type ApplyGrooveResponse struct {
	Event grooveengine.ScheduledEvent `json:"event"`
}

type ComputeHashRequest struct {
	ProfileID string `json:"profile_id"`
}

type ComputeHashResponse struct {
	GrooveHash    string `json:"groove_hash"`
	MatchesStored bool   `json:"matches_stored"`
}

type VerifyHashRequest struct {
	Profile    *grooveprofile.Profile `json:"profile"`
	GrooveHash string                 `json:"groove_hash"`
}

type VerifyHashResponse struct {
	GrooveHash string `json:"groove_hash"`
	Matches    bool   `json:"matches"`
}

type ProcessHardwareRequest struct {
	Channel        int             `json:"channel"`
	Samples        []float64       `json:"samples"`
	HostSampleRate float64         `json:"host_sample_rate"`
	Params         hardware.Params `json:"params"`
}

type ProcessHardwareResponse struct {
	Samples []float64 `json:"samples"`
}

// GrooveControlServer is the unary control-plane surface for storing and
// evaluating groove profiles. It plays the role the teacher's generated
// EngineAPIServer interface played, hand-written because there is no
// protoc-generated stand-in for it.
type GrooveControlServer interface {
	PutProfile(context.Context, *PutProfileRequest) (*storage.ProfileRecord, error)
	GetProfile(context.Context, *GetProfileRequest) (*storage.ProfileRecord, error)
	ListProfiles(context.Context, *Empty) (*ListProfilesResponse, error)
	DeleteProfile(context.Context, *DeleteProfileRequest) (*Empty, error)
	ApplyGroove(context.Context, *ApplyGrooveRequest) (*ApplyGrooveResponse, error)
	ComputeHash(context.Context, *ComputeHashRequest) (*ComputeHashResponse, error)
	VerifyHash(context.Context, *VerifyHashRequest) (*VerifyHashResponse, error)
	ProcessHardware(context.Context, *ProcessHardwareRequest) (*ProcessHardwareResponse, error)
}

// RegisterGrooveControlServer registers srv against the service registrar,
// mirroring the call signature a protoc-gen-go-grpc Register function has.
func RegisterGrooveControlServer(s grpc.ServiceRegistrar, srv GrooveControlServer) {
	s.RegisterService(&grooveControlServiceDesc, srv)
}

func grooveControlHandler[Req any](methodName string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return callGrooveControlMethod(srv.(GrooveControlServer), methodName, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/groove.GrooveControl/" + methodName}
		handler := func(ctx context.Context, req any) (any, error) {
			return callGrooveControlMethod(srv.(GrooveControlServer), methodName, ctx, req)
		}
		return interceptor(ctx, in, info, handler)
	}
}

// callGrooveControlMethod dispatches by RPC name. A type switch keeps this
// file free of one boilerplate wrapper function per method, the way a
// generated _ServiceDesc file would have one.
func callGrooveControlMethod(srv GrooveControlServer, methodName string, ctx context.Context, req any) (any, error) {
	switch methodName {
	case "PutProfile":
		return srv.PutProfile(ctx, req.(*PutProfileRequest))
	case "GetProfile":
		return srv.GetProfile(ctx, req.(*GetProfileRequest))
	case "ListProfiles":
		return srv.ListProfiles(ctx, req.(*Empty))
	case "DeleteProfile":
		return srv.DeleteProfile(ctx, req.(*DeleteProfileRequest))
	case "ApplyGroove":
		return srv.ApplyGroove(ctx, req.(*ApplyGrooveRequest))
	case "ComputeHash":
		return srv.ComputeHash(ctx, req.(*ComputeHashRequest))
	case "VerifyHash":
		return srv.VerifyHash(ctx, req.(*VerifyHashRequest))
	case "ProcessHardware":
		return srv.ProcessHardware(ctx, req.(*ProcessHardwareRequest))
	default:
		panic("server: unknown GrooveControl method " + methodName)
	}
}

var grooveControlServiceDesc = grpc.ServiceDesc{
	ServiceName: "groove.GrooveControl",
	HandlerType: (*GrooveControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PutProfile", Handler: grooveControlHandler[PutProfileRequest]("PutProfile")},
		{MethodName: "GetProfile", Handler: grooveControlHandler[GetProfileRequest]("GetProfile")},
		{MethodName: "ListProfiles", Handler: grooveControlHandler[Empty]("ListProfiles")},
		{MethodName: "DeleteProfile", Handler: grooveControlHandler[DeleteProfileRequest]("DeleteProfile")},
		{MethodName: "ApplyGroove", Handler: grooveControlHandler[ApplyGrooveRequest]("ApplyGroove")},
		{MethodName: "ComputeHash", Handler: grooveControlHandler[ComputeHashRequest]("ComputeHash")},
		{MethodName: "VerifyHash", Handler: grooveControlHandler[VerifyHashRequest]("VerifyHash")},
		{MethodName: "ProcessHardware", Handler: grooveControlHandler[ProcessHardwareRequest]("ProcessHardware")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "groove/control.proto",
}
