package server

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements grpc/encoding.Codec over encoding/json. The engine
// has no protoc toolchain available to generate the usual protobuf
// messages, so GrooveControl's request/response types are plain Go structs
// carried as a negotiated "json" content-subtype instead. grpc-go selects a
// codec per RPC from the incoming content-subtype, so this only applies to
// calls that ask for it (grpc.CallContentSubtype("json")); the standard
// health and reflection services keep using the default protobuf codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
