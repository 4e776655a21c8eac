package server

import (
	"encoding/json"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are structpb.Struct values carrying the JSON form of the
// service types. Integers survive the float64 representation up to 2^53.

// Decode unmarshals a message into v
func Decode(in *structpb.Struct, v interface{}) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return mdwerror.Wrap(err, "failed to read message").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.Decode")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return mdwerror.Wrap(err, "malformed request").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.Decode")
	}
	return nil
}

// Encode marshals v into a message. v must encode as a JSON object.
func Encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode response").
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.Encode")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, mdwerror.Wrap(err, "response is not an object").
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.Encode")
	}
	return out, nil
}
