// Package encoding writes execution results in the CLI's output formats.
package encoding

import (
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/hanpama/lazygraph/internal/executor"
)

// Format names an output encoding.
type Format string

const (
	JSON       Format = "json"
	PrettyJSON Format = "json-pretty"
	// ProtoJSON is the protobuf JSON mapping of a google.protobuf.Struct.
	ProtoJSON Format = "protojson"
	// Proto is the binary wire form of a google.protobuf.Struct.
	Proto Format = "proto"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JSON, PrettyJSON, ProtoJSON, Proto:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Encode writes res to w in format f. Every format except Proto ends with a
// newline.
func Encode(w io.Writer, res *executor.ExecutionResult, f Format) error {
	switch f {
	case JSON, PrettyJSON:
		enc := json.NewEncoder(w)
		if f == PrettyJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(res)
	case ProtoJSON, Proto:
		st, err := ToStruct(res)
		if err != nil {
			return err
		}
		var b []byte
		if f == ProtoJSON {
			b, err = protojson.Marshal(st)
			b = append(b, '\n')
		} else {
			b, err = proto.MarshalOptions{Deterministic: true}.Marshal(st)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", f, err)
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q", f)
}

// ToStruct converts res to a google.protobuf.Struct with the same shape as
// its JSON form. Numbers become doubles.
func ToStruct(res *executor.ExecutionResult) (*structpb.Struct, error) {
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return structpb.NewStruct(m)
}
