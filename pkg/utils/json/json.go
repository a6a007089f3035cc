package json

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

// RawMessage defers decoding of part of a JSON document.
type RawMessage = stdjson.RawMessage

// Thin seam over the sonic codec so the rest of the repository does not
// import it directly.

func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Pretty re-indents raw JSON for display. Input that does not parse is
// returned unchanged.
func Pretty(raw []byte) string {
	var v any
	if err := Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
