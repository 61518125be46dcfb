package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. It supports indented output,
// which the go-json codec is not used for.
type JSON struct {
	Indent bool
}

// Marshal encodes the value to JSON.
func (c JSON) Marshal(v any) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for machine-readable CLI output.
var Default Codec = GoJSON{}
