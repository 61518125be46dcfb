// Package codec centralizes the encodings apilevel reads and writes outside
// the knowledge base itself: JSON for reports and stats, and the compression
// formats descriptors and published databases may be wrapped in.
package codec

import (
	"fmt"
	"io"
)

// Codec turns report values into bytes and back. Implementations are
// stateless and may be shared between goroutines.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName resolves "json" or "go-json".
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON{}.Name():
		return JSON{}, true
	case GoJSON{}.Name():
		return GoJSON{}, true
	}
	return nil, false
}

// Fprint encodes v with c and writes it to w followed by a newline. A nil
// codec means Default.
func Fprint(w io.Writer, c Codec, v any) error {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// MustMarshal panics when v cannot be encoded. Only for fixtures.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("codec %s: %v", c.Name(), err))
	}
	return b
}
