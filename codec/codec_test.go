package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("<class name=\"java/lang/Object\" since=\"1\"/>\n"), 64)

	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			packed, err := Compress(c, payload)
			require.NoError(t, err)
			assert.Equal(t, c, Detect(packed))

			got, err := Decompress(packed)
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			r, err := NewReader(bytes.NewReader(packed))
			require.NoError(t, err)
			streamed, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, streamed)
		})
	}
}

func TestNewReaderShortInput(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte("ab")))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(got))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, Zstd, FromExtension("api-versions.xml.zst"))
	assert.Equal(t, Gzip, FromExtension("API.XML.GZ"))
	assert.Equal(t, LZ4, FromExtension("db.kb.lz4"))
	assert.Equal(t, None, FromExtension("api-versions.xml"))
	assert.Equal(t, "api-versions.xml", TrimExtension("api-versions.xml.zst"))
	assert.Equal(t, "api-versions.xml", TrimExtension("api-versions.xml"))

	for _, c := range []Compression{Gzip, Zstd, LZ4} {
		parsed, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.Equal(t, c, FromExtension("x"+c.Extension()))
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestCodecs(t *testing.T) {
	type stats struct {
		Classes int `json:"classes"`
	}

	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())

		b := MustMarshal(c, stats{Classes: 3})
		assert.JSONEq(t, `{"classes":3}`, string(b))

		var out stats
		require.NoError(t, c.Unmarshal(b, &out))
		assert.Equal(t, 3, out.Classes)
	}

	_, ok := ByName("xml")
	assert.False(t, ok)

	b, err := JSON{Indent: true}.Marshal(stats{Classes: 1})
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"classes\"")

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, nil, stats{Classes: 2}))
	assert.Equal(t, "{\"classes\":2}\n", buf.String())
}
