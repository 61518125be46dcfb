package descriptor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/internal/fs"
	"github.com/hupe1980/apilevel/model"
)

var (
	// ErrUnsupportedFormat is returned for descriptor files with an unknown extension.
	ErrUnsupportedFormat = errors.New("descriptor: unsupported format")
	// ErrMalformed is returned when a descriptor cannot be decoded.
	ErrMalformed = errors.New("descriptor: malformed")
)

// Format is a descriptor encoding.
type Format int

const (
	FormatXML Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "xml"
	}
}

// DetectFormat returns the format implied by path, ignoring a compression
// extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(codec.TrimExtension(path))) {
	case ".xml":
		return FormatXML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads the descriptor at path from the local file system.
func Load(path string) (*graph.API, error) {
	return LoadFS(fs.Default, path)
}

// LoadFS reads the descriptor at path through fsys.
func LoadFS(fsys fs.FileSystem, path string) (*graph.API, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := codec.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("descriptor: %s: %w", path, err)
	}
	defer r.Close()

	api, err := Parse(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return api, nil
}

// Parse decodes a descriptor in the given format.
func Parse(r io.Reader, format Format) (*graph.API, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(r)
	case FormatJSON:
		return ParseJSON(r)
	default:
		return ParseXML(r)
	}
}

func parseVersion(s string) (model.Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q", ErrMalformed, s)
	}
	return checkVersion(v)
}

func checkVersion(v int) (model.Version, error) {
	if v < 0 || v > int(model.MaxVersion) {
		return 0, fmt.Errorf("%w: version %d: %w", ErrMalformed, v, model.ErrVersionRange)
	}
	return model.Version(v), nil
}
