package presets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/cloudbrowser/internal/codec"
)

// Format is a preset file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for files whose syntax is not known.
var ErrUnsupportedFormat = errors.New("unsupported preset format")

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Parse decodes a preset document.
func Parse(data []byte, format Format) (*Preset, error) {
	var p Preset
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	case FormatJSON:
		err = codec.DecodeInto(data, &p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s preset: %w", format, err)
	}
	return &p, nil
}
