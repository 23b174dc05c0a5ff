package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/vitae/pkg/errors"
)

// Format identifies a serialized resume encoding.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the input format from a file extension.
// Unknown extensions fall back to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a resume in the given format.
func Decode(r io.Reader, format Format) (*Resume, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	return Unmarshal(data, format)
}

// Unmarshal parses resume bytes in the given format.
func Unmarshal(data []byte, format Format) (*Resume, error) {
	var res Resume
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &res); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid YAML")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&res); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported resume format: %q", format)
	}
	return &res, nil
}

// Load reads a resume file, choosing the codec from its extension.
func Load(path string) (*Resume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// LoadTailoring reads a tailoring overlay file (JSON or YAML).
func LoadTailoring(path string) (*Tailoring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open tailoring: %w", err)
	}
	var t Tailoring
	if FormatFromPath(path) == FormatYAML {
		err = yaml.Unmarshal(data, &t)
	} else {
		err = json.Unmarshal(data, &t)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid tailoring file")
	}
	if err := ValidateTailoring(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
