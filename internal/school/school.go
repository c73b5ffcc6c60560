// Package school reads the deployment's school from its file. A rollbook
// deployment serves exactly one school, so it is kept beside the database
// rather than in it.
package school

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rollbook/rollbook/internal/model"
)

// Load reads the school from path. The format follows the extension:
// .yaml or .yml for YAML, .toml for TOML.
func Load(path string) (model.School, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.School{}, fmt.Errorf("read school file: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes a school in the format named by ext (".yaml", ".yml" or
// ".toml") and validates it.
func Parse(ext string, data []byte) (model.School, error) {
	var s model.School

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return model.School{}, fmt.Errorf("parse school yaml: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return model.School{}, fmt.Errorf("parse school toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return model.School{}, fmt.Errorf("parse school toml: unknown key %q", undecoded[0].String())
		}
	default:
		return model.School{}, fmt.Errorf("unsupported school file format %q", ext)
	}

	if err := s.Validate(); err != nil {
		return model.School{}, err
	}
	return s, nil
}
