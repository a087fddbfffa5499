package settings

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load decodes a TOML settings document on top of Defaults and validates
// the result. Keys the document sets but PipelineSettings does not know
// are an error. Array fields (lights, tex_coords, stages) must list every
// element when present; Encode writes complete documents.
//
// Example document:
//
//	lighting = true
//	fog_enabled = true
//	fog_mode = "linear"
//	alpha_test = true
//	alpha_func = "greater"
func Load(r io.Reader) (PipelineSettings, error) {
	s := Defaults()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return PipelineSettings{}, fmt.Errorf("settings: decode: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return PipelineSettings{}, fmt.Errorf("settings: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := Validate(&s); err != nil {
		return PipelineSettings{}, err
	}
	return s, nil
}

// LoadFile reads a TOML settings document from path.
func LoadFile(path string) (PipelineSettings, error) {
	f, err := os.Open(path)
	if err != nil {
		return PipelineSettings{}, fmt.Errorf("settings: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Encode writes s as a TOML document.
func Encode(w io.Writer, s *PipelineSettings) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	return nil
}
