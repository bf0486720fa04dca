package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a suite definition from a YAML file. Methods default to
// GET and are case-insensitive; the file name stands in for a missing
// suite name.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite file %s: %w", path, err)
	}

	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for i := range s.Checks {
		method := strings.ToUpper(s.Checks[i].Request.Method)
		if method == "" {
			method = "GET"
		}
		s.Checks[i].Request.Method = method
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	return &s, nil
}
