package bt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads a tree config from a YAML reader
func LoadYAML(r io.Reader) (*TreeConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cfg TreeConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	cfg.fingerprint = xxhash.Sum64(data)
	return &cfg, nil
}

// LoadJSON reads a tree config from a JSON reader
func LoadJSON(r io.Reader) (*TreeConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cfg TreeConfig
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode tree config: %w", err)
	}
	cfg.fingerprint = xxhash.Sum64(data)
	return &cfg, nil
}

// LoadFile picks the codec from the file extension
func LoadFile(path string) (*TreeConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}
