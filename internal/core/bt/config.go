package bt

import (
	"fmt"
	"time"
)

// TreeConfig describes a behavior tree in JSON or YAML
type TreeConfig struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Root        *NodeConfig    `json:"root" yaml:"root"`
	Variables   map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`

	fingerprint uint64
}

// Fingerprint returns the xxhash of the raw bytes this config was loaded
// from, or zero for configs assembled in code. Reload paths compare
// fingerprints to skip rebuilding unchanged trees.
func (tc *TreeConfig) Fingerprint() uint64 { return tc.fingerprint }

// NodeConfig describes a single node
type NodeConfig struct {
	Name     string         `json:"name" yaml:"name"`
	Type     string         `json:"type" yaml:"type"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Children []*NodeConfig  `json:"children,omitempty" yaml:"children,omitempty"`
	Child    *NodeConfig    `json:"child,omitempty" yaml:"child,omitempty"`
}

// Validate validates the tree configuration
func (tc *TreeConfig) Validate() error {
	if tc.Name == "" {
		return fmt.Errorf("tree name is required")
	}
	if tc.Root == nil {
		return fmt.Errorf("tree root node is required")
	}
	return tc.Root.Validate()
}

// Validate validates the node configuration recursively
func (nc *NodeConfig) Validate() error {
	if nc.Name == "" {
		return fmt.Errorf("node name is required")
	}
	if nc.Type == "" {
		return fmt.Errorf("node %s: type is required", nc.Name)
	}
	if len(nc.Children) > 0 && nc.Child != nil {
		return fmt.Errorf("node %s: children and child are mutually exclusive", nc.Name)
	}
	for i, child := range nc.Children {
		if child == nil {
			return fmt.Errorf("node %s: child %d is null", nc.Name, i)
		}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", nc.Name, err)
		}
	}
	if nc.Child != nil {
		if err := nc.Child.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", nc.Name, err)
		}
	}
	return nil
}

// Param retrieves a raw parameter value
func (nc *NodeConfig) Param(key string) (any, bool) {
	if nc.Params == nil {
		return nil, false
	}
	v, ok := nc.Params[key]
	return v, ok
}

// StringParam retrieves a string parameter
func (nc *NodeConfig) StringParam(key string) (string, bool) {
	v, ok := nc.Param(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntParam retrieves an int parameter, coercing the float64 that JSON
// decoding produces
func (nc *NodeConfig) IntParam(key string) (int, bool) {
	v, ok := nc.Param(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// FloatParam retrieves a float64 parameter
func (nc *NodeConfig) FloatParam(key string) (float64, bool) {
	v, ok := nc.Param(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// BoolParam retrieves a boolean parameter
func (nc *NodeConfig) BoolParam(key string) (bool, bool) {
	v, ok := nc.Param(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// DurationParam retrieves a duration parameter from either a Go duration
// string or a numeric second count
func (nc *NodeConfig) DurationParam(key string) (time.Duration, bool) {
	v, ok := nc.Param(key)
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		return parsed, err == nil
	case float64:
		return time.Duration(d * float64(time.Second)), true
	case int:
		return time.Duration(d) * time.Second, true
	default:
		return 0, false
	}
}
