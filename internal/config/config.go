// Package config loads batch run configuration for decomment.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

type RunConfigFile struct {
	Version int `json:"version" yaml:"version"`

	// Root is the directory include/exclude patterns are matched against.
	Root    string   `json:"root" yaml:"root"`
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`

	Output struct {
		Dir     string `json:"dir" yaml:"dir"`
		InPlace bool   `json:"in_place" yaml:"in_place"`
	} `json:"output" yaml:"output"`

	Report struct {
		Path string `json:"path" yaml:"path"`
	} `json:"report" yaml:"report"`
}

// LoadRunConfigFile reads a JSON (by extension) or YAML config, checks it
// against the embedded schema and applies defaults. Relative root, output
// dir and report path are resolved against the config file's directory.
//
// The result may still be incomplete: include patterns and the output mode
// can come from command-line flags. Call Validate once those are applied.
func LoadRunConfigFile(path string) (*RunConfigFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := parseRunConfig(b, strings.ToLower(filepath.Ext(path)) == ".json")
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	resolvePaths(cfg, filepath.Dir(path))
	return cfg, nil
}

func parseRunConfig(b []byte, isJSON bool) (*RunConfigFile, error) {
	var doc any
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var cfg RunConfigFile
	if isJSON {
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func validateSchema(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	// Round-trip through encoding/json so YAML scalars arrive with the types
	// the validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var normalized any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&normalized); err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("decomment-config.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile("decomment-config.json")
}

func applyConfigDefaults(cfg *RunConfigFile) {
	if cfg == nil {
		return
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
}

// Validate checks a config after defaults and command-line overrides have
// been applied.
func Validate(cfg *RunConfigFile) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", cfg.Version)
	}
	if len(cfg.Include) == 0 {
		return fmt.Errorf("include requires at least one pattern")
	}
	for _, p := range cfg.Include {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("include contains an empty pattern")
		}
	}
	hasDir := strings.TrimSpace(cfg.Output.Dir) != ""
	switch {
	case hasDir && cfg.Output.InPlace:
		return fmt.Errorf("output.dir and output.in_place are mutually exclusive")
	case !hasDir && !cfg.Output.InPlace:
		return fmt.Errorf("one of output.dir or output.in_place is required")
	}
	return nil
}

// Default returns an empty version 1 config rooted at the working directory,
// for runs driven only by command-line flags.
func Default() *RunConfigFile {
	cfg := &RunConfigFile{}
	applyConfigDefaults(cfg)
	return cfg
}

func resolvePaths(cfg *RunConfigFile, base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	cfg.Root = abs(cfg.Root)
	cfg.Output.Dir = abs(cfg.Output.Dir)
	cfg.Report.Path = abs(cfg.Report.Path)
}
