package load

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlc/compiler/gen"
)

// StringList accepts either a single string or a sequence of strings, so
// project files can write `schema: schema.graphql` and grow into a list
// later without restructuring.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	}
	return fmt.Errorf("expected a string or a list of strings at line %d", value.Line)
}

// FileConfig is the YAML project file driving one generation run.
type FileConfig struct {
	Schema      StringList           `yaml:"schema"`
	Documents   StringList           `yaml:"documents"`
	Target      string               `yaml:"target"`
	Package     string               `yaml:"package"`
	SchemaTypes string               `yaml:"schemaTypes"`
	TagName     string               `yaml:"tagName"`
	Plugins     []string             `yaml:"plugins"`
	Masking     *MaskingFileConfig   `yaml:"masking"`
	Persisted   *PersistedFileConfig `yaml:"persisted"`
	Cache       string               `yaml:"cache"`
}

// MaskingFileConfig is the project-file form of gen.MaskingConfig.
type MaskingFileConfig struct {
	Enabled            bool   `yaml:"enabled"`
	UnmaskFunctionName string `yaml:"unmaskFunctionName"`
	Augmented          bool   `yaml:"augmented"`
}

// PersistedFileConfig is the project-file form of gen.PersistedConfig.
type PersistedFileConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Mode             string `yaml:"mode"`
	Algorithm        string `yaml:"algorithm"`
	HashPropertyName string `yaml:"hashPropertyName"`
	Store            string `yaml:"store"`
}

// ReadConfig parses the project file at path. Unknown keys are rejected so
// misspelled options fail loudly instead of being ignored.
func ReadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg FileConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return &cfg, nil
}

// Options translates the project file into generator options.
func (c *FileConfig) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(c.Target),
		gen.WithPackage(c.Package),
		gen.WithSchemaTypes(c.SchemaTypes),
	}
	if c.TagName != "" {
		opts = append(opts, gen.WithTagName(c.TagName))
	}
	if len(c.Plugins) > 0 {
		opts = append(opts, gen.WithPlugins(c.Plugins...))
	}
	if c.Masking != nil && c.Masking.Enabled {
		opts = append(opts, gen.WithMasking(c.Masking.UnmaskFunctionName))
		if c.Masking.Augmented {
			opts = append(opts, gen.WithAugmentedMasking())
		}
	}
	if c.Persisted != nil && c.Persisted.Enabled {
		opts = append(opts, gen.WithPersisted(c.Persisted.Mode, c.Persisted.Algorithm))
		if c.Persisted.HashPropertyName != "" {
			opts = append(opts, gen.WithHashPropertyName(c.Persisted.HashPropertyName))
		}
		if c.Persisted.Store != "" {
			opts = append(opts, gen.WithPersistedStore(c.Persisted.Store))
		}
	}
	if c.Cache != "" {
		opts = append(opts, gen.WithCache(c.Cache))
	}
	return opts
}
