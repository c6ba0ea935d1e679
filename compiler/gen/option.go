package gen

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
// The directory where generated artifacts will be written; it must end with
// a path separator.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the generated output package.
// For example: "github.com/org/project/client".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithSchemaTypes sets the import path of the schema-side types package
// referenced by generated code for enums, input objects and custom scalars.
func WithSchemaTypes(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("SchemaTypes", nil, "schema-types package cannot be empty")
		}
		c.SchemaTypes = pkg
		return nil
	}
}

// WithTagName sets the function name marking source-embedded documents in Go
// files.
func WithTagName(name string) Option {
	return func(c *Config) error {
		if name != "" {
			c.TagName = name
		}
		return nil
	}
}

// WithPlugins records extra generator names requested by the project file.
// Conflicting names are rejected during validation, not here.
func WithPlugins(names ...string) Option {
	return func(c *Config) error {
		c.Plugins = append(c.Plugins, names...)
		return nil
	}
}

// WithMasking enables the fragment-masking artifact with the given unmask
// function name. An empty name selects the default.
func WithMasking(unmaskFunctionName string) Option {
	return func(c *Config) error {
		c.Masking = &MaskingConfig{UnmaskFunctionName: unmaskFunctionName}
		return nil
	}
}

// WithAugmentedMasking enables the fragment-masking artifact in augmented
// mode: alias declarations only, no wrapper bodies.
func WithAugmentedMasking() Option {
	return func(c *Config) error {
		if c.Masking == nil {
			c.Masking = &MaskingConfig{}
		}
		c.Masking.Augmented = true
		return nil
	}
}

// WithPersisted enables the persisted-document manifest artifact.
// Empty mode or algorithm select the defaults.
func WithPersisted(mode, algorithm string) Option {
	return func(c *Config) error {
		c.Persisted = &PersistedConfig{Mode: mode, Algorithm: algorithm}
		return nil
	}
}

// WithPersistedStore names a SQLite database file the manifest is also
// upserted into. Enables manifesting if it was not already enabled.
func WithPersistedStore(path string) Option {
	return func(c *Config) error {
		if c.Persisted == nil {
			c.Persisted = &PersistedConfig{}
		}
		c.Persisted.Store = path
		return nil
	}
}

// WithHashPropertyName sets the metadata key the operation hash is attached
// under. Enables manifesting if it was not already enabled.
func WithHashPropertyName(name string) Option {
	return func(c *Config) error {
		if c.Persisted == nil {
			c.Persisted = &PersistedConfig{}
		}
		c.Persisted.HashPropertyName = name
		return nil
	}
}

// WithGenerator sets a custom per-document type generator.
// If not set, defaults to the built-in selection-set generator.
func WithGenerator(g DocumentGenerator) Option {
	return func(c *Config) error {
		if g == nil {
			return NewConfigError("Generator", nil, "generator cannot be nil")
		}
		c.Generator = g
		return nil
	}
}

// WithCache sets the build-cache file consulted by the writer.
func WithCache(path string) Option {
	return func(c *Config) error {
		c.CachePath = path
		return nil
	}
}

// WithLogger sets the logger receiving debug output from the artifact
// passes and the writer.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
