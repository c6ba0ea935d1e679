package gen

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Import paths of the runtime packages referenced by generated code.
const (
	runtimePkg  = "github.com/syssam/gqlc"
	fragmentPkg = "github.com/syssam/gqlc/fragment"
)

// Defaults applied by (*Config).defaults.
const (
	DefaultUnmaskFunctionName = "GetFragmentData"
	DefaultHashAlgorithm      = "sha1"
	DefaultHashPropertyName   = "hash"
	DefaultTagName            = "gql"
)

// Persisted-document modes.
const (
	// PersistedModeEmbed keeps the canonical text as the document source and
	// embeds the hash in the document metadata.
	PersistedModeEmbed = "embed"
	// PersistedModeReplace replaces the document source with the hash.
	PersistedModeReplace = "replace"
)

// conflictingPlugins are generator names whose output this pipeline already
// produces. Configuring them alongside it would duplicate type declarations.
var conflictingPlugins = map[string]bool{
	"typed-documents":   true,
	"document-registry": true,
	"fragment-masking":  true,
}

// Config holds the settings for one generation run.
type Config struct {
	// Target is the output directory. It must denote a directory, i.e. end
	// with a path separator.
	Target string

	// Package is the import path of the generated output package, used by
	// the re-export index to reference the artifact subpackages.
	Package string

	// SchemaTypes is the import path of the package holding the schema-side
	// types (enums, input objects, custom scalars) that generated code
	// references.
	SchemaTypes string

	// TagName is the function name marking source-embedded documents in Go
	// files. Defaults to "gql".
	TagName string

	// Plugins lists extra generator names requested by the project file.
	// Names conflicting with this pipeline's own output are rejected.
	Plugins []string

	// Masking enables the fragment-masking artifact. Nil disables it.
	Masking *MaskingConfig

	// Persisted enables the persisted-document manifest artifact. Nil
	// disables it.
	Persisted *PersistedConfig

	// Generator is the per-document type generator driven by the
	// definitions pass. Defaults to the built-in selection-set generator.
	Generator DocumentGenerator

	// CachePath points at the build cache consulted by the writer. Empty
	// disables caching.
	CachePath string

	// Logger receives debug output from the artifact passes and the writer.
	// Nil disables logging.
	Logger *logrus.Logger
}

// MaskingConfig configures the fragment-masking artifact.
type MaskingConfig struct {
	// UnmaskFunctionName is the exposed name of the unmask function family.
	// Defaults to GetFragmentData.
	UnmaskFunctionName string

	// Augmented emits alias declarations only, without wrapper bodies, for
	// projects whose documents are opaque tagged strings and whose runtime
	// implementation lives in the fragment package directly.
	Augmented bool
}

// PersistedConfig configures the persisted-document manifest artifact.
type PersistedConfig struct {
	// Mode selects how the hash relates to the emitted document value:
	// PersistedModeEmbed or PersistedModeReplace. Defaults to embed.
	Mode string

	// HashPropertyName is the metadata key the hash is attached under.
	// Defaults to "hash".
	HashPropertyName string

	// Algorithm names the digest algorithm. Defaults to sha1.
	Algorithm string

	// Store optionally names a SQLite database file the manifest is also
	// upserted into after a successful run.
	Store string
}

// defaults fills unset options in place.
func (c *Config) defaults() {
	if c.TagName == "" {
		c.TagName = DefaultTagName
	}
	if c.Generator == nil {
		c.Generator = NewDocumentGenerator()
	}
	if c.Masking != nil && c.Masking.UnmaskFunctionName == "" {
		c.Masking.UnmaskFunctionName = DefaultUnmaskFunctionName
	}
	if c.Persisted != nil {
		if c.Persisted.Mode == "" {
			c.Persisted.Mode = PersistedModeEmbed
		}
		if c.Persisted.HashPropertyName == "" {
			c.Persisted.HashPropertyName = DefaultHashPropertyName
		}
		if c.Persisted.Algorithm == "" {
			c.Persisted.Algorithm = DefaultHashAlgorithm
		}
	}
}

// validate checks the required configuration. Validation failures are fatal
// for the whole run and reported before any artifact is generated.
func (c *Config) validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "output directory cannot be empty")
	}
	if !strings.HasSuffix(c.Target, "/") && !strings.HasSuffix(c.Target, string(os.PathSeparator)) {
		return NewConfigError("Target", c.Target, "output directory must end with a path separator")
	}
	if c.Package == "" {
		return NewConfigError("Package", nil, "output package import path cannot be empty")
	}
	if c.SchemaTypes == "" {
		return NewConfigError("SchemaTypes", nil, "schema-types package reference cannot be empty")
	}
	for _, name := range c.Plugins {
		if conflictingPlugins[name] {
			return NewConfigError("Plugins", name, "plugin conflicts with the generated output; remove it from the configuration")
		}
	}
	if c.Persisted != nil {
		switch c.Persisted.Mode {
		case PersistedModeEmbed, PersistedModeReplace:
		default:
			return NewConfigError("Persisted.Mode", c.Persisted.Mode, "unsupported mode; use embed or replace")
		}
		if _, ok := algorithms[strings.ToLower(c.Persisted.Algorithm)]; !ok {
			return NewAlgorithmError(c.Persisted.Algorithm)
		}
	}
	return nil
}
