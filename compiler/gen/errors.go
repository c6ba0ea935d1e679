// Package gen coordinates the artifact passes of one generation run: it
// partitions the document set, drives the per-document type generator,
// computes canonical text and hashes, and emits the artifact bundle.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidConfig indicates a configuration validation error.
	ErrInvalidConfig = errors.New("gqlc: invalid configuration")
	// ErrDuplicateIdentifier indicates two definitions mapping to the same
	// generated identifier.
	ErrDuplicateIdentifier = errors.New("gqlc: duplicate generated identifier")
	// ErrUnsupportedAlgorithm indicates an unrecognized digest algorithm name.
	ErrUnsupportedAlgorithm = errors.New("gqlc: unsupported digest algorithm")
	// ErrGenerationFailed indicates a failure inside an artifact pass.
	ErrGenerationFailed = errors.New("gqlc: generation failed")
)

// Phase names used in error prefixes. Every generation error carries a fixed
// [gqlc/<phase>] prefix identifying which artifact-building phase raised it.
const (
	PhaseValidate    = "validate"
	PhasePartition   = "partition"
	PhaseDefinitions = "definitions"
	PhaseRegistry    = "registry"
	PhaseManifest    = "manifest"
	PhaseMasking     = "masking"
	PhaseIndex       = "index"
	PhaseWrite       = "write"
)

func prefix(phase string) string {
	return "[gqlc/" + phase + "]"
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s config error for %q (value: %v): %s", prefix(PhaseValidate), e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("%s config error for %q: %s", prefix(PhaseValidate), e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// DuplicateIdentifierError represents a naming collision surfaced during
// partitioning: two definitions resolved to the same generated identifier.
type DuplicateIdentifierError struct {
	Identifier string
	First      string // declared name (and kind) of the first definition
	Second     string // declared name (and kind) of the colliding definition
}

// Error implements the error interface.
func (e *DuplicateIdentifierError) Error() string {
	var b strings.Builder
	b.WriteString(prefix(PhasePartition))
	fmt.Fprintf(&b, " duplicate generated identifier %q", e.Identifier)
	if e.First != "" && e.Second != "" {
		fmt.Fprintf(&b, ": %s collides with %s", e.Second, e.First)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for
// DuplicateIdentifierError.
func (e *DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}

// NewDuplicateIdentifierError creates a new DuplicateIdentifierError.
func NewDuplicateIdentifierError(identifier, first, second string) *DuplicateIdentifierError {
	return &DuplicateIdentifierError{
		Identifier: identifier,
		First:      first,
		Second:     second,
	}
}

// AlgorithmError represents an unsupported digest algorithm name.
type AlgorithmError struct {
	Name string
}

// Error implements the error interface.
func (e *AlgorithmError) Error() string {
	return fmt.Sprintf("%s unsupported digest algorithm %q", prefix(PhaseDefinitions), e.Name)
}

// Is reports whether the target matches the sentinel error for AlgorithmError.
func (e *AlgorithmError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}

// NewAlgorithmError creates a new AlgorithmError.
func NewAlgorithmError(name string) *AlgorithmError {
	return &AlgorithmError{Name: name}
}

// GenerationError represents a failure inside one artifact's generation
// pass. Any such failure is fatal for the whole run; no partial artifact is
// considered valid output.
type GenerationError struct {
	Phase    string // artifact phase, one of the Phase constants
	Document string // generated identifier of the document being processed, if any
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString(prefix(e.Phase))
	b.WriteString(" generation error")
	if e.Document != "" {
		b.WriteString(" on document ")
		b.WriteString(e.Document)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for
// GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, document, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:    phase,
		Document: document,
		Message:  message,
		Cause:    cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDuplicateIdentifierError reports whether the error is a
// DuplicateIdentifierError.
func IsDuplicateIdentifierError(err error) bool {
	var dupErr *DuplicateIdentifierError
	return errors.As(err, &dupErr)
}

// IsAlgorithmError reports whether the error is an AlgorithmError.
func IsAlgorithmError(err error) bool {
	var algErr *AlgorithmError
	return errors.As(err, &algErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
