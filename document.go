package gqlc

// DocumentMeta carries the generation-time metadata attached to a document
// value. It is populated by the compiler and read back by the fragment
// runtime; user code normally has no reason to construct one.
type DocumentMeta struct {
	// Hash is the digest of the document's canonical text under the digest
	// algorithm selected at generation time. Empty unless persisted-document
	// manifesting was enabled.
	Hash string

	// FragmentName is the declared name of the fragment for fragment
	// documents. Empty for operations.
	FragmentName string

	// DeferredFields maps a fragment name to the fields of that fragment
	// that only arrive once its deferred payload has been delivered. Nil for
	// documents without incremental delivery.
	DeferredFields map[string][]string

	// Extra holds additional key/value metadata attached by generation
	// hooks, keyed by the configured property names.
	Extra map[string]string
}

// AnyDocument is implemented by every generated document value, operations
// and fragments alike. It gives runtime helpers uniform access to a
// document's source text and metadata without knowing its type parameters.
type AnyDocument interface {
	DocumentSource() string
	DocumentMeta() DocumentMeta
}

// Document is a typed executable operation. V is the variables shape and R
// the result shape generated for the operation. The source is the canonical
// text of the operation (or its hash, when the persisted-document mode
// replaces documents with hashes).
type Document[V, R any] struct {
	source string
	meta   DocumentMeta
}

// NewDocument returns a document value for generated code. The source and
// metadata are fixed at generation time.
func NewDocument[V, R any](source string, meta DocumentMeta) Document[V, R] {
	return Document[V, R]{source: source, meta: meta}
}

// DocumentSource returns the document's source text.
func (d Document[V, R]) DocumentSource() string { return d.source }

// DocumentMeta returns the document's generation-time metadata.
func (d Document[V, R]) DocumentMeta() DocumentMeta { return d.meta }

// FragmentDocument is a typed fragment definition. F is the fragment's
// result shape. Fragment documents are the handles passed to the unmask
// function family in package fragment.
type FragmentDocument[F any] struct {
	source string
	meta   DocumentMeta
}

// NewFragment returns a fragment document value for generated code.
// meta.FragmentName must hold the fragment's declared name.
func NewFragment[F any](source string, meta DocumentMeta) FragmentDocument[F] {
	return FragmentDocument[F]{source: source, meta: meta}
}

// DocumentSource returns the fragment's source text.
func (d FragmentDocument[F]) DocumentSource() string { return d.source }

// DocumentMeta returns the fragment's generation-time metadata.
func (d FragmentDocument[F]) DocumentMeta() DocumentMeta { return d.meta }
