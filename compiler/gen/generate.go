package gen

import (
	"bytes"
	"context"
	"io"

	"github.com/dave/jennifer/jen"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/errgroup"
)

// File is one generated artifact, named relative to the target directory.
type File struct {
	Name    string
	Content []byte
}

// Generator runs the artifact passes of one generation: typed definitions,
// document registry, persisted-operation manifest, fragment masking and the
// re-export index. Passes run concurrently; the definitions pass is the only
// producer of per-document state, and passes that consume it (manifest,
// index) wait on a completion gate it resolves after visiting its last
// document.
type Generator struct {
	cfg       *Config
	schema    *ast.Schema
	doc       *ast.QueryDocument
	fragments map[string]*ast.FragmentDefinition

	manifest *Manifest
	gate     *completionGate
	// symbols is written by the definitions pass before it resolves the
	// gate, and read by the index pass after waiting on it.
	symbols []Symbol

	log *logrus.Logger
}

// NewGenerator validates cfg, applies its defaults and prepares a run over
// the given schema and executable documents. Configuration errors are fatal
// and reported here, before any pass starts.
func NewGenerator(cfg *Config, schema *ast.Schema, doc *ast.QueryDocument) (*Generator, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "configuration cannot be nil")
	}
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, frag := range doc.Fragments {
		fragments[frag.Name] = frag
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Generator{
		cfg:       cfg,
		schema:    schema,
		doc:       doc,
		fragments: fragments,
		manifest:  NewManifest(),
		gate:      newCompletionGate(),
		log:       log,
	}, nil
}

// Manifest returns the persisted-operation mapping accumulated by the run.
// It is complete only after Run has returned without error.
func (g *Generator) Manifest() *Manifest {
	return g.manifest
}

// Run executes every enabled artifact pass and returns the generated files
// in a fixed order: definitions, registry, manifest, masking, index. The
// output is deterministic for identical inputs regardless of scheduling.
func (g *Generator) Run(ctx context.Context) ([]File, error) {
	entries, err := Partition(g.doc)
	if err != nil {
		return nil, err
	}

	var definitions, registry, manifest, masking, index *File
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		var passErr error
		// The gate must release on every exit path or dependent passes
		// would hang on a failed run.
		defer func() { g.gate.resolve(passErr) }()
		definitions, passErr = g.runDefinitions(entries)
		return passErr
	})
	grp.Go(func() error {
		var passErr error
		registry, passErr = g.runRegistry(entries)
		return passErr
	})
	if g.cfg.Persisted != nil {
		grp.Go(func() error {
			var passErr error
			manifest, passErr = g.runManifest(ctx)
			return passErr
		})
	}
	if g.cfg.Masking != nil {
		grp.Go(func() error {
			var passErr error
			masking, passErr = g.runMasking()
			return passErr
		})
	}
	grp.Go(func() error {
		var passErr error
		index, passErr = g.runIndex(ctx)
		return passErr
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	files := make([]File, 0, 5)
	for _, f := range []*File{definitions, registry, manifest, masking, index} {
		if f != nil {
			files = append(files, *f)
		}
	}
	return files, nil
}

// runDefinitions drives the configured DocumentGenerator over every entry in
// partition order and collects the exported symbols for the index pass.
func (g *Generator) runDefinitions(entries []Entry) (*File, error) {
	f := g.newFile("graph")
	docCtx := &DocumentContext{
		Schema:            g.schema,
		Fragments:         g.fragments,
		SchemaTypes:       g.cfg.SchemaTypes,
		Masking:           g.cfg.Masking != nil,
		OnDocumentVisited: g.onDocumentVisited,
	}
	var symbols []Symbol
	for _, entry := range entries {
		syms, err := g.cfg.Generator.GenerateDocument(f, docCtx, entry)
		if err != nil {
			if IsGenerationError(err) {
				return nil, err
			}
			return nil, NewGenerationError(PhaseDefinitions, entry.Identifier, "", err)
		}
		symbols = append(symbols, syms...)
	}
	g.symbols = symbols
	return g.renderFile(PhaseDefinitions, "graph/graph.go", f)
}

// runRegistry emits the canonical-source lookup table. It depends only on
// the partition, not on the definitions pass.
func (g *Generator) runRegistry(entries []Entry) (*File, error) {
	return g.renderFile(PhaseRegistry, "graph/registry.go", buildRegistryFile(g, entries))
}

// runManifest serializes the persisted-operation mapping. It must observe
// every document the definitions pass visits, so it waits on the gate.
func (g *Generator) runManifest(ctx context.Context) (*File, error) {
	if err := g.gate.wait(ctx); err != nil {
		return nil, NewGenerationError(PhaseManifest, "", "definitions pass did not complete", err)
	}
	data, err := g.manifest.MarshalIndentJSON()
	if err != nil {
		return nil, NewGenerationError(PhaseManifest, "", "", err)
	}
	g.log.WithFields(logrus.Fields{"artifact": "persisted.json", "operations": g.manifest.Len()}).Debug("manifest serialized")
	return &File{Name: "persisted.json", Content: data}, nil
}

func (g *Generator) runMasking() (*File, error) {
	return g.renderFile(PhaseMasking, "masking/masking.go", buildMaskingFile(g, g.cfg.Masking))
}

// runIndex emits the re-export surface. It restates the symbols the
// definitions pass produced, so it waits on the gate like the manifest pass.
func (g *Generator) runIndex(ctx context.Context) (*File, error) {
	if err := g.gate.wait(ctx); err != nil {
		return nil, NewGenerationError(PhaseIndex, "", "definitions pass did not complete", err)
	}
	return g.renderFile(PhaseIndex, indexPackage(g.cfg.Target)+".go", buildIndexFile(g, g.symbols))
}

// onDocumentVisited is the per-document hook wired into the definitions
// pass. With persisted documents enabled it normalizes and hashes each
// operation, registers it in the manifest, and attaches the hash under the
// configured metadata key. Fragments never enter the manifest.
func (g *Generator) onDocumentVisited(entry Entry) (*VisitResult, error) {
	if g.cfg.Persisted == nil || entry.Kind != KindOperation {
		return &VisitResult{}, nil
	}
	text := Normalize(entry.Operation, g.fragments)
	hash, err := Hash(text, g.cfg.Persisted.Algorithm)
	if err != nil {
		return nil, err
	}
	if err := g.manifest.Add(hash, text); err != nil {
		return nil, err
	}
	result := &VisitResult{
		Hash:  hash,
		Extra: map[string]string{g.cfg.Persisted.HashPropertyName: hash},
	}
	if g.cfg.Persisted.Mode == PersistedModeReplace {
		result.SourceOverride = hash
	}
	return result, nil
}

func (g *Generator) newFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by gqlc. DO NOT EDIT.")
	return f
}

func (g *Generator) renderFile(phase, name string, f *jen.File) (*File, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError(phase, "", "render "+name, err)
	}
	g.log.WithFields(logrus.Fields{"artifact": name, "bytes": buf.Len()}).Debug("artifact rendered")
	return &File{Name: name, Content: buf.Bytes()}, nil
}
