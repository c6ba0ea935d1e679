package gen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const testSchema = `
type Query {
	user(id: ID!): User
	users: [User!]!
}

type Mutation {
	updateUser(id: ID!, name: String!): User
}

type User {
	id: ID!
	name: String!
	email: String
	age: Int
	role: Role
	friends: [User!]
}

enum Role {
	ADMIN
	USER
}
`

const testDocuments = `
query GetUser($id: ID!) {
	user(id: $id) {
		id
		name
		...UserFields @defer
	}
}

fragment UserFields on User {
	email
	age
}
`

func loadTestSchema(t *testing.T) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: testSchema})
	require.NoError(t, err)
	return schema
}

func testConfig(opts ...Option) *Config {
	base := []Option{
		WithTarget("client/"),
		WithPackage("example.com/app/client"),
		WithSchemaTypes("example.com/app/types"),
	}
	return MustNewConfig(append(base, opts...)...)
}

func contentOf(t *testing.T, files []File, name string) string {
	t.Helper()
	for _, f := range files {
		if f.Name == name {
			return string(f.Content)
		}
	}
	t.Fatalf("artifact %s not generated", name)
	return ""
}

func runGenerator(t *testing.T, cfg *Config, documents string) []File {
	t.Helper()
	g, err := NewGenerator(cfg, loadTestSchema(t), parseQuery(t, "documents.graphql", documents))
	require.NoError(t, err)
	files, err := g.Run(context.Background())
	require.NoError(t, err)
	return files
}

func TestGeneratorRun(t *testing.T) {
	schema := loadTestSchema(t)
	doc := parseQuery(t, "documents.graphql", testDocuments)
	cfg := testConfig(WithMasking(""), WithPersisted(PersistedModeEmbed, "sha256"))

	g, err := NewGenerator(cfg, schema, doc)
	require.NoError(t, err)
	files, err := g.Run(context.Background())
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{
		"graph/graph.go",
		"graph/registry.go",
		"persisted.json",
		"masking/masking.go",
		"client.go",
	}, names)

	fragments := fragmentIndex(doc)
	canonical := Normalize(doc.Operations[0], fragments)
	hash, err := Hash(canonical, "sha256")
	require.NoError(t, err)

	t.Run("definitions", func(t *testing.T) {
		graph := contentOf(t, files, "graph/graph.go")
		assert.Contains(t, graph, "package graph")
		assert.Contains(t, graph, "type GetUserVariables struct")
		assert.Contains(t, graph, "Id string")
		assert.Contains(t, graph, "type GetUserResult struct")
		assert.Contains(t, graph, "type GetUserResultUser struct")
		assert.Contains(t, graph, "var GetUserDocument = gqlc.NewDocument[GetUserVariables, GetUserResult]")
		assert.Contains(t, graph, "type UserFields struct")
		assert.Contains(t, graph, "var UserFieldsFragmentDoc = gqlc.NewFragment[UserFields]")
		// Masked spread: opaque reference, hidden from JSON decoding.
		assert.Contains(t, graph, "UserFieldsFragment fragment.Ref[UserFields]")
		assert.Contains(t, graph, "`json:\"-\"`")
		// Deferred metadata and hash are embedded in the document value.
		assert.Contains(t, graph, "DeferredFields")
		assert.Contains(t, graph, `"UserFields"`)
		assert.Contains(t, graph, `"email"`)
		assert.Contains(t, graph, fmt.Sprintf("Hash: %q", hash))
	})

	t.Run("registry", func(t *testing.T) {
		registry := contentOf(t, files, "graph/registry.go")
		assert.Contains(t, registry, "func Lookup(source string) (gqlc.AnyDocument, error)")
		assert.Contains(t, registry, "GetUserDocument")
		assert.Contains(t, registry, "UserFieldsFragmentDoc")
		assert.Contains(t, registry, "NewUnknownDocumentError")
	})

	t.Run("manifest", func(t *testing.T) {
		manifest := contentOf(t, files, "persisted.json")
		var decoded map[string]string
		require.NoError(t, json.Unmarshal([]byte(manifest), &decoded))
		assert.Equal(t, map[string]string{hash: canonical}, decoded)

		require.Equal(t, []string{hash}, g.Manifest().Hashes())
	})

	t.Run("masking", func(t *testing.T) {
		masking := contentOf(t, files, "masking/masking.go")
		assert.Contains(t, masking, "package masking")
		assert.Contains(t, masking, "func GetFragmentData[F any](")
		assert.Contains(t, masking, "func GetFragmentDataPtr[F any](")
		assert.Contains(t, masking, "func GetFragmentDataSlice[F any](")
		assert.Contains(t, masking, "func GetFragmentDataPtrSlice[F any](")
		assert.Contains(t, masking, "func MakeFragmentData[F any](")
		assert.Contains(t, masking, "func IsFragmentReady(")
		assert.Contains(t, masking, "func IsFragmentReadyNode(")
	})

	t.Run("index", func(t *testing.T) {
		index := contentOf(t, files, "client.go")
		assert.Contains(t, index, "package client")
		assert.Contains(t, index, "type GetUserResult = graph.GetUserResult")
		assert.Contains(t, index, "type GetUserVariables = graph.GetUserVariables")
		assert.Contains(t, index, "type UserFields = graph.UserFields")
		assert.Contains(t, index, "var GetUserDocument = graph.GetUserDocument")
		assert.Contains(t, index, "var UserFieldsFragmentDoc = graph.UserFieldsFragmentDoc")
		assert.Contains(t, index, "var Lookup = graph.Lookup")
		assert.Contains(t, index, "func GetFragmentData[F any](")
	})
}

func TestGeneratorDeterminism(t *testing.T) {
	cfg := func() *Config {
		return testConfig(WithMasking(""), WithPersisted(PersistedModeEmbed, "sha1"))
	}

	first := runGenerator(t, cfg(), testDocuments)
	second := runGenerator(t, cfg(), testDocuments)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, string(first[i].Content), string(second[i].Content))
	}
}

func TestGeneratorReplaceMode(t *testing.T) {
	doc := parseQuery(t, "documents.graphql", testDocuments)
	fragments := fragmentIndex(doc)
	canonical := Normalize(doc.Operations[0], fragments)
	hash, err := Hash(canonical, "sha1")
	require.NoError(t, err)

	files := runGenerator(t, testConfig(WithPersisted(PersistedModeReplace, "sha1")), testDocuments)

	graph := contentOf(t, files, "graph/graph.go")
	// The document source is the hash; the canonical text survives only in
	// the manifest.
	assert.Contains(t, graph, fmt.Sprintf("(%q, gqlc.DocumentMeta", hash))

	manifest := contentOf(t, files, "persisted.json")
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(manifest), &decoded))
	assert.Equal(t, canonical, decoded[hash])
}

func TestGeneratorWithoutMaskingInlinesSpreads(t *testing.T) {
	files := runGenerator(t, testConfig(), testDocuments)

	require.Len(t, files, 3)
	graph := contentOf(t, files, "graph/graph.go")
	assert.NotContains(t, graph, "fragment.Ref")
	// Fragment fields are flattened into the selecting shape.
	assert.Contains(t, graph, "Email *string")
	assert.Contains(t, graph, "Age *int")

	index := contentOf(t, files, "client.go")
	assert.NotContains(t, index, "GetFragmentData")
}

func TestGeneratorAugmentedMasking(t *testing.T) {
	files := runGenerator(t, testConfig(WithMasking(""), WithAugmentedMasking()), testDocuments)

	masking := contentOf(t, files, "masking/masking.go")
	assert.Contains(t, masking, "type Ref[F any] = fragment.Ref[F]")
	assert.Contains(t, masking, "var IsFragmentReady = fragment.IsFragmentReady")
	assert.NotContains(t, masking, "func GetFragmentData")

	index := contentOf(t, files, "client.go")
	assert.Contains(t, index, "type Ref[F any] = masking.Ref[F]")
	assert.Contains(t, index, "var IsFragmentReady = masking.IsFragmentReady")
}

func TestGeneratorManifestOrdering(t *testing.T) {
	documents := `
query First { user(id: "1") { id } }
query Second { user(id: "2") { id } }
query Third { user(id: "3") { id } }
`
	doc := parseQuery(t, "documents.graphql", documents)
	cfg := testConfig(WithPersisted(PersistedModeEmbed, "sha256"))
	g, err := NewGenerator(cfg, loadTestSchema(t), doc)
	require.NoError(t, err)
	_, err = g.Run(context.Background())
	require.NoError(t, err)

	var want []string
	for _, op := range doc.Operations {
		h, err := Hash(Normalize(op, nil), "sha256")
		require.NoError(t, err)
		want = append(want, h)
	}
	assert.Equal(t, want, g.Manifest().Hashes())
}

func TestGeneratorManifestSeesEveryDocument(t *testing.T) {
	// The manifest pass runs concurrently with the definitions pass; the
	// completion gate guarantees it never serializes a partial manifest.
	const operations = 25
	var documents string
	for i := 0; i < operations; i++ {
		documents += fmt.Sprintf("query Op%d { user(id: %q) { id } }\n", i, fmt.Sprint(i))
	}

	cfg := testConfig(WithPersisted(PersistedModeEmbed, "sha256"))
	g, err := NewGenerator(cfg, loadTestSchema(t), parseQuery(t, "many.graphql", documents))
	require.NoError(t, err)
	files, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, operations, g.Manifest().Len())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(contentOf(t, files, "persisted.json")), &decoded))
	assert.Len(t, decoded, operations)
}

func TestGeneratorErrors(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewGenerator(nil, loadTestSchema(t), &ast.QueryDocument{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("conflicting plugin", func(t *testing.T) {
		cfg := testConfig(WithPlugins("typed-documents"))
		_, err := NewGenerator(cfg, loadTestSchema(t), &ast.QueryDocument{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("unknown field fails the run without hanging the manifest pass", func(t *testing.T) {
		doc := parseQuery(t, "bad.graphql", `query Bad { user(id: "1") { bogus } }`)
		cfg := testConfig(WithPersisted(PersistedModeEmbed, "sha1"))
		g, err := NewGenerator(cfg, loadTestSchema(t), doc)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err = g.Run(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.Contains(t, err.Error(), "bogus")
	})
}

// recordingGenerator wraps the built-in generator and adds one extra symbol,
// proving custom generators flow through to the index artifact.
type recordingGenerator struct {
	inner  DocumentGenerator
	visits []string
}

func (r *recordingGenerator) GenerateDocument(f *jen.File, ctx *DocumentContext, entry Entry) ([]Symbol, error) {
	r.visits = append(r.visits, entry.Identifier)
	syms, err := r.inner.GenerateDocument(f, ctx, entry)
	if err != nil {
		return nil, err
	}
	if entry.Kind == KindOperation {
		name := entry.BaseName() + "Raw"
		f.Var().Id(name).Op("=").Lit(entry.Name)
		syms = append(syms, Symbol{Name: name, Kind: SymbolVar})
	}
	return syms, nil
}

func TestGeneratorCustomDocumentGenerator(t *testing.T) {
	rec := &recordingGenerator{inner: NewDocumentGenerator()}
	cfg := testConfig(WithGenerator(rec))

	g, err := NewGenerator(cfg, loadTestSchema(t), parseQuery(t, "documents.graphql", testDocuments))
	require.NoError(t, err)
	files, err := g.Run(context.Background())
	require.NoError(t, err)

	// One visit per definition, in partition order.
	assert.Equal(t, []string{"GetUserDocument", "UserFieldsFragmentDoc"}, rec.visits)

	index := contentOf(t, files, "client.go")
	assert.Contains(t, index, "var GetUserRaw = graph.GetUserRaw")
}
