package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func parseQuery(t *testing.T, name, input string) *ast.QueryDocument {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: input})
	require.NoError(t, err)
	return doc
}

func TestPartition(t *testing.T) {
	doc := parseQuery(t, "user.graphql", `
query getUser($id: ID!) {
	user(id: $id) {
		id
		...userFields
	}
}

fragment userFields on User {
	email
}

mutation update_user($id: ID!) {
	updateUser(id: $id) {
		id
	}
}
`)

	entries, err := Partition(doc)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, KindOperation, entries[0].Kind)
	assert.Equal(t, "GetUserDocument", entries[0].Identifier)
	assert.Equal(t, "GetUser", entries[0].BaseName())

	assert.Equal(t, KindFragment, entries[1].Kind)
	assert.Equal(t, "UserFieldsFragmentDoc", entries[1].Identifier)
	assert.Equal(t, "UserFields", entries[1].BaseName())

	assert.Equal(t, KindOperation, entries[2].Kind)
	assert.Equal(t, "UpdateUserDocument", entries[2].Identifier)
	assert.Equal(t, "UpdateUser", entries[2].BaseName())
}

func TestPartitionPreservesSourceOrder(t *testing.T) {
	// gqlparser separates operations from fragments; the partition restores
	// the interleaved source order.
	doc := parseQuery(t, "mixed.graphql", `
fragment a on User { id }
query b { user(id: "1") { id } }
fragment c on User { name }
`)

	entries, err := Partition(doc)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "AFragmentDoc", entries[0].Identifier)
	assert.Equal(t, "BDocument", entries[1].Identifier)
	assert.Equal(t, "CFragmentDoc", entries[2].Identifier)
}

func TestPartitionAnonymousOperation(t *testing.T) {
	doc := parseQuery(t, "anon.graphql", `
query named { user(id: "1") { id } }
{ user(id: "2") { id } }
`)

	entries, err := Partition(doc)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "NamedDocument", entries[0].Identifier)
	assert.Equal(t, "Unnamed1Document", entries[1].Identifier)
}

func TestPartitionDuplicateIdentifier(t *testing.T) {
	// getUser and get_user both resolve to GetUserDocument.
	doc := parseQuery(t, "dup.graphql", `
query getUser { user(id: "1") { id } }
query get_user { user(id: "2") { id } }
`)

	_, err := Partition(doc)
	require.Error(t, err)
	assert.True(t, IsDuplicateIdentifierError(err))
	assert.True(t, errors.Is(err, ErrDuplicateIdentifier))
	assert.Contains(t, err.Error(), "GetUserDocument")
}

func TestExportedName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"getUser", "GetUser"},
		{"GetUser", "GetUser"},
		{"get_user", "GetUser"},
		{"get-user", "GetUser"},
		{"userFields", "UserFields"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, exportedName(tt.in))
		})
	}
}

func TestDefinitionKindString(t *testing.T) {
	assert.Equal(t, "operation", KindOperation.String())
	assert.Equal(t, "fragment", KindFragment.String())
}
