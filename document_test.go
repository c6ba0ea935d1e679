package gqlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type getUserVariables struct {
	ID string `json:"id"`
}

type getUserResult struct {
	Name string `json:"name"`
}

type userFields struct {
	Email string `json:"email"`
}

func TestNewDocument(t *testing.T) {
	meta := DocumentMeta{
		Hash:           "abc123",
		DeferredFields: map[string][]string{"UserFields": {"email"}},
		Extra:          map[string]string{"hash": "abc123"},
	}
	doc := NewDocument[getUserVariables, getUserResult]("query GetUser { user { name } }", meta)

	assert.Equal(t, "query GetUser { user { name } }", doc.DocumentSource())
	assert.Equal(t, meta, doc.DocumentMeta())
}

func TestNewFragment(t *testing.T) {
	doc := NewFragment[userFields]("fragment UserFields on User { email }", DocumentMeta{FragmentName: "UserFields"})

	assert.Equal(t, "fragment UserFields on User { email }", doc.DocumentSource())
	assert.Equal(t, "UserFields", doc.DocumentMeta().FragmentName)
}

func TestAnyDocument(t *testing.T) {
	var docs []AnyDocument
	docs = append(docs,
		NewDocument[getUserVariables, getUserResult]("query GetUser { user { name } }", DocumentMeta{}),
		NewFragment[userFields]("fragment UserFields on User { email }", DocumentMeta{FragmentName: "UserFields"}),
	)
	require.Len(t, docs, 2)
	assert.Equal(t, "query GetUser { user { name } }", docs[0].DocumentSource())
	assert.Equal(t, "UserFields", docs[1].DocumentMeta().FragmentName)
}
