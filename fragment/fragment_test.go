package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlc"
)

type userFields struct {
	Email string `json:"email"`
	Age   *int   `json:"age"`
}

var userFieldsDoc = gqlc.NewFragment[userFields](
	"fragment UserFields on User { email age }",
	gqlc.DocumentMeta{FragmentName: "UserFields"},
)

func TestUnmask(t *testing.T) {
	ref := MakeFragmentData(userFields{Email: "ada@example.com"}, userFieldsDoc)

	got := Unmask(userFieldsDoc, ref)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestUnmaskZeroValue(t *testing.T) {
	var ref Ref[userFields]

	got := Unmask(userFieldsDoc, ref)
	assert.Equal(t, userFields{}, got)
}

func TestUnmaskPtr(t *testing.T) {
	t.Run("nil reference", func(t *testing.T) {
		assert.Nil(t, UnmaskPtr(userFieldsDoc, nil))
	})

	t.Run("set reference", func(t *testing.T) {
		ref := MakeFragmentData(userFields{Email: "ada@example.com"}, userFieldsDoc)
		got := UnmaskPtr(userFieldsDoc, &ref)
		require.NotNil(t, got)
		assert.Equal(t, "ada@example.com", got.Email)
	})
}

func TestUnmaskSlice(t *testing.T) {
	t.Run("nil slice", func(t *testing.T) {
		assert.Nil(t, UnmaskSlice(userFieldsDoc, nil))
	})

	t.Run("empty slice stays empty", func(t *testing.T) {
		got := UnmaskSlice(userFieldsDoc, []Ref[userFields]{})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("order preserved", func(t *testing.T) {
		refs := []Ref[userFields]{
			MakeFragmentData(userFields{Email: "a@example.com"}, userFieldsDoc),
			MakeFragmentData(userFields{Email: "b@example.com"}, userFieldsDoc),
		}
		got := UnmaskSlice(userFieldsDoc, refs)
		require.Len(t, got, 2)
		assert.Equal(t, "a@example.com", got[0].Email)
		assert.Equal(t, "b@example.com", got[1].Email)
	})
}

func TestUnmaskPtrSlice(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		assert.Nil(t, UnmaskPtrSlice(userFieldsDoc, nil))
	})

	t.Run("set pointer", func(t *testing.T) {
		refs := []Ref[userFields]{
			MakeFragmentData(userFields{Email: "a@example.com"}, userFieldsDoc),
		}
		got := UnmaskPtrSlice(userFieldsDoc, &refs)
		require.NotNil(t, got)
		require.Len(t, *got, 1)
		assert.Equal(t, "a@example.com", (*got)[0].Email)
	})
}
