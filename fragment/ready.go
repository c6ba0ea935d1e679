package fragment

import (
	"reflect"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlc"
)

// IsFragmentReady reports whether every field the parent document defers for
// the given fragment has arrived on data. It is the readiness predicate for
// incremental (@defer) delivery.
//
// A parent without deferred-field metadata has no deferred delivery, so the
// predicate always reports true. When metadata is present, a fragment must
// be listed in it with a non-empty field set to ever be deemed ready: a
// fragment absent from the metadata is reported as not ready, deliberately,
// even though that is conservative for fragments the parent never defers.
//
// data may be a decoded JSON object (map[string]any), a generated result
// struct (fields keyed by their json tag, nil pointers counting as absent),
// or a masked Ref wrapping either.
func IsFragmentReady(parent, frag gqlc.AnyDocument, data any) bool {
	return fieldsArrived(parent.DocumentMeta().DeferredFields, frag.DocumentMeta().FragmentName, data)
}

// IsFragmentReadyNode is the parsed-document variant of IsFragmentReady:
// the fragment's declared name is read from the first fragment definition
// inside doc instead of from document metadata. Field-presence semantics are
// identical to IsFragmentReady.
func IsFragmentReadyNode(parent gqlc.AnyDocument, doc *ast.QueryDocument, data any) bool {
	if doc == nil || len(doc.Fragments) == 0 {
		return false
	}
	return fieldsArrived(parent.DocumentMeta().DeferredFields, doc.Fragments[0].Name, data)
}

func fieldsArrived(deferred map[string][]string, fragment string, data any) bool {
	if len(deferred) == 0 {
		return true
	}
	required, ok := deferred[fragment]
	if !ok || len(required) == 0 {
		return false
	}
	keys, ok := ownKeys(data)
	if !ok {
		return false
	}
	for _, name := range required {
		if _, present := keys[name]; !present {
			return false
		}
	}
	return true
}

// ownKeys flattens a data value into the set of field names present on it.
// The second return is false when the value is absent (nil) or has no
// addressable fields.
func ownKeys(data any) (map[string]struct{}, bool) {
	if data == nil {
		return nil, false
	}
	if r, ok := data.(interface{ fragmentData() any }); ok {
		return ownKeys(r.fragmentData())
	}
	if m, ok := data.(map[string]any); ok {
		keys := make(map[string]struct{}, len(m))
		for k := range m {
			keys[k] = struct{}{}
		}
		return keys, true
	}
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	rt := rv.Type()
	keys := make(map[string]struct{}, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				name = n
			}
		}
		if name == "-" {
			continue
		}
		// Nil pointer fields have not been delivered yet.
		if fv := rv.Field(i); fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys, true
}
