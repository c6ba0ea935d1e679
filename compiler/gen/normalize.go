package gen

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Normalize renders an operation to its canonical text: the operation
// followed by every fragment it references, transitively and in
// first-reference order, printed with a fixed formatting rule. The result is
// independent of the originating file, surrounding whitespace and trivial
// formatting differences, so semantically equal operations from different
// sources normalize to byte-identical text.
func Normalize(op *ast.OperationDefinition, fragments map[string]*ast.FragmentDefinition) string {
	doc := &ast.QueryDocument{Operations: ast.OperationList{op}}
	for _, name := range referencedFragments(op.SelectionSet, fragments, nil) {
		if frag := fragments[name]; frag != nil {
			doc.Fragments = append(doc.Fragments, frag)
		}
	}
	return formatDocument(doc)
}

// NormalizeFragment renders a fragment definition to its canonical text,
// followed by any fragments it references itself.
func NormalizeFragment(frag *ast.FragmentDefinition, fragments map[string]*ast.FragmentDefinition) string {
	doc := &ast.QueryDocument{Fragments: ast.FragmentDefinitionList{frag}}
	for _, name := range referencedFragments(frag.SelectionSet, fragments, map[string]bool{frag.Name: true}) {
		if ref := fragments[name]; ref != nil {
			doc.Fragments = append(doc.Fragments, ref)
		}
	}
	return formatDocument(doc)
}

func formatDocument(doc *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return strings.TrimSpace(buf.String())
}

// referencedFragments collects the fragment names spread within sel in
// encounter order, deduplicated, recursing into the referenced fragments'
// own selections.
func referencedFragments(sel ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, seen map[string]bool) []string {
	if seen == nil {
		seen = make(map[string]bool)
	}
	var names []string
	for _, s := range sel {
		switch node := s.(type) {
		case *ast.Field:
			names = append(names, referencedFragments(node.SelectionSet, fragments, seen)...)
		case *ast.InlineFragment:
			names = append(names, referencedFragments(node.SelectionSet, fragments, seen)...)
		case *ast.FragmentSpread:
			if seen[node.Name] {
				continue
			}
			seen[node.Name] = true
			names = append(names, node.Name)
			if frag := fragments[node.Name]; frag != nil {
				names = append(names, referencedFragments(frag.SelectionSet, fragments, seen)...)
			}
		}
	}
	return names
}

// algorithms maps a digest algorithm name to its constructor. sha1 is the
// default used for content addressing; callers may request any other listed
// algorithm by name.
var algorithms = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"md5":    md5.New,
}

// Hash digests text under the named algorithm and returns the hex-encoded
// digest. An unrecognized name fails with an AlgorithmError. Hash has no
// side effects and is safe for concurrent use.
func Hash(text, algorithm string) (string, error) {
	newHash, ok := algorithms[strings.ToLower(algorithm)]
	if !ok {
		return "", NewAlgorithmError(algorithm)
	}
	h := newHash()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}
