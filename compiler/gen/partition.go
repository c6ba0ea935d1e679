package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefinitionKind tags an executable definition as an operation or fragment.
type DefinitionKind int

// Definition kinds.
const (
	KindOperation DefinitionKind = iota
	KindFragment
)

// String returns the kind name.
func (k DefinitionKind) String() string {
	if k == KindFragment {
		return "fragment"
	}
	return "operation"
}

// Identifier suffixes shared by every artifact that references a definition.
const (
	operationSuffix = "Document"
	fragmentSuffix  = "FragmentDoc"
)

// Entry pairs one executable definition with its generated identifier. The
// identifier is the naming contract every artifact of a run agrees on.
type Entry struct {
	Kind       DefinitionKind
	Name       string // declared name, or a synthesized one for anonymous operations
	Identifier string // e.g. GetUserDocument, UserFieldsFragmentDoc
	Operation  *ast.OperationDefinition
	Fragment   *ast.FragmentDefinition
}

// BaseName returns the identifier without its kind suffix. It prefixes the
// names of the Go types generated for the definition.
func (e Entry) BaseName() string {
	switch e.Kind {
	case KindFragment:
		return strings.TrimSuffix(e.Identifier, fragmentSuffix)
	default:
		return strings.TrimSuffix(e.Identifier, operationSuffix)
	}
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// Partition splits the document set into an ordered list of (definition,
// generated identifier) pairs, one per operation/fragment, in input order.
// Two definitions resolving to the same identifier are a caller-visible
// error rather than silently overwritten. The output ordering is reused
// verbatim by every artifact pass.
func Partition(doc *ast.QueryDocument) ([]Entry, error) {
	entries := make([]Entry, 0, len(doc.Operations)+len(doc.Fragments))
	for _, op := range doc.Operations {
		entries = append(entries, Entry{Kind: KindOperation, Name: op.Name, Operation: op})
	}
	for _, frag := range doc.Fragments {
		entries = append(entries, Entry{Kind: KindFragment, Name: frag.Name, Fragment: frag})
	}
	// Restore source order: gqlparser collects operations and fragments into
	// separate lists. Entries without positions keep their relative order.
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].position(), entries[j].position()
		if pi == nil || pj == nil {
			return false
		}
		if pi.Src != nil && pj.Src != nil && pi.Src.Name != pj.Src.Name {
			return pi.Src.Name < pj.Src.Name
		}
		return pi.Start < pj.Start
	})

	seen := make(map[string]string, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			// Anonymous operations get a deterministic positional name.
			e.Name = inflect.Camelize(fmt.Sprintf("unnamed_%d", i))
		}
		suffix := operationSuffix
		if e.Kind == KindFragment {
			suffix = fragmentSuffix
		}
		e.Identifier = exportedName(e.Name) + suffix
		label := fmt.Sprintf("%s %q", e.Kind, e.Name)
		if first, ok := seen[e.Identifier]; ok {
			return nil, NewDuplicateIdentifierError(e.Identifier, first, label)
		}
		seen[e.Identifier] = label
	}
	return entries, nil
}

func (e Entry) position() *ast.Position {
	if e.Operation != nil {
		return e.Operation.Position
	}
	if e.Fragment != nil {
		return e.Fragment.Position
	}
	return nil
}

// exportedName derives a Go-exported identifier from a declared name.
// Underscored or dashed names are camelized; plain names only get their
// first letter raised so that declared casing survives.
func exportedName(name string) string {
	if strings.ContainsAny(name, "_-") {
		return inflect.Camelize(strings.ReplaceAll(name, "-", "_"))
	}
	return titleCaser.String(name)
}
