package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

// VisitResult is the metadata record returned by the per-operation hook. The
// generator merges it into the emitted document value.
type VisitResult struct {
	// Hash is the operation's digest, set when persisted-document
	// manifesting is enabled.
	Hash string

	// SourceOverride replaces the document's canonical source when set
	// (persisted replace mode).
	SourceOverride string

	// Extra is attached verbatim to the document metadata.
	Extra map[string]string
}

// DocumentContext carries the shared, read-only inputs a DocumentGenerator
// needs for one run.
type DocumentContext struct {
	// Schema is the parsed schema the documents execute against.
	Schema *ast.Schema

	// Fragments indexes every fragment definition of the run by name.
	Fragments map[string]*ast.FragmentDefinition

	// SchemaTypes is the import path generated code references for enums,
	// input objects and custom scalars.
	SchemaTypes string

	// Masking controls whether fragment spreads produce opaque masked
	// references or are inlined into the selecting shape.
	Masking bool

	// OnDocumentVisited is invoked by the generator exactly once per
	// executable document. The returned record is merged into that
	// document's emitted metadata.
	OnDocumentVisited func(Entry) (*VisitResult, error)
}

// SymbolKind distinguishes the declaration forms a definition exports.
type SymbolKind int

// Symbol kinds.
const (
	SymbolVar SymbolKind = iota
	SymbolType
)

// Symbol names one exported identifier emitted for a definition. The index
// artifact re-exports symbols by kind: var symbols as value bindings, type
// symbols as aliases.
type Symbol struct {
	Name string
	Kind SymbolKind
}

// DocumentGenerator translates one executable definition into Go
// declarations written to f, returning the exported symbols it produced.
// Implementations must invoke ctx.OnDocumentVisited exactly once per call.
type DocumentGenerator interface {
	GenerateDocument(f *jen.File, ctx *DocumentContext, entry Entry) ([]Symbol, error)
}

// selectionGenerator is the built-in per-document type generator: it maps a
// definition's selection tree onto Go structs (nullable fields to pointers,
// lists to slices) and emits the document value.
type selectionGenerator struct{}

// NewDocumentGenerator returns the built-in selection-set generator.
func NewDocumentGenerator() DocumentGenerator {
	return selectionGenerator{}
}

// GenerateDocument implements DocumentGenerator.
func (g selectionGenerator) GenerateDocument(f *jen.File, ctx *DocumentContext, entry Entry) ([]Symbol, error) {
	if entry.Kind == KindFragment {
		return g.generateFragment(f, ctx, entry)
	}
	return g.generateOperation(f, ctx, entry)
}

func (selectionGenerator) generateOperation(f *jen.File, ctx *DocumentContext, entry Entry) ([]Symbol, error) {
	op := entry.Operation
	base := entry.BaseName()
	var symbols []Symbol

	varsType := jen.Struct()
	if len(op.VariableDefinitions) > 0 {
		fields := make([]jen.Code, 0, len(op.VariableDefinitions))
		for _, vd := range op.VariableDefinitions {
			typ, err := leafType(ctx, vd.Type)
			if err != nil {
				return nil, NewGenerationError(PhaseDefinitions, entry.Identifier, fmt.Sprintf("variable $%s", vd.Variable), err)
			}
			fields = append(fields, jen.Id(exportedName(vd.Variable)).Add(typ).Tag(map[string]string{"json": vd.Variable}))
		}
		varsName := base + "Variables"
		f.Commentf("%s holds the variable values of %s.", varsName, entry.Name)
		f.Type().Id(varsName).Struct(fields...)
		symbols = append(symbols, Symbol{Name: varsName, Kind: SymbolType})
		varsType = jen.Id(varsName)
	}

	root := rootType(ctx.Schema, op.Operation)
	if root == nil {
		return nil, NewGenerationError(PhaseDefinitions, entry.Identifier, fmt.Sprintf("schema does not define a %s type", op.Operation), nil)
	}
	resultName := base + "Result"
	resultFields, err := buildFields(f, ctx, resultName, root.Name, op.SelectionSet)
	if err != nil {
		return nil, NewGenerationError(PhaseDefinitions, entry.Identifier, "", err)
	}
	f.Commentf("%s is the result shape of %s.", resultName, entry.Name)
	f.Type().Id(resultName).Struct(resultFields...)
	symbols = append(symbols, Symbol{Name: resultName, Kind: SymbolType})

	visit, err := ctx.OnDocumentVisited(entry)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		visit = &VisitResult{}
	}
	source := Normalize(op, ctx.Fragments)
	if visit.SourceOverride != "" {
		source = visit.SourceOverride
	}
	meta := metaValue(visit.Hash, "", deferredFields(op.SelectionSet, ctx.Fragments), visit.Extra)
	f.Commentf("%s is the typed document for the %s %s.", entry.Identifier, entry.Name, op.Operation)
	f.Var().Id(entry.Identifier).Op("=").Qual(runtimePkg, "NewDocument").
		Index(varsType, jen.Id(resultName)).
		Call(jen.Lit(source), meta)
	symbols = append(symbols, Symbol{Name: entry.Identifier, Kind: SymbolVar})
	return symbols, nil
}

func (selectionGenerator) generateFragment(f *jen.File, ctx *DocumentContext, entry Entry) ([]Symbol, error) {
	frag := entry.Fragment
	shape := entry.BaseName()
	fields, err := buildFields(f, ctx, shape, frag.TypeCondition, frag.SelectionSet)
	if err != nil {
		return nil, NewGenerationError(PhaseDefinitions, entry.Identifier, "", err)
	}
	f.Commentf("%s is the result shape of fragment %s on %s.", shape, frag.Name, frag.TypeCondition)
	f.Type().Id(shape).Struct(fields...)

	visit, err := ctx.OnDocumentVisited(entry)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		visit = &VisitResult{}
	}
	source := NormalizeFragment(frag, ctx.Fragments)
	if visit.SourceOverride != "" {
		source = visit.SourceOverride
	}
	meta := metaValue(visit.Hash, frag.Name, nil, visit.Extra)
	f.Commentf("%s is the typed document for fragment %s.", entry.Identifier, frag.Name)
	f.Var().Id(entry.Identifier).Op("=").Qual(runtimePkg, "NewFragment").
		Index(jen.Id(shape)).
		Call(jen.Lit(source), meta)
	return []Symbol{
		{Name: shape, Kind: SymbolType},
		{Name: entry.Identifier, Kind: SymbolVar},
	}, nil
}

// buildFields maps a selection set onto Go struct fields, emitting nested
// shape structs to f as they are encountered. namePrefix seeds the names of
// nested structs so that every shape in one document stays unique.
func buildFields(f *jen.File, ctx *DocumentContext, namePrefix, parentType string, sel ast.SelectionSet) ([]jen.Code, error) {
	var fields []jen.Code
	for _, s := range sel {
		switch node := s.(type) {
		case *ast.Field:
			if node.Name == "__typename" {
				fields = append(fields, jen.Id("Typename").String().Tag(map[string]string{"json": "__typename"}))
				continue
			}
			parentDef := ctx.Schema.Types[parentType]
			if parentDef == nil {
				return nil, fmt.Errorf("unknown type %q", parentType)
			}
			fieldDef := parentDef.Fields.ForName(node.Name)
			if fieldDef == nil {
				return nil, fmt.Errorf("unknown field %q on type %q", node.Name, parentType)
			}
			goName := exportedName(node.Alias)
			var typ jen.Code
			if len(node.SelectionSet) > 0 {
				nested := namePrefix + goName
				nestedFields, err := buildFields(f, ctx, nested, namedType(fieldDef.Type), node.SelectionSet)
				if err != nil {
					return nil, err
				}
				f.Type().Id(nested).Struct(nestedFields...)
				typ = wrapType(fieldDef.Type, jen.Id(nested))
			} else {
				var err error
				typ, err = leafType(ctx, fieldDef.Type)
				if err != nil {
					return nil, fmt.Errorf("field %q on type %q: %w", node.Name, parentType, err)
				}
			}
			fields = append(fields, jen.Id(goName).Add(typ).Tag(map[string]string{"json": node.Alias}))
		case *ast.FragmentSpread:
			if ctx.Masking {
				shape := exportedName(node.Name)
				fields = append(fields, jen.Id(shape+"Fragment").
					Add(jen.Qual(fragmentPkg, "Ref").Index(jen.Id(shape))).
					Tag(map[string]string{"json": "-"}))
				continue
			}
			frag := ctx.Fragments[node.Name]
			if frag == nil {
				return nil, fmt.Errorf("unknown fragment %q", node.Name)
			}
			inlined, err := buildFields(f, ctx, namePrefix, frag.TypeCondition, frag.SelectionSet)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inlined...)
		case *ast.InlineFragment:
			parent := node.TypeCondition
			if parent == "" {
				parent = parentType
			}
			inlined, err := buildFields(f, ctx, namePrefix, parent, node.SelectionSet)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inlined...)
		}
	}
	return fields, nil
}

func rootType(schema *ast.Schema, op ast.Operation) *ast.Definition {
	switch op {
	case ast.Mutation:
		return schema.Mutation
	case ast.Subscription:
		return schema.Subscription
	default:
		return schema.Query
	}
}

// namedType unwraps list nesting down to the named type.
func namedType(t *ast.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}

// leafType maps a leaf (non-selected) GraphQL type to Go: built-in scalars
// to their Go counterparts, everything else qualified from the schema-types
// package. Nullability becomes a pointer, lists become slices.
func leafType(ctx *DocumentContext, t *ast.Type) (jen.Code, error) {
	base, err := namedBase(ctx, namedType(t))
	if err != nil {
		return nil, err
	}
	return wrapType(t, base), nil
}

func namedBase(ctx *DocumentContext, name string) (jen.Code, error) {
	switch name {
	case "String", "ID":
		return jen.String(), nil
	case "Int":
		return jen.Int(), nil
	case "Float":
		return jen.Float64(), nil
	case "Boolean":
		return jen.Bool(), nil
	}
	def := ctx.Schema.Types[name]
	if def == nil {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	switch def.Kind {
	case ast.Scalar, ast.Enum, ast.InputObject:
		return jen.Qual(ctx.SchemaTypes, name), nil
	default:
		return nil, fmt.Errorf("composite type %q requires a selection set", name)
	}
}

// wrapType applies a GraphQL type's list/nullability modifiers to a Go base
// type: lists become slices, nullable positions become pointers.
func wrapType(t *ast.Type, base jen.Code) jen.Code {
	var code *jen.Statement
	if t.Elem != nil {
		code = jen.Index().Add(wrapType(t.Elem, base))
	} else {
		code = jen.Add(base)
	}
	if !t.NonNull {
		return jen.Op("*").Add(code)
	}
	return code
}

// deferredFields collects, per fragment spread marked @defer anywhere in the
// selection tree, the fragment's top-level field names. The result becomes
// the document's deferred-field metadata.
func deferredFields(sel ast.SelectionSet, fragments map[string]*ast.FragmentDefinition) map[string][]string {
	out := make(map[string][]string)
	collectDeferred(sel, fragments, out, make(map[string]bool))
	if len(out) == 0 {
		return nil
	}
	return out
}

func collectDeferred(sel ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, out map[string][]string, seen map[string]bool) {
	for _, s := range sel {
		switch node := s.(type) {
		case *ast.Field:
			collectDeferred(node.SelectionSet, fragments, out, seen)
		case *ast.InlineFragment:
			collectDeferred(node.SelectionSet, fragments, out, seen)
		case *ast.FragmentSpread:
			frag := fragments[node.Name]
			if frag == nil {
				continue
			}
			if node.Directives.ForName("defer") != nil {
				if _, ok := out[node.Name]; !ok {
					out[node.Name] = topLevelFields(frag.SelectionSet)
				}
			}
			if !seen[node.Name] {
				seen[node.Name] = true
				collectDeferred(frag.SelectionSet, fragments, out, seen)
			}
		}
	}
}

func topLevelFields(sel ast.SelectionSet) []string {
	var names []string
	for _, s := range sel {
		if field, ok := s.(*ast.Field); ok {
			names = append(names, field.Alias)
		}
	}
	return names
}

// metaValue renders a gqlc.DocumentMeta literal with only the set fields.
func metaValue(hash, fragmentName string, deferred map[string][]string, extra map[string]string) jen.Code {
	dict := jen.Dict{}
	if hash != "" {
		dict[jen.Id("Hash")] = jen.Lit(hash)
	}
	if fragmentName != "" {
		dict[jen.Id("FragmentName")] = jen.Lit(fragmentName)
	}
	if len(deferred) > 0 {
		inner := jen.Dict{}
		for name, fields := range deferred {
			values := make([]jen.Code, 0, len(fields))
			for _, f := range fields {
				values = append(values, jen.Lit(f))
			}
			inner[jen.Lit(name)] = jen.Values(values...)
		}
		dict[jen.Id("DeferredFields")] = jen.Map(jen.String()).Index().String().Values(inner)
	}
	if len(extra) > 0 {
		inner := jen.Dict{}
		for k, v := range extra {
			inner[jen.Lit(k)] = jen.Lit(v)
		}
		dict[jen.Id("Extra")] = jen.Map(jen.String()).String().Values(inner)
	}
	return jen.Qual(runtimePkg, "DocumentMeta").Values(dict)
}
