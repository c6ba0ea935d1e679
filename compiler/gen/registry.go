package gen

import (
	"github.com/dave/jennifer/jen"
)

// buildRegistryFile emits the document registry: a lookup table from
// canonical source text to the generated document value, so callers holding
// raw query text can recover its typed definition. Keys are the canonical
// form, matching what DocumentSource reports in embed mode.
func buildRegistryFile(g *Generator, entries []Entry) *jen.File {
	f := g.newFile("graph")

	dict := jen.Dict{}
	for _, e := range entries {
		var source string
		switch e.Kind {
		case KindOperation:
			source = Normalize(e.Operation, g.fragments)
		case KindFragment:
			source = NormalizeFragment(e.Fragment, g.fragments)
		}
		dict[jen.Lit(source)] = jen.Id(e.Identifier)
	}

	f.Comment("documents indexes every generated document by its canonical source text.")
	f.Var().Id("documents").Op("=").Map(jen.String()).Qual(runtimePkg, "AnyDocument").Values(dict)

	f.Comment("Lookup resolves canonical source text to its generated document.")
	f.Func().Id("Lookup").
		Params(jen.Id("source").String()).
		Params(jen.Qual(runtimePkg, "AnyDocument"), jen.Error()).
		Block(
			jen.If(
				jen.List(jen.Id("doc"), jen.Id("ok")).Op(":=").Id("documents").Index(jen.Id("source")),
				jen.Id("ok"),
			).Block(
				jen.Return(jen.Id("doc"), jen.Nil()),
			),
			jen.Return(jen.Nil(), jen.Qual(runtimePkg, "NewUnknownDocumentError").Call(jen.Id("source"))),
		)
	return f
}
