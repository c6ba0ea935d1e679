package gen

import (
	"github.com/dave/jennifer/jen"
)

const gqlparserASTPkg = "github.com/vektah/gqlparser/v2/ast"

// buildMaskingFile emits the fragment-masking artifact: the unmask function
// family under the configured name, the masked-value constructor, and the
// readiness predicates, all delegating to the fragment runtime. In augmented
// mode only alias declarations are emitted; the wrapper bodies are left out
// because callers use the fragment package's implementation directly.
func buildMaskingFile(g *Generator, cfg *MaskingConfig) *jen.File {
	f := g.newFile("masking")
	if cfg.Augmented {
		f.Comment("Ref is the opaque masked-reference type. The implementation lives in")
		f.Comment("the fragment runtime; this module only augments it with local names.")
		f.Type().Id("Ref").Types(jen.Id("F").Any()).Op("=").Qual(fragmentPkg, "Ref").Index(jen.Id("F"))
		f.Line()
		f.Comment("Readiness predicates for incremental delivery.")
		f.Var().Id("IsFragmentReady").Op("=").Qual(fragmentPkg, "IsFragmentReady")
		f.Var().Id("IsFragmentReadyNode").Op("=").Qual(fragmentPkg, "IsFragmentReadyNode")
		return f
	}
	emitUnmaskFamily(f, cfg.UnmaskFunctionName, fragmentPkg, "Unmask")
	emitMakeFragmentData(f, fragmentPkg, "MakeFragmentData")
	emitReadiness(f, fragmentPkg, "IsFragmentReady", "IsFragmentReadyNode")
	return f
}

// emitUnmaskFamily writes the four unmask signatures, resolved by the
// nullability and list-ness of the masked input. Each body delegates to the
// implementation package; unmasking itself carries no runtime cost.
func emitUnmaskFamily(f *jen.File, name, implPkg, implBase string) {
	docParam := func() jen.Code {
		return jen.Id("doc").Qual(runtimePkg, "FragmentDocument").Index(jen.Id("F"))
	}
	refType := func() *jen.Statement {
		return jen.Qual(fragmentPkg, "Ref").Index(jen.Id("F"))
	}

	f.Commentf("%s returns the fragment data held by ref.", name)
	f.Func().Id(name).Types(jen.Id("F").Any()).
		Params(docParam(), jen.Id("ref").Add(refType())).
		Id("F").
		Block(jen.Return(jen.Qual(implPkg, implBase).Call(jen.Id("doc"), jen.Id("ref"))))

	f.Commentf("%sPtr is the nullable form of %s.", name, name)
	f.Func().Id(name+"Ptr").Types(jen.Id("F").Any()).
		Params(docParam(), jen.Id("ref").Op("*").Add(refType())).
		Op("*").Id("F").
		Block(jen.Return(jen.Qual(implPkg, implBase+"Ptr").Call(jen.Id("doc"), jen.Id("ref"))))

	f.Commentf("%sSlice is the list form of %s.", name, name)
	f.Func().Id(name+"Slice").Types(jen.Id("F").Any()).
		Params(docParam(), jen.Id("refs").Index().Add(refType())).
		Index().Id("F").
		Block(jen.Return(jen.Qual(implPkg, implBase+"Slice").Call(jen.Id("doc"), jen.Id("refs"))))

	f.Commentf("%sPtrSlice is the nullable-list form of %s.", name, name)
	f.Func().Id(name+"PtrSlice").Types(jen.Id("F").Any()).
		Params(docParam(), jen.Id("refs").Op("*").Index().Add(refType())).
		Op("*").Index().Id("F").
		Block(jen.Return(jen.Qual(implPkg, implBase+"PtrSlice").Call(jen.Id("doc"), jen.Id("refs"))))
}

// emitMakeFragmentData writes the masked-value constructor used by test
// fixtures and mock data builders.
func emitMakeFragmentData(f *jen.File, implPkg, implName string) {
	f.Comment("MakeFragmentData reinterprets already-typed data as a masked reference")
	f.Comment("for the given fragment document.")
	f.Func().Id("MakeFragmentData").Types(jen.Id("F").Any()).
		Params(
			jen.Id("data").Id("F"),
			jen.Id("doc").Qual(runtimePkg, "FragmentDocument").Index(jen.Id("F")),
		).
		Qual(fragmentPkg, "Ref").Index(jen.Id("F")).
		Block(jen.Return(jen.Qual(implPkg, implName).Call(jen.Id("data"), jen.Id("doc"))))
}

// emitReadiness writes the two readiness predicates: one reading the
// fragment name from document metadata, one from a parsed document.
func emitReadiness(f *jen.File, implPkg, implReady, implReadyNode string) {
	f.Comment("IsFragmentReady reports whether every field the parent document defers")
	f.Comment("for the given fragment has arrived on data.")
	f.Func().Id("IsFragmentReady").
		Params(
			jen.Id("parent").Qual(runtimePkg, "AnyDocument"),
			jen.Id("frag").Qual(runtimePkg, "AnyDocument"),
			jen.Id("data").Any(),
		).
		Bool().
		Block(jen.Return(jen.Qual(implPkg, implReady).Call(jen.Id("parent"), jen.Id("frag"), jen.Id("data"))))

	f.Comment("IsFragmentReadyNode is the parsed-document variant of IsFragmentReady.")
	f.Func().Id("IsFragmentReadyNode").
		Params(
			jen.Id("parent").Qual(runtimePkg, "AnyDocument"),
			jen.Id("doc").Op("*").Qual(gqlparserASTPkg, "QueryDocument"),
			jen.Id("data").Any(),
		).
		Bool().
		Block(jen.Return(jen.Qual(implPkg, implReadyNode).Call(jen.Id("parent"), jen.Id("doc"), jen.Id("data"))))
}
