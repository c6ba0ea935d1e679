package gen

import (
	"path"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"
)

// indexPackage derives the index artifact's package name from the target
// directory, so `import ".../client"` exposes the whole generated surface.
func indexPackage(target string) string {
	return path.Base(strings.TrimRight(strings.ReplaceAll(target, "\\", "/"), "/"))
}

// buildIndexFile emits the re-export index at the root of the target
// directory. Symbols come from the definitions pass, so the index always
// matches what the configured generator actually produced, including custom
// generators. Masking wrappers are restated under the index package in
// wrapper mode; augmented mode needs no restatement because the masking
// artifact already binds the fragment runtime directly.
func buildIndexFile(g *Generator, symbols []Symbol) *jen.File {
	f := g.newFile(indexPackage(g.cfg.Target))
	graphPath := path.Join(g.cfg.Package, "graph")

	sorted := make([]Symbol, len(symbols))
	copy(sorted, symbols)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, s := range sorted {
		switch s.Kind {
		case SymbolType:
			f.Type().Id(s.Name).Op("=").Qual(graphPath, s.Name)
		case SymbolVar:
			f.Var().Id(s.Name).Op("=").Qual(graphPath, s.Name)
		}
	}
	f.Var().Id("Lookup").Op("=").Qual(graphPath, "Lookup")

	if g.cfg.Masking != nil {
		maskingPath := path.Join(g.cfg.Package, "masking")
		f.Line()
		if g.cfg.Masking.Augmented {
			f.Type().Id("Ref").Types(jen.Id("F").Any()).Op("=").Qual(maskingPath, "Ref").Index(jen.Id("F"))
			f.Var().Id("IsFragmentReady").Op("=").Qual(maskingPath, "IsFragmentReady")
			f.Var().Id("IsFragmentReadyNode").Op("=").Qual(maskingPath, "IsFragmentReadyNode")
		} else {
			name := g.cfg.Masking.UnmaskFunctionName
			emitUnmaskFamily(f, name, maskingPath, name)
			emitMakeFragmentData(f, maskingPath, "MakeFragmentData")
			emitReadiness(f, maskingPath, "IsFragmentReady", "IsFragmentReadyNode")
		}
	}
	return f
}
