// Package load resolves a project's schema and executable documents from
// disk: .graphql/.gql files are parsed whole, and Go sources are scanned for
// documents embedded through the project's tag function.
package load

import (
	"fmt"
	goast "go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// Schema loads and links the schema files matched by the given glob
// patterns.
func Schema(patterns ...string) (*ast.Schema, error) {
	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}
	sources := make([]*ast.Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema %q: %w", path, err)
		}
		sources = append(sources, &ast.Source{Name: path, Input: string(data)})
	}
	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return schema, nil
}

// Documents collects every executable document matched by the given glob
// patterns into one merged document set. GraphQL files contribute their
// whole content; Go files contribute the string literals passed to the
// named tag function. Definition order follows file order, so the merged
// set partitions deterministically.
func Documents(tagName string, patterns ...string) (*ast.QueryDocument, error) {
	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}
	merged := &ast.QueryDocument{}
	for _, path := range paths {
		var sources []*ast.Source
		switch strings.ToLower(filepath.Ext(path)) {
		case ".graphql", ".gql":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read documents %q: %w", path, err)
			}
			sources = []*ast.Source{{Name: path, Input: string(data)}}
		case ".go":
			sources, err = goSources(path, tagName)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported document file %q", path)
		}
		for _, src := range sources {
			doc, err := parser.ParseQuery(src)
			if err != nil {
				return nil, fmt.Errorf("parse documents %q: %w", src.Name, err)
			}
			merged.Operations = append(merged.Operations, doc.Operations...)
			merged.Fragments = append(merged.Fragments, doc.Fragments...)
		}
	}
	return merged, nil
}

// Validate checks the merged document set against the schema. Any
// validation failure is fatal for the run.
func Validate(schema *ast.Schema, doc *ast.QueryDocument) error {
	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return fmt.Errorf("validate documents: %w", errs)
	}
	return nil
}

// expand resolves glob patterns to file paths. A pattern matching nothing is
// an error: silently generating from a partial document set hides typos.
func expand(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// goSources extracts embedded documents from one Go file. Two forms are
// recognized: the first string literal argument of every call to the tag
// function, whether the call is bare (gql(...)) or package-qualified
// (pkg.gql(...)), and any string literal whose first line is a "# gqlc"
// marker comment. Each extracted document keeps its file:line origin so
// later diagnostics point at the Go source.
func goSources(path, tagName string) ([]*ast.Source, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("parse go source %q: %w", path, err)
	}

	tagged := make(map[token.Pos]bool)
	var lits []*goast.BasicLit
	goast.Inspect(file, func(n goast.Node) bool {
		switch node := n.(type) {
		case *goast.CallExpr:
			if len(node.Args) == 0 || calleeName(node.Fun) != tagName {
				return true
			}
			if lit, ok := node.Args[0].(*goast.BasicLit); ok && lit.Kind == token.STRING {
				tagged[lit.Pos()] = true
			}
		case *goast.BasicLit:
			if node.Kind == token.STRING {
				lits = append(lits, node)
			}
		}
		return true
	})

	var sources []*ast.Source
	for _, lit := range lits {
		text, err := strconv.Unquote(lit.Value)
		if err != nil {
			if tagged[lit.Pos()] {
				return nil, fmt.Errorf("parse go source %q: %w", path, err)
			}
			continue
		}
		if !tagged[lit.Pos()] && !hasDocumentMarker(text) {
			continue
		}
		pos := fset.Position(lit.Pos())
		sources = append(sources, &ast.Source{
			Name:  fmt.Sprintf("%s:%d", path, pos.Line),
			Input: text,
		})
	}
	return sources, nil
}

// hasDocumentMarker reports whether a string literal opts into extraction by
// starting with a "# gqlc" comment line.
func hasDocumentMarker(text string) bool {
	first, _, _ := strings.Cut(strings.TrimLeft(text, " \t\r\n"), "\n")
	return strings.TrimSpace(first) == "# gqlc"
}

func calleeName(fun goast.Expr) string {
	switch f := fun.(type) {
	case *goast.Ident:
		return f.Name
	case *goast.SelectorExpr:
		return f.Sel.Name
	}
	return ""
}
