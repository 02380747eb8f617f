// Package scan extracts import specifiers from script and stylesheet
// sources using tree-sitter, and rewrites script modules for the bundle's
// module registry.
package scan

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/3-lines-studio/pagepack/internal/core"
)

type ImportScanner struct{}

func NewImportScanner() *ImportScanner {
	return &ImportScanner{}
}

// Imports returns the specifiers a module imports, in source order without
// duplicates. Files that are neither scripts nor stylesheets have none.
func (s *ImportScanner) Imports(ctx context.Context, path string, source []byte) ([]string, error) {
	var lang *sitter.Language
	var walk func(*sitter.Node, []byte, *collector)

	switch {
	case core.IsScriptSource(path):
		lang = javascript.GetLanguage()
		walk = walkScript
	case core.IsStyleSource(path):
		lang = css.GetLanguage()
		walk = walkStyle
	default:
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	c := &collector{seen: make(map[string]bool)}
	walk(tree.RootNode(), source, c)
	return c.imports, nil
}

type collector struct {
	imports []string
	seen    map[string]bool
}

func (c *collector) add(spec string) {
	spec = unquote(spec)
	if spec == "" || c.seen[spec] {
		return
	}
	c.seen[spec] = true
	c.imports = append(c.imports, spec)
}

func walkScript(node *sitter.Node, source []byte, c *collector) {
	switch node.Type() {
	case "import_statement", "export_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			c.add(src.Content(source))
		}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && (fn.Content(source) == "require" || fn.Type() == "import") {
			if args := node.ChildByFieldName("arguments"); args != nil {
				for i := 0; i < int(args.NamedChildCount()); i++ {
					arg := args.NamedChild(i)
					if arg.Type() == "string" {
						c.add(arg.Content(source))
						break
					}
				}
			}
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkScript(node.NamedChild(i), source, c)
	}
}

func walkStyle(node *sitter.Node, source []byte, c *collector) {
	if node.Type() == "import_statement" {
		collectStyleImport(node, source, c)
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkStyle(node.NamedChild(i), source, c)
	}
}

// collectStyleImport takes the first string or url() argument of an
// @import rule.
func collectStyleImport(node *sitter.Node, source []byte, c *collector) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "string_value":
			c.add(child.Content(source))
			return
		case "call_expression":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				args := child.NamedChild(j)
				if args.Type() != "arguments" {
					continue
				}
				for k := 0; k < int(args.NamedChildCount()); k++ {
					arg := args.NamedChild(k)
					if arg.Type() == "string_value" || arg.Type() == "plain_value" {
						c.add(arg.Content(source))
						return
					}
				}
			}
		}
	}
}
