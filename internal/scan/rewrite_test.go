package scan

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// testResolver resolves specifiers listed in targets; an empty target marks
// a module without script output. Anything else is left external.
func testResolver(targets map[string]string) func(string) (string, bool) {
	return func(spec string) (string, bool) {
		if id, ok := targets[spec]; ok {
			return id, id != ""
		}
		return spec, true
	}
}

// moduleStatements lists the import and export statements left in a script.
func moduleStatements(t *testing.T, source []byte) []string {
	t.Helper()
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	var found []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "import_statement" || n.Type() == "export_statement" {
			found = append(found, n.Content(source))
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return found
}

func TestRewrite(t *testing.T) {
	targets := map[string]string{
		"./heading":   "src/heading.js",
		"./util.js":   "src/util.js",
		"./dep":       "src/dep.js",
		"./button":    "src/button.js",
		"./all":       "src/all.js",
		"./ns":        "src/ns.js",
		"./lazy":      "src/lazy.js",
		"./a.css":     "",
		"./style.css": "",
	}

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "default and named imports",
			source: "import Heading from './heading';\nimport { a, b as c } from \"./util.js\";\nHeading(a, c);\n",
			want: "exports.__esModule = true;\n" +
				`const __pagepack_import_0 = require("src/heading.js"); const Heading = __pagepack.interop(__pagepack_import_0).default;` + "\n" +
				`const __pagepack_import_1 = require("src/util.js"); const a = __pagepack_import_1.a; const c = __pagepack_import_1.b;` + "\n" +
				"Heading(a, c);\n",
		},
		{
			name:   "side effect and external imports",
			source: "import './style.css';\nimport React from 'react';\n",
			want: "exports.__esModule = true;\n" +
				"({});\n" +
				`const __pagepack_import_0 = require("react"); const React = __pagepack.interop(__pagepack_import_0).default;` + "\n",
		},
		{
			name:   "namespace import",
			source: "import * as util from './util.js';\nutil.run();\n",
			want: "exports.__esModule = true;\n" +
				`const __pagepack_import_0 = require("src/util.js"); const util = __pagepack_import_0;` + "\n" +
				"util.run();\n",
		},
		{
			name: "exported declarations",
			source: "export const x = 1, { y, z: w } = obj;\n" +
				"export function f() { return require('./dep'); }\n" +
				"export default f;\n",
			want: "exports.__esModule = true;\n" +
				"const x = 1, { y, z: w } = obj;\n" +
				"exports.x = x; exports.y = y; exports.w = w;\n" +
				`function f() { return require("src/dep.js"); }` + "\n" +
				"exports.f = f;\n" +
				"exports.default = f;\n",
		},
		{
			name:   "export list",
			source: "const a = 1, b = 2;\nexport { a, b as renamed };\n",
			want: "exports.__esModule = true;\n" +
				"const a = 1, b = 2;\n" +
				"exports.a = a; exports.renamed = b;\n",
		},
		{
			name: "re-exports",
			source: "export { default as Button } from './button';\n" +
				"export * from './all';\n" +
				"export * as ns from './ns';\n",
			want: "exports.__esModule = true;\n" +
				`const __pagepack_import_0 = require("src/button.js"); exports.Button = __pagepack.interop(__pagepack_import_0).default;` + "\n" +
				`const __pagepack_import_1 = require("src/all.js"); __pagepack.star(exports, __pagepack_import_1);` + "\n" +
				`const __pagepack_import_2 = require("src/ns.js"); exports.ns = __pagepack_import_2;` + "\n",
		},
		{
			name:   "dynamic import and require",
			source: "import('./lazy').then(run);\nconst css = require('./a.css');\n",
			want:   "__pagepack.load(\"src/lazy.js\").then(run);\nconst css = ({});\n",
		},
		{
			name:   "generated module untouched",
			source: "module.exports = \"kiwi.0123abcd.png\";\n",
			want:   "module.exports = \"kiwi.0123abcd.png\";\n",
		},
	}

	s := NewImportScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Rewrite(context.Background(), []byte(tt.source), testResolver(targets))
			if err != nil {
				t.Fatalf("Rewrite() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Rewrite() =\n%s\nwant\n%s", got, tt.want)
			}
			if left := moduleStatements(t, got); len(left) > 0 {
				t.Errorf("module syntax left after rewrite: %q", left)
			}
		})
	}
}

func TestRewriteDefaultDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "named class",
			source: "class Base {}\nexport default class Heading extends Base {\n  render() {}\n}\n",
			want:   []string{"class Heading extends Base", "exports.default ="},
		},
		{
			name:   "named function",
			source: "export default function greet(name) { return 'hi ' + name; }\n",
			want:   []string{"function greet(name)", "exports.default ="},
		},
		{
			name:   "anonymous function",
			source: "export default function () { return 1; }\n",
			want:   []string{"exports.default = function ()"},
		},
		{
			name:   "expression without semicolon",
			source: "export default { label: 'Hello world' }\n",
			want:   []string{"exports.default = { label: 'Hello world' };"},
		},
	}

	s := NewImportScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Rewrite(context.Background(), []byte(tt.source), testResolver(nil))
			if err != nil {
				t.Fatalf("Rewrite() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(got), want) {
					t.Errorf("Rewrite() = %q, missing %q", got, want)
				}
			}
			if !strings.HasPrefix(string(got), "exports.__esModule = true;\n") {
				t.Errorf("Rewrite() = %q, want __esModule marker first", got)
			}
			if left := moduleStatements(t, got); len(left) > 0 {
				t.Errorf("module syntax left after rewrite: %q", left)
			}
		})
	}
}
