package core

import (
	"strings"
	"testing"
)

func TestAssembleScript(t *testing.T) {
	chunk := Chunk{Name: "a", Modules: []string{"src/util.js", "src/a.css", "src/a.js"}}
	modules := map[string]*ProcessedModule{
		"src/util.js": {ID: "src/util.js", Kind: KindScript, Content: []byte("exports.x = 1;")},
		"src/a.css":   {ID: "src/a.css", Kind: KindStyle, Content: []byte("a {}\n")},
		"src/a.js":    {ID: "src/a.js", Kind: KindScript, Content: []byte("const u = require(\"src/util.js\");\n")},
	}

	got := string(AssembleScript(chunk, modules, "src/a.js"))

	if !strings.HasPrefix(got, RegistryRuntime) {
		t.Fatalf("AssembleScript() does not start with the registry runtime:\n%s", got)
	}
	body := strings.TrimPrefix(got, RegistryRuntime)
	want := "__pagepack.define(\"src/util.js\", function (require, module, exports) {\nexports.x = 1;\n});\n" +
		"__pagepack.define(\"src/a.js\", function (require, module, exports) {\nconst u = require(\"src/util.js\");\n});\n" +
		"__pagepack.require(\"src/a.js\");\n"
	if body != want {
		t.Errorf("AssembleScript() body =\n%s\nwant\n%s", body, want)
	}
	if strings.Contains(got, "a {}") {
		t.Errorf("AssembleScript() included a stylesheet module")
	}
}

func TestAssembleScriptEmpty(t *testing.T) {
	chunk := Chunk{Name: "a~b", Modules: []string{"src/a.css"}, Shared: true}
	modules := map[string]*ProcessedModule{
		"src/a.css": {ID: "src/a.css", Kind: KindStyle, Content: []byte("a {}\n")},
	}

	if got := AssembleScript(chunk, modules, ""); got != nil {
		t.Errorf("AssembleScript() = %q, want nil for a chunk without scripts", got)
	}
	if got := string(AssembleStyle(chunk, modules)); got != "/* src/a.css */\na {}\n" {
		t.Errorf("AssembleStyle() = %q", got)
	}
}
