package scan

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

type edit struct {
	start, end uint32
	text       string
}

type rewriter struct {
	source  []byte
	resolve func(spec string) (string, bool)
	edits   []edit
	esm     bool
	temps   int
}

// Rewrite turns a script module into the body of a registry factory called
// with require, module and exports. Static imports become require calls
// bound to local constants, exports become assignments on exports, and
// require() and import() calls with a literal specifier load the id resolve
// returns. resolve reports false when the target defines no script module,
// such as an extracted stylesheet, and the import then yields an empty
// object.
func (s *ImportScanner) Rewrite(ctx context.Context, source []byte, resolve func(spec string) (string, bool)) ([]byte, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	defer tree.Close()

	r := &rewriter{source: source, resolve: resolve}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_statement":
			r.importStatement(child)
		case "export_statement":
			r.exportStatement(child)
		default:
			r.calls(child)
		}
	}
	if r.esm {
		r.insert(0, "exports.__esModule = true;\n")
	}
	return r.apply(), nil
}

func (r *rewriter) importStatement(n *sitter.Node) {
	r.esm = true
	src := n.ChildByFieldName("source")
	if src == nil {
		return
	}
	load := r.load(unquote(r.text(src)))

	clause := firstNamed(n, "import_clause")
	if clause == nil {
		r.replace(n, load+";")
		return
	}

	tmp := r.temp()
	parts := []string{"const " + tmp + " = " + load + ";"}
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "identifier":
			parts = append(parts, "const "+r.text(c)+" = "+member(tmp, "default")+";")
		case "namespace_import":
			if c.NamedChildCount() > 0 {
				parts = append(parts, "const "+r.text(c.NamedChild(0))+" = "+tmp+";")
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := name
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias
				}
				parts = append(parts, "const "+r.text(local)+" = "+member(tmp, r.text(name))+";")
			}
		}
	}
	r.replace(n, strings.Join(parts, " "))
}

func (r *rewriter) exportStatement(n *sitter.Node) {
	r.esm = true
	decl := n.ChildByFieldName("declaration")
	value := n.ChildByFieldName("value")

	if src := n.ChildByFieldName("source"); src != nil {
		r.reexport(n, r.load(unquote(r.text(src))))
		return
	}

	if hasToken(n, "default") {
		if decl == nil && value == nil {
			decl = defaultDeclaration(n)
		}
		if decl != nil {
			if name := decl.ChildByFieldName("name"); name != nil {
				r.replaceRange(n.StartByte(), decl.StartByte(), "")
				r.calls(decl)
				r.insert(n.EndByte(), "\nexports.default = "+r.text(name)+";")
				return
			}
			value = decl
		}
		if value == nil {
			return
		}
		r.replaceRange(n.StartByte(), value.StartByte(), "exports.default = ")
		r.calls(value)
		if r.source[n.EndByte()-1] != ';' {
			r.insert(n.EndByte(), ";")
		}
		return
	}

	if decl != nil {
		r.replaceRange(n.StartByte(), decl.StartByte(), "")
		r.calls(decl)
		var assigns []string
		for _, name := range declaredNames(decl, r.source) {
			assigns = append(assigns, exportTarget(name)+" = "+name+";")
		}
		if len(assigns) > 0 {
			r.insert(n.EndByte(), "\n"+strings.Join(assigns, " "))
		}
		return
	}

	var assigns []string
	for _, s := range r.exportSpecifiers(n) {
		assigns = append(assigns, exportTarget(s.exported)+" = "+s.local+";")
	}
	r.replace(n, strings.Join(assigns, " "))
}

func (r *rewriter) reexport(n *sitter.Node, load string) {
	tmp := r.temp()
	parts := []string{"const " + tmp + " = " + load + ";"}

	switch {
	case firstNamed(n, "export_clause") != nil:
		for _, s := range r.exportSpecifiers(n) {
			parts = append(parts, exportTarget(s.exported)+" = "+member(tmp, s.local)+";")
		}
	case firstNamed(n, "namespace_export") != nil:
		ns := firstNamed(n, "namespace_export")
		if ns.NamedChildCount() > 0 {
			parts = append(parts, exportTarget(r.text(ns.NamedChild(0)))+" = "+tmp+";")
		}
	default:
		parts = append(parts, "__pagepack.star(exports, "+tmp+");")
	}
	r.replace(n, strings.Join(parts, " "))
}

type exportSpecifier struct {
	local    string
	exported string
}

func (r *rewriter) exportSpecifiers(n *sitter.Node) []exportSpecifier {
	clause := firstNamed(n, "export_clause")
	if clause == nil {
		return nil
	}
	var specs []exportSpecifier
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		if c.Type() != "export_specifier" {
			continue
		}
		name := c.ChildByFieldName("name")
		if name == nil {
			continue
		}
		spec := exportSpecifier{local: r.text(name), exported: r.text(name)}
		if alias := c.ChildByFieldName("alias"); alias != nil {
			spec.exported = r.text(alias)
		}
		specs = append(specs, spec)
	}
	return specs
}

// calls rewrites require() and import() calls anywhere below n.
func (r *rewriter) calls(n *sitter.Node) {
	if n.Type() == "call_expression" && r.call(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		r.calls(n.NamedChild(i))
	}
}

func (r *rewriter) call(n *sitter.Node) bool {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if fn == nil || args == nil || args.NamedChildCount() != 1 {
		return false
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return false
	}
	spec := unquote(r.text(arg))

	switch {
	case fn.Type() == "import":
		if id, ok := r.resolve(spec); ok {
			r.replace(n, "__pagepack.load("+strconv.Quote(id)+")")
		} else {
			r.replace(n, "Promise.resolve({})")
		}
		return true
	case fn.Type() == "identifier" && r.text(fn) == "require":
		r.replace(n, r.load(spec))
		return true
	}
	return false
}

func (r *rewriter) load(spec string) string {
	id, ok := r.resolve(spec)
	if !ok {
		return "({})"
	}
	return "require(" + strconv.Quote(id) + ")"
}

func (r *rewriter) temp() string {
	name := fmt.Sprintf("__pagepack_import_%d", r.temps)
	r.temps++
	return name
}

func (r *rewriter) text(n *sitter.Node) string {
	return n.Content(r.source)
}

func (r *rewriter) replace(n *sitter.Node, text string) {
	r.replaceRange(n.StartByte(), n.EndByte(), text)
}

func (r *rewriter) replaceRange(start, end uint32, text string) {
	r.edits = append(r.edits, edit{start: start, end: end, text: text})
}

func (r *rewriter) insert(at uint32, text string) {
	r.edits = append(r.edits, edit{start: at, end: at, text: text})
}

// apply splices the edits into the source. Edits never overlap: statement
// rewrites only touch the text around the nested nodes calls edits.
func (r *rewriter) apply() []byte {
	if len(r.edits) == 0 {
		return r.source
	}
	sort.SliceStable(r.edits, func(i, j int) bool {
		if r.edits[i].start != r.edits[j].start {
			return r.edits[i].start < r.edits[j].start
		}
		return r.edits[i].end < r.edits[j].end
	})

	var out bytes.Buffer
	var pos uint32
	for _, e := range r.edits {
		out.Write(r.source[pos:e.start])
		out.WriteString(e.text)
		pos = e.end
	}
	out.Write(r.source[pos:])
	return out.Bytes()
}

// member reads an imported binding. default goes through interop so
// CommonJS and generated asset modules import as their value.
func member(tmp, name string) string {
	switch {
	case name == "default":
		return "__pagepack.interop(" + tmp + ").default"
	case isQuoted(name):
		return tmp + "[" + name + "]"
	default:
		return tmp + "." + name
	}
}

func exportTarget(name string) string {
	if isQuoted(name) {
		return "exports[" + name + "]"
	}
	return "exports." + name
}

// declaredNames lists the bindings an exported declaration introduces.
func declaredNames(decl *sitter.Node, source []byte) []string {
	var names []string
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d.Type() == "variable_declarator" {
				patternNames(d.ChildByFieldName("name"), source, &names)
			}
		}
	default:
		if name := decl.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(source))
		}
	}
	return names
}

func patternNames(n *sitter.Node, source []byte, names *[]string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		*names = append(*names, n.Content(source))
	case "pair_pattern":
		patternNames(n.ChildByFieldName("value"), source, names)
	case "assignment_pattern", "object_assignment_pattern":
		patternNames(n.ChildByFieldName("left"), source, names)
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			patternNames(n.NamedChild(i), source, names)
		}
	}
}

// defaultDeclaration finds the declaration after export default. The grammar
// does not tag it with a field name.
func defaultDeclaration(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "decorator" && c.Type() != "comment" {
			return c
		}
	}
	return nil
}

func firstNamed(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func hasToken(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	return strings.Trim(s, "'\"`")
}

func isQuoted(s string) bool {
	return strings.HasPrefix(s, "\"") || strings.HasPrefix(s, "'")
}
