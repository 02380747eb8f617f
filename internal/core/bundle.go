package core

import (
	"bytes"
	"fmt"
	"strconv"
)

type EmittedFile struct {
	Filename string
	Content  []byte
}

// ProcessedModule is a module after its processing rule ran.
type ProcessedModule struct {
	ID      string
	Kind    ModuleKind
	Content []byte
	Emitted []EmittedFile
}

type Asset struct {
	Filename string
	Chunk    string
	Kind     ModuleKind
	Content  []byte
}

type ChunkFiles struct {
	Script string
	Style  string
}

// AssembleScript wraps every script module of the chunk in a registry
// definition after the runtime prelude. When root is set the chunk ends by
// requiring it, which runs the entry once all chunks before it have loaded.
func AssembleScript(chunk Chunk, modules map[string]*ProcessedModule, root string) []byte {
	var body bytes.Buffer
	for _, id := range chunk.Modules {
		mod := modules[id]
		if mod == nil || mod.Kind != KindScript {
			continue
		}
		writeDefine(&body, id, mod.Content)
	}
	if body.Len() == 0 && root == "" {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteString(RegistryRuntime)
	buf.Write(body.Bytes())
	if root != "" {
		buf.WriteString("__pagepack.require(" + strconv.Quote(root) + ");\n")
	}
	return buf.Bytes()
}

func AssembleStyle(chunk Chunk, modules map[string]*ProcessedModule) []byte {
	var buf bytes.Buffer
	for _, id := range chunk.Modules {
		mod := modules[id]
		if mod == nil || mod.Kind != KindStyle {
			continue
		}
		fmt.Fprintf(&buf, "/* %s */\n", id)
		buf.Write(mod.Content)
		if !bytes.HasSuffix(mod.Content, []byte("\n")) {
			buf.WriteByte('\n')
		}
	}
	if buf.Len() == 0 {
		return nil
	}
	return buf.Bytes()
}

type OutputNaming struct {
	ScriptPattern string
	StylePattern  string
	HashLength    int
}

// NameChunkAssets turns a chunk's assembled script and stylesheet into
// named assets. Entry chunks always get a script, shared chunks only when
// they carry script modules.
func NameChunkAssets(chunk Chunk, script, style []byte, naming OutputNaming) ([]Asset, ChunkFiles) {
	var assets []Asset
	var files ChunkFiles

	if script != nil || !chunk.Shared {
		if script == nil {
			script = []byte{}
		}
		files.Script = ExpandFilename(naming.ScriptPattern, chunk.Name, HashContent(script, naming.HashLength), ".js")
		assets = append(assets, Asset{Filename: files.Script, Chunk: chunk.Name, Kind: KindScript, Content: script})
	}

	if style != nil {
		files.Style = ExpandFilename(naming.StylePattern, chunk.Name, HashContent(style, naming.HashLength), ".css")
		assets = append(assets, Asset{Filename: files.Style, Chunk: chunk.Name, Kind: KindStyle, Content: style})
	}

	return assets, files
}
