package core

import (
	"path"
	"sort"
	"strings"
)

const (
	PlaceholderName        = "[name]"
	PlaceholderContentHash = "[contenthash]"
	PlaceholderExt         = "[ext]"

	SharedChunkSeparator = "~"
)

// ExpandFilename fills an output filename pattern. ext includes the leading dot.
func ExpandFilename(pattern, name, hash, ext string) string {
	out := strings.ReplaceAll(pattern, PlaceholderName, name)
	out = strings.ReplaceAll(out, PlaceholderContentHash, hash)
	out = strings.ReplaceAll(out, PlaceholderExt, ext)
	return out
}

func PatternUsesHash(pattern string) bool {
	return strings.Contains(pattern, PlaceholderContentHash)
}

// SharedChunkName names a shared chunk after the entries that reach it.
func SharedChunkName(entries []string) string {
	sorted := append([]string(nil), entries...)
	sort.Strings(sorted)
	return strings.Join(sorted, SharedChunkSeparator)
}

// ResourceName is the [name] of an emitted resource file: the module's
// base name without extension.
func ResourceName(moduleID string) string {
	base := path.Base(moduleID)
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "asset"
	}
	return name
}
