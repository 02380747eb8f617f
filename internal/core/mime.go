package core

import (
	"path/filepath"
	"strings"
)

type ModuleKind string

const (
	KindScript   ModuleKind = "script"
	KindStyle    ModuleKind = "style"
	KindResource ModuleKind = "resource"
)

var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css",
	".scss":  "text/x-scss",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".txt":   "text/plain; charset=utf-8",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".eot":   "application/vnd.ms-fontobject",
	".ico":   "image/x-icon",
}

func GetContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// KindForPath is the kind a module gets when no processing rule claims it.
// Anything that is neither a script nor a stylesheet is a resource.
func KindForPath(path string) ModuleKind {
	switch {
	case IsScriptSource(path):
		return KindScript
	case IsStyleSource(path):
		return KindStyle
	}
	return KindResource
}

func IsScriptSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return true
	}
	return false
}

func IsStyleSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css", ".scss":
		return true
	}
	return false
}
