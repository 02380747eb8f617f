package core

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ModuleID is the slash-separated path of file relative to root.
func ModuleID(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", fmt.Errorf("%s is outside of %s", file, root)
	}
	return rel, nil
}

func IsRelativeImport(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// ImportCandidates lists the module ids probed for a relative import, in order.
func ImportCandidates(importerID, spec string, extensions []string) []string {
	base := path.Join(path.Dir(importerID), spec)
	candidates := []string{base}
	if path.Ext(spec) == "" {
		for _, ext := range extensions {
			candidates = append(candidates, base+ext)
		}
		for _, ext := range extensions {
			candidates = append(candidates, base+"/index"+ext)
		}
	}
	return candidates
}

func PublicURL(publicPath, filename string) string {
	if publicPath == "" {
		return filename
	}
	if !strings.HasSuffix(publicPath, "/") {
		publicPath += "/"
	}
	return publicPath + filename
}

func ValidateOutputFilename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidFilename)
	}

	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q must be relative", ErrInvalidFilename, name)
	}

	if strings.Contains(name, "?") || strings.Contains(name, "#") {
		return fmt.Errorf("%w: %q cannot contain query or fragment", ErrInvalidFilename, name)
	}

	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q cannot contain parent directory references", ErrInvalidFilename, name)
		}
	}

	return nil
}
