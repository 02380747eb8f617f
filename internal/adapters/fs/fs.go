package fs

import (
	iofs "io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]iofs.FileInfo, error)
	FileExists(path string) bool
	IsDir(path string) bool
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
	Walk(root string, fn filepath.WalkFunc) error
	Afero() afero.Fs
}
