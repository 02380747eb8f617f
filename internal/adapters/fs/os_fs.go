package fs

import (
	iofs "io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// AferoFileSystem backs FileSystem with any afero filesystem: the real OS
// filesystem for the CLI, an in-memory one in tests.
type AferoFileSystem struct {
	fs afero.Fs
}

func New(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fs}
}

func NewOSFileSystem() *AferoFileSystem {
	return New(afero.NewOsFs())
}

func NewMemFileSystem() *AferoFileSystem {
	return New(afero.NewMemMapFs())
}

func (fs *AferoFileSystem) Afero() afero.Fs {
	return fs.fs
}

func (fs *AferoFileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(fs.fs, path)
}

func (fs *AferoFileSystem) ReadDir(path string) ([]iofs.FileInfo, error) {
	return afero.ReadDir(fs.fs, path)
}

func (fs *AferoFileSystem) FileExists(path string) bool {
	info, err := fs.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (fs *AferoFileSystem) IsDir(path string) bool {
	ok, err := afero.IsDir(fs.fs, path)
	return err == nil && ok
}

func (fs *AferoFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	return afero.WriteFile(fs.fs, path, data, perm)
}

func (fs *AferoFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	return fs.fs.MkdirAll(path, perm)
}

func (fs *AferoFileSystem) Remove(path string) error {
	return fs.fs.Remove(path)
}

func (fs *AferoFileSystem) RemoveAll(path string) error {
	return fs.fs.RemoveAll(path)
}

func (fs *AferoFileSystem) Walk(root string, fn filepath.WalkFunc) error {
	return afero.Walk(fs.fs, root, fn)
}
