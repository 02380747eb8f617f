package usecase

import (
	"context"
	"io"

	"github.com/3-lines-studio/pagepack/internal/adapters/fs"
)

// ImportScanner lists the import specifiers a module source declares and
// rewrites script modules into registry factories.
type ImportScanner interface {
	Imports(ctx context.Context, path string, source []byte) ([]string, error)
	Rewrite(ctx context.Context, source []byte, resolve func(spec string) (string, bool)) ([]byte, error)
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)

	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Writer() io.Writer
	ErrWriter() io.Writer
}

type FileSystem = fs.FileSystem
