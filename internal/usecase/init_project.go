package usecase

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/3-lines-studio/pagepack/internal/templates"
)

type InitInput struct {
	ProjectDir string
}

type InitOutput struct {
	Success bool
	Error   error
	Files   []string
}

type InitService struct {
	fs  FileSystem
	cli CLIOutput
}

func NewInitService(fs FileSystem, cli CLIOutput) *InitService {
	return &InitService{
		fs:  fs,
		cli: cli,
	}
}

// InitProject writes the starter site into an empty or missing directory.
func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("pagepack init")

	if s.fs.IsDir(input.ProjectDir) {
		entries, err := s.fs.ReadDir(input.ProjectDir)
		if err != nil {
			return InitOutput{Error: fmt.Errorf("failed to read directory: %w", err)}
		}
		if len(entries) > 0 {
			return InitOutput{Error: fmt.Errorf("directory '%s' already exists and is not empty", input.ProjectDir)}
		}
	}

	starter, err := templates.Starter()
	if err != nil {
		return InitOutput{Error: err}
	}

	data := templates.TemplateData{Name: templates.DeriveProjectName(input.ProjectDir)}
	var created []string

	err = fs.WalkDir(starter, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(starter, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		name, isTemplate := templates.ProcessFilename(path)
		target := filepath.Join(input.ProjectDir, filepath.FromSlash(name))
		if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := s.fs.WriteFile(target, templates.ProcessContent(content, isTemplate, data), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}

		if isTemplate {
			s.cli.PrintFile(name + " (generated)")
		} else {
			s.cli.PrintFile(name)
		}
		created = append(created, name)
		return nil
	})
	if err != nil {
		return InitOutput{Error: err, Files: created}
	}

	s.cli.PrintSuccess("Created %d files", len(created))
	s.cli.PrintStep("Next steps:")
	s.cli.PrintStep("  cd %s", input.ProjectDir)
	s.cli.PrintStep("  pagepack build")
	return InitOutput{Success: true, Files: created}
}
