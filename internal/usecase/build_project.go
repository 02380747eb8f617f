package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/3-lines-studio/pagepack/internal/adapters/cli"
	"github.com/3-lines-studio/pagepack/internal/component"
	"github.com/3-lines-studio/pagepack/internal/config"
	"github.com/3-lines-studio/pagepack/internal/core"
	"github.com/3-lines-studio/pagepack/internal/transform"
)

type BuildInput struct {
	Config *config.Config
}

type BuildOutput struct {
	Success   bool
	Error     error
	OutputDir string
	Assets    []core.Asset
	Resources []core.EmittedFile
	Pages     []RenderedPage
	Manifest  *core.Manifest
	// Written lists every file written, relative to OutputDir.
	Written []string
}

type RenderedPage struct {
	Filename string
	Content  []byte
}

type BuildService struct {
	fs         FileSystem
	scanner    ImportScanner
	cli        CLIOutput
	logger     *log.Logger
	components *component.Registry
}

func NewBuildService(fs FileSystem, scanner ImportScanner, cli CLIOutput, logger *log.Logger) *BuildService {
	if logger == nil {
		logger = log.Default()
	}
	return &BuildService{
		fs:         fs,
		scanner:    scanner,
		cli:        cli,
		logger:     logger,
		components: component.NewRegistry(),
	}
}

// Components exposes the registry pages resolve component names against.
func (s *BuildService) Components() *component.Registry {
	return s.components
}

// Build runs the whole pipeline. Everything up to page rendering happens in
// memory, so configuration and template errors abort before the output
// directory is touched.
func (s *BuildService) Build(ctx context.Context, input BuildInput) BuildOutput {
	s.cli.PrintHeader("pagepack build")
	return s.run(ctx, input, true)
}

// Check runs the pipeline without cleaning or writing anything.
func (s *BuildService) Check(ctx context.Context, input BuildInput) BuildOutput {
	s.cli.PrintHeader("pagepack doctor")
	return s.run(ctx, input, false)
}

func (s *BuildService) run(ctx context.Context, input BuildInput, write bool) BuildOutput {
	cfg := input.Config
	if cfg == nil {
		return BuildOutput{Error: errors.New("no configuration loaded")}
	}

	out := BuildOutput{OutputDir: cfg.OutputDir()}
	reportDir := ""
	if write {
		reportDir = out.OutputDir
	}

	entries := cfg.EntryPoints()
	pages := cfg.PageDescriptors()
	report := cli.NewBuildReport(s.cli, reportDir)
	report.SetCounts(len(entries), len(pages))

	fail := func(err error) BuildOutput {
		report.AddError(errorSubject(err), err.Error(), nil)
		report.Render()
		s.logger.Error("build failed", "error", err)
		out.Error = err
		return out
	}

	plan, err := s.plan(ctx, cfg, entries, pages, report)
	if err != nil {
		return fail(err)
	}
	out.Assets = plan.assets
	out.Resources = plan.resources
	out.Pages = plan.pages
	out.Manifest = plan.manifest

	if write {
		if err := s.step(ctx, report, "Cleaning output", func() error {
			return s.cleanOutput(out.OutputDir, cfg.Clean.Patterns)
		}); err != nil {
			return fail(err)
		}

		if err := s.step(ctx, report, "Writing files", func() error {
			written, err := s.writeOutput(cfg, plan, report)
			out.Written = written
			return err
		}); err != nil {
			return fail(err)
		}
	}

	report.Render()
	out.Success = !report.HasFailures()
	s.logger.Info("build finished", "mode", cfg.Mode, "assets", len(out.Assets), "pages", len(out.Pages),
		"shared", core.HasSharedChunks(out.Manifest), "written", write)
	return out
}

type buildPlan struct {
	graph     *resolvedGraph
	chunks    []core.Chunk
	files     map[string]core.ChunkFiles
	assets    []core.Asset
	resources []core.EmittedFile
	pages     []RenderedPage
	manifest  *core.Manifest

	// resourceOf maps a module id to the file it emitted.
	resourceOf map[string]string
	claims     outputClaims
}

func (s *BuildService) plan(ctx context.Context, cfg *config.Config, entries []core.EntryPoint, pages []core.Page, report *cli.BuildReport) (*buildPlan, error) {
	plan := &buildPlan{}
	root := cfg.RootDir()
	var templates map[string]string

	if err := s.step(ctx, report, "Validating configuration", func() error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := transform.ValidateRules(cfg.RuleSet()); err != nil {
			return err
		}
		for _, page := range pages {
			for _, ref := range page.Components {
				if _, err := s.components.Lookup(ref.Name); err != nil {
					return core.NewConfigError("validate page", page.Filename, err)
				}
			}
		}
		var err error
		templates, err = s.loadTemplates(root, pages)
		return err
	}); err != nil {
		return nil, err
	}
	if cfg.Mode.IsProduction() {
		for _, pattern := range []string{cfg.Output.Filename, cfg.Output.CSSFilename} {
			if !core.PatternUsesHash(pattern) {
				report.AddWarning(pattern, "production filename has no "+core.PlaceholderContentHash, nil)
			}
		}
	}

	if err := s.step(ctx, report, "Resolving modules", func() error {
		var err error
		plan.graph, err = s.resolveGraph(ctx, root, entries, cfg.Resolve.Extensions)
		if err != nil {
			return err
		}
		return checkOutputDir(root, cfg.OutputDir(), plan.graph.graph)
	}); err != nil {
		return nil, err
	}
	for _, spec := range sortedKeys(plan.graph.externals) {
		report.AddWarning(spec, "bare import left external", plan.graph.externals[spec])
	}

	if err := s.step(ctx, report, "Splitting chunks", func() error {
		var err error
		plan.chunks, err = core.SplitChunks(plan.graph.graph, core.SplitOptions{MinSize: cfg.Optimization.SplitChunks.MinSize})
		return err
	}); err != nil {
		return nil, err
	}

	var processed map[string]*core.ProcessedModule
	if err := s.step(ctx, report, "Processing modules", func() error {
		env := transform.Env{
			Mode:          cfg.Mode,
			InlineLimit:   cfg.Optimization.AssetInlineLimit,
			AssetFilename: cfg.Output.AssetFilename,
			PublicPath:    cfg.Output.PublicPath,
			HashLength:    cfg.Output.HashLength,
		}
		processor := transform.NewProcessor(cfg.RuleSet(), env, cfg.Optimization.Concurrency, s.logger)
		var err error
		processed, err = processor.Process(ctx, sortedModules(plan.graph.graph))
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.step(ctx, report, "Linking modules", func() error {
		return s.link(ctx, plan.graph.graph, processed, cfg.Optimization.Concurrency)
	}); err != nil {
		return nil, err
	}

	if err := s.step(ctx, report, "Assembling assets", func() error {
		return s.assemble(cfg, plan, processed)
	}); err != nil {
		return nil, err
	}

	if err := s.step(ctx, report, "Rendering pages", func() error {
		var err error
		plan.pages, err = s.renderPages(cfg, pages, templates, plan)
		return err
	}); err != nil {
		return nil, err
	}

	plan.manifest = buildManifest(cfg, entries, pages, plan)
	return plan, nil
}

func (s *BuildService) step(ctx context.Context, report *cli.BuildReport, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	index := report.StartStep(name)
	s.logger.Debug("step", "name", name)
	if err := fn(); err != nil {
		report.EndStep(index, false, err.Error())
		return err
	}
	report.EndStep(index, true, "")
	return nil
}

func (s *BuildService) assemble(cfg *config.Config, plan *buildPlan, processed map[string]*core.ProcessedModule) error {
	naming := cfg.Naming()
	plan.files = make(map[string]core.ChunkFiles, len(plan.chunks))
	plan.claims = newOutputClaims()

	for _, chunk := range plan.chunks {
		script := core.AssembleScript(chunk, processed, entryRoot(plan.graph.graph, chunk, processed))
		style := core.AssembleStyle(chunk, processed)
		assets, files := core.NameChunkAssets(chunk, script, style, naming)
		for _, asset := range assets {
			dup, err := plan.claims.claim(asset.Filename, "chunk "+chunk.Name, asset.Content)
			if err != nil {
				return err
			}
			if !dup {
				plan.assets = append(plan.assets, asset)
			}
		}
		plan.files[chunk.Name] = files
	}

	plan.resourceOf = make(map[string]string)
	for _, id := range sortedKeys(processed) {
		for _, file := range processed[id].Emitted {
			plan.resourceOf[id] = file.Filename
			dup, err := plan.claims.claim(file.Filename, id, file.Content)
			if err != nil {
				return err
			}
			if !dup {
				plan.resources = append(plan.resources, file)
			}
		}
	}
	return nil
}

func (s *BuildService) loadTemplates(root string, pages []core.Page) (map[string]string, error) {
	templates := map[string]string{"": core.DefaultPageTemplate}
	for _, page := range pages {
		if _, ok := templates[page.Template]; ok {
			continue
		}
		data, err := s.fs.ReadFile(filepath.Join(root, filepath.FromSlash(page.Template)))
		if err != nil {
			return nil, core.NewConfigError("read template", page.Template, fmt.Errorf("%w: %v", core.ErrTemplate, err))
		}
		templates[page.Template] = string(data)
	}
	return templates, nil
}

func (s *BuildService) renderPages(cfg *config.Config, pages []core.Page, templates map[string]string, plan *buildPlan) ([]RenderedPage, error) {
	rendered := make([]RenderedPage, 0, len(pages))
	loggedMode := false

	for _, page := range pages {
		assets := core.DecidePageAssets(page, plan.chunks, plan.files, cfg.Output.PublicPath)

		name := page.Template
		if name == "" {
			name = "default"
		}
		html, err := core.RenderPage(name, templates[page.Template], core.PageData{
			Title:       page.Title,
			Description: page.Description,
			Mount:       page.Mount,
			Mode:        string(cfg.Mode),
			Scripts:     assets.Scripts,
			Styles:      assets.Styles,
			Vars:        page.Vars,
		})
		if err != nil {
			return nil, err
		}

		if len(page.Components) > 0 {
			if !loggedMode {
				component.LogMode(s.logger, cfg.Mode)
				loggedMode = true
			}
			html, err = component.Prerender(html, page.Mount, page.Components, s.components)
			if err != nil {
				return nil, core.NewConfigError("prerender page", page.Filename, err)
			}
		}

		if _, err := plan.claims.claim(page.Filename, "page "+page.Filename, html); err != nil {
			return nil, err
		}
		s.logger.Debug("rendered page", "page", page.Filename, "chunks", assets.Chunks)
		rendered = append(rendered, RenderedPage{Filename: page.Filename, Content: html})
	}
	return rendered, nil
}

func buildManifest(cfg *config.Config, entries []core.EntryPoint, pages []core.Page, plan *buildPlan) *core.Manifest {
	man := core.NewManifest(cfg.Mode)

	for _, entry := range entries {
		assets := core.DecidePageAssets(core.Page{Chunks: []string{entry.Name}}, plan.chunks, plan.files, cfg.Output.PublicPath)
		man.Entries[entry.Name] = core.ManifestEntry{
			Scripts: assets.Scripts,
			Styles:  assets.Styles,
			Chunks:  assets.Chunks,
		}
	}

	for _, chunk := range plan.chunks {
		files := plan.files[chunk.Name]
		man.Chunks[chunk.Name] = core.ManifestChunk{
			Script:  files.Script,
			Style:   files.Style,
			Entries: chunk.Entries,
			Modules: chunk.Modules,
			Shared:  chunk.Shared,
		}
	}

	if len(plan.resourceOf) > 0 {
		man.Resources = plan.resourceOf
	}

	for _, page := range pages {
		assets := core.DecidePageAssets(page, plan.chunks, plan.files, cfg.Output.PublicPath)
		man.Pages = append(man.Pages, core.ManifestPage{
			Filename: page.Filename,
			Title:    page.Title,
			Chunks:   assets.Chunks,
		})
	}

	man.Externals = sortedKeys(plan.graph.externals)
	return man
}

func errorSubject(err error) string {
	var cfgErr *core.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Subject != "" {
		return cfgErr.Subject
	}
	return "build"
}
