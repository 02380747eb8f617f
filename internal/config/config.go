// Package config loads pagepack.yaml into a build configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/3-lines-studio/pagepack/internal/core"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "pagepack.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PAGEPACK_OUTPUT_PATH.
	EnvPrefix = "PAGEPACK"
)

type Config struct {
	Root         string             `mapstructure:"root"`
	Entries      map[string]string  `mapstructure:"entries"`
	Output       OutputConfig       `mapstructure:"output"`
	Resolve      ResolveConfig      `mapstructure:"resolve"`
	Optimization OptimizationConfig `mapstructure:"optimization"`
	Rules        []RuleConfig       `mapstructure:"rules"`
	Clean        CleanConfig        `mapstructure:"clean"`
	Pages        []PageConfig       `mapstructure:"pages"`
	PublicDir    string             `mapstructure:"public_dir"`

	Mode core.Mode `mapstructure:"-"`
	// Dir is the directory holding the config file; Root resolves against it.
	Dir string `mapstructure:"-"`
}

type OutputConfig struct {
	Path          string `mapstructure:"path"`
	Filename      string `mapstructure:"filename"`
	CSSFilename   string `mapstructure:"css_filename"`
	AssetFilename string `mapstructure:"asset_filename"`
	PublicPath    string `mapstructure:"public_path"`
	HashLength    int    `mapstructure:"hash_length"`
}

type ResolveConfig struct {
	Extensions []string `mapstructure:"extensions"`
}

type OptimizationConfig struct {
	SplitChunks      SplitChunksConfig `mapstructure:"split_chunks"`
	AssetInlineLimit int               `mapstructure:"asset_inline_limit"`
	Concurrency      int               `mapstructure:"concurrency"`
}

type SplitChunksConfig struct {
	MinSize int `mapstructure:"min_size"`
}

type RuleConfig struct {
	Name    string   `mapstructure:"name"`
	Test    []string `mapstructure:"test"`
	Exclude []string `mapstructure:"exclude"`
	Type    string   `mapstructure:"type"`
	Use     []string `mapstructure:"use"`
}

type CleanConfig struct {
	Patterns []string `mapstructure:"patterns"`
}

type PageConfig struct {
	Title       string            `mapstructure:"title"`
	Description string            `mapstructure:"description"`
	Filename    string            `mapstructure:"filename"`
	Template    string            `mapstructure:"template"`
	Chunks      []string          `mapstructure:"chunks"`
	Mount       string            `mapstructure:"mount"`
	Components  []ComponentConfig `mapstructure:"components"`
	Vars        map[string]string `mapstructure:"vars"`
}

type ComponentConfig struct {
	Name    string `mapstructure:"name"`
	Content string `mapstructure:"content"`
}

type LoadOptions struct {
	// Path of the config file. Empty means FileName in the working directory.
	Path string
	Mode core.Mode
	Fs   afero.Fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("output.path", "dist")
	v.SetDefault("output.filename", "[name].[contenthash].js")
	v.SetDefault("output.css_filename", "[name].[contenthash].css")
	v.SetDefault("output.asset_filename", "[name].[contenthash][ext]")
	v.SetDefault("output.public_path", "")
	v.SetDefault("output.hash_length", core.DefaultHashLength)
	v.SetDefault("resolve.extensions", []string{".js", ".mjs", ".css", ".scss"})
	v.SetDefault("optimization.split_chunks.min_size", 3000)
	v.SetDefault("optimization.asset_inline_limit", 3*1024)
	v.SetDefault("optimization.concurrency", 4)
	v.SetDefault("clean.patterns", []string{"**/*"})
	v.SetDefault("public_dir", "public")
}

// Load reads the config file, merges the section under modes.<mode> over
// it, applies PAGEPACK_* environment overrides and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	mode := opts.Mode
	if mode == "" {
		mode = core.ModeProduction
	}

	path := opts.Path
	if path == "" {
		path = FileName
	}

	v := viper.New()
	if opts.Fs != nil {
		v.SetFs(opts.Fs)
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, core.NewConfigError("read config", path, err)
	}

	if overrides := v.Sub("modes." + string(mode)); overrides != nil {
		if err := v.MergeConfigMap(overrides.AllSettings()); err != nil {
			return nil, core.NewConfigError("merge mode overrides", string(mode), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.NewConfigError("parse config", path, err)
	}
	cfg.Mode = mode
	cfg.Dir = filepath.Dir(path)

	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultRules mirrors the usual asset pipeline: images inline under the
// limit, text as source, extracted stylesheets and scripts.
func DefaultRules() []RuleConfig {
	return []RuleConfig{
		{Name: "images", Test: []string{"**/*.{png,jpg,jpeg,gif,svg}"}, Type: string(core.AssetTypeAuto)},
		{Name: "text", Test: []string{"**/*.txt"}, Type: string(core.AssetTypeSource)},
		{Name: "styles", Test: []string{"**/*.{css,scss}"}, Use: []string{"css-extract", "css"}},
		{Name: "scripts", Test: []string{"**/*.{js,mjs}"}, Exclude: []string{"**/node_modules/**"}, Use: []string{"js"}},
	}
}

func (c *Config) Validate() error {
	if err := core.ValidateEntries(c.EntryPoints()); err != nil {
		return err
	}
	if err := c.RuleSet().Validate(); err != nil {
		return err
	}
	if err := core.ValidatePages(c.PageDescriptors(), c.EntryPoints()); err != nil {
		return err
	}

	for _, pattern := range []string{c.Output.Filename, c.Output.CSSFilename, c.Output.AssetFilename} {
		if !strings.Contains(pattern, core.PlaceholderName) {
			return core.NewConfigError("validate output", pattern, fmt.Errorf("%w: pattern needs %s", core.ErrInvalidFilename, core.PlaceholderName))
		}
	}
	for _, pattern := range c.Clean.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return core.NewConfigError("validate clean", pattern, core.ErrInvalidPattern)
		}
	}
	if c.Output.HashLength < 0 || c.Output.HashLength > core.DefaultHashLength {
		return core.NewConfigError("validate output", "hash_length", fmt.Errorf("must be between 0 and %d", core.DefaultHashLength))
	}
	if c.Optimization.SplitChunks.MinSize < 0 {
		return core.NewConfigError("validate optimization", "split_chunks.min_size", fmt.Errorf("cannot be negative"))
	}
	if c.Optimization.AssetInlineLimit < 0 {
		return core.NewConfigError("validate optimization", "asset_inline_limit", fmt.Errorf("cannot be negative"))
	}
	return nil
}

// RootDir is the absolute-or-relative project root sources resolve against.
func (c *Config) RootDir() string {
	if filepath.IsAbs(c.Root) {
		return filepath.Clean(c.Root)
	}
	return filepath.Join(c.Dir, c.Root)
}

func (c *Config) OutputDir() string {
	if filepath.IsAbs(c.Output.Path) {
		return filepath.Clean(c.Output.Path)
	}
	return filepath.Join(c.RootDir(), c.Output.Path)
}

func (c *Config) EntryPoints() []core.EntryPoint {
	entries := core.SortedEntries(c.Entries)
	for i := range entries {
		entries[i].Source = filepath.ToSlash(filepath.Clean(entries[i].Source))
	}
	return entries
}

func (c *Config) RuleSet() core.RuleSet {
	rules := make(core.RuleSet, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, core.Rule{
			Name:    r.Name,
			Test:    r.Test,
			Exclude: r.Exclude,
			Type:    core.AssetType(r.Type),
			Use:     r.Use,
		})
	}
	return rules
}

func (c *Config) PageDescriptors() []core.Page {
	pages := make([]core.Page, 0, len(c.Pages))
	for _, p := range c.Pages {
		mount := p.Mount
		if mount == "" {
			mount = core.DefaultMount
		}
		components := make([]core.ComponentRef, 0, len(p.Components))
		for _, comp := range p.Components {
			components = append(components, core.ComponentRef{Name: comp.Name, Content: comp.Content})
		}
		pages = append(pages, core.Page{
			Title:       p.Title,
			Description: p.Description,
			Filename:    p.Filename,
			Template:    p.Template,
			Chunks:      p.Chunks,
			Mount:       mount,
			Components:  components,
			Vars:        p.Vars,
		})
	}
	return pages
}

func (c *Config) Naming() core.OutputNaming {
	return core.OutputNaming{
		ScriptPattern: c.Output.Filename,
		StylePattern:  c.Output.CSSFilename,
		HashLength:    c.Output.HashLength,
	}
}
