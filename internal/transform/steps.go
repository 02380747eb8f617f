// Package transform applies processing-rule steps to modules.
package transform

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/3-lines-studio/pagepack/internal/core"
)

type Env struct {
	Mode          core.Mode
	InlineLimit   int
	AssetFilename string
	PublicPath    string
	HashLength    int
}

// Unit is a module moving through its rule's steps.
type Unit struct {
	core.ProcessedModule
	Extract bool
}

type Step func(u *Unit, env Env) error

var builtin = map[string]Step{
	"js":          scriptStep,
	"css":         styleStep,
	"css-extract": extractStep,
}

var assetTypes = []core.AssetType{
	core.AssetTypeAuto,
	core.AssetTypeInline,
	core.AssetTypeResource,
	core.AssetTypeSource,
}

func Lookup(name string) (Step, error) {
	if step, ok := builtin[name]; ok {
		return step, nil
	}
	for _, t := range assetTypes {
		if core.AssetType(name) == t {
			return assetStep(t), nil
		}
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", core.ErrUnknownStep, name, strings.Join(StepNames(), ", "))
}

func StepNames() []string {
	names := make([]string, 0, len(builtin)+len(assetTypes))
	for name := range builtin {
		names = append(names, name)
	}
	for _, t := range assetTypes {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// ValidateRules checks patterns and that every step a rule names exists.
func ValidateRules(rules core.RuleSet) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	for _, rule := range rules {
		for _, name := range rule.Steps() {
			if _, err := Lookup(name); err != nil {
				return core.NewConfigError("validate rule", rule.Name, err)
			}
		}
	}
	return nil
}

func scriptStep(u *Unit, env Env) error {
	u.Kind = core.KindScript
	if !env.Mode.IsProduction() {
		return nil
	}

	var out bytes.Buffer
	for _, line := range strings.Split(string(u.Content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out.WriteString(strings.TrimRight(line, " \t\r"))
		out.WriteByte('\n')
	}
	u.Content = out.Bytes()
	return nil
}

func styleStep(u *Unit, env Env) error {
	u.Kind = core.KindStyle

	var out bytes.Buffer
	for _, line := range strings.Split(strings.TrimSpace(string(u.Content)), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if env.Mode.IsProduction() && strings.TrimSpace(line) == "" {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	u.Content = out.Bytes()
	return nil
}

func extractStep(u *Unit, _ Env) error {
	if u.Kind != core.KindStyle {
		return fmt.Errorf("css-extract needs a stylesheet, %s is a %s module", u.ID, u.Kind)
	}
	u.Extract = true
	return nil
}

func assetStep(assetType core.AssetType) Step {
	return func(u *Unit, env Env) error {
		switch core.DecideAsset(assetType, len(u.Content), env.InlineLimit) {
		case core.ActionEmbedSource:
			return exportValue(u, string(u.Content))
		case core.ActionInline:
			mime, _, _ := strings.Cut(core.GetContentType(u.ID), ";")
			uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(u.Content)
			return exportValue(u, uri)
		case core.ActionEmitResource:
			hash := core.HashContent(u.Content, env.HashLength)
			filename := core.ExpandFilename(env.AssetFilename, core.ResourceName(u.ID), hash, path.Ext(u.ID))
			if err := core.ValidateOutputFilename(filename); err != nil {
				return err
			}
			u.Emitted = append(u.Emitted, core.EmittedFile{Filename: filename, Content: u.Content})
			return exportValue(u, core.PublicURL(env.PublicPath, filename))
		default:
			return fmt.Errorf("unsupported asset type %q", assetType)
		}
	}
}

// exportValue replaces the module with a script whose module.exports is
// value.
func exportValue(u *Unit, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	u.Kind = core.KindScript
	u.Content = []byte("module.exports = " + string(encoded) + ";\n")
	return nil
}

// injectStyle wraps a stylesheet that was not extracted into a script that
// appends it to the document head.
func injectStyle(u *Unit) error {
	encoded, err := json.Marshal(string(u.Content))
	if err != nil {
		return err
	}
	u.Kind = core.KindScript
	u.Content = []byte("(function () {\n  var style = document.createElement(\"style\");\n  style.textContent = " +
		string(encoded) + ";\n  document.head.appendChild(style);\n})();\n")
	return nil
}
