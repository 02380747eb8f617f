package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type AssetType string

const (
	AssetTypeNone     AssetType = ""
	AssetTypeAuto     AssetType = "asset"
	AssetTypeInline   AssetType = "asset/inline"
	AssetTypeResource AssetType = "asset/resource"
	AssetTypeSource   AssetType = "asset/source"
)

// Rule maps a file-type pattern to transformation steps. Use is listed in
// declaration order; steps run last to first.
type Rule struct {
	Name    string
	Test    []string
	Exclude []string
	Type    AssetType
	Use     []string
}

func (r Rule) label() string {
	if r.Name != "" {
		return r.Name
	}
	return strings.Join(r.Test, ",")
}

func (r Rule) Validate() error {
	if len(r.Test) == 0 {
		return NewConfigError("validate rule", r.label(), fmt.Errorf("%w: no test pattern", ErrInvalidRule))
	}
	for _, pattern := range append(append([]string(nil), r.Test...), r.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return NewConfigError("validate rule", r.label(), fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
		}
	}

	switch r.Type {
	case AssetTypeNone:
		if len(r.Use) == 0 {
			return NewConfigError("validate rule", r.label(), fmt.Errorf("%w: neither type nor use is set", ErrInvalidRule))
		}
	case AssetTypeAuto, AssetTypeInline, AssetTypeResource, AssetTypeSource:
		if len(r.Use) > 0 {
			return NewConfigError("validate rule", r.label(), fmt.Errorf("%w: type %q cannot be combined with use", ErrInvalidRule, r.Type))
		}
	default:
		return NewConfigError("validate rule", r.label(), fmt.Errorf("%w: unknown type %q", ErrInvalidRule, r.Type))
	}
	return nil
}

func (r Rule) Matches(moduleID string) bool {
	for _, pattern := range r.Exclude {
		if doublestar.MatchUnvalidated(pattern, moduleID) {
			return false
		}
	}
	for _, pattern := range r.Test {
		if doublestar.MatchUnvalidated(pattern, moduleID) {
			return true
		}
	}
	return false
}

// Steps returns the step names in execution order.
func (r Rule) Steps() []string {
	if r.Type != AssetTypeNone {
		return []string{string(r.Type)}
	}
	steps := make([]string, len(r.Use))
	for i, step := range r.Use {
		steps[len(r.Use)-1-i] = step
	}
	return steps
}

type RuleSet []Rule

func (rs RuleSet) Validate() error {
	for _, rule := range rs {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Match evaluates rules in order. A nil rule with a nil error means the
// module passes through unmodified. A module claimed by two rules is a
// configuration error.
func (rs RuleSet) Match(moduleID string) (*Rule, error) {
	var matched *Rule
	for i := range rs {
		if !rs[i].Matches(moduleID) {
			continue
		}
		if matched != nil {
			return nil, NewConfigError("match rule", moduleID,
				fmt.Errorf("%w: %q and %q", ErrAmbiguousRule, matched.label(), rs[i].label()))
		}
		matched = &rs[i]
	}
	return matched, nil
}
