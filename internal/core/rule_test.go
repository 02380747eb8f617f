package core

import (
	"errors"
	"reflect"
	"testing"
)

func testRules() RuleSet {
	return RuleSet{
		{Name: "images", Test: []string{"**/*.{png,jpg,jpeg}"}, Type: AssetTypeAuto},
		{Name: "text", Test: []string{"**/*.txt"}, Type: AssetTypeSource},
		{Name: "css", Test: []string{"**/*.css"}, Use: []string{"css-extract", "css"}},
		{Name: "js", Test: []string{"**/*.js"}, Exclude: []string{"**/node_modules/**"}, Use: []string{"js"}},
	}
}

func TestRuleSetMatch(t *testing.T) {
	tests := []struct {
		name     string
		moduleID string
		wantRule string
	}{
		{name: "image", moduleID: "src/kiwi.jpg", wantRule: "images"},
		{name: "text", moduleID: "src/altText.txt", wantRule: "text"},
		{name: "css", moduleID: "src/components/heading/heading.css", wantRule: "css"},
		{name: "js", moduleID: "src/hello-world.js", wantRule: "js"},
		{name: "excluded js passes through", moduleID: "node_modules/lodash/index.js", wantRule: ""},
		{name: "unmatched passes through", moduleID: "src/data.json", wantRule: ""},
	}

	rules := testRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := rules.Match(tt.moduleID)
			if err != nil {
				t.Fatalf("Match(%q) error = %v", tt.moduleID, err)
			}
			got := ""
			if rule != nil {
				got = rule.Name
			}
			if got != tt.wantRule {
				t.Errorf("Match(%q) = %q, want %q", tt.moduleID, got, tt.wantRule)
			}
		})
	}
}

func TestRuleSetMatchAmbiguous(t *testing.T) {
	rules := append(testRules(), Rule{Name: "all-styles", Test: []string{"src/**"}, Use: []string{"css"}})

	_, err := rules.Match("src/app.css")
	if !errors.Is(err, ErrAmbiguousRule) {
		t.Fatalf("Match() error = %v, want ErrAmbiguousRule", err)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Match() error is not a ConfigError: %T", err)
	}
	if cfgErr.Subject != "src/app.css" {
		t.Errorf("ConfigError.Subject = %q", cfgErr.Subject)
	}
}

func TestRuleSteps(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want []string
	}{
		{
			name: "use runs last to first",
			rule: Rule{Use: []string{"css-extract", "css", "scss"}},
			want: []string{"scss", "css", "css-extract"},
		},
		{
			name: "asset type is a single step",
			rule: Rule{Type: AssetTypeInline},
			want: []string{"asset/inline"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Steps(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Steps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{name: "valid", rule: Rule{Test: []string{"**/*.js"}, Use: []string{"js"}}},
		{name: "no test", rule: Rule{Use: []string{"js"}}, wantErr: ErrInvalidRule},
		{name: "bad pattern", rule: Rule{Test: []string{"src/[.js"}, Use: []string{"js"}}, wantErr: ErrInvalidPattern},
		{name: "type and use", rule: Rule{Test: []string{"*.png"}, Type: AssetTypeAuto, Use: []string{"js"}}, wantErr: ErrInvalidRule},
		{name: "unknown type", rule: Rule{Test: []string{"*.png"}, Type: "asset/url"}, wantErr: ErrInvalidRule},
		{name: "nothing to do", rule: Rule{Test: []string{"*.png"}}, wantErr: ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecideAsset(t *testing.T) {
	tests := []struct {
		name  string
		typ   AssetType
		size  int
		limit int
		want  AssetAction
	}{
		{name: "small auto asset inlines", typ: AssetTypeAuto, size: 1024, limit: 3072, want: ActionInline},
		{name: "limit is inclusive", typ: AssetTypeAuto, size: 3072, limit: 3072, want: ActionInline},
		{name: "large auto asset emits", typ: AssetTypeAuto, size: 4096, limit: 3072, want: ActionEmitResource},
		{name: "forced inline", typ: AssetTypeInline, size: 1 << 20, limit: 3072, want: ActionInline},
		{name: "forced resource", typ: AssetTypeResource, size: 1, limit: 3072, want: ActionEmitResource},
		{name: "source", typ: AssetTypeSource, size: 10, limit: 3072, want: ActionEmbedSource},
		{name: "no type", typ: AssetTypeNone, size: 10, limit: 3072, want: ActionPassthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideAsset(tt.typ, tt.size, tt.limit); got != tt.want {
				t.Errorf("DecideAsset() = %v, want %v", got, tt.want)
			}
		})
	}
}
