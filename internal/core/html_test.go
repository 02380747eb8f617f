package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRenderPageDefaultTemplate(t *testing.T) {
	out, err := RenderPage("default", DefaultPageTemplate, PageData{
		Title:       "Hello World",
		Description: "Hello World",
		Mount:       DefaultMount,
		Scripts:     []string{"helloworld~kiwi.aaaa.js", "helloworld.bbbb.js"},
		Styles:      []string{"helloworld.cccc.css"},
	})
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}

	html := string(out)
	for _, want := range []string{
		"<title>Hello World</title>",
		`<meta name="description" content="Hello World" />`,
		`<link rel="stylesheet" href="helloworld.cccc.css" />`,
		`<div id="app"></div>`,
		`<script src="helloworld~kiwi.aaaa.js" defer></script>`,
		`<script src="helloworld.bbbb.js" defer></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q\n%s", want, html)
		}
	}

	if strings.Index(html, "helloworld~kiwi.aaaa.js") > strings.Index(html, "helloworld.bbbb.js") {
		t.Error("shared chunk must load before the entry chunk")
	}
}

func TestRenderPageErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "unknown field", text: `<title>{{.Author}}</title>`},
		{name: "missing var", text: `<title>{{.Vars.author}}</title>`},
		{name: "undeclared variable", text: `<title>{{$title}}</title>`},
		{name: "syntax error", text: `<title>{{.Title</title>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderPage("page", tt.text, PageData{Title: "x"})
			if !errors.Is(err, ErrTemplate) {
				t.Fatalf("RenderPage() error = %v, want ErrTemplate", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("RenderPage() error is %T, want *ConfigError", err)
			}
		})
	}
}

func TestRenderPageVars(t *testing.T) {
	out, err := RenderPage("page", `<meta name="author" content="{{.Vars.author}}">`, PageData{
		Vars: map[string]string{"author": "kiwi"},
	})
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if string(out) != `<meta name="author" content="kiwi">` {
		t.Errorf("RenderPage() = %q", out)
	}
}

func TestDecidePageAssets(t *testing.T) {
	chunks := []Chunk{
		{Name: "helloworld", Entries: []string{"helloworld"}},
		{Name: "kiwi", Entries: []string{"kiwi"}},
		{Name: "other", Entries: []string{"other"}},
		{Name: "helloworld~kiwi", Entries: []string{"helloworld", "kiwi"}, Shared: true},
		{Name: "kiwi~other", Entries: []string{"kiwi", "other"}, Shared: true},
	}
	files := map[string]ChunkFiles{
		"helloworld":      {Script: "helloworld.1.js", Style: "helloworld.1.css"},
		"kiwi":            {Script: "kiwi.2.js"},
		"other":           {Script: "other.3.js"},
		"helloworld~kiwi": {Script: "helloworld~kiwi.4.js"},
		"kiwi~other":      {Style: "kiwi~other.5.css"},
	}

	tests := []struct {
		name string
		page Page
		want PageAssets
	}{
		{
			name: "single entry gets its shared chunk",
			page: Page{Chunks: []string{"helloworld"}},
			want: PageAssets{
				Chunks:  []string{"helloworld~kiwi", "helloworld"},
				Scripts: []string{"helloworld~kiwi.4.js", "helloworld.1.js"},
				Styles:  []string{"helloworld.1.css"},
			},
		},
		{
			name: "entry shared with two groups",
			page: Page{Chunks: []string{"kiwi"}},
			want: PageAssets{
				Chunks:  []string{"helloworld~kiwi", "kiwi~other", "kiwi"},
				Scripts: []string{"helloworld~kiwi.4.js", "kiwi.2.js"},
				Styles:  []string{"kiwi~other.5.css"},
			},
		},
		{
			name: "multi entry page dedupes shared chunks",
			page: Page{Chunks: []string{"helloworld", "kiwi"}},
			want: PageAssets{
				Chunks:  []string{"helloworld~kiwi", "helloworld", "kiwi~other", "kiwi"},
				Scripts: []string{"helloworld~kiwi.4.js", "helloworld.1.js", "kiwi.2.js"},
				Styles:  []string{"helloworld.1.css", "kiwi~other.5.css"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecidePageAssets(tt.page, chunks, files, "")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecidePageAssets() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidatePages(t *testing.T) {
	entries := []EntryPoint{{Name: "helloworld", Source: "src/hello-world.js"}, {Name: "kiwi", Source: "src/kiwi.js"}}

	tests := []struct {
		name    string
		pages   []Page
		wantErr error
	}{
		{name: "valid", pages: []Page{{Filename: "hello-world.html", Chunks: []string{"helloworld"}}}},
		{name: "unknown chunk", pages: []Page{{Filename: "x.html", Chunks: []string{"banana"}}}, wantErr: ErrUnknownChunk},
		{name: "no chunks", pages: []Page{{Filename: "x.html"}}, wantErr: ErrUnknownChunk},
		{name: "bad filename", pages: []Page{{Filename: "../x.html", Chunks: []string{"kiwi"}}}, wantErr: ErrInvalidFilename},
		{
			name: "duplicate filename",
			pages: []Page{
				{Filename: "x.html", Chunks: []string{"kiwi"}},
				{Filename: "x.html", Chunks: []string{"helloworld"}},
			},
			wantErr: ErrInvalidFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePages(tt.pages, entries)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePages() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePages() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntries(t *testing.T) {
	if err := ValidateEntries(nil); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("ValidateEntries(nil) error = %v", err)
	}
	dup := []EntryPoint{{Name: "a", Source: "a.js"}, {Name: "a", Source: "b.js"}}
	if err := ValidateEntries(dup); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("ValidateEntries(dup) error = %v", err)
	}
	if err := ValidateEntries([]EntryPoint{{Name: "a~b", Source: "a.js"}}); err == nil {
		t.Error("ValidateEntries() should reject the shared chunk separator")
	}

	sorted := SortedEntries(map[string]string{"kiwi": "src/kiwi.js", "helloworld": "src/hello-world.js"})
	if sorted[0].Name != "helloworld" || sorted[1].Name != "kiwi" {
		t.Errorf("SortedEntries() = %+v", sorted)
	}
}
