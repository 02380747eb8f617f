package http

import (
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/pagepack/internal/core"
)

func TestLoadManifest(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadManifest(fs, "/site/dist")
	require.Error(t, err)

	man := core.NewManifest(core.ModeProduction)
	man.Entries["kiwi"] = core.ManifestEntry{Scripts: []string{"kiwi.0123abcd.js"}, Styles: []string{"kiwi.4567ef01.css"}}
	man.Pages = []core.ManifestPage{{Filename: "kiwi.html", Title: "Kiwi", Chunks: []string{"kiwi"}}}
	data, err := man.Marshal()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/site/dist/manifest.json", data, 0644))

	got, err := LoadManifest(fs, "/site/dist")
	require.NoError(t, err)
	assert.Equal(t, man.Pages, got.Pages)
	scripts, styles := core.GetAssets(got, "kiwi")
	assert.Equal(t, []string{"kiwi.0123abcd.js"}, scripts)
	assert.Equal(t, []string{"kiwi.4567ef01.css"}, styles)

	require.NoError(t, afero.WriteFile(fs, "/site/dist/manifest.json", []byte("{"), 0644))
	_, err = LoadManifest(fs, "/site/dist")
	assert.ErrorContains(t, err, "parse manifest.json")
}

func TestPageURLMatchesRouter(t *testing.T) {
	h := newTestRouter(t, fakeState{})

	tests := []struct {
		filename string
		want     string
	}{
		{"index.html", "/"},
		{"kiwi.html", "/kiwi"},
		{"main.0123abcd.js", "/main.0123abcd.js"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			url := PageURL(tt.filename)
			assert.Equal(t, tt.want, url)
			assert.Equal(t, http.StatusOK, get(t, h, url).Code)
		})
	}
}
