package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/pagepack/internal/adapters/cli"
	"github.com/3-lines-studio/pagepack/internal/adapters/env"
	fsadapter "github.com/3-lines-studio/pagepack/internal/adapters/fs"
	"github.com/3-lines-studio/pagepack/internal/core"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		envValue string
		fallback core.Mode
		want     core.Mode
		wantErr  bool
	}{
		{"fallback", "", "", core.ModeDevelopment, core.ModeDevelopment, false},
		{"env wins over fallback", "", "production", core.ModeDevelopment, core.ModeProduction, false},
		{"flag wins over env", "development", "production", core.ModeProduction, core.ModeDevelopment, false},
		{"invalid flag", "fast", "", core.ModeProduction, "", true},
		{"invalid env", "", "fast", core.ModeProduction, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(env.ModeVar, tt.envValue)
			a := &app{mode: tt.flag}

			got, err := a.resolveMode(tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputIgnores(t *testing.T) {
	tests := []struct {
		name   string
		root   string
		outDir string
		want   []string
	}{
		{"inside root", "/site", "/site/dist", []string{"dist/**"}},
		{"nested", "/site", "/site/build/web", []string{"build/web/**"}},
		{"outside root", "/site", "/tmp/out", nil},
		{"root itself", "/site", "/site", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputIgnores(tt.root, tt.outDir))
		})
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newApp().rootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"build", "watch", "serve", "init", "doctor"} {
		assert.Contains(t, names, want)
	}
}

func TestBuildStateTracksLastError(t *testing.T) {
	state := &buildState{}
	assert.NoError(t, state.LastError())

	failure := errors.New("boom")
	state.set(failure)
	assert.ErrorIs(t, state.LastError(), failure)

	state.set(nil)
	assert.NoError(t, state.LastError())
}

func TestPrintPages(t *testing.T) {
	var buf bytes.Buffer
	a := &app{
		output: cli.NewWriterOutput(&buf),
		fs:     fsadapter.NewMemFileSystem(),
		logger: log.New(io.Discard),
	}

	a.printPages("/site/dist", defaultAddr)
	assert.Contains(t, buf.String(), "No build found in /site/dist")

	man := core.NewManifest(core.ModeProduction)
	man.Pages = []core.ManifestPage{{Filename: "index.html"}, {Filename: "kiwi.html"}}
	data, err := man.Marshal()
	require.NoError(t, err)
	require.NoError(t, a.fs.WriteFile("/site/dist/"+core.ManifestFile, data, 0644))

	buf.Reset()
	a.printPages("/site/dist", defaultAddr)
	assert.Contains(t, buf.String(), "http://127.0.0.1:8080/\n")
	assert.Contains(t, buf.String(), "http://127.0.0.1:8080/kiwi\n")
}
