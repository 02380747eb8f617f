package core

import (
	"encoding/json"
)

const ManifestFile = "manifest.json"

type ManifestEntry struct {
	Scripts []string `json:"scripts"`
	Styles  []string `json:"styles,omitempty"`
	Chunks  []string `json:"chunks"`
}

type ManifestChunk struct {
	Script  string   `json:"script,omitempty"`
	Style   string   `json:"style,omitempty"`
	Entries []string `json:"entries"`
	Modules []string `json:"modules"`
	Shared  bool     `json:"shared,omitempty"`
}

type ManifestPage struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title,omitempty"`
	Chunks   []string `json:"chunks"`
}

type Manifest struct {
	Mode      string                   `json:"mode"`
	Entries   map[string]ManifestEntry `json:"entries"`
	Chunks    map[string]ManifestChunk `json:"chunks"`
	Resources map[string]string        `json:"resources,omitempty"`
	Externals []string                 `json:"externals,omitempty"`
	Pages     []ManifestPage           `json:"pages"`
}

func NewManifest(mode Mode) *Manifest {
	return &Manifest{
		Mode:    string(mode),
		Entries: make(map[string]ManifestEntry),
		Chunks:  make(map[string]ManifestChunk),
	}
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GetAssets returns the script and stylesheet URLs recorded for an entry.
func GetAssets(man *Manifest, entryName string) (scripts, styles []string) {
	if man == nil {
		return nil, nil
	}
	entry, ok := man.Entries[entryName]
	if !ok {
		return nil, nil
	}
	return entry.Scripts, entry.Styles
}

func HasSharedChunks(man *Manifest) bool {
	if man == nil {
		return false
	}
	for _, chunk := range man.Chunks {
		if chunk.Shared {
			return true
		}
	}
	return false
}
