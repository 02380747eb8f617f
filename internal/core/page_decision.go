package core

type PageAssets struct {
	Chunks  []string
	Scripts []string
	Styles  []string
}

// DecidePageAssets selects the files a page references: for each of its
// entries, the qualifying shared chunks followed by the entry chunk. Chunks
// belonging only to other entries are never included.
func DecidePageAssets(page Page, chunks []Chunk, files map[string]ChunkFiles, publicPath string) PageAssets {
	var result PageAssets
	included := make(map[string]bool)

	for _, entryName := range page.Chunks {
		for _, chunk := range ChunksForEntry(chunks, entryName) {
			if included[chunk.Name] {
				continue
			}
			included[chunk.Name] = true
			result.Chunks = append(result.Chunks, chunk.Name)

			f := files[chunk.Name]
			if f.Style != "" {
				result.Styles = append(result.Styles, PublicURL(publicPath, f.Style))
			}
			if f.Script != "" {
				result.Scripts = append(result.Scripts, PublicURL(publicPath, f.Script))
			}
		}
	}

	return result
}
