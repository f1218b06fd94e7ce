package scan

import (
	"sort"

	"github.com/githubnext/coderadar/internal/detect"
	"github.com/githubnext/coderadar/internal/forge"
)

// filterCodeFiles keeps only code files (by extension), drops excluded
// paths, and returns them sorted by path for stable ordering, per spec.md
// §4.4 step 2/3. Shared with the validator (C8), which applies the same
// filter via detect.IsCodeFile/IsExcludedPath directly over its corpus walk.
func filterCodeFiles(entries []forge.FileEntry) []forge.FileEntry {
	var out []forge.FileEntry
	for _, e := range entries {
		if e.Type != "blob" {
			continue
		}
		if !detect.IsCodeFile(e.Path) || detect.IsExcludedPath(e.Path) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
