package pipeline

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCorpusReadFileAndWalkDir(t *testing.T) {
	c := newMemCorpus(map[string]string{
		"src/app.ts":          "export const x = 1",
		"src/lib/helper.ts":   "export function f() {}",
		"README.md":           "# hi",
	})

	data, err := c.ReadFile("src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, "export const x = 1", string(data))

	var visited []string
	err = fs.WalkDir(c, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if !d.IsDir() {
			visited = append(visited, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/app.ts", "src/lib/helper.ts", "README.md"}, visited)
}

func TestMemCorpusReadFileMissingReturnsNotExist(t *testing.T) {
	c := newMemCorpus(map[string]string{"a.go": "package main"})
	_, err := c.ReadFile("missing.go")
	assert.True(t, fs.ErrNotExist == err || fs.IsNotExist(err))
}
