package scan

import (
	"testing"
	"time"

	"github.com/githubnext/coderadar/internal/detect"
	"github.com/githubnext/coderadar/internal/forge"
	"github.com/stretchr/testify/assert"
)

func TestFilterCodeFilesExcludesNonCodeAndExcludedPaths(t *testing.T) {
	entries := []forge.FileEntry{
		{Path: "src/app.ts", Type: "blob"},
		{Path: "README.md", Type: "blob"},
		{Path: "src/node_modules/pkg/index.js", Type: "blob"},
		{Path: "src", Type: "tree"},
		{Path: "a.go", Type: "blob"},
	}
	filtered := filterCodeFiles(entries)
	var paths []string
	for _, f := range filtered {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.go", "src/app.ts"}, paths)
}

func TestFileCacheGetPutAndTTLExpiry(t *testing.T) {
	c := newFileCache(10, 0)
	_, ok := c.get("acme/widgets", "a.go", "sha1")
	assert.False(t, ok)

	c.put("acme/widgets", "a.go", "sha1", "package main")
	text, ok := c.get("acme/widgets", "a.go", "sha1")
	assert.True(t, ok)
	assert.Equal(t, "package main", text)

	short := newFileCache(10, time.Nanosecond)
	short.put("acme/widgets", "a.go", "sha1", "package main")
	time.Sleep(time.Millisecond)
	_, ok = short.get("acme/widgets", "a.go", "sha1")
	assert.False(t, ok)
}

func TestFileCacheEvictsOnCapacityOverflow(t *testing.T) {
	c := newFileCache(2, 0)
	c.put("r", "a.go", "1", "a")
	c.put("r", "b.go", "1", "b")
	c.put("r", "c.go", "1", "c") // evicts a.go (least recently used)

	_, ok := c.get("r", "a.go", "1")
	assert.False(t, ok)
	_, ok = c.get("r", "c.go", "1")
	assert.True(t, ok)
}

func TestHalveBatchSizeHasFloorOfOne(t *testing.T) {
	assert.Equal(t, 1, halveBatchSize(1))
	assert.Equal(t, 2, halveBatchSize(5))
	assert.Equal(t, 5, halveBatchSize(10))
}

func TestDetectChunkedMatchesUnchunkedForSmallFiles(t *testing.T) {
	src := "function hi() { return 1; }\n"
	small := detectChunked(src, "a.ts", detect.RepositoryContext{RepositoryID: "r1"})
	assert.NotEmpty(t, small.Patterns)
}
