package pipeline

import (
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"
)

// memCorpus is a flat-map fs.FS over the file text a scan already fetched,
// so C8 validation re-derives evidence without a second round of remote
// calls. It implements fs.ReadFileFS, fs.ReadDirFS and fs.StatFS directly:
// fs.WalkDir and fs.ReadFile use those fast paths (Stat answers WalkDir's
// root lookup), so Open only has to serve files.
type memCorpus struct {
	files map[string][]byte
}

func newMemCorpus(files map[string]string) *memCorpus {
	m := make(map[string][]byte, len(files))
	for path, text := range files {
		m[path] = []byte(text)
	}
	return &memCorpus{files: m}
}

func (c *memCorpus) Open(name string) (fs.File, error) {
	data, ok := c.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memFile{name: name, data: data}, nil
}

// Stat implements fs.StatFS so fs.WalkDir's root lookup (and any "."
// lookup) succeeds without a directory file handle: memFile has nothing
// sensible to return for a directory's Read.
func (c *memCorpus) Stat(name string) (fs.FileInfo, error) {
	if name == "." {
		return memFileInfo{name: ".", isDir: true}, nil
	}
	data, ok := c.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return memFileInfo{name: name, size: int64(len(data))}, nil
}

func (c *memCorpus) ReadFile(name string) ([]byte, error) {
	data, ok := c.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (c *memCorpus) ReadDir(name string) ([]fs.DirEntry, error) {
	prefix := ""
	if name != "." {
		prefix = name + "/"
	}

	seen := make(map[string]bool)
	var entries []fs.DirEntry
	for path, data := range c.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		seg, isDir := rest, false
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			seg, isDir = rest[:i], true
		}
		if seen[seg] {
			continue
		}
		seen[seg] = true
		size := int64(0)
		if !isDir {
			size = int64(len(data))
		}
		entries = append(entries, memDirEntry{name: seg, isDir: isDir, size: size})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type memDirEntry struct {
	name  string
	isDir bool
	size  int64
}

func (e memDirEntry) Name() string               { return e.name }
func (e memDirEntry) IsDir() bool                { return e.isDir }
func (e memDirEntry) Type() fs.FileMode          { return e.Info2().Mode() }
func (e memDirEntry) Info() (fs.FileInfo, error) { return e.Info2(), nil }
func (e memDirEntry) Info2() memFileInfo         { return memFileInfo{name: e.name, isDir: e.isDir, size: e.size} }

type memFileInfo struct {
	name  string
	isDir bool
	size  int64
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) Sys() any           { return nil }
func (i memFileInfo) Mode() fs.FileMode {
	if i.isDir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i memFileInfo) IsDir() bool { return i.isDir }

type memFile struct {
	name   string
	data   []byte
	offset int
}

func (f *memFile) Stat() (fs.FileInfo, error) {
	return memFileInfo{name: f.name, size: int64(len(f.data))}, nil
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.offset >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.offset:])
	f.offset += n
	return n, nil
}

func (f *memFile) Close() error { return nil }
