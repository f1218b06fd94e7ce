package forge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRest struct {
	responses map[string]string // path -> json body
	errs      map[string]error
	calls     []string
}

func (f *fakeRest) Get(path string, out any) error {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return err
	}
	body, ok := f.responses[path]
	if !ok {
		return errors.New("404 Not Found")
	}
	return json.Unmarshal([]byte(body), out)
}

func TestGetTreeSuccess(t *testing.T) {
	fr := &fakeRest{responses: map[string]string{
		"repos/acme/widgets/git/trees/main?recursive=1": `{"sha":"abc","tree":[{"path":"a.go","type":"blob","sha":"1","size":10}]}`,
	}}
	c := newWithClient(fr, "tok", time.Second)
	entries, err := c.GetTree(context.Background(), "acme", "widgets", "main")
	require.NoError(t, err)
	assert.Equal(t, []FileEntry{{Path: "a.go", Type: "blob", SHA: "1", Size: 10}}, entries)
}

func TestGetTreeFallsBackToMasterThenDefault(t *testing.T) {
	fr := &fakeRest{responses: map[string]string{
		"repos/acme/widgets/git/trees/develop?recursive=1": `{"sha":"abc","tree":[{"path":"a.go","type":"blob","sha":"1","size":10}]}`,
		"repos/acme/widgets":                                `{"default_branch":"develop"}`,
	}}
	c := newWithClient(fr, "tok", time.Second)
	entries, err := c.GetTree(context.Background(), "acme", "widgets", "main")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, fr.calls, "repos/acme/widgets/git/trees/main?recursive=1")
	assert.Contains(t, fr.calls, "repos/acme/widgets/git/trees/master?recursive=1")
	assert.Contains(t, fr.calls, "repos/acme/widgets")
}

func TestGetBlobDecodesBase64(t *testing.T) {
	fr := &fakeRest{responses: map[string]string{
		"repos/acme/widgets/contents/a.go?ref=main": `{"content":"aGVsbG8=","encoding":"base64"}`,
	}}
	c := newWithClient(fr, "tok", time.Second)
	text, err := c.GetBlob(context.Background(), "acme", "widgets", "main", "a.go")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestGetBlobUndecodableReturnsEmpty(t *testing.T) {
	fr := &fakeRest{responses: map[string]string{
		"repos/acme/widgets/contents/a.go?ref=main": `{"content":"not-valid-base64!!","encoding":"base64"}`,
	}}
	c := newWithClient(fr, "tok", time.Second)
	text, err := c.GetBlob(context.Background(), "acme", "widgets", "main", "a.go")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestGetRateLimit(t *testing.T) {
	fr := &fakeRest{responses: map[string]string{
		"rate_limit": `{"resources":{"core":{"remaining":4500,"reset":1700000000}}}`,
	}}
	c := newWithClient(fr, "tok", time.Second)
	remaining, resetAt, err := c.GetRateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4500, remaining)
	assert.Equal(t, int64(1700000000), resetAt.Unix())
}

func TestAuthenticated(t *testing.T) {
	c := newWithClient(&fakeRest{}, "", time.Second)
	assert.False(t, c.Authenticated())
	c2 := newWithClient(&fakeRest{}, "tok", time.Second)
	assert.True(t, c2.Authenticated())
}
