package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://docs.google.com/document/d/1AbC-def_123/edit", "1AbC-def_123"},
		{"https://docs.google.com/document/d/1AbC/edit#heading=h.x", "1AbC"},
		{"https://drive.google.com/d/xyz_9", "xyz_9"},
		{"https://drive.google.com/open?id=abc123", "abc123"},
	}
	for _, tc := range cases {
		got, err := ExtractDocID(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got, tc.url)
	}

	_, err := ExtractDocID("https://example.com/lesson.html")
	assert.Error(t, err)
}

type cannedFetcher string

func (c cannedFetcher) Fetch(context.Context, string) (string, error) {
	return string(c), nil
}

func TestRouterDispatch(t *testing.T) {
	r := &Router{
		GoogleDoc: cannedFetcher("gdoc"),
		HTTP:      cannedFetcher("http"),
		File:      cannedFetcher("file"),
	}
	ctx := context.Background()

	got, err := r.Fetch(ctx, "https://docs.google.com/document/d/abc/edit")
	require.NoError(t, err)
	assert.Equal(t, "gdoc", got)

	got, err = r.Fetch(ctx, "https://drive.google.com/open?id=abc")
	require.NoError(t, err)
	assert.Equal(t, "gdoc", got)

	got, err = r.Fetch(ctx, "https://example.com/lesson.html")
	require.NoError(t, err)
	assert.Equal(t, "http", got)

	got, err = r.Fetch(ctx, "/tmp/lesson.txt")
	require.NoError(t, err)
	assert.Equal(t, "file", got)
}

func TestRouterMissingBackend(t *testing.T) {
	r := &Router{HTTP: cannedFetcher("http")}
	_, err := r.Fetch(context.Background(), "https://docs.google.com/document/d/abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no google docs fetcher")
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("lesson body"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0)

	got, err := f.Fetch(context.Background(), srv.URL+"/lesson")
	require.NoError(t, err)
	assert.Equal(t, "lesson body", got)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.txt")
	require.NoError(t, os.WriteFile(path, []byte("local body"), 0o644))

	got, err := FileFetcher{}.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "local body", got)

	_, err = FileFetcher{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
