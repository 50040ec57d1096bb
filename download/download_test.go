package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Length", "12")
				w.Write([]byte("archive-data"))
			},
		),
	)
	defer server.Close()

	t.Run("downloads to the scoped directory", func(t *testing.T) {
		dir := t.TempDir()

		file, err := New(dir).Fetch(ctx, server.URL+"/tool-1.0.tar.gz")
		require.NoError(t, err)
		defer file.Close()

		assert.True(t, strings.HasPrefix(file.Path(), dir))

		content, err := os.ReadFile(file.Path())
		require.NoError(t, err)
		assert.Equal(t, "archive-data", string(content))
	})

	t.Run("file name keeps the resource suffix", func(t *testing.T) {
		file, err := New(t.TempDir()).Fetch(ctx, server.URL+"/tool-1.0.tar.gz")
		require.NoError(t, err)
		defer file.Close()

		assert.True(t, strings.HasSuffix(file.Path(), "-tool-1.0.tar.gz"))
	})

	t.Run("close removes the backing file", func(t *testing.T) {
		file, err := New(t.TempDir()).Fetch(ctx, server.URL+"/tool-1.0.tar.gz")
		require.NoError(t, err)

		require.NoError(t, file.Close())
		assert.NoFileExists(t, file.Path())
	})
}

func TestFetchWithCookie(t *testing.T) {
	ctx := context.Background()

	var got string
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Cookie")
				w.Write([]byte("gated"))
			},
		),
	)
	defer server.Close()

	dl := New(t.TempDir(), WithCookie("license=accepted"))

	file, err := dl.Fetch(ctx, server.URL+"/gated.tar.gz")
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "license=accepted", got)
}

func TestFetchHTTPError(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		),
	)
	defer server.Close()

	dir := t.TempDir()

	_, err := New(dir).Fetch(ctx, server.URL+"/missing.tar.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")

	// no partial file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchDefaultsToCurrentDirectory(t *testing.T) {
	dl := New("")
	assert.Equal(t, ".", dl.dir)
}
