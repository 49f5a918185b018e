package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadURLs(t *testing.T) {
	logger := zap.NewNop()

	t.Run("header keyword column", func(t *testing.T) {
		path := writeCSV(t, "name,url\nexample,https://example.com\nother,http://other.org\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "http://other.org"}, urls)
	})

	t.Run("header keyword is a substring match", func(t *testing.T) {
		path := writeCSV(t, "id,Landing Page Link\n1,https://example.com/a\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, urls)
	})

	t.Run("content sniff fallback", func(t *testing.T) {
		path := writeCSV(t, "id,destination\n1,https://example.com\n2,https://example.org\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.org"}, urls)
	})

	t.Run("first column last resort", func(t *testing.T) {
		path := writeCSV(t, "alpha,beta\nfoo,bar\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("headerless sheet keeps the first row", func(t *testing.T) {
		path := writeCSV(t, "https://example.com\nhttps://example.org\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.org"}, urls)
	})

	t.Run("invalid rows are skipped", func(t *testing.T) {
		path := writeCSV(t, "url\nhttps://example.com\nnot-a-url\nftp://example.net\n\nhttp://ok.io\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "http://ok.io"}, urls)
	})

	t.Run("multiple url columns contribute column by column", func(t *testing.T) {
		path := writeCSV(t, "url,mirror_link\nhttps://a.com,https://b.com\nhttps://c.com,https://d.com\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com", "https://c.com", "https://b.com", "https://d.com"}, urls)
	})

	t.Run("ragged rows tolerated", func(t *testing.T) {
		path := writeCSV(t, "name,url\nshort\nfull,https://example.com\n")
		urls, err := LoadURLs(path, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com"}, urls)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, "")
		_, err := LoadURLs(path, logger)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadURLs(filepath.Join(t.TempDir(), "nope.csv"), logger)
		assert.Error(t, err)
	})
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com"))
	assert.True(t, IsValidURL("http://example.com/path?q=1"))
	assert.True(t, IsValidURL("  https://example.com  "))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("example.com"))
	assert.False(t, IsValidURL(""))
}
