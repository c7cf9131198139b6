package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoad(t *testing.T) {
	t.Run("combines stop and alternate-point files", func(t *testing.T) {
		dir := t.TempDir()
		stopPath := writeFile(t, dir, "stop_report.txt", "CN100 2026-08-01 IT1 2026-08-03\n")
		csvPath := writeFile(t, dir, "alt_point.csv", "TP Code,Item\nCN200,IT1\n")

		loader := NewLoader(LoaderConfig{Dir: dir})
		src, consumed, err := loader.Load()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{stopPath, csvPath}, consumed)

		assert.True(t, src.Delivered("CN100", "IT1"))
		assert.True(t, src.Delivered("CN200", "IT1"))
		assert.False(t, src.Delivered("CN300", ""))
	})

	t.Run("missing directory yields empty source", func(t *testing.T) {
		loader := NewLoader(LoaderConfig{Dir: filepath.Join(t.TempDir(), "nope")})
		src, consumed, err := loader.Load()
		require.NoError(t, err)
		assert.Empty(t, consumed)
		assert.False(t, src.Delivered("CN100", ""))
	})

	t.Run("unconfigured directory yields empty source", func(t *testing.T) {
		loader := NewLoader(LoaderConfig{})
		src, consumed, err := loader.Load()
		require.NoError(t, err)
		assert.Empty(t, consumed)
		assert.NotNil(t, src)
	})

	t.Run("bad file is skipped, rest of batch loads", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "broken.csv", "Wrong,Header\nCN1,IT1\n")
		goodPath := writeFile(t, dir, "stop.txt", "CN100 2026-08-01 IT1 2026-08-03\n")

		loader := NewLoader(LoaderConfig{Dir: dir})
		src, consumed, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{goodPath}, consumed)
		assert.True(t, src.Delivered("CN100", "IT1"))
	})

	t.Run("subdirectories are ignored", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, processedSubdir), 0o755))
		writeFile(t, filepath.Join(dir, processedSubdir), "old.txt", "CN9 2026-08-01 IT1 2026-08-02\n")

		loader := NewLoader(LoaderConfig{Dir: dir})
		src, consumed, err := loader.Load()
		require.NoError(t, err)
		assert.Empty(t, consumed)
		assert.False(t, src.Delivered("CN9", "IT1"))
	})
}

func TestLoaderArchive(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stop.txt", "CN100 2026-08-01 IT1 2026-08-03\n")

	loader := NewLoader(LoaderConfig{Dir: dir})
	require.NoError(t, loader.Archive([]string{path}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, processedSubdir, "stop.txt"))
	assert.NoError(t, err)

	t.Run("archived files are not reloaded", func(t *testing.T) {
		src, consumed, err := loader.Load()
		require.NoError(t, err)
		assert.Empty(t, consumed)
		assert.False(t, src.Delivered("CN100", "IT1"))
	})

	t.Run("empty path list is a no-op", func(t *testing.T) {
		assert.NoError(t, loader.Archive(nil))
	})
}

func TestMultiSource(t *testing.T) {
	stop := NewStopReport(nil)
	require.NoError(t, stop.Parse(strings.NewReader("CN1 2026-08-01 IT1 2026-08-02\n")))
	alt := NewAltPointReport("", nil)
	require.NoError(t, alt.Parse(strings.NewReader("TP Code\nCN2\n")))

	src := NewMultiSource(stop, alt)
	assert.True(t, src.Delivered("CN1", "IT1"))
	assert.True(t, src.Delivered("CN2", ""))
	assert.Len(t, src.Lookup("CN1"), 1)
	assert.Empty(t, src.Lookup("CN3"))
}
