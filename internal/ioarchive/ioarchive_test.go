package ioarchive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioarchive"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gridContent = "CDF\x01 fake grid"

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	cands := partition.RawCandidates(root, "rostov", 2024, 1)

	_, err := ioarchive.Locate(root, "rostov", 2024, 1)
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.SourceAbsentError))

	writeZip(t, cands[1], map[string]string{"data.nc": gridContent})
	path, err := ioarchive.Locate(root, "rostov", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, cands[1], path)

	writeFile(t, cands[0], gridContent)
	path, err = ioarchive.Locate(root, "rostov", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, cands[0], path, ".nc is preferred")
}

func TestResolveBareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "month=01.nc")
	writeFile(t, path, gridContent)

	local, release, err := ioarchive.Resolve(path)
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.Equal(t, path, local)
	release()

	_, err = os.Stat(path)
	assert.NoError(t, err, "release keeps the source")
}

func TestResolveArchive(t *testing.T) {
	// archive detection ignores the extension
	path := filepath.Join(t.TempDir(), "month=01.nc")
	writeZip(t, path, map[string]string{
		"readme.txt":         "x",
		"sub/data_stream.nc": gridContent,
	})

	isZip, err := ioarchive.IsZip(path)
	require.NoError(t, err)
	assert.True(t, isZip)

	local, release, err := ioarchive.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "data_stream.nc", filepath.Base(local))

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, gridContent, string(data))

	release()
	_, err = os.Stat(local)
	assert.True(t, os.IsNotExist(err), "release removes extracted file")
}

func TestResolveArchiveWithoutGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "month=01.zip")
	writeZip(t, path, map[string]string{"request.json": "{}"})

	_, release, err := ioarchive.Resolve(path)
	require.NotNil(t, release)
	release()
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.ArchiveNoGridError))
	assert.Contains(t, err.Error(), "request.json")
}

func TestResolveMissingFile(t *testing.T) {
	_, release, err := ioarchive.Resolve(filepath.Join(t.TempDir(), "none.nc"))
	require.NotNil(t, release)
	assert.True(t, errcode.Is(err, errcode.ArchiveOpenError))
}
