package boundary

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func createTestZIP(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	require.NoError(t, os.WriteFile(zipPath, zipBytes(t, files), 0o644))
	return zipPath
}

func TestFetch_HTTPShapefileArchive(t *testing.T) {
	archive := zipBytes(t, map[string]string{
		"ne_admin.shp": "shp bytes",
		"ne_admin.dbf": "dbf bytes",
		"ne_admin.prj": "prj bytes",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/ne_admin.zip", r.URL.Path)
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dest := t.TempDir()
	got, err := Fetch(context.Background(), srv.Client(), srv.URL+"/data/ne_admin.zip", dest)
	require.NoError(t, err)
	assert.Equal(t, "ne_admin.shp", filepath.Base(got))

	// Sidecars land next to the .shp.
	_, err = os.Stat(filepath.Join(filepath.Dir(got), "ne_admin.dbf"))
	assert.NoError(t, err)
}

func TestFetch_GeoJSONDirect(t *testing.T) {
	body := `{"type":"FeatureCollection","features":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := t.TempDir()
	got, err := Fetch(context.Background(), srv.Client(), srv.URL+"/world.geojson", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing.zip", t.TempDir())
	assert.Error(t, err)
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	_, err := Fetch(context.Background(), nil, "gopher://example.com/data.zip", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported url scheme")
}

func TestFetch_UnsupportedFileType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tar bytes"))
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/data.tar", t.TempDir())
	assert.Error(t, err)
}

func TestFetch_ArchiveWithoutShapefile(t *testing.T) {
	archive := zipBytes(t, map[string]string{"readme.txt": "no shapes here"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/empty.zip", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .shp file")
}

func TestExtractZIP_FlattensPaths(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{
		"nested/dir/data.shp": "shape data",
		"top.dbf":             "attr data",
	})

	dest := t.TempDir()
	require.NoError(t, extractZIP(zipPath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "data.shp"))
	require.NoError(t, err)
	assert.Equal(t, "shape data", string(data))

	_, err = os.Stat(filepath.Join(dest, "top.dbf"))
	assert.NoError(t, err)
}

func TestExtractZIP_InvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notazip.zip")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip"), 0o644))

	assert.Error(t, extractZIP(path, t.TempDir()))
}

func TestFindFileByExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.SHP"), []byte("x"), 0o644))

	got, err := findFileByExt(dir, ".shp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.SHP"), got)

	_, err = findFileByExt(dir, ".dbf")
	assert.Error(t, err)
}
