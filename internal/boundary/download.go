package boundary

import (
	"archive/zip"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const ftpTimeout = 30 * time.Second

// Fetch downloads a boundary dataset over HTTP, HTTPS, or FTP into
// destDir and returns the local path to load. Zipped archives are
// extracted and the contained .shp located; bare .json/.geojson files
// are used directly. A nil client falls back to http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, rawURL, destDir string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	log := zap.L().With(zap.String("component", "boundary.fetch"), zap.String("url", rawURL))

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "boundary: parse dataset url")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create dest dir")
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "boundaries.zip"
	}
	local := filepath.Join(destDir, name)

	log.Info("downloading boundary dataset")
	switch u.Scheme {
	case "http", "https":
		err = downloadHTTP(ctx, client, rawURL, local)
	case "ftp":
		err = downloadFTP(ctx, u, local)
	default:
		return "", eris.Errorf("boundary: unsupported url scheme %q", u.Scheme)
	}
	if err != nil {
		return "", eris.Wrap(err, "boundary: download dataset")
	}

	switch strings.ToLower(filepath.Ext(local)) {
	case ".json", ".geojson":
		return local, nil
	case ".zip":
		extractDir := filepath.Join(destDir, "extracted")
		if err := os.MkdirAll(extractDir, 0o755); err != nil {
			return "", eris.Wrap(err, "boundary: create extract dir")
		}
		if err := extractZIP(local, extractDir); err != nil {
			return "", eris.Wrap(err, "boundary: extract archive")
		}
		shpPath, err := findFileByExt(extractDir, ".shp")
		if err != nil {
			return "", eris.Wrap(err, "boundary: locate .shp")
		}
		return shpPath, nil
	default:
		return "", eris.Errorf("boundary: unsupported dataset file %q", filepath.Base(local))
	}
}

// downloadHTTP downloads a URL to a local file.
func downloadHTTP(ctx context.Context, client *http.Client, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// downloadFTP retrieves a file from an anonymous FTP server.
func downloadFTP(ctx context.Context, u *url.URL, dest string) error {
	host := u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}
	if u.Path == "" {
		return eris.New("empty path in ftp url")
	}

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(ftpTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "ftp dial")
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return eris.Wrap(err, "ftp login")
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return eris.Wrap(err, "ftp retrieve")
	}
	defer func() { _ = resp.Close() }()

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// extractZIP extracts a ZIP archive to the destination directory,
// flattening any internal paths.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}
	return nil
}

// findFileByExt finds the first file with the given extension in a
// directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
