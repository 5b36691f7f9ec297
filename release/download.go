package release

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Artifact is a downloaded release asset on the local filesystem.
type Artifact struct {
	Path string
	Size int64
}

// Download retrieves the asset body synchronously into destDir, named after
// the asset, and reports the resulting byte size. A zero-byte body is
// accepted but logged, since the bridge will reject an empty APK later.
func (c *Client) Download(ctx context.Context, asset Asset, destDir string) (Artifact, error) {
	path := filepath.Join(destDir, asset.Name)
	log.Info().Str("asset", asset.Name).Str("path", path).Msg("downloading asset")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return Artifact{}, errors.Wrap(err, "build download request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Artifact{}, errors.Wrap(err, "download asset")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Artifact{}, errors.Errorf("download asset: unexpected status %s", resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return Artifact{}, errors.Wrap(err, "create artifact file")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return Artifact{}, errors.Wrap(err, "write artifact file")
	}
	if err := f.Close(); err != nil {
		return Artifact{}, errors.Wrap(err, "close artifact file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, errors.Wrap(err, "stat downloaded artifact")
	}
	if info.Size() == 0 {
		log.Warn().Str("path", path).Msg("downloaded artifact is empty")
	} else {
		log.Info().
			Str("asset", asset.Name).
			Float64("size_mb", float64(info.Size())/(1024*1024)).
			Msg("download complete")
	}
	return Artifact{Path: path, Size: info.Size()}, nil
}
