// Package release resolves and downloads assets from a GitHub-style
// releases/latest endpoint.
package release

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNoMatchingAsset reports a listing that parsed successfully but
// contained no asset the matcher accepted.
var ErrNoMatchingAsset = errors.New("no release asset matched")

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

type listing struct {
	Assets []Asset `json:"assets"`
}

// Matcher selects an asset by name.
type Matcher func(name string) bool

// NameMatcher accepts assets whose name contains marker (case-insensitive)
// and ends with ext.
func NameMatcher(marker, ext string) Matcher {
	marker = strings.ToLower(marker)
	ext = strings.ToLower(ext)
	return func(name string) bool {
		name = strings.ToLower(name)
		return strings.Contains(name, marker) && strings.HasSuffix(name, ext)
	}
}

// Client fetches release metadata and asset bodies from one endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a client for the given releases/latest endpoint.
func NewClient(endpoint string) *Client {
	return &Client{endpoint: endpoint, http: http.DefaultClient}
}

// LatestAsset fetches the release listing and returns the first asset the
// matcher accepts, in listing order. It returns ErrNoMatchingAsset when the
// listing parses but nothing matches, and a wrapped transport or decode
// error otherwise.
func (c *Client) LatestAsset(ctx context.Context, match Matcher) (Asset, error) {
	log.Info().Str("endpoint", c.endpoint).Msg("fetching latest release")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Asset{}, errors.Wrap(err, "build release request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Asset{}, errors.Wrap(err, "fetch release listing")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Asset{}, errors.Errorf("fetch release listing: unexpected status %s", resp.Status)
	}
	var rel listing
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Asset{}, errors.Wrap(err, "decode release listing")
	}
	for _, asset := range rel.Assets {
		if match(asset.Name) {
			log.Info().Str("asset", asset.Name).Str("url", asset.DownloadURL).Msg("resolved latest asset")
			return asset, nil
		}
	}
	return Asset{}, ErrNoMatchingAsset
}
