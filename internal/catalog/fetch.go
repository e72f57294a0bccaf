package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/cityguide/city-guide/internal/httpclient"
)

// ErrNotModified is returned by Refresh when the content endpoint answered 304
// (the on-disk snapshot is still current).
var ErrNotModified = errors.New("catalog: 304 not modified")

// RefreshState carries the cache validators between refreshes. Persist it next
// to the snapshot to keep conditional GETs working across runs.
type RefreshState struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// Refresh fetches the snapshot for lang from the content endpoint with a
// conditional GET and replaces the catalog on 200. On 304 the catalog is left
// untouched and ErrNotModified is returned. The returned state holds the new
// validators on success.
func Refresh(ctx context.Context, client *http.Client, endpoint, lang string, prior RefreshState) (*Catalog, RefreshState, error) {
	if client == nil {
		client = httpclient.Default()
	}
	u := endpoint + "?lang=" + url.QueryEscape(lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, prior, fmt.Errorf("catalog refresh: build request: %w", err)
	}
	req.Header.Set("User-Agent", httpclient.UserAgent)
	req.Header.Set("Accept", "application/json")
	if prior.ETag != "" {
		req.Header.Set("If-None-Match", prior.ETag)
	}
	if prior.LastModified != "" {
		req.Header.Set("If-Modified-Since", prior.LastModified)
	}

	resp, err := httpclient.DoWithRetry(ctx, client, req, httpclient.DefaultRetryPolicy)
	if err != nil {
		return nil, prior, fmt.Errorf("catalog refresh %s: %w", lang, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, prior, ErrNotModified
	}
	if resp.StatusCode != http.StatusOK {
		return nil, prior, fmt.Errorf("catalog refresh %s: unexpected status %d", lang, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, prior, fmt.Errorf("catalog refresh %s: read body: %w", lang, err)
	}
	var out struct {
		Monuments []Monument `json:"monuments"`
		Mysteries []Mystery  `json:"mysteries"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, prior, fmt.Errorf("catalog refresh %s: parse: %w", lang, err)
	}
	c := New()
	c.Replace(out.Monuments, out.Mysteries)
	next := RefreshState{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}
	return c, next, nil
}

// LoadRefreshState reads a persisted RefreshState; a missing file is a fresh state.
func LoadRefreshState(path string) RefreshState {
	var s RefreshState
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	// Corrupt state just means a full refetch.
	_ = json.Unmarshal(data, &s)
	return s
}

// SaveRefreshState persists s to path.
func SaveRefreshState(path string, s RefreshState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RefreshStatePath returns the conventional state file path for a snapshot path.
func RefreshStatePath(snapshotPath string) string {
	return snapshotPath + ".refreshstate.json"
}
