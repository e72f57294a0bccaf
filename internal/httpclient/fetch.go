package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DownloadToFile streams url into destPath. The body is written to
// destPath + ".partial" and renamed into place on success, so a file sitting
// at destPath is always complete. On failure the partial file is removed and
// destPath is untouched.
func DownloadToFile(ctx context.Context, client *http.Client, url, destPath string) error {
	if client == nil {
		client = Default()
	}
	if err := GlobalHostLimit.Wait(ctx, url); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgent)
	resp, err := DoWithRetry(ctx, client, req, DefaultRetryPolicy)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: %s", redactURL(url), resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	partial := destPath + ".partial"
	f, err := os.Create(partial)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(partial)
		if copyErr != nil {
			return fmt.Errorf("download %s: %w", redactURL(url), copyErr)
		}
		return closeErr
	}
	if err := os.Rename(partial, destPath); err != nil {
		os.Remove(partial)
		return err
	}
	return nil
}

// redactURL drops the query string; resolved URLs carry signed tokens.
func redactURL(s string) string {
	if i := strings.Index(s, "?"); i >= 0 {
		return s[:i] + "?[redacted]"
	}
	return s
}
