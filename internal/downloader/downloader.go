// Package downloader fetches every asset of a content item to local storage
// and records completion in the ledger. The ledger write happens only after
// every fetch succeeded; a failed run leaves finished files on disk so a
// retry skips them.
package downloader

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cityguide/city-guide/internal/assets"
	"github.com/cityguide/city-guide/internal/cache"
	"github.com/cityguide/city-guide/internal/catalog"
	"github.com/cityguide/city-guide/internal/httpclient"
	"github.com/cityguide/city-guide/internal/ledger"
	"github.com/cityguide/city-guide/internal/resolver"
)

// DownloadError is the single error surfaced by a bulk download. It names the
// item and wraps the first underlying fetch failure.
type DownloadError struct {
	Kind   ledger.Kind
	ItemID string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s %s: %v", e.Kind, e.ItemID, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Downloader orchestrates bulk downloads for monuments and mysteries.
type Downloader struct {
	Resolver      resolver.Resolver
	Client        *http.Client
	DocumentsRoot string
	Ledger        ledger.Ledger

	mu       sync.Mutex
	inFlight map[runKey]*run // at most one bulk download per (kind,id)
}

type runKey struct {
	kind ledger.Kind
	id   string
}

type run struct {
	done     chan struct{}
	manifest ledger.Manifest
	err      error
}

// DownloadMonument fetches all of a monument's images and its audio track,
// then persists the manifest and marks the ledger. All fetches run
// concurrently; an already-present file is not re-fetched.
func (d *Downloader) DownloadMonument(ctx context.Context, item catalog.Monument) (ledger.Manifest, error) {
	return d.runOnce(ctx, ledger.KindMonument, item.ID, func(ctx context.Context) (ledger.Manifest, error) {
		// Unresolvable references are dropped here, matching how the item
		// renders: an image the screen cannot show is not downloadable either.
		media := assets.Extract(ctx, d.Resolver, item.Assets)

		// Siblings are not cancelled when one fetch fails: finished files stay
		// on disk so the retry after a failure skips them.
		images := make([]string, len(media.Images))
		var g errgroup.Group
		for i, u := range media.Images {
			local := cache.MonumentImagePath(d.DocumentsRoot, item.ID, i)
			images[i] = local
			g.Go(func() error {
				return d.fetchIfAbsent(ctx, u, local)
			})
		}
		var audio string
		if media.Audio != "" {
			audio = cache.MonumentAudioPath(d.DocumentsRoot, item.ID)
			g.Go(func() error {
				return d.fetchIfAbsent(ctx, media.Audio, audio)
			})
		}
		if err := g.Wait(); err != nil {
			return ledger.Manifest{}, err
		}

		m := ledger.Manifest{Images: images, Audio: audio}
		if err := d.Ledger.SaveManifest(ctx, item.ID, m); err != nil {
			return ledger.Manifest{}, err
		}
		if err := d.Ledger.MarkDownloaded(ctx, ledger.KindMonument, item.ID); err != nil {
			return ledger.Manifest{}, err
		}
		log.Printf("downloader: monument ok id=%s images=%d audio=%v", item.ID, len(images), audio != "")
		return m, nil
	})
}

// DownloadMystery fetches every media reference of every game-flow step to
// the shared bare-filename layout the offline enricher expects, then marks
// the ledger. Steps download concurrently; assets are independent.
func (d *Downloader) DownloadMystery(ctx context.Context, item catalog.Mystery) error {
	_, err := d.runOnce(ctx, ledger.KindMystery, item.ID, func(ctx context.Context) (ledger.Manifest, error) {
		var g errgroup.Group
		total := 0
		seen := make(map[string]bool) // steps may share a file; fetch each local path once
		for _, step := range item.GameFlow {
			for _, ref := range []string{step.Audio, step.Video, step.Background, step.Guide} {
				if ref == "" {
					continue
				}
				local := cache.FlowAssetPath(d.DocumentsRoot, ref)
				if seen[local] {
					continue
				}
				seen[local] = true
				total++
				g.Go(func() error {
					// An unresolvable reference renders nothing anywhere;
					// skipping it keeps parity with online playback.
					u := resolver.URL(ctx, d.Resolver, ref)
					if u == "" {
						return nil
					}
					return d.fetchIfAbsent(ctx, u, local)
				})
			}
		}
		if err := g.Wait(); err != nil {
			return ledger.Manifest{}, err
		}
		if err := d.Ledger.MarkDownloaded(ctx, ledger.KindMystery, item.ID); err != nil {
			return ledger.Manifest{}, err
		}
		log.Printf("downloader: mystery ok id=%s steps=%d assets=%d", item.ID, len(item.GameFlow), total)
		return ledger.Manifest{}, nil
	})
	return err
}

// fetchIfAbsent downloads url to dest unless a complete file is already
// there. Files land via partial-then-rename, so existence implies complete.
func (d *Downloader) fetchIfAbsent(ctx context.Context, url, dest string) error {
	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
		return nil
	}
	return httpclient.DownloadToFile(ctx, d.Client, url, dest)
}

// runOnce coalesces concurrent bulk downloads of the same item: the first
// caller runs fn, later callers wait for it and share the outcome.
func (d *Downloader) runOnce(ctx context.Context, kind ledger.Kind, id string, fn func(context.Context) (ledger.Manifest, error)) (ledger.Manifest, error) {
	key := runKey{kind: kind, id: id}
	d.mu.Lock()
	if d.inFlight == nil {
		d.inFlight = make(map[runKey]*run)
	}
	if r, exists := d.inFlight[key]; exists {
		d.mu.Unlock()
		select {
		case <-ctx.Done():
			return ledger.Manifest{}, ctx.Err()
		case <-r.done:
			return r.manifest, r.err
		}
	}
	r := &run{done: make(chan struct{})}
	d.inFlight[key] = r
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.inFlight, key)
		close(r.done)
		d.mu.Unlock()
	}()

	m, err := fn(ctx)
	if err != nil {
		if _, ok := err.(*DownloadError); !ok {
			err = &DownloadError{Kind: kind, ItemID: id, Err: err}
		}
		log.Printf("downloader: failed kind=%s id=%s err=%v", kind, id, err)
		r.err = err
		return ledger.Manifest{}, err
	}
	r.manifest = m
	return m, nil
}
