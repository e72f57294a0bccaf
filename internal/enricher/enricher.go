// Package enricher augments raw game-flow steps with usable media URIs.
//
// Two variants share one output shape. Online resolves each reference against
// the blob store and best-effort prefetches it to the documents root so
// playback avoids a second network fetch. Offline is pure path math over
// files the bulk downloader already wrote.
package enricher

import (
	"context"
	"log"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/cityguide/city-guide/internal/cache"
	"github.com/cityguide/city-guide/internal/catalog"
	"github.com/cityguide/city-guide/internal/httpclient"
	"github.com/cityguide/city-guide/internal/resolver"
)

// EnrichedStep carries the original step plus one resolved URI per media
// field. A field is "" when the source reference was absent or unresolved;
// a prefetch failure alone never empties a field.
type EnrichedStep struct {
	catalog.Step
	AudioURL           string
	VideoURL           string
	BackgroundImageURL string
	GuideURL           string
}

// Enricher is the online variant. Used when the ledger says the mystery is
// not fully downloaded yet.
type Enricher struct {
	Resolver      resolver.Resolver
	Client        *http.Client
	DocumentsRoot string
}

// EnrichOnline resolves every step's media references, prefetching each to
// local storage. Steps and fields within a step resolve concurrently.
func (e *Enricher) EnrichOnline(ctx context.Context, flow []catalog.Step) []EnrichedStep {
	out := make([]EnrichedStep, len(flow))
	var g errgroup.Group
	for i, step := range flow {
		g.Go(func() error {
			out[i] = e.enrichStep(ctx, step)
			return nil
		})
	}
	// Per-field failures were already degraded in place.
	_ = g.Wait()
	return out
}

func (e *Enricher) enrichStep(ctx context.Context, step catalog.Step) EnrichedStep {
	es := EnrichedStep{Step: step}
	fields := []struct {
		path string
		dst  *string
	}{
		{step.Audio, &es.AudioURL},
		{step.Video, &es.VideoURL},
		{step.Background, &es.BackgroundImageURL},
		{step.Guide, &es.GuideURL},
	}
	var g errgroup.Group
	for _, f := range fields {
		if f.path == "" {
			continue
		}
		g.Go(func() error {
			*f.dst = e.materialize(ctx, f.path)
			return nil
		})
	}
	_ = g.Wait()
	return es
}

// materialize resolves one reference and tries to bring it local. Fallback
// order: local cached copy, freshly prefetched copy, then the remote URL
// itself when prefetch fails. "" only when resolution itself failed.
func (e *Enricher) materialize(ctx context.Context, storagePath string) string {
	remote := resolver.URL(ctx, e.Resolver, storagePath)
	if remote == "" {
		return ""
	}
	local := cache.FlowAssetPath(e.DocumentsRoot, storagePath)
	if fi, err := os.Stat(local); err == nil && fi.Size() > 0 {
		return local
	}
	if err := httpclient.DownloadToFile(ctx, e.Client, remote, local); err != nil {
		log.Printf("enricher: prefetch failed path=%q err=%v", storagePath, err)
		return remote
	}
	return local
}

// EnrichOffline derives every media URI from the documents root alone: no
// network, no existence checks. The contract assumes a completed bulk
// download; a missing file surfaces at playback, not here.
func EnrichOffline(documentsRoot string, flow []catalog.Step) []EnrichedStep {
	localURI := func(storagePath string) string {
		if storagePath == "" {
			return ""
		}
		return cache.FlowAssetPath(documentsRoot, storagePath)
	}
	out := make([]EnrichedStep, len(flow))
	for i, step := range flow {
		out[i] = EnrichedStep{
			Step:               step,
			AudioURL:           localURI(step.Audio),
			VideoURL:           localURI(step.Video),
			BackgroundImageURL: localURI(step.Background),
			GuideURL:           localURI(step.Guide),
		}
	}
	return out
}
