// Package assets enumerates and resolves the media an item references.
package assets

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cityguide/city-guide/internal/catalog"
	"github.com/cityguide/city-guide/internal/resolver"
)

// Media holds an item's resolved media URLs. Images contains only successful
// resolutions, in input order; Audio is "" when absent or unresolved.
type Media struct {
	Images []string
	Audio  string
}

// Extract resolves every declared asset of a. All resolutions run
// concurrently; failures are dropped, not represented as holes. Read-only, no
// local writes.
func Extract(ctx context.Context, r resolver.Resolver, a catalog.Assets) Media {
	resolved := make([]string, len(a.Images))
	var audio string

	var g errgroup.Group
	for i, path := range a.Images {
		g.Go(func() error {
			resolved[i] = resolver.URL(ctx, r, path)
			return nil
		})
	}
	if a.Audio != "" {
		g.Go(func() error {
			audio = resolver.URL(ctx, r, a.Audio)
			return nil
		})
	}
	// Resolution failures were already absorbed to "".
	_ = g.Wait()

	m := Media{Audio: audio}
	for _, u := range resolved {
		if u != "" {
			m.Images = append(m.Images, u)
		}
	}
	return m
}
