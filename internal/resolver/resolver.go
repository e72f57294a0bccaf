// Package resolver turns opaque storage paths into time-bounded fetchable URLs.
package resolver

import (
	"context"
	"log"
)

// Resolver resolves a storage path against the remote blob store. A resolved
// URL is time-limited, which is why results are never cached across calls.
type Resolver interface {
	Resolve(ctx context.Context, storagePath string) (string, error)
}

// URL resolves storagePath through r, absorbing every failure. An empty path
// returns "" without touching the network; a failed lookup is logged and also
// becomes "". Callers render optional media, so "could not resolve" must
// degrade to "no media", never to an error crossing this boundary.
func URL(ctx context.Context, r Resolver, storagePath string) string {
	if storagePath == "" {
		return ""
	}
	u, err := r.Resolve(ctx, storagePath)
	if err != nil {
		log.Printf("resolver: resolve failed path=%q err=%v", storagePath, err)
		return ""
	}
	return u
}

// Func adapts a plain function to the Resolver interface.
type Func func(ctx context.Context, storagePath string) (string, error)

func (f Func) Resolve(ctx context.Context, storagePath string) (string, error) {
	return f(ctx, storagePath)
}
