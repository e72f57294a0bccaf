// Package ledger records which content items are fully downloaded. It is the
// source of truth screens consult before choosing online or offline asset
// resolution: an id is either in the set or it is not, and nothing in-progress
// is ever persisted.
package ledger

import "context"

// Kind namespaces the downloaded set per content type.
type Kind string

const (
	KindMonument Kind = "monument"
	KindMystery  Kind = "mystery"
)

// Manifest maps a monument's asset roles to local file paths. Written exactly
// once, after a fully successful bulk download.
type Manifest struct {
	Images []string `json:"images"`
	Audio  string   `json:"audio,omitempty"`
}

// Ledger is the injected persistence port for download completion.
type Ledger interface {
	// IsDownloaded reports whether id is recorded as fully downloaded.
	IsDownloaded(ctx context.Context, kind Kind, id string) (bool, error)

	// MarkDownloaded adds id to the downloaded set. Idempotent: marking an
	// already-marked id is a no-op.
	MarkDownloaded(ctx context.Context, kind Kind, id string) error

	// Downloaded lists all recorded ids for a kind.
	Downloaded(ctx context.Context, kind Kind) ([]string, error)

	// SaveManifest persists the local-path manifest for a monument.
	SaveManifest(ctx context.Context, id string, m Manifest) error

	// Manifest returns the persisted manifest for id, ok=false when absent.
	Manifest(ctx context.Context, id string) (Manifest, bool, error)
}
