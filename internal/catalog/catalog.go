// Package catalog holds the per-session snapshot of monuments and mysteries.
// The remote document store owns the content; the client only ever reads a
// snapshot, refetched per language.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Assets references a content item's media by storage path. Storage paths are
// opaque blob names, not URLs; resolving one needs the resolver.
type Assets struct {
	Images []string `json:"images,omitempty"`
	Audio  string   `json:"audio,omitempty"`
}

// Monument is a point of interest with downloadable media.
type Monument struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Assets      Assets  `json:"assets"`
}

// Step is one stage of a mystery's game flow. Identity is positional; every
// media field is optional and an empty field is normal, never an error.
type Step struct {
	Type       string `json:"type"`
	Audio      string `json:"audio,omitempty"`
	Video      string `json:"video,omitempty"`
	Background string `json:"background,omitempty"`
	Guide      string `json:"guide,omitempty"`
}

// Mystery is a location-triggered story game with an ordered flow of steps.
type Mystery struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Assets   Assets `json:"assets"`
	GameFlow []Step `json:"gameFlow,omitempty"`
}

// Catalog is the snapshot of all content for one language.
type Catalog struct {
	mu        sync.RWMutex
	Monuments []Monument `json:"monuments"`
	Mysteries []Mystery  `json:"mysteries"`
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Replace swaps in a fresh snapshot.
func (c *Catalog) Replace(monuments []Monument, mysteries []Mystery) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Monuments = monuments
	c.Mysteries = mysteries
}

// Snapshot returns copies of the content for read-only use.
func (c *Catalog) Snapshot() (monuments []Monument, mysteries []Mystery) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	monuments = make([]Monument, len(c.Monuments))
	copy(monuments, c.Monuments)
	mysteries = make([]Mystery, len(c.Mysteries))
	copy(mysteries, c.Mysteries)
	return monuments, mysteries
}

// Monument returns the monument with the given id.
func (c *Catalog) Monument(id string) (Monument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.Monuments {
		if m.ID == id {
			return m, true
		}
	}
	return Monument{}, false
}

// Mystery returns the mystery with the given id.
func (c *Catalog) Mystery(id string) (Mystery, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.Mysteries {
		if m.ID == id {
			return m, true
		}
	}
	return Mystery{}, false
}

// Save writes the catalog to path as JSON using a temp-file-then-rename
// strategy so readers never see a partially-written snapshot.
func (c *Catalog) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(filepath.Clean(path))
	tmp, err := os.CreateTemp(dir, ".catalog-*.json.tmp")
	if err != nil {
		return fmt.Errorf("catalog save: create temp: %w", err)
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if writeErr != nil {
			return fmt.Errorf("catalog save: write: %w", writeErr)
		}
		return fmt.Errorf("catalog save: close: %w", closeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("catalog save: rename: %w", err)
	}
	return nil
}

// Load replaces the catalog with the contents of path (JSON).
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var out struct {
		Monuments []Monument `json:"monuments"`
		Mysteries []Mystery  `json:"mysteries"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	c.Replace(out.Monuments, out.Mysteries)
	return nil
}

// SnapshotPath returns the conventional snapshot file for a language,
// e.g. <dir>/catalog_cs.json. Content is language-split upstream
// (monuments_<lang> / mysteries_<lang> collections).
func SnapshotPath(dir, lang string) string {
	return filepath.Join(dir, "catalog_"+lang+".json")
}
