package assets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cityguide/city-guide/internal/assets"
	"github.com/cityguide/city-guide/internal/catalog"
	"github.com/cityguide/city-guide/internal/resolver"
)

// echoResolver resolves every path to a predictable URL, failing the ones in bad.
func echoResolver(bad map[string]bool) resolver.Resolver {
	return resolver.Func(func(ctx context.Context, p string) (string, error) {
		if bad[p] {
			return "", errors.New("not found")
		}
		return "https://cdn.example/" + p, nil
	})
}

func TestExtract_allResolve(t *testing.T) {
	a := catalog.Assets{
		Images: []string{"a/b.jpg", "a/c.jpg"},
		Audio:  "a/d.mp3",
	}
	m := assets.Extract(context.Background(), echoResolver(nil), a)
	if len(m.Images) != 2 {
		t.Fatalf("images = %v, want 2", m.Images)
	}
	if m.Images[0] != "https://cdn.example/a/b.jpg" || m.Images[1] != "https://cdn.example/a/c.jpg" {
		t.Errorf("images out of order or wrong: %v", m.Images)
	}
	if m.Audio != "https://cdn.example/a/d.mp3" {
		t.Errorf("audio = %q", m.Audio)
	}
}

func TestExtract_failedImageDroppedNotHole(t *testing.T) {
	a := catalog.Assets{Images: []string{"a/1.jpg", "a/2.jpg", "a/3.jpg"}}
	m := assets.Extract(context.Background(), echoResolver(map[string]bool{"a/2.jpg": true}), a)
	if len(m.Images) != 2 {
		t.Fatalf("images = %v, want exactly 2", m.Images)
	}
	if m.Images[0] != "https://cdn.example/a/1.jpg" || m.Images[1] != "https://cdn.example/a/3.jpg" {
		t.Errorf("surviving images wrong: %v", m.Images)
	}
}

func TestExtract_emptyItem(t *testing.T) {
	m := assets.Extract(context.Background(), echoResolver(nil), catalog.Assets{})
	if len(m.Images) != 0 || m.Audio != "" {
		t.Errorf("empty assets should extract to nothing, got %+v", m)
	}
}

func TestExtract_failedAudioIsEmpty(t *testing.T) {
	a := catalog.Assets{Audio: "a/d.mp3"}
	m := assets.Extract(context.Background(), echoResolver(map[string]bool{"a/d.mp3": true}), a)
	if m.Audio != "" {
		t.Errorf("audio = %q, want empty on failure", m.Audio)
	}
}
