package catalog_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/cityguide/city-guide/internal/catalog"
)

const snapshotJSON = `{"monuments":[{"id":"m1","title":"Fountain","assets":{"images":["a/b.jpg"]}}],"mysteries":[]}`

func TestRefresh_200ParsesAndCapturesValidators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("lang"); got != "cs" {
			t.Errorf("lang = %q", got)
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, snapshotJSON)
	}))
	defer srv.Close()

	c, state, err := catalog.Refresh(context.Background(), srv.Client(), srv.URL, "cs", catalog.RefreshState{})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if state.ETag != `"v1"` {
		t.Errorf("ETag = %q", state.ETag)
	}
	if _, ok := c.Monument("m1"); !ok {
		t.Error("monument m1 missing after refresh")
	}
}

func TestRefresh_304LeavesSnapshotAlone(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, snapshotJSON)
	}))
	defer srv.Close()

	ctx := context.Background()
	_, state, err := catalog.Refresh(ctx, srv.Client(), srv.URL, "cs", catalog.RefreshState{})
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	_, _, err = catalog.Refresh(ctx, srv.Client(), srv.URL, "cs", state)
	if err != catalog.ErrNotModified {
		t.Fatalf("second refresh: want ErrNotModified, got %v", err)
	}
}

func TestRefreshState_persistRoundTrip(t *testing.T) {
	path := catalog.RefreshStatePath(filepath.Join(t.TempDir(), "catalog_cs.json"))
	want := catalog.RefreshState{ETag: `"v2"`, LastModified: "Mon, 02 Jan 2006 15:04:05 GMT"}
	if err := catalog.SaveRefreshState(path, want); err != nil {
		t.Fatalf("SaveRefreshState: %v", err)
	}
	if got := catalog.LoadRefreshState(path); got != want {
		t.Errorf("LoadRefreshState = %+v, want %+v", got, want)
	}
}

func TestRefreshState_missingFileIsFresh(t *testing.T) {
	got := catalog.LoadRefreshState(filepath.Join(t.TempDir(), "nope.json"))
	if got != (catalog.RefreshState{}) {
		t.Errorf("missing file should give zero state, got %+v", got)
	}
}
