package httpclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cityguide/city-guide/internal/httpclient"
)

func TestDownloadToFile_writesAndRenames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "media-bytes")
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "song.mp3")
	if err := httpclient.DownloadToFile(context.Background(), srv.Client(), srv.URL, dest); err != nil {
		t.Fatalf("DownloadToFile: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(data) != "media-bytes" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(dest + ".partial"); !os.IsNotExist(err) {
		t.Errorf("partial file should be gone, stat err = %v", err)
	}
}

func TestDownloadToFile_failureLeavesNoFinalFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "song.mp3")
	if err := httpclient.DownloadToFile(context.Background(), srv.Client(), srv.URL, dest); err == nil {
		t.Fatal("expected error on 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("dest should not exist, stat err = %v", err)
	}
}

func TestDownloadToFile_cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "x")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := filepath.Join(t.TempDir(), "song.mp3")
	if err := httpclient.DownloadToFile(ctx, srv.Client(), srv.URL, dest); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
