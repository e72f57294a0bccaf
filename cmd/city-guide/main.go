// Command city-guide: offline asset sync for the tourist guide app.
//
//	refresh   Fetch the content snapshot for the configured language (conditional GET) and save it
//	download  Bulk-download all assets of a monument or mystery and mark the ledger
//	enrich    Print a mystery's game flow with resolved media URIs (online or offline)
//	status    List fully-downloaded items per kind
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cityguide/city-guide/internal/catalog"
	"github.com/cityguide/city-guide/internal/config"
	"github.com/cityguide/city-guide/internal/downloader"
	"github.com/cityguide/city-guide/internal/enricher"
	"github.com/cityguide/city-guide/internal/httpclient"
	"github.com/cityguide/city-guide/internal/ledger"
	"github.com/cityguide/city-guide/internal/resolver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Printf("main: load .env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "refresh":
		err = cmdRefresh(ctx, cfg, os.Args[2:])
	case "download":
		err = cmdDownload(ctx, cfg, os.Args[2:])
	case "enrich":
		err = cmdEnrich(ctx, cfg, os.Args[2:])
	case "status":
		err = cmdStatus(ctx, cfg)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("main: %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: city-guide <command> [flags]

commands:
  refresh                       fetch + save the content snapshot for CITY_GUIDE_LANG
  download -monument ID         bulk-download a monument's assets
  download -mystery ID          bulk-download a mystery's game-flow assets
  enrich -mystery ID [-offline] print the enriched game flow
  status                        list downloaded items`)
}

func cmdRefresh(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	lang := fs.String("lang", cfg.Language, "snapshot language")
	fs.Parse(args)
	if cfg.ContentEndpoint == "" {
		return errors.New("CITY_GUIDE_CONTENT_ENDPOINT not set")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	snapPath := catalog.SnapshotPath(cfg.DataDir, *lang)
	statePath := catalog.RefreshStatePath(snapPath)
	prior := catalog.LoadRefreshState(statePath)

	c, state, err := catalog.Refresh(ctx, httpclient.Default(), cfg.ContentEndpoint, *lang, prior)
	if err == catalog.ErrNotModified {
		log.Printf("refresh: snapshot current lang=%s", *lang)
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.Save(snapPath); err != nil {
		return err
	}
	if err := catalog.SaveRefreshState(statePath, state); err != nil {
		return err
	}
	monuments, mysteries := c.Snapshot()
	log.Printf("refresh: saved lang=%s monuments=%d mysteries=%d", *lang, len(monuments), len(mysteries))
	return nil
}

func cmdDownload(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	monumentID := fs.String("monument", "", "monument id to download")
	mysteryID := fs.String("mystery", "", "mystery id to download")
	fs.Parse(args)
	if (*monumentID == "") == (*mysteryID == "") {
		return errors.New("exactly one of -monument or -mystery required")
	}

	c, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}
	r, err := resolver.NewGCS(ctx, cfg.Bucket, cfg.URLTTL)
	if err != nil {
		return err
	}
	defer r.Close()
	led, err := ledger.OpenSQLite(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer led.Close()

	dl := &downloader.Downloader{
		Resolver:      r,
		Client:        httpclient.WithTimeout(cfg.DownloadTimeout),
		DocumentsRoot: cfg.DocumentsRoot,
		Ledger:        led,
	}
	if *monumentID != "" {
		item, ok := c.Monument(*monumentID)
		if !ok {
			return fmt.Errorf("monument %q not in snapshot", *monumentID)
		}
		m, err := dl.DownloadMonument(ctx, item)
		if err != nil {
			return err
		}
		log.Printf("download: monument done id=%s images=%d", item.ID, len(m.Images))
		return nil
	}
	item, ok := c.Mystery(*mysteryID)
	if !ok {
		return fmt.Errorf("mystery %q not in snapshot", *mysteryID)
	}
	if err := dl.DownloadMystery(ctx, item); err != nil {
		return err
	}
	log.Printf("download: mystery done id=%s steps=%d", item.ID, len(item.GameFlow))
	return nil
}

func cmdEnrich(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	mysteryID := fs.String("mystery", "", "mystery id to enrich")
	offline := fs.Bool("offline", false, "derive local paths only (no network)")
	fs.Parse(args)
	if *mysteryID == "" {
		return errors.New("-mystery required")
	}

	c, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}
	item, ok := c.Mystery(*mysteryID)
	if !ok {
		return fmt.Errorf("mystery %q not in snapshot", *mysteryID)
	}

	var flow []enricher.EnrichedStep
	if *offline {
		flow = enricher.EnrichOffline(cfg.DocumentsRoot, item.GameFlow)
	} else {
		r, err := resolver.NewGCS(ctx, cfg.Bucket, cfg.URLTTL)
		if err != nil {
			return err
		}
		defer r.Close()
		e := &enricher.Enricher{
			Resolver:      r,
			Client:        httpclient.WithTimeout(cfg.DownloadTimeout),
			DocumentsRoot: cfg.DocumentsRoot,
		}
		flow = e.EnrichOnline(ctx, item.GameFlow)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(flow)
}

func cmdStatus(ctx context.Context, cfg *config.Config) error {
	led, err := ledger.OpenSQLite(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer led.Close()
	for _, kind := range []ledger.Kind{ledger.KindMonument, ledger.KindMystery} {
		ids, err := led.Downloaded(ctx, kind)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d downloaded\n", kind, len(ids))
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}

func loadSnapshot(cfg *config.Config) (*catalog.Catalog, error) {
	c := catalog.New()
	path := cfg.SnapshotPath()
	if err := c.Load(path); err != nil {
		return nil, fmt.Errorf("load snapshot %s (run refresh first?): %w", path, err)
	}
	return c, nil
}
