package cache

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Two naming schemes coexist on disk and both are load-bearing:
//
//   - Monument bulk downloads namespace files by item and index
//     (<id>_img_<i>.jpg, <id>_audio.mp3). The monument manifest records
//     these paths, so the scheme is part of the persisted format.
//   - Game-flow assets use the bare final segment of the storage path.
//     The offline enricher re-derives the same name with no manifest to
//     consult, so downloader and enricher MUST agree byte for byte.
//
// Changing either scheme orphans previously downloaded content.

// MonumentImagePath returns the local path for image index i of a monument.
func MonumentImagePath(root, itemID string, i int) string {
	return filepath.Join(root, fmt.Sprintf("%s_img_%d.jpg", sanitize(itemID), i))
}

// MonumentAudioPath returns the local path for a monument's audio track.
func MonumentAudioPath(root, itemID string) string {
	return filepath.Join(root, sanitize(itemID)+"_audio.mp3")
}

// FlowAssetPath returns the local path for a game-flow asset. Stable: the same
// storage path always maps to the same file, whoever derives it.
func FlowAssetPath(root, storagePath string) string {
	return filepath.Join(root, FlowFileName(storagePath))
}

// FlowFileName derives the on-disk name for a game-flow asset: everything
// after the last "/" of the storage path. Items sharing a final segment share
// the file; that matches the historical layout and is accepted.
func FlowFileName(storagePath string) string {
	name := storagePath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return sanitize(name)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\x00", "_")
	if s == "" {
		s = "unknown"
	}
	return s
}
