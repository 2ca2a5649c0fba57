// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists the ranked paper set as a JSON file.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/paper-crawler/pkg/types"
)

// TimeFormat is the layout of Snapshot.LastUpdated.
const TimeFormat = time.RFC3339

// New assembles a snapshot for papers scored against taxonomy at now.
func New(papers []types.ScoredPaper, taxonomy types.Taxonomy, now time.Time) types.Snapshot {
	if papers == nil {
		papers = []types.ScoredPaper{}
	}
	keywords := append(types.Taxonomy{}, taxonomy...)
	return types.Snapshot{
		LastUpdated:    now.UTC().Format(TimeFormat),
		TotalPapers:    len(papers),
		Papers:         papers,
		SearchKeywords: keywords,
	}
}

// Encode renders snap as indented JSON without escaping HTML or non-ASCII
// characters.
func Encode(snap types.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with snap. The data is written to a
// temporary file in the same directory, synced, and renamed into place, so
// readers see either the previous snapshot or the new one.
func Write(snap types.Snapshot, path string) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	if writeErr == nil {
		writeErr = tmpFile.Sync()
	}
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Read loads a snapshot previously written with Write.
func Read(path string) (types.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap, nil
}
