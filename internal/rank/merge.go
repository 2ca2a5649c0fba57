// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank deduplicates feed entries across search expressions and
// scores them against the keyword taxonomy.
package rank

import "github.com/pdiddy/paper-crawler/pkg/types"

// Set is an immutable, discovery-ordered collection of entries keyed by
// stable identifier. Entries with an empty identifier are never collapsed.
type Set struct {
	entries []types.RawEntry
	index   map[string]int
	dropped int
}

// Merge folds streams, in order, into a new Set. The first occurrence of an
// identifier wins.
func Merge(streams ...[]types.RawEntry) *Set {
	s := &Set{}
	for _, stream := range streams {
		s = s.With(stream)
	}
	return s
}

// With returns a new Set holding s's entries followed by the entries of
// stream whose identifiers are not yet present. s is left unchanged; a nil
// s is treated as empty.
func (s *Set) With(stream []types.RawEntry) *Set {
	next := &Set{index: make(map[string]int)}
	if s != nil {
		next.entries = make([]types.RawEntry, len(s.entries), len(s.entries)+len(stream))
		copy(next.entries, s.entries)
		for id, idx := range s.index {
			next.index[id] = idx
		}
		next.dropped = s.dropped
	}

	for _, e := range stream {
		if e.ArxivID != "" {
			if _, ok := next.index[e.ArxivID]; ok {
				next.dropped++
				continue
			}
			next.index[e.ArxivID] = len(next.entries)
		}
		next.entries = append(next.entries, e)
	}
	return next
}

// Entries returns the surviving entries in discovery order.
func (s *Set) Entries() []types.RawEntry {
	if s == nil {
		return nil
	}
	return append([]types.RawEntry(nil), s.entries...)
}

// Get returns the surviving entry for id.
func (s *Set) Get(id string) (types.RawEntry, bool) {
	if s == nil || id == "" {
		return types.RawEntry{}, false
	}
	idx, ok := s.index[id]
	if !ok {
		return types.RawEntry{}, false
	}
	return s.entries[idx], true
}

// Len returns the number of surviving entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Dropped returns how many duplicates were discarded.
func (s *Set) Dropped() int {
	if s == nil {
		return 0
	}
	return s.dropped
}
