// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-crawler/pkg/types"
)

func entry(id, title string) types.RawEntry {
	return types.RawEntry{ArxivID: id, Title: title}
}

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	first := []types.RawEntry{entry("2401.00001v1", "From expression one")}
	second := []types.RawEntry{
		entry("2401.00001v1", "From expression two"),
		entry("2401.00002v1", "Only in two"),
	}

	s := Merge(first, second)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Dropped())

	got, ok := s.Get("2401.00001v1")
	require.True(t, ok)
	assert.Equal(t, "From expression one", got.Title)

	entries := s.Entries()
	assert.Equal(t, "2401.00001v1", entries[0].ArxivID)
	assert.Equal(t, "2401.00002v1", entries[1].ArxivID)
}

func TestMerge_DuplicateWithinOneStream(t *testing.T) {
	s := Merge([]types.RawEntry{entry("a", "first"), entry("a", "second")})
	require.Equal(t, 1, s.Len())
	got, _ := s.Get("a")
	assert.Equal(t, "first", got.Title)
}

func TestMerge_EmptyIdentifiersAreDistinct(t *testing.T) {
	s := Merge(
		[]types.RawEntry{entry("", "orphan one"), entry("x", "with id")},
		[]types.RawEntry{entry("", "orphan two"), entry("x", "dup"), entry("", "orphan three")},
	)
	// 1 distinct identifier + 3 empty-identifier entries.
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 1, s.Dropped())

	_, ok := s.Get("")
	assert.False(t, ok)
}

func TestSetWith_DoesNotMutateReceiver(t *testing.T) {
	base := Merge([]types.RawEntry{entry("a", "A")})
	next := base.With([]types.RawEntry{entry("b", "B"), entry("a", "A again")})

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 0, base.Dropped())
	_, ok := base.Get("b")
	assert.False(t, ok)

	assert.Equal(t, 2, next.Len())
	assert.Equal(t, 1, next.Dropped())
}

func TestSetWith_NilReceiver(t *testing.T) {
	var s *Set
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Entries())

	next := s.With([]types.RawEntry{entry("a", "A")})
	assert.Equal(t, 1, next.Len())
}

func TestMerge_NoStreams(t *testing.T) {
	s := Merge()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Entries())
}

func TestEntries_ReturnsCopy(t *testing.T) {
	s := Merge([]types.RawEntry{entry("a", "A")})
	got := s.Entries()
	got[0].Title = "changed"

	again, _ := s.Get("a")
	assert.Equal(t, "A", again.Title)
}
