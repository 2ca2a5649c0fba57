// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a human-readable digest of the top-ranked papers.
package report

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-crawler/pkg/types"
)

const (
	maxAuthors   = 3
	unknown      = "Unknown"
	dateLen      = len("2006-01-02")
	ellipsisMark = "..."
)

// Summarize returns a digest of the first topN papers. A non-positive topN
// reports only the count. It performs no I/O.
func Summarize(papers []types.ScoredPaper, topN int) string {
	if len(papers) == 0 {
		return "No papers found.\n"
	}
	if topN <= 0 {
		return fmt.Sprintf("Ranked %d papers (digest disabled).\n", len(papers))
	}

	var b strings.Builder
	if topN > len(papers) {
		topN = len(papers)
	}

	fmt.Fprintf(&b, "Top %d of %d papers\n", topN, len(papers))
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")

	for i, p := range papers[:topN] {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, p.Title)
		fmt.Fprintf(&b, "   Score:     %d\n", p.RelevanceScore)
		fmt.Fprintf(&b, "   Authors:   %s\n", FormatAuthors(p.Authors))
		fmt.Fprintf(&b, "   Published: %s\n", FormatDate(p.Published))
		if p.Link != "" {
			fmt.Fprintf(&b, "   Link:      %s\n", p.Link)
		}
	}
	return b.String()
}

// FormatAuthors joins the first three names and appends an ellipsis marker
// when more authors exist.
func FormatAuthors(authors []string) string {
	if len(authors) == 0 {
		return unknown
	}
	if len(authors) <= maxAuthors {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxAuthors], ", ") + ", " + ellipsisMark
}

// FormatDate returns the date portion of an ISO-8601 timestamp, or
// "Unknown" for an empty one.
func FormatDate(published string) string {
	if published == "" {
		return unknown
	}
	if len(published) > dateLen {
		return published[:dateLen]
	}
	return published
}
