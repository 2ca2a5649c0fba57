// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-crawler pipeline:
// parsed feed entries, scored papers, the persisted snapshot, and run
// configuration.
package types

// SourceArxiv labels papers discovered through the arXiv export API.
const SourceArxiv = "arxiv"

// RawEntry is one feed entry as extracted by the feed parser. It is
// immutable once created.
type RawEntry struct {
	// Title is the entry title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Summary is the entry abstract with whitespace collapsed. Empty when
	// the feed omitted it.
	Summary string `json:"summary" yaml:"summary"`

	// Published is the publication timestamp exactly as delivered
	// (e.g. "2024-05-01T17:59:59Z"), or empty.
	Published string `json:"published" yaml:"published"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the subject category codes (e.g. "cs.RO").
	Categories []string `json:"categories" yaml:"categories"`

	// Link is the abstract page URL derived from ArxivID.
	Link string `json:"link" yaml:"link"`

	// PDFLink is the PDF URL derived from ArxivID.
	PDFLink string `json:"pdf_link" yaml:"pdf_link"`

	// ArxivID is the final path segment of the entry's canonical id URL
	// (e.g. "2405.01234v1"). Empty when it could not be extracted.
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`
}

// ScoredPaper is a RawEntry with its relevance score. The score is computed
// once by the ranker and never updated.
type ScoredPaper struct {
	RawEntry `yaml:",inline"`

	// Source identifies the backend that produced the entry.
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is the weighted count of taxonomy phrases matched in
	// the title (x2) and summary (x1).
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`
}
