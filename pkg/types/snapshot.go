// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Taxonomy is the ordered list of lowercase keyword phrases used for
// relevance scoring. It is persisted verbatim with every snapshot.
type Taxonomy []string

// Snapshot is the structure persisted at the end of a run. Each run
// overwrites the previous snapshot file in full.
type Snapshot struct {
	// LastUpdated is the RFC 3339 UTC timestamp of the run.
	LastUpdated string `json:"last_updated" yaml:"last_updated"`

	// TotalPapers equals len(Papers).
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// Papers is ordered by relevance score, highest first.
	Papers []ScoredPaper `json:"papers" yaml:"papers"`

	// SearchKeywords is the taxonomy the papers were scored against.
	SearchKeywords Taxonomy `json:"search_keywords" yaml:"search_keywords"`
}
