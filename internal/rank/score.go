// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/paper-crawler/pkg/types"
)

// Field weights.
const (
	TitleWeight   = 2
	SummaryWeight = 1
)

// Score returns the relevance of an entry: TitleWeight for every taxonomy
// phrase contained in the title plus SummaryWeight for every phrase
// contained in the summary. Matching ignores case on both sides. A phrase
// counts at most once per field no matter how often it occurs.
func Score(title, summary string, taxonomy types.Taxonomy) int {
	return score(title, summary, lowerPhrases(taxonomy))
}

func score(title, summary string, phrases []string) int {
	return TitleWeight*matches(title, phrases) + SummaryWeight*matches(summary, phrases)
}

// lowerPhrases lower-cases the taxonomy once per scoring pass.
func lowerPhrases(taxonomy types.Taxonomy) []string {
	phrases := make([]string, 0, len(taxonomy))
	for _, p := range taxonomy {
		if p != "" {
			phrases = append(phrases, strings.ToLower(p))
		}
	}
	return phrases
}

// matches counts the lower-case phrases that occur in text, lower-casing
// text once.
func matches(text string, phrases []string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	n := 0
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			n++
		}
	}
	return n
}

// ScoreAndRank scores entries, drops those scoring zero, orders the rest by
// score descending (ties keep input order), and returns at most limit
// papers.
func ScoreAndRank(entries []types.RawEntry, taxonomy types.Taxonomy, limit int) []types.ScoredPaper {
	if limit <= 0 {
		return nil
	}

	phrases := lowerPhrases(taxonomy)
	var scored []types.ScoredPaper
	for _, e := range entries {
		s := score(e.Title, e.Summary, phrases)
		if s == 0 {
			continue
		}
		scored = append(scored, types.ScoredPaper{
			RawEntry:       e,
			Source:         types.SourceArxiv,
			RelevanceScore: s,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
