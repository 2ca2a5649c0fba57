// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan holds the search expressions and keyword taxonomy that drive
// a crawl. The compiled-in plan targets adaptive robotics and manipulation;
// a YAML plan file can replace it.
package plan

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-crawler/pkg/types"
)

// Expression is one arXiv search_query value. Label names it in logs and
// metrics; Query is sent to the API verbatim.
type Expression struct {
	Label string `yaml:"label"`
	Query string `yaml:"query"`
}

// Plan is the full set of inputs for a run.
type Plan struct {
	Expressions []Expression   `yaml:"expressions"`
	Taxonomy    types.Taxonomy `yaml:"taxonomy"`
}

var defaultExpressions = []Expression{
	{
		Label: "robotics-adaptive-control",
		Query: `cat:cs.RO AND (abs:"adaptive control" OR abs:"robot manipulation")`,
	},
	{
		Label: "robotics-grasping",
		Query: `cat:cs.RO AND (abs:grasping OR abs:"dexterous manipulation")`,
	},
	{
		Label: "learning-for-robots",
		Query: `cat:cs.LG AND abs:robot AND (abs:"reinforcement learning" OR abs:"imitation learning")`,
	},
	{
		Label: "systems-adaptive-control",
		Query: `cat:eess.SY AND abs:"adaptive control" AND abs:robot`,
	},
}

var defaultTaxonomy = types.Taxonomy{
	"adaptive control",
	"robot manipulation",
	"manipulation",
	"grasping",
	"grasp",
	"dexterous",
	"reinforcement learning",
	"imitation learning",
	"robot learning",
	"model predictive control",
	"impedance control",
	"force control",
	"sim-to-real",
	"tactile",
	"meta-learning",
	"online adaptation",
}

// Default returns a copy of the compiled-in plan.
func Default() Plan {
	return Plan{
		Expressions: append([]Expression(nil), defaultExpressions...),
		Taxonomy:    append(types.Taxonomy(nil), defaultTaxonomy...),
	}
}

// Normalize trims expressions and lower-cases taxonomy phrases, dropping
// empty ones. Phrase order is preserved.
func (p Plan) Normalize() Plan {
	out := Plan{}
	for _, e := range p.Expressions {
		q := strings.TrimSpace(e.Query)
		if q == "" {
			continue
		}
		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = q
		}
		out.Expressions = append(out.Expressions, Expression{Label: label, Query: q})
	}
	for _, phrase := range p.Taxonomy {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			out.Taxonomy = append(out.Taxonomy, phrase)
		}
	}
	return out
}

// Validate reports whether the plan can drive a run.
func (p Plan) Validate() error {
	if len(p.Expressions) == 0 {
		return fmt.Errorf("plan has no search expressions")
	}
	if len(p.Taxonomy) == 0 {
		return fmt.Errorf("plan has no taxonomy phrases")
	}
	return nil
}

// LoadFile reads a YAML plan, normalizes it, and validates it.
func LoadFile(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("reading plan file: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("parsing plan file: %w", err)
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Plan{}, fmt.Errorf("plan file %s: %w", path, err)
	}
	return p, nil
}

// Marshal renders p as YAML.
func Marshal(p Plan) ([]byte, error) {
	data, err := yaml.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("marshaling plan: %w", err)
	}
	return data, nil
}

// WriteFile saves p as YAML so it can be edited and loaded with LoadFile.
func WriteFile(path string, p Plan) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}

// Resolve returns the plan loaded from path, or the default plan when path
// is empty.
func Resolve(path string) (Plan, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
