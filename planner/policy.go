// Package planner turns a server-count sweep into named capacity scenarios
// with cost estimates, and picks a recommended scenario per entity type.
package planner

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Policies maps scenario names to utilization targets. Smaller targets are
// safer: they leave more headroom for bursts.
type Policies map[string]float64

// DefaultPolicies are the four standard planning postures.
func DefaultPolicies() Policies {
	return Policies{
		"minimum_cost": 0.95,
		"conservative": 0.85,
		"optimal":      0.75,
		"safe":         0.65,
	}
}

// SortedNames returns policy names ordered by descending utilization target
// (riskiest first), ties alphabetical, for stable report output.
func (p Policies) SortedNames() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if p[names[i]] != p[names[j]] {
			return p[names[i]] > p[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

type policyFile struct {
	Policies map[string]float64 `yaml:"policies"`
}

// LoadPolicies reads a YAML policy file of the form:
//
//	policies:
//	  safe: 0.65
//	  optimal: 0.75
func LoadPolicies(path string) (Policies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if len(pf.Policies) == 0 {
		return nil, fmt.Errorf("policy file %s defines no policies", path)
	}
	for name, target := range pf.Policies {
		if target <= 0 || target >= 1 {
			return nil, fmt.Errorf("policy %q: target utilization %g must be in (0, 1)", name, target)
		}
	}
	return pf.Policies, nil
}
