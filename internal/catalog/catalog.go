// Package catalog holds the domain-keyed transformation content the
// opportunity mapper draws from. The copy lives in an embedded JSON table so
// it can be edited without touching pipeline logic.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/agentlift/agentlift/internal/domain"
)

//go:embed catalog.json
var rawCatalog []byte

// Entry is the static content backing one opportunity type within one
// business domain
type Entry struct {
	Name                  string                 `json:"name"`
	Type                  domain.OpportunityType `json:"type"`
	LimitationDescription string                 `json:"limitation_description"`
	UserFriction          string                 `json:"user_friction"`
	BusinessCost          string                 `json:"business_cost"`
	TransformDescription  string                 `json:"transform_description"`
	Capabilities          []string               `json:"capabilities"`
	Implementation        []string               `json:"implementation"`
	Requirements          []string               `json:"requirements"`
	Confidence            int                    `json:"confidence"`
	TimeSavingsMinutes    float64                `json:"time_savings_minutes"`
	EfficiencyGainPct     float64                `json:"efficiency_gain_pct"`
	RiskReduction         string                 `json:"risk_reduction"`
	Complexity            domain.Complexity      `json:"complexity"`
}

// Catalog maps business domain -> pattern type -> content entry
type Catalog map[domain.BotDomain]map[domain.PatternType]Entry

// Load parses the embedded catalog table
func Load() (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(rawCatalog, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog data: %w", err)
	}
	if _, ok := c[domain.DomainHR]; !ok {
		return nil, fmt.Errorf("catalog data missing the %s fallback domain", domain.DomainHR)
	}
	for d, entries := range c {
		for p, e := range entries {
			if !e.Type.IsValid() {
				return nil, fmt.Errorf("catalog entry %s/%s has invalid opportunity type %q", d, p, e.Type)
			}
			if !e.Complexity.IsValid() {
				return nil, fmt.Errorf("catalog entry %s/%s has invalid complexity %q", d, p, e.Complexity)
			}
		}
	}
	return c, nil
}

// Lookup resolves the content entry for a domain and pattern type. Domains
// without their own catalog fall back to the HR content; this mirrors the
// product's current behavior and is asserted by tests rather than hidden.
func (c Catalog) Lookup(d domain.BotDomain, p domain.PatternType) (Entry, bool) {
	entries, ok := c[d]
	if !ok {
		entries = c[domain.DomainHR]
	}
	e, ok := entries[p]
	return e, ok
}

// Domains lists the domains with their own catalog content
func (c Catalog) Domains() []domain.BotDomain {
	out := make([]domain.BotDomain, 0, len(c))
	for d := range c {
		out = append(out, d)
	}
	return out
}
