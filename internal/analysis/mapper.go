package analysis

import (
	"fmt"

	"github.com/agentlift/agentlift/internal/catalog"
	"github.com/agentlift/agentlift/internal/domain"
)

// Mapper converts detected patterns into delta opportunities using the
// domain-keyed content catalog
type Mapper struct {
	catalog catalog.Catalog
	params  Params
}

// NewMapper creates a mapper over a loaded catalog
func NewMapper(c catalog.Catalog, params Params) *Mapper {
	return &Mapper{catalog: c, params: params}
}

// MapPatterns produces one opportunity per detected pattern. An unrecognized
// bot domain resolves against the HR catalog; the mapper never fails on
// well-typed input.
func (m *Mapper) MapPatterns(data domain.BotData, patterns []domain.BotPattern) []domain.DeltaOpportunity {
	botDomain := data.InferDomain()
	volume := m.params.MonthlyVolume(botDomain, len(data.Intents))

	opportunities := make([]domain.DeltaOpportunity, 0, len(patterns))
	for _, pattern := range patterns {
		entry, ok := m.catalog.Lookup(botDomain, pattern.Type)
		if !ok {
			continue
		}
		opportunities = append(opportunities, m.buildOpportunity(pattern, entry, volume))
	}
	return opportunities
}

func (m *Mapper) buildOpportunity(pattern domain.BotPattern, entry catalog.Entry, volume int) domain.DeltaOpportunity {
	opp := domain.DeltaOpportunity{
		ID:   fmt.Sprintf("opp-%s", pattern.Type),
		Name: entry.Name,
		Type: entry.Type,
		CurrentLimitation: domain.CurrentLimitation{
			Description:  entry.LimitationDescription,
			Examples:     pattern.Examples,
			UserFriction: entry.UserFriction,
			BusinessCost: entry.BusinessCost,
		},
		AITransformation: domain.AITransformation{
			Description:           entry.TransformDescription,
			Capabilities:          entry.Capabilities,
			Implementation:        entry.Implementation,
			TechnicalRequirements: entry.Requirements,
		},
		DetectedFrom: domain.DetectedFrom{
			Patterns: []domain.PatternType{pattern.Type},
		},
		BusinessImpact: domain.BusinessImpact{
			TimeSavingsPerInteraction: entry.TimeSavingsMinutes,
			InteractionsPerMonth:      volume,
			AnnualROI:                 0, // priced by the impact calculator
			EfficiencyGain:            entry.EfficiencyGainPct,
			RiskReduction:             entry.RiskReduction,
		},
		ImplementationComplexity: entry.Complexity,
		Confidence:               entry.Confidence,
	}

	// Evidence back-references: intent names for reactive patterns, entity
	// names for entity patterns, raw responses otherwise.
	switch pattern.Type {
	case domain.PatternReactiveIntent, domain.PatternManualWorkflow:
		opp.DetectedFrom.Intents = pattern.Examples
	case domain.PatternLimitedEntity:
		opp.DetectedFrom.Entities = pattern.Examples
	default:
		opp.DetectedFrom.Responses = pattern.Examples
	}
	return opp
}
