package analysis

import (
	"sort"

	"github.com/agentlift/agentlift/internal/domain"
)

// Prioritize buckets priced opportunities into quick wins, high-impact items
// and strategic initiatives. Buckets overlap: a low-complexity opportunity
// with a large ROI appears in both quick wins and high impact.
func Prioritize(opportunities []domain.DeltaOpportunity, params Params) domain.PrioritizedRecommendations {
	var recs domain.PrioritizedRecommendations

	for _, opp := range opportunities {
		if opp.ImplementationComplexity != domain.ComplexityHigh {
			recs.QuickWins = append(recs.QuickWins, opp)
		}
		if opp.BusinessImpact.AnnualROI > params.HighImpactROIThreshold {
			recs.HighImpact = append(recs.HighImpact, opp)
		}
		if opp.ImplementationComplexity == domain.ComplexityHigh {
			recs.StrategicInitiatives = append(recs.StrategicInitiatives, opp)
		}
	}

	sortByROIDesc(recs.QuickWins)
	if len(recs.QuickWins) > params.QuickWinLimit {
		recs.QuickWins = recs.QuickWins[:params.QuickWinLimit]
	}
	sortByROIDesc(recs.HighImpact)
	sort.SliceStable(recs.StrategicInitiatives, func(i, j int) bool {
		return recs.StrategicInitiatives[i].Confidence > recs.StrategicInitiatives[j].Confidence
	})

	return recs
}

// BuildRoadmap partitions opportunities into three rollout phases by
// implementation complexity, ordered within each phase by descending ROI
func BuildRoadmap(opportunities []domain.DeltaOpportunity) domain.ImplementationRoadmap {
	sorted := make([]domain.DeltaOpportunity, len(opportunities))
	copy(sorted, opportunities)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].ImplementationComplexity.Rank(), sorted[j].ImplementationComplexity.Rank()
		if ri != rj {
			return ri < rj
		}
		return sorted[i].BusinessImpact.AnnualROI > sorted[j].BusinessImpact.AnnualROI
	})

	var roadmap domain.ImplementationRoadmap
	for _, opp := range sorted {
		switch opp.ImplementationComplexity {
		case domain.ComplexityLow:
			roadmap.Phase1 = append(roadmap.Phase1, opp)
		case domain.ComplexityMedium:
			roadmap.Phase2 = append(roadmap.Phase2, opp)
		case domain.ComplexityHigh:
			roadmap.Phase3 = append(roadmap.Phase3, opp)
		}
	}
	return roadmap
}

func sortByROIDesc(opps []domain.DeltaOpportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].BusinessImpact.AnnualROI > opps[j].BusinessImpact.AnnualROI
	})
}
