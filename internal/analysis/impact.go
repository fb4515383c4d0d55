package analysis

import (
	"math"

	"github.com/agentlift/agentlift/internal/domain"
)

// Calculator attaches quantitative business impact to opportunities
type Calculator struct {
	params Params
}

// NewCalculator creates a calculator with the given business parameters
func NewCalculator(params Params) *Calculator {
	return &Calculator{params: params}
}

// AttachBusinessImpact returns a new slice with every opportunity's annual
// ROI populated. The input slice is not mutated.
func (c *Calculator) AttachBusinessImpact(opportunities []domain.DeltaOpportunity, data domain.BotData) []domain.DeltaOpportunity {
	rate := c.params.HourlyRate(data.InferDomain())

	priced := make([]domain.DeltaOpportunity, len(opportunities))
	for i, opp := range opportunities {
		priced[i] = opp
		priced[i].BusinessImpact.AnnualROI = AnnualROI(
			opp.BusinessImpact.TimeSavingsPerInteraction,
			opp.BusinessImpact.InteractionsPerMonth,
			rate,
		)
	}
	return priced
}

// AnnualROI converts per-interaction minutes saved into yearly currency
// units at the given hourly labor rate
func AnnualROI(savedMinutes float64, interactionsPerMonth int, hourlyRate float64) float64 {
	return math.Round(savedMinutes / 60 * float64(interactionsPerMonth) * 12 * hourlyRate)
}

// QualityScore rates a bot's training data richness on a 0-10 scale. Bots
// with more utterances, more responses and more entities score higher; the
// baseline sits at 5.
func QualityScore(data domain.BotData) float64 {
	score := 50.0
	if n := len(data.Intents); n > 0 {
		avgUtterances := float64(data.TotalUtterances()) / float64(n)
		avgResponses := float64(data.TotalResponses()) / float64(n)
		score += math.Min(avgUtterances*5, 20)
		score += math.Min(avgResponses*3, 15)
	}
	score += math.Min(float64(len(data.Entities))*2, 15)

	score /= 10
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ComplexityScore is a secondary, continuous complexity signal derived from
// the bot's size, capped at 10. The normalizer's low/medium/high label
// remains the primary classification.
func ComplexityScore(data domain.BotData) float64 {
	score := float64(len(data.Intents))*0.3 +
		float64(len(data.Entities))*0.2 +
		float64(data.TotalResponses())*0.1
	return math.Min(score, 10)
}
