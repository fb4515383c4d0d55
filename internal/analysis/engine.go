// Package analysis implements the delta-analysis pipeline: pattern
// detection, opportunity mapping, impact calculation and prioritization over
// a normalized bot definition.
package analysis

import (
	"go.uber.org/zap"

	"github.com/agentlift/agentlift/internal/catalog"
	"github.com/agentlift/agentlift/internal/domain"
	"github.com/agentlift/agentlift/internal/normalizer"
)

// Engine runs the full pipeline. It holds only immutable state, so a single
// engine serves concurrent analyses without coordination.
type Engine struct {
	normalizer *normalizer.Normalizer
	mapper     *Mapper
	calculator *Calculator
	params     Params
	logger     *zap.Logger
}

// NewEngine wires the pipeline stages over a loaded catalog
func NewEngine(c catalog.Catalog, params Params, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		normalizer: normalizer.New(logger),
		mapper:     NewMapper(c, params),
		calculator: NewCalculator(params),
		params:     params,
		logger:     logger,
	}
}

// AnalyzeSource parses a raw export and runs the pipeline over it. Parse
// failures abort before detection runs; warnings accompany degraded but
// successful parses.
func (e *Engine) AnalyzeSource(raw []byte, filename string) (*domain.NormalizedBot, *domain.DeltaAnalysisResult, []string, error) {
	bot, warnings, err := e.normalizer.Parse(raw, filename)
	if err != nil {
		return nil, nil, nil, err
	}
	return bot, e.Analyze(bot), warnings, nil
}

// Analyze runs the pipeline over an already-normalized bot
func (e *Engine) Analyze(bot *domain.NormalizedBot) *domain.DeltaAnalysisResult {
	return e.AnalyzeData(bot.ToBotData())
}

// AnalyzeData runs the pipeline over the loose bot shape. Pure and
// synchronous: detection, mapping, pricing and prioritization cannot fail on
// well-typed input, and a zero-intent bot yields an empty but valid result.
func (e *Engine) AnalyzeData(data domain.BotData) *domain.DeltaAnalysisResult {
	patterns := DetectPatterns(data)
	opportunities := e.mapper.MapPatterns(data, patterns)
	opportunities = e.calculator.AttachBusinessImpact(opportunities, data)

	totalROI := 0.0
	for _, opp := range opportunities {
		totalROI += opp.BusinessImpact.AnnualROI
	}

	result := &domain.DeltaAnalysisResult{
		BotSummary: domain.BotSummary{
			Name:         data.Name,
			Platform:     data.Platform,
			Domain:       data.InferDomain(),
			IntentCount:  len(data.Intents),
			EntityCount:  len(data.Entities),
			Complexity:   domain.ClassifyComplexity(len(data.Intents), data.TotalUtterances()),
			QualityScore: QualityScore(data),
		},
		DetectedPatterns:           patterns,
		DeltaOpportunities:         opportunities,
		PrioritizedRecommendations: Prioritize(opportunities, e.params),
		TotalPotentialROI:          totalROI,
		ImplementationRoadmap:      BuildRoadmap(opportunities),
	}

	e.logger.Debug("delta analysis complete",
		zap.String("bot", data.Name),
		zap.String("domain", string(result.BotSummary.Domain)),
		zap.Int("patterns", len(patterns)),
		zap.Int("opportunities", len(opportunities)),
		zap.Float64("total_roi", totalROI),
	)
	return result
}
