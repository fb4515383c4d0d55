package domain

import (
	"time"

	"github.com/google/uuid"
)

// BotSummary condenses the analyzed bot for presentation
type BotSummary struct {
	Name         string     `json:"name"`
	Platform     string     `json:"platform"`
	Domain       BotDomain  `json:"domain"`
	IntentCount  int        `json:"intent_count"`
	EntityCount  int        `json:"entity_count"`
	Complexity   Complexity `json:"complexity"`
	QualityScore float64    `json:"quality_score"`
}

// PrioritizedRecommendations buckets opportunities for the caller
type PrioritizedRecommendations struct {
	QuickWins            []DeltaOpportunity `json:"quick_wins"`
	HighImpact           []DeltaOpportunity `json:"high_impact"`
	StrategicInitiatives []DeltaOpportunity `json:"strategic_initiatives"`
}

// ImplementationRoadmap partitions opportunities into three rollout phases
// by implementation complexity
type ImplementationRoadmap struct {
	Phase1 []DeltaOpportunity `json:"phase1"`
	Phase2 []DeltaOpportunity `json:"phase2"`
	Phase3 []DeltaOpportunity `json:"phase3"`
}

// DeltaAnalysisResult is the aggregate the pipeline produces. Built once per
// analysis call and never mutated afterward.
type DeltaAnalysisResult struct {
	BotSummary                 BotSummary                 `json:"bot_summary"`
	DetectedPatterns           []BotPattern               `json:"detected_patterns"`
	DeltaOpportunities         []DeltaOpportunity         `json:"delta_opportunities"`
	PrioritizedRecommendations PrioritizedRecommendations `json:"prioritized_recommendations"`
	TotalPotentialROI          float64                    `json:"total_potential_roi"`
	ImplementationRoadmap      ImplementationRoadmap      `json:"implementation_roadmap"`
}

// AnalysisRun is the persisted record of one analysis invocation
type AnalysisRun struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	BotName     string               `json:"bot_name"`
	Platform    Platform             `json:"platform"`
	Domain      BotDomain            `json:"domain"`
	Status      RunStatus            `json:"status"`
	SourceFile  string               `json:"source_file,omitempty"`
	ArchiveURI  string               `json:"archive_uri,omitempty"`
	Result      *DeltaAnalysisResult `json:"result,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
	FailReason  string               `json:"fail_reason,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	Timestamps
}

// NewAnalysisRun creates a pending analysis run
func NewAnalysisRun(name, sourceFile string) *AnalysisRun {
	run := &AnalysisRun{
		ID:         uuid.New(),
		Name:       name,
		Status:     RunStatusPending,
		SourceFile: sourceFile,
	}
	run.SetTimestamps()
	return run
}

// Complete records a successful result. Completed runs are immutable; the
// repository rejects updates to terminal runs.
func (r *AnalysisRun) Complete(bot *NormalizedBot, result *DeltaAnalysisResult, warnings []string) {
	now := time.Now().UTC()
	r.BotName = bot.Name
	r.Platform = bot.Platform
	r.Domain = bot.Metadata.Domain
	r.Status = RunStatusCompleted
	r.Result = result
	r.Warnings = warnings
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// Fail records a terminal failure with its reason
func (r *AnalysisRun) Fail(reason string) {
	now := time.Now().UTC()
	r.Status = RunStatusFailed
	r.FailReason = reason
	r.CompletedAt = &now
	r.UpdatedAt = now
}
