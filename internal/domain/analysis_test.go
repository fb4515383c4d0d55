package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewAnalysisRun(t *testing.T) {
	run := NewAnalysisRun("Q3 migration audit", "hr-bot.json")

	if run.ID == uuid.Nil {
		t.Error("ID should not be nil")
	}
	if run.Name != "Q3 migration audit" {
		t.Errorf("Name = %v, want %v", run.Name, "Q3 migration audit")
	}
	if run.SourceFile != "hr-bot.json" {
		t.Errorf("SourceFile = %v, want %v", run.SourceFile, "hr-bot.json")
	}
	if run.Status != RunStatusPending {
		t.Errorf("Status = %v, want %v", run.Status, RunStatusPending)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
}

func TestAnalysisRun_Complete(t *testing.T) {
	run := NewAnalysisRun("audit", "bot.json")
	bot := &NormalizedBot{
		Name:     "HR Leave Assistant",
		Platform: PlatformBotFramework,
	}
	bot.Metadata.Domain = DomainHR
	result := &DeltaAnalysisResult{TotalPotentialROI: 42000}

	run.Complete(bot, result, []string{"no intents found, placeholder synthesized"})

	if run.Status != RunStatusCompleted {
		t.Errorf("Status = %v, want %v", run.Status, RunStatusCompleted)
	}
	if !run.Status.IsTerminal() {
		t.Error("completed run should be terminal")
	}
	if run.BotName != "HR Leave Assistant" {
		t.Errorf("BotName = %v, want HR Leave Assistant", run.BotName)
	}
	if run.Platform != PlatformBotFramework {
		t.Errorf("Platform = %v, want %v", run.Platform, PlatformBotFramework)
	}
	if run.Domain != DomainHR {
		t.Errorf("Domain = %v, want %v", run.Domain, DomainHR)
	}
	if run.Result == nil || run.Result.TotalPotentialROI != 42000 {
		t.Error("Result should carry the analysis output")
	}
	if len(run.Warnings) != 1 {
		t.Errorf("Warnings length = %d, want 1", len(run.Warnings))
	}
	if run.CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}
}

func TestAnalysisRun_Fail(t *testing.T) {
	run := NewAnalysisRun("audit", "broken.json")

	run.Fail("invalid JSON at offset 12")

	if run.Status != RunStatusFailed {
		t.Errorf("Status = %v, want %v", run.Status, RunStatusFailed)
	}
	if run.FailReason != "invalid JSON at offset 12" {
		t.Errorf("FailReason = %v", run.FailReason)
	}
	if run.CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}
	if run.Result != nil {
		t.Error("failed run must not carry a partial result")
	}
}

func TestComplexity_RankOrdering(t *testing.T) {
	if ComplexityLow.Rank() >= ComplexityMedium.Rank() || ComplexityMedium.Rank() >= ComplexityHigh.Rank() {
		t.Error("complexity ranks must increase low < medium < high")
	}
}
