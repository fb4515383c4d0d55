package domain

import "testing"

func TestPlatform_IsValid(t *testing.T) {
	valid := []Platform{PlatformBotFramework, PlatformDialogflow, PlatformPVA, PlatformGeneric}
	for _, p := range valid {
		if !p.IsValid() {
			t.Errorf("Platform(%q).IsValid() = false, want true", p)
		}
	}
	if Platform("rasa").IsValid() {
		t.Error(`Platform("rasa").IsValid() = true, want false`)
	}
}

func TestPlatform_DisplayName(t *testing.T) {
	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformBotFramework, "Microsoft Bot Framework"},
		{PlatformDialogflow, "Google Dialogflow"},
		{PlatformPVA, "Power Virtual Agents"},
		{PlatformGeneric, "Generic"},
		{Platform("unknown"), "Generic"},
	}

	for _, tt := range tests {
		if got := tt.platform.DisplayName(); got != tt.want {
			t.Errorf("Platform(%q).DisplayName() = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

func TestBotDomain_IsValid(t *testing.T) {
	valid := []BotDomain{DomainHR, DomainIT, DomainSales, DomainCustomerService, DomainGeneral}
	for _, d := range valid {
		if !d.IsValid() {
			t.Errorf("BotDomain(%q).IsValid() = false, want true", d)
		}
	}
	if BotDomain("finance").IsValid() {
		t.Error(`BotDomain("finance").IsValid() = true, want false`)
	}
}

func TestComplexity_Rank(t *testing.T) {
	tests := []struct {
		complexity Complexity
		want       int
	}{
		{ComplexityLow, 1},
		{ComplexityMedium, 2},
		{ComplexityHigh, 3},
		{Complexity("bogus"), 4},
	}

	for _, tt := range tests {
		if got := tt.complexity.Rank(); got != tt.want {
			t.Errorf("Complexity(%q).Rank() = %d, want %d", tt.complexity, got, tt.want)
		}
	}
}

func TestPatternType_IsValid(t *testing.T) {
	valid := []PatternType{
		PatternStaticResponse,
		PatternReactiveIntent,
		PatternLimitedEntity,
		PatternManualWorkflow,
		PatternNoIntegration,
	}
	for _, p := range valid {
		if !p.IsValid() {
			t.Errorf("PatternType(%q).IsValid() = false, want true", p)
		}
	}
	if PatternType("made_up").IsValid() {
		t.Error(`PatternType("made_up").IsValid() = true, want false`)
	}
}

func TestRunStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   bool
	}{
		{RunStatusPending, false},
		{RunStatusAnalyzing, false},
		{RunStatusCompleted, true},
		{RunStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("RunStatus(%q).IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTimestamps_SetTimestamps(t *testing.T) {
	var ts Timestamps
	ts.SetTimestamps()

	if ts.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if !ts.CreatedAt.Equal(ts.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match after SetTimestamps")
	}
	if ts.DeletedAt != nil {
		t.Error("DeletedAt should remain nil")
	}
}
