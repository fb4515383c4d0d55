package analysis

import (
	"testing"

	"github.com/agentlift/agentlift/internal/domain"
)

func TestIsStaticResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"canned fact", "Your order has shipped.", true},
		{"substitution marker curly", "You have {days} left", false},
		{"substitution marker dollar", "Hello $name", false},
		{"too short", "OK thanks.", false},
		{"filler please", "Please wait while I check that for you", false},
		{"filler contact", "Contact the service desk for help", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStaticResponse(tt.response); got != tt.want {
				t.Errorf("isStaticResponse(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestIsReactiveIntentName(t *testing.T) {
	tests := []struct {
		name   string
		intent string
		want   bool
	}{
		{"check keyword", "CheckLeaveBalance", true},
		{"what keyword", "WhatIsMyBalance", true},
		{"show keyword", "ShowOrders", true},
		{"no keyword", "ApplyForLeave", false},
		{"greeting", "Greeting", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReactiveIntentName(tt.intent); got != tt.want {
				t.Errorf("isReactiveIntentName(%q) = %v, want %v", tt.intent, got, tt.want)
			}
		})
	}
}

func TestIsEntityReferenced(t *testing.T) {
	responses := []string{"You selected {leaveType}", "Your balance is $balance days"}

	if !isEntityReferenced("leaveType", responses) {
		t.Error("expected {leaveType} reference to count")
	}
	if !isEntityReferenced("balance", responses) {
		t.Error("expected $balance reference to count")
	}
	if isEntityReferenced("department", responses) {
		t.Error("unreferenced entity should not count")
	}
}

func TestHasManualAction(t *testing.T) {
	tests := []struct {
		response string
		want     bool
	}{
		{"Please visit hr.company.com/leave-request", true},
		{"Fill out form HR-101 and submit it", true},
		{"Go to the benefits portal", true},
		{"Your balance is 15 days.", false},
	}
	for _, tt := range tests {
		if got := hasManualAction(tt.response); got != tt.want {
			t.Errorf("hasManualAction(%q) = %v, want %v", tt.response, got, tt.want)
		}
	}
}

func TestDetectPatterns_StaticResponseImpactEscalates(t *testing.T) {
	intent := domain.BotDataIntent{Name: "Facts"}
	for i := 0; i < 6; i++ {
		intent.Responses = append(intent.Responses, "This is a canned statement of fact number one.")
	}
	data := domain.BotData{Intents: []domain.BotDataIntent{intent}}

	pattern := findPattern(t, DetectPatterns(data), domain.PatternStaticResponse)
	if pattern.Frequency != 6 {
		t.Errorf("frequency = %d, want 6", pattern.Frequency)
	}
	if pattern.Impact != domain.ImpactHigh {
		t.Errorf("impact = %s, want high when more than 5 examples", pattern.Impact)
	}
	if len(pattern.Examples) != 5 {
		t.Errorf("stored examples = %d, want capped at 5", len(pattern.Examples))
	}
}

func TestDetectPatterns_ManualWorkflowDeduplicatesExamples(t *testing.T) {
	data := domain.BotData{Intents: []domain.BotDataIntent{{
		Name: "ApplyForLeave",
		Responses: []string{
			"Please visit hr.company.com/leave-request",
			"Email your manager to confirm",
		},
	}}}

	pattern := findPattern(t, DetectPatterns(data), domain.PatternManualWorkflow)
	if pattern.Frequency != 2 {
		t.Errorf("frequency = %d, want 2", pattern.Frequency)
	}
	want := []string{"ApplyForLeave: Manual action required"}
	if len(pattern.Examples) != 1 || pattern.Examples[0] != want[0] {
		t.Errorf("examples = %v, want %v", pattern.Examples, want)
	}
}

func TestDetectPatterns_NoIntegrationSuppressedBySignal(t *testing.T) {
	data := domain.BotData{Intents: []domain.BotDataIntent{{
		Name:      "CheckStock",
		Responses: []string{"Fetching the latest figures from the database"},
	}}}

	for _, p := range DetectPatterns(data) {
		if p.Type == domain.PatternNoIntegration {
			t.Fatal("no_integration should not fire when a response mentions a live system")
		}
	}
}

func TestDetectPatterns_NoIntegrationFrequency(t *testing.T) {
	data := domain.BotData{Intents: []domain.BotDataIntent{{
		Name:      "Greeting",
		Responses: []string{"Hello there, welcome aboard."},
	}}}

	pattern := findPattern(t, DetectPatterns(data), domain.PatternNoIntegration)
	if pattern.Frequency != 1 {
		t.Errorf("frequency = %d, want fixed 1", pattern.Frequency)
	}
	if pattern.Impact != domain.ImpactHigh {
		t.Errorf("impact = %s, want high", pattern.Impact)
	}
}

func TestDetectPatterns_OrderAndOmission(t *testing.T) {
	data := domain.BotData{
		Intents: []domain.BotDataIntent{
			{Name: "CheckStatus", Responses: []string{"Your order has shipped."}},
		},
		Entities: []domain.BotDataEntity{{Name: "orderId"}},
	}

	patterns := DetectPatterns(data)
	want := []domain.PatternType{
		domain.PatternStaticResponse,
		domain.PatternReactiveIntent,
		domain.PatternLimitedEntity,
		domain.PatternNoIntegration,
	}
	if len(patterns) != len(want) {
		t.Fatalf("got %d patterns, want %d", len(patterns), len(want))
	}
	for i, p := range patterns {
		if p.Type != want[i] {
			t.Errorf("patterns[%d].Type = %s, want %s", i, p.Type, want[i])
		}
	}
}

func TestDetectPatterns_EmptyBot(t *testing.T) {
	patterns := DetectPatterns(domain.BotData{})
	// Only the bot-wide integration check can fire without intents.
	if len(patterns) != 1 || patterns[0].Type != domain.PatternNoIntegration {
		t.Fatalf("patterns = %+v, want only no_integration", patterns)
	}
}

func TestDetectPatterns_Deterministic(t *testing.T) {
	data := hrLeaveAssistant()
	first := DetectPatterns(data)
	for i := 0; i < 10; i++ {
		again := DetectPatterns(data)
		if len(again) != len(first) {
			t.Fatal("pattern count changed across runs")
		}
		for j := range first {
			if again[j].Type != first[j].Type || again[j].Frequency != first[j].Frequency {
				t.Fatalf("run %d diverged at pattern %d", i, j)
			}
		}
	}
}

func findPattern(t *testing.T, patterns []domain.BotPattern, typ domain.PatternType) domain.BotPattern {
	t.Helper()
	for _, p := range patterns {
		if p.Type == typ {
			return p
		}
	}
	t.Fatalf("pattern %s not found in %+v", typ, patterns)
	return domain.BotPattern{}
}

// hrLeaveAssistant is the canonical two-intent HR bot that trips all five
// anti-patterns
func hrLeaveAssistant() domain.BotData {
	return domain.BotData{
		Name:     "HR Leave Assistant",
		Platform: "Microsoft Bot Framework",
		Intents: []domain.BotDataIntent{
			{
				Name:       "CheckLeaveBalance",
				Utterances: []string{"how many vacation days do i have"},
				Responses:  []string{"You have 15 vacation days remaining this year."},
			},
			{
				Name:       "ApplyForLeave",
				Utterances: []string{"i want to apply for leave"},
				Responses:  []string{"Please fill out the leave request form at hr.company.com/leave-request"},
			},
		},
		Entities: []domain.BotDataEntity{
			{Name: "leaveType", Values: []string{"vacation", "sick"}},
		},
	}
}
