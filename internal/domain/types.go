package domain

import (
	"time"
)

// Common types used across domain models

// Platform identifies the source platform a bot export came from
type Platform string

const (
	PlatformBotFramework Platform = "bot_framework"
	PlatformDialogflow   Platform = "dialogflow"
	PlatformPVA          Platform = "power_virtual_agents"
	PlatformGeneric      Platform = "generic"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformBotFramework, PlatformDialogflow, PlatformPVA, PlatformGeneric:
		return true
	}
	return false
}

// DisplayName returns the human-readable platform name
func (p Platform) DisplayName() string {
	switch p {
	case PlatformBotFramework:
		return "Microsoft Bot Framework"
	case PlatformDialogflow:
		return "Google Dialogflow"
	case PlatformPVA:
		return "Power Virtual Agents"
	default:
		return "Generic"
	}
}

// BotDomain is the business domain a bot serves, inferred from its content
type BotDomain string

const (
	DomainHR              BotDomain = "hr"
	DomainIT              BotDomain = "it"
	DomainSales           BotDomain = "sales"
	DomainCustomerService BotDomain = "customer_service"
	DomainGeneral         BotDomain = "general"
)

func (d BotDomain) IsValid() bool {
	switch d {
	case DomainHR, DomainIT, DomainSales, DomainCustomerService, DomainGeneral:
		return true
	}
	return false
}

// Complexity buckets a bot or an opportunity by implementation effort
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	}
	return false
}

// Rank orders complexities for roadmap sorting (low first)
func (c Complexity) Rank() int {
	switch c {
	case ComplexityLow:
		return 1
	case ComplexityMedium:
		return 2
	case ComplexityHigh:
		return 3
	}
	return 4
}

// Impact rates how much a detected pattern hurts the bot's users
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

func (i Impact) IsValid() bool {
	switch i {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	}
	return false
}

// PatternType enumerates the structural anti-patterns the detector looks for
type PatternType string

const (
	PatternStaticResponse PatternType = "static_response"
	PatternReactiveIntent PatternType = "reactive_intent"
	PatternLimitedEntity  PatternType = "limited_entity"
	PatternManualWorkflow PatternType = "manual_workflow"
	PatternNoIntegration  PatternType = "no_integration"
)

func (t PatternType) IsValid() bool {
	switch t {
	case PatternStaticResponse, PatternReactiveIntent, PatternLimitedEntity,
		PatternManualWorkflow, PatternNoIntegration:
		return true
	}
	return false
}

// OpportunityType categorizes what kind of AI capability an opportunity adds
type OpportunityType string

const (
	OpportunityProactive     OpportunityType = "proactive"
	OpportunityIntegration   OpportunityType = "integration"
	OpportunityAutomation    OpportunityType = "automation"
	OpportunityIntelligence  OpportunityType = "intelligence"
	OpportunityOrchestration OpportunityType = "orchestration"
)

func (t OpportunityType) IsValid() bool {
	switch t {
	case OpportunityProactive, OpportunityIntegration, OpportunityAutomation,
		OpportunityIntelligence, OpportunityOrchestration:
		return true
	}
	return false
}

// RunStatus represents the lifecycle state of an analysis run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusAnalyzing RunStatus = "analyzing"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusAnalyzing, RunStatusCompleted, RunStatusFailed:
		return true
	}
	return false
}

// Timestamps provides common time fields
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// SetTimestamps sets CreatedAt and UpdatedAt to current time
func (t *Timestamps) SetTimestamps() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

