package domain

// CurrentLimitation describes what the legacy bot cannot do today
type CurrentLimitation struct {
	Description  string   `json:"description"`
	Examples     []string `json:"examples"`
	UserFriction string   `json:"user_friction"`
	BusinessCost string   `json:"business_cost"`
}

// AITransformation describes the agent capability replacing the limitation
type AITransformation struct {
	Description           string   `json:"description"`
	Capabilities          []string `json:"capabilities"`
	Implementation        []string `json:"implementation"`
	TechnicalRequirements []string `json:"technical_requirements"`
}

// DetectedFrom back-references the evidence an opportunity was derived from.
// It is a reference, not an ownership relation.
type DetectedFrom struct {
	Intents   []string      `json:"intents,omitempty"`
	Entities  []string      `json:"entities,omitempty"`
	Responses []string      `json:"responses,omitempty"`
	Patterns  []PatternType `json:"patterns,omitempty"`
}

// BusinessImpact quantifies an opportunity. AnnualROI starts at zero and is
// filled exactly once by the impact calculator; nothing with a zero ROI
// should reach the prioritizer unless it is genuinely zero-impact.
type BusinessImpact struct {
	TimeSavingsPerInteraction float64 `json:"time_savings_per_interaction_min"`
	InteractionsPerMonth      int     `json:"interactions_per_month"`
	AnnualROI                 float64 `json:"annual_roi"`
	EfficiencyGain            float64 `json:"efficiency_gain_pct"`
	RiskReduction             string  `json:"risk_reduction"`
}

// DeltaOpportunity is a specific, named gap between what the legacy bot does
// and an AI-agent capability that could replace it
type DeltaOpportunity struct {
	ID                       string            `json:"id"`
	Name                     string            `json:"name"`
	Type                     OpportunityType   `json:"type"`
	CurrentLimitation        CurrentLimitation `json:"current_limitation"`
	AITransformation         AITransformation  `json:"ai_transformation"`
	DetectedFrom             DetectedFrom      `json:"detected_from"`
	BusinessImpact           BusinessImpact    `json:"business_impact"`
	ImplementationComplexity Complexity        `json:"implementation_complexity"`
	Confidence               int               `json:"confidence"`
}
