package analysis

import (
	"strings"

	"github.com/agentlift/agentlift/internal/domain"
)

const maxStaticExamples = 5

var (
	reactiveKeywords    = []string{"check", "get", "show", "tell", "what", "how", "when", "where"}
	manualActionWords   = []string{"contact", "visit", "call", "email", "submit", "fill out", "go to"}
	integrationSignals  = []string{"api", "database", "system", "real-time", "current", "latest"}
	staticFillerWords   = []string{"please", "contact"}
	substitutionMarkers = []string{"{", "$"}
)

// DetectPatterns scans a bot for the five structural anti-patterns. It is a
// pure function of the input: deterministic, no I/O, no shared state.
// Pattern types with zero matches are omitted; present types always appear
// in a fixed order.
func DetectPatterns(data domain.BotData) []domain.BotPattern {
	var patterns []domain.BotPattern

	if p, ok := detectStaticResponses(data); ok {
		patterns = append(patterns, p)
	}
	if p, ok := detectReactiveIntents(data); ok {
		patterns = append(patterns, p)
	}
	if p, ok := detectLimitedEntities(data); ok {
		patterns = append(patterns, p)
	}
	if p, ok := detectManualWorkflows(data); ok {
		patterns = append(patterns, p)
	}
	if p, ok := detectNoIntegration(data); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// isStaticResponse reports whether a response is a canned fact rather than
// an action directive: no substitution markers, longer than a trivial
// acknowledgment, and free of the filler words that mark handoffs
func isStaticResponse(response string) bool {
	for _, marker := range substitutionMarkers {
		if strings.Contains(response, marker) {
			return false
		}
	}
	if len(response) <= 10 {
		return false
	}
	lower := strings.ToLower(response)
	for _, filler := range staticFillerWords {
		if strings.Contains(lower, filler) {
			return false
		}
	}
	return true
}

func detectStaticResponses(data domain.BotData) (domain.BotPattern, bool) {
	var examples []string
	frequency := 0
	for _, intent := range data.Intents {
		for _, response := range intent.Responses {
			if !isStaticResponse(response) {
				continue
			}
			frequency++
			if len(examples) < maxStaticExamples {
				examples = append(examples, response)
			}
		}
	}
	if frequency == 0 {
		return domain.BotPattern{}, false
	}
	impact := domain.ImpactMedium
	if frequency > 5 {
		impact = domain.ImpactHigh
	}
	return domain.BotPattern{
		Type:      domain.PatternStaticResponse,
		Pattern:   "Responses are fixed text with no live data behind them",
		Examples:  examples,
		Frequency: frequency,
		Impact:    impact,
	}, true
}

// isReactiveIntentName reports whether an intent name reads as a
// user-initiated query
func isReactiveIntentName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range reactiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func detectReactiveIntents(data domain.BotData) (domain.BotPattern, bool) {
	var examples []string
	for _, intent := range data.Intents {
		if isReactiveIntentName(intent.Name) {
			examples = append(examples, intent.Name)
		}
	}
	if len(examples) == 0 {
		return domain.BotPattern{}, false
	}
	return domain.BotPattern{
		Type:      domain.PatternReactiveIntent,
		Pattern:   "Bot only answers when asked; it never initiates",
		Examples:  examples,
		Frequency: len(examples),
		Impact:    domain.ImpactHigh,
	}, true
}

// isEntityReferenced reports whether any response substitutes the entity via
// {name} or $name syntax
func isEntityReferenced(name string, responses []string) bool {
	curly := "{" + name + "}"
	dollar := "$" + name
	for _, r := range responses {
		if strings.Contains(r, curly) || strings.Contains(r, dollar) {
			return true
		}
	}
	return false
}

func detectLimitedEntities(data domain.BotData) (domain.BotPattern, bool) {
	responses := data.AllResponses()
	var examples []string
	for _, entity := range data.Entities {
		if !isEntityReferenced(entity.Name, responses) {
			examples = append(examples, entity.Name)
		}
	}
	if len(examples) == 0 {
		return domain.BotPattern{}, false
	}
	return domain.BotPattern{
		Type:      domain.PatternLimitedEntity,
		Pattern:   "Entities are defined but never used in responses",
		Examples:  examples,
		Frequency: len(examples),
		Impact:    domain.ImpactMedium,
	}, true
}

// hasManualAction reports whether a response redirects the user to a manual
// step outside the bot
func hasManualAction(response string) bool {
	lower := strings.ToLower(response)
	for _, word := range manualActionWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func detectManualWorkflows(data domain.BotData) (domain.BotPattern, bool) {
	seen := make(map[string]bool)
	var examples []string
	frequency := 0
	for _, intent := range data.Intents {
		for _, response := range intent.Responses {
			if !hasManualAction(response) {
				continue
			}
			frequency++
			example := intent.Name + ": Manual action required"
			if !seen[example] {
				seen[example] = true
				examples = append(examples, example)
			}
		}
	}
	if frequency == 0 {
		return domain.BotPattern{}, false
	}
	return domain.BotPattern{
		Type:      domain.PatternManualWorkflow,
		Pattern:   "Bot hands users off to manual processes it could execute itself",
		Examples:  examples,
		Frequency: frequency,
		Impact:    domain.ImpactHigh,
	}, true
}

// hasIntegrationSignal reports whether a response suggests the bot touches a
// live system
func hasIntegrationSignal(response string) bool {
	lower := strings.ToLower(response)
	for _, signal := range integrationSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

func detectNoIntegration(data domain.BotData) (domain.BotPattern, bool) {
	for _, response := range data.AllResponses() {
		if hasIntegrationSignal(response) {
			return domain.BotPattern{}, false
		}
	}
	return domain.BotPattern{
		Type:      domain.PatternNoIntegration,
		Pattern:   "No evidence of any enterprise system integration",
		Examples:  []string{"Bot operates on canned content only"},
		Frequency: 1,
		Impact:    domain.ImpactHigh,
	}, true
}
