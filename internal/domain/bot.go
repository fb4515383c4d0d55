package domain

import "strings"

// NormalizedIntent is one conversational goal extracted from a bot export.
// Immutable after the normalizer builds it.
type NormalizedIntent struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Utterances  []string `json:"utterances"`
	Responses   []string `json:"responses"`
	Entities    []string `json:"entities"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// NormalizedEntity is a named slot type with its value vocabulary
type NormalizedEntity struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

// BotMetadata holds derived summary figures for a normalized bot.
// TotalIntents always equals len(bot.Intents); Complexity and Domain are
// recomputed from the intents and entities, never set independently.
type BotMetadata struct {
	TotalIntents    int        `json:"total_intents"`
	TotalEntities   int        `json:"total_entities"`
	TotalUtterances int        `json:"total_utterances"`
	TotalResponses  int        `json:"total_responses"`
	Complexity      Complexity `json:"complexity"`
	Domain          BotDomain  `json:"domain"`
}

// NormalizedBot is the canonical representation every export format is
// parsed into
type NormalizedBot struct {
	Name     string             `json:"name"`
	Platform Platform           `json:"platform"`
	Version  string             `json:"version,omitempty"`
	Language string             `json:"language,omitempty"`
	Intents  []NormalizedIntent `json:"intents"`
	Entities []NormalizedEntity `json:"entities"`
	Metadata BotMetadata        `json:"metadata"`
}

// BotData is the loose input shape the analysis entry point accepts directly:
// intents reduced to name/utterances/responses, entities to name/values.
type BotData struct {
	Name             string          `json:"name"`
	Platform         string          `json:"platform"`
	Intents          []BotDataIntent `json:"intents"`
	Entities         []BotDataEntity `json:"entities"`
	ConversationLogs []string        `json:"conversation_logs,omitempty"`
}

// BotDataIntent is the simplified intent shape the pattern detector consumes
type BotDataIntent struct {
	Name       string   `json:"name"`
	Utterances []string `json:"utterances"`
	Responses  []string `json:"responses"`
}

// BotDataEntity is the simplified entity shape
type BotDataEntity struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ToBotData reduces a normalized bot to the shape the analysis pipeline
// consumes
func (b *NormalizedBot) ToBotData() BotData {
	data := BotData{
		Name:     b.Name,
		Platform: b.Platform.DisplayName(),
		Intents:  make([]BotDataIntent, len(b.Intents)),
		Entities: make([]BotDataEntity, len(b.Entities)),
	}
	for i, intent := range b.Intents {
		data.Intents[i] = BotDataIntent{
			Name:       intent.Name,
			Utterances: intent.Utterances,
			Responses:  intent.Responses,
		}
	}
	for i, entity := range b.Entities {
		data.Entities[i] = BotDataEntity{
			Name:   entity.Name,
			Values: entity.Values,
		}
	}
	return data
}

// AllResponses returns every response in intent order
func (d BotData) AllResponses() []string {
	var out []string
	for _, intent := range d.Intents {
		out = append(out, intent.Responses...)
	}
	return out
}

// TotalUtterances counts utterances across all intents
func (d BotData) TotalUtterances() int {
	n := 0
	for _, intent := range d.Intents {
		n += len(intent.Utterances)
	}
	return n
}

// TotalResponses counts responses across all intents
func (d BotData) TotalResponses() int {
	n := 0
	for _, intent := range d.Intents {
		n += len(intent.Responses)
	}
	return n
}

// InferDomain scans the bot's intent names, utterances and responses for
// domain keyword families. First matching family wins, checked in priority
// order: HR, IT, Sales, Customer Service.
func (d BotData) InferDomain() BotDomain {
	var sb strings.Builder
	for _, intent := range d.Intents {
		sb.WriteString(intent.Name)
		sb.WriteByte(' ')
		for _, u := range intent.Utterances {
			sb.WriteString(u)
			sb.WriteByte(' ')
		}
		for _, r := range intent.Responses {
			sb.WriteString(r)
			sb.WriteByte(' ')
		}
	}
	text := strings.ToLower(sb.String())

	families := []struct {
		domain   BotDomain
		keywords []string
	}{
		{DomainHR, []string{"leave", "vacation", "hr", "employee"}},
		{DomainIT, []string{"password", "technical", "support", "it"}},
		{DomainSales, []string{"sales", "pricing", "demo", "lead"}},
		{DomainCustomerService, []string{"customer", "order", "billing"}},
	}
	for _, f := range families {
		for _, kw := range f.keywords {
			if strings.Contains(text, kw) {
				return f.domain
			}
		}
	}
	return DomainGeneral
}

// ClassifyComplexity buckets a bot by intent and utterance counts. The high
// thresholds supersede the medium ones.
func ClassifyComplexity(intentCount, utteranceCount int) Complexity {
	if intentCount > 20 || utteranceCount > 100 {
		return ComplexityHigh
	}
	if intentCount > 10 || utteranceCount > 50 {
		return ComplexityMedium
	}
	return ComplexityLow
}

// RecomputeMetadata rebuilds the derived metadata block from the bot's
// intents and entities
func (b *NormalizedBot) RecomputeMetadata() {
	data := b.ToBotData()
	b.Metadata = BotMetadata{
		TotalIntents:    len(b.Intents),
		TotalEntities:   len(b.Entities),
		TotalUtterances: data.TotalUtterances(),
		TotalResponses:  data.TotalResponses(),
		Complexity:      ClassifyComplexity(len(b.Intents), data.TotalUtterances()),
		Domain:          data.InferDomain(),
	}
}
