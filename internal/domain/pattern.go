package domain

// BotPattern is a structural anti-pattern found in a bot's configuration.
// Patterns are produced fresh per analysis run and never persisted on their
// own; the analysis result aggregate carries them.
type BotPattern struct {
	Type      PatternType `json:"type"`
	Pattern   string      `json:"pattern"`
	Examples  []string    `json:"examples"`
	Frequency int         `json:"frequency"`
	Impact    Impact      `json:"impact"`
}
