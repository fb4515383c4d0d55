// Package normalizer parses heterogeneous chatbot export formats into the
// canonical NormalizedBot record the analysis pipeline consumes.
package normalizer

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/agentlift/agentlift/internal/domain"
)

// WarnEmptyBot is the warning text emitted when an export yields no intents
// and a placeholder is synthesized instead
const WarnEmptyBot = "no intents found in export; synthesized a placeholder intent from the raw content"

// Normalizer turns raw export content into a NormalizedBot
type Normalizer struct {
	logger *zap.Logger
}

// New creates a normalizer
func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Parse converts raw export text into a normalized bot. The filename is only
// a hint for format selection. Warnings report degraded-but-successful
// parses (such as an empty bot); a non-nil error means no bot at all.
func (n *Normalizer) Parse(raw []byte, filename string) (*domain.NormalizedBot, []string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".zip", ".gz", ".tar":
		return nil, nil, domain.ErrUnsupportedFormat(strings.TrimPrefix(ext, "."))
	case ".yaml", ".yml":
		return n.parseYAML(raw, filename)
	case ".json":
		return n.parseJSON(raw, filename)
	default:
		// No useful extension: sniff JSON first, then YAML, then fall back
		// to plain text.
		trimmed := strings.TrimSpace(string(raw))
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return n.parseJSON(raw, filename)
		}
		if bot, warnings, err := n.parseYAML(raw, filename); err == nil {
			return bot, warnings, nil
		}
		return n.parseText(raw, filename)
	}
}

// parseJSON detects the concrete JSON dialect by its top-level keys and
// dispatches to the matching parser
func (n *Normalizer) parseJSON(raw []byte, filename string) (*domain.NormalizedBot, []string, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, domain.ErrParseFailed("json", err.Error(), err)
	}

	var bot *domain.NormalizedBot
	switch {
	case hasAnyKey(doc, "activities", "schema"):
		bot = n.parseBotFramework(doc)
	case hasAnyKey(doc, "intents", "entities"):
		bot = n.parseDialogflow(doc)
	case hasAnyKey(doc, "topics", "variables"):
		bot = n.parsePowerVirtualAgents(doc)
	default:
		bot = n.parseGenericStructure(doc, domain.PlatformGeneric)
	}

	return n.finish(bot, raw, filename)
}

// parseYAML parses a YAML export through the generic structure sniffer
func (n *Normalizer) parseYAML(raw []byte, filename string) (*domain.NormalizedBot, []string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, domain.ErrParseFailed("yaml", err.Error(), err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	var bot *domain.NormalizedBot
	switch {
	case hasAnyKey(doc, "activities", "schema"):
		bot = n.parseBotFramework(doc)
	case hasAnyKey(doc, "intents", "entities"):
		bot = n.parseDialogflow(doc)
	case hasAnyKey(doc, "topics", "variables"):
		bot = n.parsePowerVirtualAgents(doc)
	default:
		bot = n.parseGenericStructure(doc, domain.PlatformGeneric)
	}

	return n.finish(bot, raw, filename)
}

// parseText is the last-resort parser for unstructured exports. It builds a
// single intent out of the content so downstream analysis still has
// something to look at.
func (n *Normalizer) parseText(raw []byte, filename string) (*domain.NormalizedBot, []string, error) {
	bot := &domain.NormalizedBot{
		Name:     nameFromFilename(filename),
		Platform: domain.PlatformGeneric,
	}
	return n.finish(bot, raw, filename)
}

// finish applies the empty-bot fallback, recomputes metadata and logs the
// outcome. Every parser funnels through here.
func (n *Normalizer) finish(bot *domain.NormalizedBot, raw []byte, filename string) (*domain.NormalizedBot, []string, error) {
	var warnings []string

	if bot.Name == "" {
		bot.Name = nameFromFilename(filename)
	}

	if len(bot.Intents) == 0 {
		bot.Intents = []domain.NormalizedIntent{placeholderIntent(raw)}
		warnings = append(warnings, WarnEmptyBot)
	}

	for i := range bot.Intents {
		bot.Intents[i].Entities = extractEntityRefs(
			append(append([]string{}, bot.Intents[i].Utterances...), bot.Intents[i].Responses...),
		)
	}

	bot.RecomputeMetadata()

	n.logger.Debug("bot export normalized",
		zap.String("bot", bot.Name),
		zap.String("platform", string(bot.Platform)),
		zap.Int("intents", bot.Metadata.TotalIntents),
		zap.Int("warnings", len(warnings)),
	)

	return bot, warnings, nil
}

// placeholderIntent synthesizes a stand-in intent from raw content so an
// empty export still produces a valid, clearly degraded bot
func placeholderIntent(raw []byte) domain.NormalizedIntent {
	var utterances []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		utterances = append(utterances, line)
		if len(utterances) >= 20 {
			break
		}
	}
	if len(utterances) == 0 {
		utterances = []string{"general inquiry"}
	}
	return domain.NormalizedIntent{
		Name:        "GeneralInquiry",
		Description: "Placeholder intent synthesized from unstructured export content",
		Utterances:  utterances,
		Responses:   []string{},
	}
}

// nameFromFilename derives a bot name from the export's filename
func nameFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "Imported Bot"
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}

func hasAnyKey(doc map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := doc[k]; ok {
			return true
		}
	}
	return false
}

func stringField(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func floatPtr(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case int:
		f := float64(x)
		return &f
	}
	return nil
}
