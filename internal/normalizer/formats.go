package normalizer

import (
	"regexp"
	"sort"

	"github.com/agentlift/agentlift/internal/domain"
)

// Field name priority lists. Each format names the same concepts
// differently; the first present field wins.
var (
	utteranceFields = []string{"utterances", "examples", "trainingPhrases", "triggerPhrases", "patterns"}
	responseFields  = []string{"responses", "replies", "messages", "outputs"}
	intentFields    = []string{"intents", "dialogs", "actions"}
)

// parseBotFramework handles Microsoft Bot Framework exports, recognized by
// their activities/schema top-level keys
func (n *Normalizer) parseBotFramework(doc map[string]any) *domain.NormalizedBot {
	bot := &domain.NormalizedBot{
		Name:     stringField(doc, "name", "botName", "id"),
		Platform: domain.PlatformBotFramework,
		Version:  stringField(doc, "version", "schema"),
		Language: stringField(doc, "locale", "language"),
	}
	bot.Intents = extractIntents(doc, intentFields)
	bot.Entities = extractEntities(doc)
	return bot
}

// parseDialogflow handles Dialogflow agent exports, recognized by their
// intents/entities top-level keys
func (n *Normalizer) parseDialogflow(doc map[string]any) *domain.NormalizedBot {
	bot := &domain.NormalizedBot{
		Name:     stringField(doc, "displayName", "name"),
		Platform: domain.PlatformDialogflow,
		Version:  stringField(doc, "version"),
		Language: stringField(doc, "defaultLanguageCode", "language"),
	}
	bot.Intents = extractIntents(doc, []string{"intents"})
	bot.Entities = extractEntities(doc)
	return bot
}

// parsePowerVirtualAgents handles PVA exports, recognized by their
// topics/variables top-level keys. Topics map onto intents; variables onto
// entities.
func (n *Normalizer) parsePowerVirtualAgents(doc map[string]any) *domain.NormalizedBot {
	bot := &domain.NormalizedBot{
		Name:     stringField(doc, "name", "botName"),
		Platform: domain.PlatformPVA,
		Language: stringField(doc, "language"),
	}
	bot.Intents = extractIntents(doc, []string{"topics"})

	if vars, ok := asSlice(doc["variables"]); ok {
		for _, v := range vars {
			if m, ok := asMap(v); ok {
				bot.Entities = append(bot.Entities, domain.NormalizedEntity{
					Name:   stringField(m, "name", "displayName"),
					Type:   entityType(m),
					Values: stringItems(m["values"]),
				})
			}
		}
	}
	return bot
}

// parseGenericStructure sniffs an unrecognized document: the first
// array-valued top-level field whose elements look like records is treated
// as the intent list. Keys are visited in sorted order so sniffing is
// deterministic.
func (n *Normalizer) parseGenericStructure(doc map[string]any, platform domain.Platform) *domain.NormalizedBot {
	bot := &domain.NormalizedBot{
		Name:     stringField(doc, "name", "botName", "title"),
		Platform: platform,
	}

	bot.Intents = extractIntents(doc, intentFields)
	bot.Entities = extractEntities(doc)
	if len(bot.Intents) > 0 {
		return bot
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "entities" {
			continue
		}
		items, ok := asSlice(doc[k])
		if !ok || len(items) == 0 {
			continue
		}
		if _, ok := asMap(items[0]); !ok {
			continue
		}
		bot.Intents = intentsFromRecords(items)
		if len(bot.Intents) > 0 {
			break
		}
	}
	return bot
}

// extractIntents pulls intent records from the first present intent-list
// field
func extractIntents(doc map[string]any, fields []string) []domain.NormalizedIntent {
	for _, f := range fields {
		if items, ok := asSlice(doc[f]); ok {
			if intents := intentsFromRecords(items); len(intents) > 0 {
				return intents
			}
		}
	}
	return nil
}

func intentsFromRecords(items []any) []domain.NormalizedIntent {
	var intents []domain.NormalizedIntent
	for _, item := range items {
		rec, ok := asMap(item)
		if !ok {
			continue
		}
		name := stringField(rec, "name", "displayName", "intent", "id", "title")
		if name == "" {
			continue
		}
		intents = append(intents, domain.NormalizedIntent{
			Name:        name,
			Description: stringField(rec, "description"),
			Utterances:  firstPresentItems(rec, utteranceFields),
			Responses:   firstPresentItems(rec, responseFields),
			Confidence:  floatPtr(rec["confidence"]),
		})
	}
	return intents
}

// firstPresentItems returns the string items of the first present field from
// the priority list
func firstPresentItems(rec map[string]any, fields []string) []string {
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			if items := stringItems(v); items != nil {
				return items
			}
		}
	}
	return []string{}
}

// stringItems flattens a list whose elements are plain strings or
// {text|value}-shaped objects
func stringItems(v any) []string {
	items, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case map[string]any:
			if s := stringField(x, "text", "value", "message", "phrase"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// extractEntities reads a top-level entities list. Values accept both plain
// string lists and Dialogflow-style {value, synonyms} entries.
func extractEntities(doc map[string]any) []domain.NormalizedEntity {
	items, ok := asSlice(doc["entities"])
	if !ok {
		return nil
	}
	var entities []domain.NormalizedEntity
	for _, item := range items {
		rec, ok := asMap(item)
		if !ok {
			continue
		}
		name := stringField(rec, "name", "displayName", "id")
		if name == "" {
			continue
		}
		values := stringItems(rec["values"])
		if values == nil {
			values = stringItems(rec["entries"])
		}
		entities = append(entities, domain.NormalizedEntity{
			Name:   name,
			Type:   entityType(rec),
			Values: values,
		})
	}
	return entities
}

func entityType(rec map[string]any) string {
	if t := stringField(rec, "type", "kind"); t != "" {
		return t
	}
	return "custom"
}

// Entity references inside free text: @name, {name} and $name
var entityRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_]*)`),
	regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`),
	regexp.MustCompile(`\$([A-Za-z][A-Za-z0-9_]*)`),
}

// extractEntityRefs collects the deduplicated entity names referenced in a
// set of texts, preserving first-seen order
func extractEntityRefs(texts []string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, text := range texts {
		for _, re := range entityRefPatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				name := m[1]
				if !seen[name] {
					seen[name] = true
					refs = append(refs, name)
				}
			}
		}
	}
	return refs
}
