package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentlift/agentlift/internal/domain"
)

func TestParse_Dialogflow(t *testing.T) {
	raw := []byte(`{
		"displayName": "Leave Assistant",
		"defaultLanguageCode": "en",
		"intents": [
			{
				"displayName": "CheckLeaveBalance",
				"trainingPhrases": ["how much leave do I have", "check my vacation balance"],
				"messages": [{"text": "You have 15 days of leave remaining."}]
			},
			{
				"displayName": "RequestLeave",
				"trainingPhrases": ["I want to take leave on {date}"],
				"messages": ["Please submit form HR-101 to your manager."]
			}
		],
		"entities": [
			{"displayName": "date", "kind": "system", "entries": [{"value": "tomorrow", "synonyms": ["tmrw"]}]}
		]
	}`)

	bot, warnings, err := New(nil).Parse(raw, "leave-assistant.json")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Leave Assistant", bot.Name)
	assert.Equal(t, domain.PlatformDialogflow, bot.Platform)
	assert.Equal(t, "en", bot.Language)

	require.Len(t, bot.Intents, 2)
	assert.Equal(t, "CheckLeaveBalance", bot.Intents[0].Name)
	assert.Equal(t, []string{"how much leave do I have", "check my vacation balance"}, bot.Intents[0].Utterances)
	assert.Equal(t, []string{"You have 15 days of leave remaining."}, bot.Intents[0].Responses)
	assert.Contains(t, bot.Intents[1].Entities, "date")

	require.Len(t, bot.Entities, 1)
	assert.Equal(t, "date", bot.Entities[0].Name)
	assert.Equal(t, "system", bot.Entities[0].Type)
	assert.Equal(t, []string{"tomorrow"}, bot.Entities[0].Values)

	assert.Equal(t, 2, bot.Metadata.TotalIntents)
	assert.Equal(t, 1, bot.Metadata.TotalEntities)
}

func TestParse_BotFramework(t *testing.T) {
	raw := []byte(`{
		"schema": "1.4",
		"name": "HelpDesk",
		"locale": "en-US",
		"dialogs": [
			{"name": "ResetPassword", "utterances": ["reset my password"], "responses": ["Visit the IT portal to reset it."]}
		]
	}`)

	bot, warnings, err := New(nil).Parse(raw, "helpdesk.json")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, domain.PlatformBotFramework, bot.Platform)
	assert.Equal(t, "HelpDesk", bot.Name)
	assert.Equal(t, "1.4", bot.Version)
	require.Len(t, bot.Intents, 1)
	assert.Equal(t, "ResetPassword", bot.Intents[0].Name)
}

func TestParse_PowerVirtualAgents(t *testing.T) {
	raw := []byte(`{
		"name": "Sales Bot",
		"topics": [
			{"name": "PricingInfo", "triggerPhrases": ["what does it cost"], "messages": ["Our pricing starts at $99/month."]}
		],
		"variables": [
			{"name": "plan", "type": "string", "values": ["basic", "pro"]}
		]
	}`)

	bot, warnings, err := New(nil).Parse(raw, "sales.json")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, domain.PlatformPVA, bot.Platform)
	require.Len(t, bot.Intents, 1)
	assert.Equal(t, "PricingInfo", bot.Intents[0].Name)
	assert.Equal(t, []string{"what does it cost"}, bot.Intents[0].Utterances)
	require.Len(t, bot.Entities, 1)
	assert.Equal(t, "plan", bot.Entities[0].Name)
	assert.Equal(t, []string{"basic", "pro"}, bot.Entities[0].Values)
}

func TestParse_DialogflowTakesPrecedenceOverPVA(t *testing.T) {
	// Some tools emit Dialogflow exports with an extra variables block; the
	// intents key decides the dialect.
	raw := []byte(`{
		"displayName": "Mixed Export",
		"intents": [
			{"name": "CheckStatus", "trainingPhrases": ["where is my order"], "responses": ["It ships tomorrow."]}
		],
		"variables": [
			{"name": "orderId", "type": "string"}
		]
	}`)

	bot, _, err := New(nil).Parse(raw, "mixed.json")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformDialogflow, bot.Platform)
	require.Len(t, bot.Intents, 1)
	assert.Equal(t, "CheckStatus", bot.Intents[0].Name)
}

func TestParse_GenericYAML(t *testing.T) {
	raw := []byte(`name: FAQ Bot
flows:
  - title: OpeningHours
    examples:
      - when are you open
    replies:
      - We are open 9-5 on weekdays.
`)

	bot, warnings, err := New(nil).Parse(raw, "faq.yaml")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, domain.PlatformGeneric, bot.Platform)
	assert.Equal(t, "FAQ Bot", bot.Name)
	require.Len(t, bot.Intents, 1)
	assert.Equal(t, "OpeningHours", bot.Intents[0].Name)
	assert.Equal(t, []string{"when are you open"}, bot.Intents[0].Utterances)
	assert.Equal(t, []string{"We are open 9-5 on weekdays."}, bot.Intents[0].Responses)
}

func TestParse_PlainTextFallback(t *testing.T) {
	raw := []byte("how do I request vacation\nwhere is the expense form\n")

	bot, warnings, err := New(nil).Parse(raw, "notes.txt")
	require.NoError(t, err)

	require.Contains(t, warnings, WarnEmptyBot)
	require.Len(t, bot.Intents, 1)
	assert.Equal(t, "GeneralInquiry", bot.Intents[0].Name)
	assert.Equal(t, []string{"how do I request vacation", "where is the expense form"}, bot.Intents[0].Utterances)
}

func TestParse_EmptyExportSynthesizesPlaceholder(t *testing.T) {
	bot, warnings, err := New(nil).Parse([]byte(`{"intents": []}`), "empty.json")
	require.NoError(t, err)

	require.Contains(t, warnings, WarnEmptyBot)
	require.Len(t, bot.Intents, 1)
	assert.Equal(t, 1, bot.Metadata.TotalIntents)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, _, err := New(nil).Parse([]byte(`{"intents": [`), "broken.json")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeParseFailed, domain.GetErrorCode(err))
}

func TestParse_UnsupportedArchive(t *testing.T) {
	_, _, err := New(nil).Parse([]byte("PK\x03\x04"), "export.zip")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeUnsupportedFormat, domain.GetErrorCode(err))
}

func TestParse_NameFromFilename(t *testing.T) {
	bot, _, err := New(nil).Parse([]byte(`{"intents": [{"name": "Hello", "utterances": ["hi"]}]}`), "support_desk-bot.json")
	require.NoError(t, err)
	assert.Equal(t, "support desk bot", bot.Name)
}

func TestExtractEntityRefs(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{"at syntax", []string{"book leave for @date"}, []string{"date"}},
		{"curly syntax", []string{"your balance is {balance} days"}, []string{"balance"}},
		{"dollar syntax", []string{"hello $employee_name"}, []string{"employee_name"}},
		{"deduplicated across texts", []string{"take @date off", "cancel {date}"}, []string{"date"}},
		{"no references", []string{"plain sentence"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractEntityRefs(tt.texts))
		})
	}
}
