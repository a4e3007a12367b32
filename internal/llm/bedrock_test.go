package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
	"title": "Understanding SSRIs",
	"slug": "understanding-ssris",
	"excerpt": "What to expect in the first weeks.",
	"content": "# Understanding SSRIs\n\nMost people notice...",
	"category": "medication",
	"tags": ["ssri", "medication"],
	"reply": "Tightened the intro and added a side-effects section."
}`

func TestParseDraftPayload(t *testing.T) {
	payload, err := ParseDraftPayload(validReply)
	require.NoError(t, err)
	assert.Equal(t, "Understanding SSRIs", payload.Title)
	assert.Equal(t, []string{"ssri", "medication"}, payload.Tags)
	assert.NotEmpty(t, payload.Reply)
}

func TestParseDraftPayloadToleratesWhitespace(t *testing.T) {
	_, err := ParseDraftPayload("\n\n  " + validReply + "  \n")
	require.NoError(t, err)
}

func TestParseDraftPayloadRejectsProse(t *testing.T) {
	_, err := ParseDraftPayload("Sure! Here's the draft:\n" + validReply)
	assert.Error(t, err)
}

func TestParseDraftPayloadRejectsFencedBlock(t *testing.T) {
	_, err := ParseDraftPayload("```json\n" + validReply + "\n```")
	assert.Error(t, err)
}

func TestParseDraftPayloadRejectsTrailingContent(t *testing.T) {
	_, err := ParseDraftPayload(validReply + "\nLet me know if you'd like changes.")
	assert.Error(t, err)
}

func TestParseDraftPayloadRejectsUnknownKeys(t *testing.T) {
	_, err := ParseDraftPayload(`{"title": "t", "content": "c", "reply": "r", "surprise": true}`)
	assert.Error(t, err)
}

func TestParseDraftPayloadRejectsMissingFields(t *testing.T) {
	_, err := ParseDraftPayload(`{"title": "t", "slug": "t"}`)
	assert.Error(t, err)
}
