package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/model"
)

// systemPrompt pins the output contract: the model must answer with a
// single JSON object, nothing else. Replies that are not valid JSON
// are rejected outright.
const systemPrompt = `You are a clinical content editor for an outpatient psychiatry practice.
You help staff draft patient-education articles. Medical claims must be
conservative and non-diagnostic.

Respond with a single JSON object and no other text, using exactly these keys:
{"title": string, "slug": string, "excerpt": string, "content": string,
"category": string, "tags": [string], "reply": string}

"content" is the full article body in Markdown. "reply" is a short
conversational note to the editor about what you changed.`

// Client drafts articles through the Bedrock Converse API.
type Client struct {
	bedrock   *bedrockruntime.Client
	modelID   string
	maxTokens int32
}

func NewClient(ctx context.Context, cfg config.LLMConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	maxTokens := int32(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &Client{
		bedrock:   bedrockruntime.NewFromConfig(awsCfg),
		modelID:   cfg.ModelID,
		maxTokens: maxTokens,
	}, nil
}

// DraftArticle sends the conversation and returns the model's draft.
func (c *Client) DraftArticle(ctx context.Context, conversation []model.ChatMessage) (*model.DraftPayload, error) {
	messages := make([]types.Message, 0, len(conversation))
	for _, m := range conversation {
		role := types.ConversationRoleUser
		if m.Role == model.ChatRoleAssistant {
			role = types.ConversationRoleAssistant
		}
		messages = append(messages, types.Message{
			Role: role,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: m.Content},
			},
		})
	}

	out, err := c.bedrock.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.maxTokens),
			Temperature: aws.Float32(0.4),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	text, err := responseText(out)
	if err != nil {
		return nil, err
	}
	return ParseDraftPayload(text)
}

func responseText(out *bedrockruntime.ConverseOutput) (string, error) {
	message, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected bedrock output type %T", out.Output)
	}
	var b strings.Builder
	for _, block := range message.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("bedrock response contained no text")
	}
	return b.String(), nil
}

// ParseDraftPayload decodes the model's reply under the strict JSON
// contract. Anything that is not exactly one JSON object with the
// expected keys is an error; there is no regex salvage of fenced
// blocks or prose-wrapped JSON.
func ParseDraftPayload(text string) (*model.DraftPayload, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(text)))
	dec.DisallowUnknownFields()

	var payload model.DraftPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("model reply is not the expected JSON object: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("model reply contains trailing content after the JSON object")
	}
	if payload.Title == "" || payload.Content == "" || payload.Reply == "" {
		return nil, fmt.Errorf("model reply is missing required fields")
	}
	return &payload, nil
}
