package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/surge-sentinel/platform/internal/shared/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider calls the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(cfg config.AIConfig) *OpenAIProvider {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}
}

// GenerateJSON requests a JSON-object response. OpenAI's JSON mode does not
// take a schema, so the schema's shape is restated in the prompt by the
// caller and only the object constraint is enforced here.
func (p *OpenAIProvider) GenerateJSON(ctx context.Context, prompt string, _ *Schema) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai generate failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateGrounded runs the prompt as a plain completion. The chat
// completion API has no search grounding, so the citation list is always
// empty; callers treat that as a live result without sources.
func (p *OpenAIProvider) GenerateGrounded(ctx context.Context, prompt string) (string, []Grounding, error) {
	text, err := p.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}})
	if err != nil {
		return "", nil, err
	}
	return text, nil, nil
}

// Chat sends the message history and returns the assistant's reply.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		switch role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    oaMsgs,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("openai:%s", p.model)
}
