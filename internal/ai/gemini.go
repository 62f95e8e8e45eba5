package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/surge-sentinel/platform/internal/shared/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider calls the Gemini API through the Google GenAI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, cfg config.AIConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// GenerateJSON requests a structured response conforming to the schema and
// returns the raw JSON text.
func (p *GeminiProvider) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema),
	}

	result, err := p.client.Models.GenerateContent(ctx,
		p.model,
		genai.Text(prompt),
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

// GenerateGrounded runs the prompt with the Google Search tool enabled and
// returns the reply text with its web citations.
func (p *GeminiProvider) GenerateGrounded(ctx context.Context, prompt string) (string, []Grounding, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", nil, fmt.Errorf("gemini grounded generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", nil, fmt.Errorf("gemini returned empty response")
	}
	return text, groundings(result), nil
}

// groundings extracts the web citations from the first candidate's
// grounding metadata. Duplicate URIs are collapsed.
func groundings(result *genai.GenerateContentResponse) []Grounding {
	if len(result.Candidates) == 0 || result.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var out []Grounding
	seen := make(map[string]bool)
	for _, chunk := range result.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		out = append(out, Grounding{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}

// Chat sends a message history and returns the model's reply. A leading
// system message becomes the system instruction.
func (p *GeminiProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	cfg := &genai.GenerateContentConfig{}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			cfg.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini chat failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("gemini:%s", p.model)
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Enum:     s.Enum,
		Required: s.Required,
		Items:    toGenaiSchema(s.Items),
	}

	switch s.Type {
	case "object":
		out.Type = genai.TypeObject
	case "array":
		out.Type = genai.TypeArray
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toGenaiSchema(v)
		}
	}

	return out
}
