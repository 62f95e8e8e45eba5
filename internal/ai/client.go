// Package ai wraps the external completion providers behind a single
// interface. Callers never see provider errors as hard failures: every
// caller owns a deterministic fallback for when a call returns an error.
package ai

import (
	"context"
	"fmt"

	"github.com/surge-sentinel/platform/internal/shared/config"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Grounding is a web citation attached to a grounded completion.
type Grounding struct {
	Title string
	URI   string
}

// Provider is a completion backend. GenerateJSON asks for output conforming
// to a JSON schema and returns the raw JSON text; Chat returns free text for
// a message history; GenerateGrounded returns free text with web citations
// when the backend supports search grounding (an empty citation list is a
// valid live result).
type Provider interface {
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
	Chat(ctx context.Context, messages []Message) (string, error)
	GenerateGrounded(ctx context.Context, prompt string) (string, []Grounding, error)
	Name() string
}

// Schema is a provider-neutral JSON schema for structured responses.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// New builds the configured provider. A missing API key returns nil with no
// error; the caller runs in fallback-only mode.
func New(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	if cfg.FallbackOnly() {
		return nil, nil
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "gemini", "":
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
