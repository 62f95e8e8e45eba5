package assistant

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/ai"
	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
)

// Service runs the free-text AI operations. Chat is stateless on the
// server: the client sends the full history each turn.
type Service struct {
	provider ai.Provider
	log      *zap.Logger
	timeout  time.Duration
}

// NewService creates the assistant service. provider may be nil for
// fallback-only operation.
func NewService(provider ai.Provider, log *zap.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Service{provider: provider, log: log, timeout: timeout}
}

// Chat answers a health question given the prior turns. The system
// instruction forbids diagnosis and requires a disclaimer; the fallback
// carries its own.
func (s *Service) Chat(ctx context.Context, message string, history []ai.Message) (Reply, error) {
	if message == "" {
		return Reply{}, errors.BadRequest("message is required")
	}

	if s.provider == nil {
		metrics.RecordAssistantRequest("chat", string(SourceFallback))
		return Reply{Content: ChatFallback(message), Source: SourceFallback}, nil
	}

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: ai.ChatSystemInstruction})
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: message})

	text, err := s.call(ctx, "chat", messages)
	if err != nil {
		s.log.Warn("chat failed, using fallback", zap.Error(err))
		metrics.RecordAssistantRequest("chat", string(SourceFallback))
		return Reply{Content: ChatFallback(message), Source: SourceFallback}, nil
	}

	metrics.RecordAssistantRequest("chat", string(SourceLive))
	return Reply{Content: text, Source: SourceLive}, nil
}

// Research analyzes a free-text research query with search grounding.
func (s *Service) Research(ctx context.Context, query string) (GroundedReply, error) {
	if query == "" {
		return GroundedReply{}, errors.BadRequest("query is required")
	}

	if s.provider == nil {
		metrics.RecordAssistantRequest("research", string(SourceFallback))
		return ResearchFallback(query), nil
	}

	text, sources, err := s.callGrounded(ctx, "research", ai.ResearchPrompt(query))
	if err != nil {
		s.log.Warn("research analysis failed, using fallback", zap.Error(err))
		metrics.RecordAssistantRequest("research", string(SourceFallback))
		return ResearchFallback(query), nil
	}

	metrics.RecordAssistantRequest("research", string(SourceLive))
	return GroundedReply{Content: text, Sources: sources, Source: SourceLive}, nil
}

// Risk assesses an outbreak time series. The series is serialized into
// the prompt as JSON.
func (s *Service) Risk(ctx context.Context, series any) (Reply, error) {
	data, err := json.Marshal(series)
	if err != nil {
		return Reply{}, errors.BadRequest("risk data is not serializable")
	}

	if s.provider == nil {
		metrics.RecordAssistantRequest("risk", string(SourceFallback))
		return RiskFallback(), nil
	}

	text, err := s.call(ctx, "risk", []ai.Message{
		{Role: ai.RoleUser, Content: ai.RiskPrompt(string(data))},
	})
	if err != nil {
		s.log.Warn("risk assessment failed, using fallback", zap.Error(err))
		metrics.RecordAssistantRequest("risk", string(SourceFallback))
		return RiskFallback(), nil
	}

	metrics.RecordAssistantRequest("risk", string(SourceLive))
	return Reply{Content: text, Source: SourceLive}, nil
}

// News fetches the health news digest with search grounding.
func (s *Service) News(ctx context.Context) (GroundedReply, error) {
	if s.provider == nil {
		metrics.RecordAssistantRequest("news", string(SourceFallback))
		return NewsFallback(), nil
	}

	text, sources, err := s.callGrounded(ctx, "news", ai.HealthNewsPrompt)
	if err != nil {
		s.log.Warn("health news failed, using fallback", zap.Error(err))
		metrics.RecordAssistantRequest("news", string(SourceFallback))
		return NewsFallback(), nil
	}

	metrics.RecordAssistantRequest("news", string(SourceLive))
	return GroundedReply{Content: text, Sources: sources, Source: SourceLive}, nil
}

func (s *Service) call(ctx context.Context, kind string, messages []ai.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.provider.Chat(ctx, messages)
	metrics.RecordAIRequestDuration(kind, time.Since(start))
	return text, err
}

func (s *Service) callGrounded(ctx context.Context, kind, prompt string) (string, []GroundingSource, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, cites, err := s.provider.GenerateGrounded(ctx, prompt)
	metrics.RecordAIRequestDuration(kind, time.Since(start))
	if err != nil {
		return "", nil, err
	}

	sources := make([]GroundingSource, 0, len(cites))
	for _, c := range cites {
		sources = append(sources, GroundingSource{Title: c.Title, URI: c.URI})
	}
	return text, sources, nil
}
