package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/ai"
)

type fakeProvider struct {
	reply string
	err   error
	seen  []ai.Message

	groundedReply string
	groundedCites []ai.Grounding
	groundedErr   error
	groundedSeen  string
}

func (f *fakeProvider) GenerateJSON(ctx context.Context, prompt string, schema *ai.Schema) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	f.seen = messages
	return f.reply, f.err
}

func (f *fakeProvider) GenerateGrounded(ctx context.Context, prompt string) (string, []ai.Grounding, error) {
	f.groundedSeen = prompt
	return f.groundedReply, f.groundedCites, f.groundedErr
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestService(p ai.Provider) *Service {
	return NewService(p, zap.NewNop(), time.Second)
}

func TestChatFallbackCarriesDisclaimer(t *testing.T) {
	svc := newTestService(nil)

	reply, err := svc.Chat(context.Background(), "I have a headache", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply.Source != SourceFallback {
		t.Fatalf("expected fallback, got %q", reply.Source)
	}
	if !strings.Contains(reply.Content, "cannot provide a medical diagnosis") {
		t.Error("fallback reply must carry the no-diagnosis disclaimer")
	}
}

func TestChatFeverFallback(t *testing.T) {
	svc := newTestService(nil)

	reply, err := svc.Chat(context.Background(), "I have a high Fever since yesterday", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !strings.Contains(reply.Content, "rest and stay hydrated") {
		t.Errorf("fever messages get the specific fallback, got %q", reply.Content)
	}
	if !strings.Contains(reply.Content, "not a medical diagnosis") {
		t.Error("fever fallback must still carry a disclaimer")
	}
}

func TestChatRequiresMessage(t *testing.T) {
	svc := newTestService(nil)
	if _, err := svc.Chat(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestChatSendsSystemInstructionAndHistory(t *testing.T) {
	p := &fakeProvider{reply: "Stay hydrated. I am not a medical professional; please consult a doctor."}
	svc := newTestService(p)

	history := []ai.Message{
		{Role: ai.RoleUser, Content: "I feel dizzy"},
		{Role: ai.RoleAssistant, Content: "Sit down and rest."},
	}

	reply, err := svc.Chat(context.Background(), "It got worse", history)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply.Source != SourceLive {
		t.Fatalf("expected live reply, got %q", reply.Source)
	}

	if len(p.seen) != 4 {
		t.Fatalf("expected 4 messages (system + 2 history + new), got %d", len(p.seen))
	}
	if p.seen[0].Role != ai.RoleSystem {
		t.Error("first message must be the system instruction")
	}
	if p.seen[3].Content != "It got worse" {
		t.Errorf("latest message must come last, got %q", p.seen[3].Content)
	}
}

func TestChatProviderErrorFallsBack(t *testing.T) {
	svc := newTestService(&fakeProvider{err: errors.New("unreachable")})

	reply, err := svc.Chat(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply.Source != SourceFallback {
		t.Errorf("provider error must fall back, got %q", reply.Source)
	}
}

func TestResearchFallbackEchoesQuery(t *testing.T) {
	svc := newTestService(nil)

	reply, err := svc.Research(context.Background(), "seasonal ER spikes")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}
	if reply.Source != SourceFallback {
		t.Fatalf("expected fallback, got %q", reply.Source)
	}
	if !strings.Contains(reply.Content, "seasonal ER spikes") {
		t.Error("fallback analysis must echo the query")
	}
	if len(reply.Sources) == 0 {
		t.Error("fallback analysis must cite its simulated source")
	}
}

func TestResearchLiveCarriesCitations(t *testing.T) {
	p := &fakeProvider{
		groundedReply: "ER visits correlate with heatwave days.",
		groundedCites: []ai.Grounding{
			{Title: "Regional Health Bulletin", URI: "https://example.org/bulletin"},
		},
	}
	svc := newTestService(p)

	reply, err := svc.Research(context.Background(), "heatwave admissions")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}
	if reply.Source != SourceLive {
		t.Fatalf("expected live reply, got %q", reply.Source)
	}
	if len(reply.Sources) != 1 || reply.Sources[0].URI != "https://example.org/bulletin" {
		t.Errorf("live reply must carry the provider's citations, got %+v", reply.Sources)
	}
	if !strings.Contains(p.groundedSeen, "heatwave admissions") {
		t.Error("grounded prompt must include the query")
	}
}

func TestNewsLiveCarriesCitations(t *testing.T) {
	p := &fakeProvider{
		groundedReply: "• **Flu Season Update:** cases rising.",
		groundedCites: []ai.Grounding{
			{Title: "Health Wire", URI: "https://example.org/wire"},
		},
	}
	svc := newTestService(p)

	reply, err := svc.News(context.Background())
	if err != nil {
		t.Fatalf("News failed: %v", err)
	}
	if reply.Source != SourceLive {
		t.Fatalf("expected live reply, got %q", reply.Source)
	}
	if len(reply.Sources) != 1 || reply.Sources[0].Title != "Health Wire" {
		t.Errorf("live digest must carry the provider's citations, got %+v", reply.Sources)
	}
}

func TestResearchProviderErrorFallsBack(t *testing.T) {
	svc := newTestService(&fakeProvider{groundedErr: errors.New("unreachable")})

	reply, err := svc.Research(context.Background(), "pollution")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}
	if reply.Source != SourceFallback {
		t.Errorf("provider error must fall back, got %q", reply.Source)
	}
}

func TestResearchRequiresQuery(t *testing.T) {
	svc := newTestService(nil)
	if _, err := svc.Research(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestRiskFallback(t *testing.T) {
	svc := newTestService(nil)

	reply, err := svc.Risk(context.Background(), []map[string]any{{"day": "Day 1"}})
	if err != nil {
		t.Fatalf("Risk failed: %v", err)
	}
	if reply.Source != SourceFallback {
		t.Fatalf("expected fallback, got %q", reply.Source)
	}
	if !strings.Contains(reply.Content, "Hospital Stress Index") {
		t.Error("risk fallback must mention the stress index")
	}
}

func TestNewsFallback(t *testing.T) {
	svc := newTestService(nil)

	reply, err := svc.News(context.Background())
	if err != nil {
		t.Fatalf("News failed: %v", err)
	}
	if reply.Source != SourceFallback {
		t.Fatalf("expected fallback, got %q", reply.Source)
	}
	if len(reply.Sources) == 0 {
		t.Error("news fallback must cite its simulated source")
	}
}
