package advisory

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/ai"
	"github.com/surge-sentinel/platform/internal/hospital"
	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/events"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
)

// GenerateRequest carries one hospital's load figures into advisory
// generation.
type GenerateRequest struct {
	HospitalName string `json:"hospitalName"`
	OP           int    `json:"op"`
	IP           int    `json:"ip"`
	ER           int    `json:"er"`
	Capacity     int    `json:"capacity"`
}

// Validate rejects figures the advisory prompt cannot use.
func (r GenerateRequest) Validate() error {
	if r.HospitalName == "" {
		return errors.BadRequest("hospital name is required")
	}
	if r.Capacity <= 0 {
		return errors.BadRequest("capacity must be positive")
	}
	if r.OP < 0 || r.IP < 0 || r.ER < 0 {
		return errors.BadRequest("patient counts must be non-negative")
	}
	return nil
}

// GenerateResponse is the full outcome of one generation: the advisory,
// the synced hospital snapshot when the write succeeded, and staffing
// recommendations.
type GenerateResponse struct {
	Advisory Result          `json:"advisory"`
	Hospital *hospital.Stats `json:"hospital,omitempty"`
	Staffing StaffingResult  `json:"staffing"`
}

// Service generates advisories and drives the downstream hospital sync.
type Service struct {
	provider  ai.Provider
	hospitals *hospital.Service
	bus       *events.Bus
	log       *zap.Logger
	timeout   time.Duration
}

// NewService creates the advisory service. provider may be nil for
// fallback-only operation; bus may be nil when no event store is
// configured.
func NewService(provider ai.Provider, hospitals *hospital.Service, bus *events.Bus, log *zap.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Service{
		provider:  provider,
		hospitals: hospitals,
		bus:       bus,
		log:       log,
		timeout:   timeout,
	}
}

// Generate runs the full advisory flow in order: generate the advisory,
// sync the hospital snapshot, then fetch staffing recommendations. A
// failed sync is logged and swallowed so the caller still receives the
// advisory; a failed or incomplete provider response yields the fallback.
func (s *Service) Generate(ctx context.Context, req GenerateRequest, actor string) (*GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := s.generateAdvisory(ctx, req)

	resp := &GenerateResponse{Advisory: result}

	stats, err := s.hospitals.Sync(ctx, req.HospitalName, req.OP, req.IP, req.ER, req.Capacity, string(result.Content.Severity))
	if err != nil {
		metrics.RecordHospitalSyncFailure()
		s.log.Warn("hospital sync failed after advisory generation",
			zap.String("hospital", req.HospitalName),
			zap.Error(err))
	} else {
		resp.Hospital = stats
	}

	resp.Staffing = s.staffing(ctx, req)

	s.publish(ctx, req, result, actor)
	return resp, nil
}

func (s *Service) generateAdvisory(ctx context.Context, req GenerateRequest) Result {
	if s.provider == nil {
		metrics.RecordAdvisoryGenerated(string(SourceFallback), string(SeverityMedium))
		return Result{Content: FallbackContent(), Source: SourceFallback}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.provider.GenerateJSON(ctx, ai.AdvisoryPrompt(req.OP, req.IP, req.ER, req.Capacity), ai.AdvisorySchema())
	metrics.RecordAIRequestDuration("advisory", time.Since(start))

	if err != nil {
		s.log.Warn("advisory generation failed, using fallback", zap.Error(err))
		metrics.RecordAdvisoryGenerated(string(SourceFallback), string(SeverityMedium))
		return Result{Content: FallbackContent(), Source: SourceFallback}
	}

	var content Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil || !content.Complete() {
		s.log.Warn("advisory response unusable, using fallback", zap.Error(err))
		metrics.RecordAdvisoryGenerated(string(SourceFallback), string(SeverityMedium))
		return Result{Content: FallbackContent(), Source: SourceFallback}
	}

	metrics.RecordAdvisoryGenerated(string(SourceLive), string(content.Severity))
	return Result{Content: content, Source: SourceLive}
}

func (s *Service) staffing(ctx context.Context, req GenerateRequest) StaffingResult {
	if s.provider == nil {
		return StaffingResult{Items: FallbackStaffing(), Source: SourceFallback}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.provider.Chat(ctx, []ai.Message{
		{Role: ai.RoleUser, Content: ai.StaffingPrompt(req.OP, req.IP, req.ER)},
	})
	metrics.RecordAIRequestDuration("staffing", time.Since(start))

	if err != nil {
		s.log.Warn("staffing generation failed, using fallback", zap.Error(err))
		return StaffingResult{Items: FallbackStaffing(), Source: SourceFallback}
	}

	items := ParseStaffing(text)
	if len(items) == 0 {
		return StaffingResult{Items: FallbackStaffing(), Source: SourceFallback}
	}
	return StaffingResult{Items: items, Source: SourceLive}
}

func (s *Service) publish(ctx context.Context, req GenerateRequest, result Result, actor string) {
	if s.bus == nil {
		return
	}

	event := events.NewEvent(events.TypeAdvisoryGenerated, "advisory", map[string]any{
		"hospital": req.HospitalName,
		"severity": result.Content.Severity,
		"source":   result.Source,
	}).WithActor(actor)

	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish advisory event", zap.Error(err))
	}
}
