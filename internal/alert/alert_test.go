package alert

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/shared/types"
)

// fakeStore simulates the alert log for duplicate-broadcast behavior.
type fakeStore struct {
	inserted bool
	existing *SystemAlert
	appended *SystemAlert
}

func (f *fakeStore) Append(_ context.Context, a *SystemAlert) (bool, error) {
	f.appended = a
	return f.inserted, nil
}

func (f *fakeStore) Recent(context.Context, int) ([]*SystemAlert, error) {
	return nil, nil
}

func (f *fakeStore) ByRequestID(context.Context, types.ID) (*SystemAlert, error) {
	return f.existing, nil
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Severity{"", "critical", "Severe", "LOW"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestBroadcastRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     BroadcastRequest
		wantErr bool
	}{
		{"valid", BroadcastRequest{Title: "Heatwave", Message: "Expect higher ER intake.", Severity: "High"}, false},
		{"critical", BroadcastRequest{Title: "Outbreak", Message: "Activate surge protocols.", Severity: "Critical"}, false},
		{"empty title", BroadcastRequest{Message: "text", Severity: "Low"}, true},
		{"empty message", BroadcastRequest{Title: "title", Severity: "Low"}, true},
		{"bad severity", BroadcastRequest{Title: "title", Message: "text", Severity: "Severe"}, true},
		{"missing severity", BroadcastRequest{Title: "title", Message: "text"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBroadcastRejectsBeforeStorage(t *testing.T) {
	// No repository configured; validation must still reject blank alerts
	// before the storage check, so the caller sees 400 rather than 503.
	svc := NewService(nil, nil, nil, zap.NewNop())

	_, err := svc.Broadcast(context.Background(), BroadcastRequest{Severity: "Low"}, "tester")
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBroadcastRetryReturnsOriginalAlert(t *testing.T) {
	requestID := types.NewID()
	original := &SystemAlert{
		ID:        types.NewID(),
		RequestID: requestID,
		Title:     "Heatwave",
		Message:   "Expect higher ER intake.",
		Severity:  SeverityHigh,
		Sender:    "Regional Admin",
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}

	svc := NewService(nil, nil, nil, zap.NewNop())
	svc.repo = &fakeStore{inserted: false, existing: original}

	got, err := svc.Broadcast(context.Background(), BroadcastRequest{
		RequestID: requestID.String(),
		Title:     "Heatwave",
		Message:   "Expect higher ER intake.",
		Severity:  "High",
	}, "Regional Admin")
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	if got.ID != original.ID {
		t.Errorf("retry must return the stored alert ID, got %s want %s", got.ID, original.ID)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("retry must return the stored timestamp, got %v want %v", got.CreatedAt, original.CreatedAt)
	}
}

func TestBroadcastFirstWriteReturnsNewAlert(t *testing.T) {
	store := &fakeStore{inserted: true}
	svc := NewService(nil, nil, nil, zap.NewNop())
	svc.repo = store

	got, err := svc.Broadcast(context.Background(), BroadcastRequest{
		Title:    "Outbreak",
		Message:  "Activate surge protocols.",
		Severity: "Critical",
	}, "Regional Admin")
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if store.appended == nil || got.ID != store.appended.ID {
		t.Error("first write must return the appended alert")
	}
	if got.RequestID == "" {
		t.Error("blank request ID must be minted server side")
	}
}

func TestBroadcastRejectsMalformedRequestID(t *testing.T) {
	svc := NewService(nil, nil, nil, zap.NewNop())

	_, err := svc.Broadcast(context.Background(), BroadcastRequest{
		RequestID: "not-a-uuid",
		Title:     "title",
		Message:   "text",
		Severity:  "Low",
	}, "tester")
	if err == nil {
		t.Fatal("expected request ID validation error")
	}
}
