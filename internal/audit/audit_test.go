package audit

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/shared/events"
)

func TestRecordKeepsNewestFirst(t *testing.T) {
	recorder := NewRecorder(zap.NewNop())
	ctx := context.Background()

	first := events.NewEvent(events.TypeAlertBroadcast, "alert", map[string]any{"title": "Heatwave Advisory"})
	second := events.NewEvent(events.TypeHospitalUpdated, "hospital", map[string]any{"name": "City General", "status": "Moderate"})

	if err := recorder.Record(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := recorder.Record(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := recorder.Recent(0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Type != events.TypeHospitalUpdated {
		t.Errorf("expected newest entry first, got %s", entries[0].Type)
	}
}

func TestRecordBoundsTrail(t *testing.T) {
	recorder := NewRecorder(zap.NewNop())
	ctx := context.Background()

	for i := 0; i < maxEntries+25; i++ {
		event := events.NewEvent(events.TypeAlertBroadcast, "alert", map[string]any{
			"title": fmt.Sprintf("Alert %d", i),
		})
		if err := recorder.Record(ctx, event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries := recorder.Recent(0)
	if len(entries) != maxEntries {
		t.Fatalf("expected trail capped at %d, got %d", maxEntries, len(entries))
	}
	if entries[0].Summary != fmt.Sprintf("Alert broadcast: Alert %d", maxEntries+24) {
		t.Errorf("expected newest alert retained, got %q", entries[0].Summary)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{
			name: "advisory with hospital",
			event: events.NewEvent(events.TypeAdvisoryGenerated, "advisory", map[string]any{
				"hospital": "City General",
				"severity": "High",
			}),
			want: "Advisory generated for City General (High severity)",
		},
		{
			name:  "advisory without payload",
			event: events.NewEvent(events.TypeAdvisoryGenerated, "advisory", nil),
			want:  "Advisory generated",
		},
		{
			name: "hospital update",
			event: events.NewEvent(events.TypeHospitalUpdated, "hospital", map[string]any{
				"name":   "Lakeside Clinic",
				"status": "High Surge",
			}),
			want: "Hospital Lakeside Clinic updated, status High Surge",
		},
		{
			name: "alert broadcast",
			event: events.NewEvent(events.TypeAlertBroadcast, "alert", map[string]any{
				"title": "Surge Protocol Activated",
			}),
			want: "Alert broadcast: Surge Protocol Activated",
		},
		{
			name:  "unknown type falls back to raw type",
			event: events.NewEvent("federation.sync", "other", nil),
			want:  "federation.sync",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarize(tt.event); got != tt.want {
				t.Errorf("summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecentLimit(t *testing.T) {
	recorder := NewRecorder(zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = recorder.Record(ctx, events.NewEvent(events.TypeAlertBroadcast, "alert", nil))
	}

	if got := len(recorder.Recent(2)); got != 2 {
		t.Errorf("expected 2 entries with limit, got %d", got)
	}
	if got := len(recorder.Recent(50)); got != 5 {
		t.Errorf("expected all 5 entries with oversized limit, got %d", got)
	}
}
