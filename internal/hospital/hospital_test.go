package hospital

import "testing"

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		op, ip   int
		er       int
		capacity int
		severity string
		want     Status
	}{
		{"low severity under capacity", 100, 50, 20, 1000, "Low", StatusNormal},
		{"medium severity", 350, 480, 210, 1000, "Medium", StatusModerate},
		{"high severity", 350, 480, 210, 1000, "High", StatusHighSurge},
		{"empty severity", 100, 50, 20, 1000, "", StatusNormal},
		{"unknown severity maps to normal", 100, 50, 20, 1000, "Extreme", StatusNormal},
		{"overload overrides low severity", 600, 500, 200, 1000, "Low", StatusCritical},
		{"overload overrides high severity", 600, 500, 200, 1000, "High", StatusCritical},
		{"exactly 120 percent", 700, 300, 200, 1000, "Medium", StatusCritical},
		{"just under 120 percent", 700, 300, 199, 1000, "Medium", StatusModerate},
		{"zero capacity cannot be critical", 600, 500, 200, 0, "High", StatusHighSurge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.op, tt.ip, tt.er, tt.capacity, tt.severity)
			if got != tt.want {
				t.Errorf("DeriveStatus(%d,%d,%d,%d,%q) = %q, want %q",
					tt.op, tt.ip, tt.er, tt.capacity, tt.severity, got, tt.want)
			}
		})
	}
}

func TestKeyForStable(t *testing.T) {
	a := KeyFor("City General")
	b := KeyFor("City General")
	if a != b {
		t.Errorf("KeyFor must be deterministic: %s != %s", a, b)
	}

	c := KeyFor("City General Hospital")
	if a == c {
		t.Error("different names must yield different keys")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  int
	}{
		{"typical load", Stats{OP: 350, IP: 480, ER: 210, Capacity: 1000}, 104},
		{"empty hospital", Stats{Capacity: 500}, 0},
		{"zero capacity", Stats{OP: 10, IP: 10, ER: 10}, 0},
		{"rounding", Stats{OP: 1, IP: 1, ER: 1, Capacity: 7}, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Load(); got != tt.want {
				t.Errorf("Load() = %d, want %d", got, tt.want)
			}
		})
	}
}
