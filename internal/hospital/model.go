// Package hospital tracks per-hospital load snapshots and derives the
// surge status shown on the regional dashboard.
package hospital

import (
	"math"
	"time"

	"github.com/surge-sentinel/platform/internal/shared/types"
)

// Status is the derived surge status of a hospital.
type Status string

const (
	StatusNormal    Status = "Normal"
	StatusModerate  Status = "Moderate"
	StatusHighSurge Status = "High Surge"
	StatusCritical  Status = "Critical"
)

// Stats is one hospital's latest load snapshot. Writes are last-writer-wins
// on the whole record.
type Stats struct {
	ID          types.ID  `json:"id"`
	Name        string    `json:"name"`
	OP          int       `json:"op"`
	IP          int       `json:"ip"`
	ER          int       `json:"er"`
	Capacity    int       `json:"capacity"`
	Status      Status    `json:"status"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Load returns the occupancy percentage, rounded.
func (s Stats) Load() int {
	if s.Capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(s.OP+s.IP+s.ER) / float64(s.Capacity) * 100))
}

// idNamespace keys deterministic hospital IDs. A hospital keeps its ID
// across restarts and redeploys because it is derived from the name it
// first registered under.
const idNamespace = "hospital"

// KeyFor returns the stable identity key for a hospital name.
func KeyFor(name string) types.ID {
	return types.NewDeterministicID(idNamespace, name)
}

// DeriveStatus maps an advisory severity and the raw load onto a surge
// status. A load at or past 120% of capacity is Critical regardless of the
// assessed severity; below that the severity decides.
func DeriveStatus(op, ip, er, capacity int, severity string) Status {
	if capacity > 0 {
		load := float64(op+ip+er) / float64(capacity)
		if load >= 1.2 {
			return StatusCritical
		}
	}

	switch severity {
	case "High":
		return StatusHighSurge
	case "Medium":
		return StatusModerate
	default:
		return StatusNormal
	}
}
