// Package simulation seeds the region with demo hospital data and drives
// scripted surge scenarios. It exists for demos and load rehearsals; the
// writes go through the same sync path as real HIS feeds.
package simulation

import "math/rand"

// Scenario is a scripted regional situation.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Scenarios lists the available demo scenarios.
func Scenarios() []Scenario {
	return []Scenario{
		{
			ID:          "baseline",
			Name:        "Baseline Load",
			Description: "All hospitals at routine occupancy with minor variation.",
		},
		{
			ID:          "city-surge",
			Name:        "City General Surge",
			Description: "A capacity breach at City General with a critical regional alert.",
		},
		{
			ID:          "regional-wave",
			Name:        "Regional Wave",
			Description: "Elevated load across every hospital in the region.",
		},
	}
}

// seedHospital is a demo hospital with its routine census.
type seedHospital struct {
	Name     string
	OP       int
	IP       int
	ER       int
	Capacity int
}

// seedRegion mirrors the demo region the dashboards expect.
var seedRegion = []seedHospital{
	{Name: "City General", OP: 350, IP: 480, ER: 210, Capacity: 1000},
	{Name: "Lakeside Clinic", OP: 180, IP: 140, ER: 45, Capacity: 500},
	{Name: "St. Mary's Medical Center", OP: 260, IP: 310, ER: 90, Capacity: 800},
	{Name: "Northgate Community Hospital", OP: 120, IP: 95, ER: 30, Capacity: 350},
}

// jitter shifts a census figure by up to ±10%, never below zero.
func jitter(value int) int {
	if value == 0 {
		return 0
	}
	spread := value / 10
	if spread == 0 {
		spread = 1
	}
	v := value + rand.Intn(2*spread+1) - spread
	if v < 0 {
		return 0
	}
	return v
}

// surge inflates a census figure by 40% to 80%.
func surge(value int) int {
	return value + value*(40+rand.Intn(41))/100
}
