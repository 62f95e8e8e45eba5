// Package dashboard composes the per-role views, the fixed analytics
// datasets behind the charts, and printable report payloads.
package dashboard

import "math/rand"

// TrendPoint is one day of the weekly patient surge trend.
type TrendPoint struct {
	Day string `json:"day"`
	OP  int    `json:"op"`
	IP  int    `json:"ip"`
	ER  int    `json:"er"`
}

// WeeklySurgeTrend returns the fixed weekly intake trend.
func WeeklySurgeTrend() []TrendPoint {
	return []TrendPoint{
		{Day: "Mon", OP: 400, IP: 240, ER: 120},
		{Day: "Tue", OP: 300, IP: 139, ER: 150},
		{Day: "Wed", OP: 200, IP: 980, ER: 220},
		{Day: "Thu", OP: 278, IP: 390, ER: 200},
		{Day: "Fri", OP: 189, IP: 480, ER: 210},
		{Day: "Sat", OP: 239, IP: 380, ER: 250},
		{Day: "Sun", OP: 349, IP: 430, ER: 280},
	}
}

// RiskPoint is one day of the outbreak model series. InfectionRate is
// daily new cases per 10k population, HospitalStress runs 0-100 and R0 is
// the estimated reproduction number.
type RiskPoint struct {
	Day            string  `json:"day"`
	InfectionRate  int     `json:"infectionRate"`
	HospitalStress int     `json:"hospitalStress"`
	R0             float64 `json:"r0"`
}

// RiskSeries returns the fixed outbreak model series used by the risk
// analysis and epidemic metrics views and by the AI risk assessment.
func RiskSeries() []RiskPoint {
	return []RiskPoint{
		{Day: "Day 1", InfectionRate: 120, HospitalStress: 45, R0: 1.2},
		{Day: "Day 2", InfectionRate: 132, HospitalStress: 48, R0: 1.3},
		{Day: "Day 3", InfectionRate: 145, HospitalStress: 52, R0: 1.4},
		{Day: "Day 4", InfectionRate: 160, HospitalStress: 60, R0: 1.5},
		{Day: "Day 5", InfectionRate: 200, HospitalStress: 75, R0: 1.8},
		{Day: "Day 6", InfectionRate: 250, HospitalStress: 88, R0: 2.1},
		{Day: "Day 7", InfectionRate: 230, HospitalStress: 92, R0: 1.9},
	}
}

// HeatmapRegions lists the regions with a surge intensity grid.
var HeatmapRegions = []string{"Global", "North America", "Europe", "Asia"}

// heatmapSeed holds the initial 5x16 intensity grids per region, values
// 0-100.
var heatmapSeed = map[string][][]int{
	"Global": {
		{20, 40, 60, 80, 95, 85, 70, 50, 30, 10, 25, 45, 65, 85, 90, 75},
		{30, 50, 70, 90, 80, 60, 40, 20, 15, 35, 55, 75, 95, 80, 60, 40},
		{10, 20, 30, 40, 50, 60, 70, 80, 90, 80, 70, 60, 50, 40, 30, 20},
		{5, 15, 25, 35, 45, 55, 65, 75, 85, 95, 85, 75, 65, 55, 45, 35},
		{40, 60, 80, 70, 50, 30, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	},
	"North America": {
		{70, 85, 90, 80, 60, 40, 30, 50, 65, 80, 95, 85, 70, 50, 30, 20},
		{60, 75, 80, 70, 50, 30, 20, 40, 55, 70, 85, 75, 60, 40, 20, 10},
		{50, 60, 70, 60, 40, 20, 10, 30, 45, 60, 75, 65, 50, 30, 10, 5},
		{40, 50, 60, 50, 30, 10, 5, 20, 35, 50, 65, 55, 40, 20, 5, 0},
		{30, 40, 50, 40, 20, 5, 0, 10, 25, 40, 55, 45, 30, 10, 0, 0},
	},
	"Europe": {
		{10, 20, 35, 25, 15, 10, 20, 30, 40, 50, 45, 30, 20, 10, 5, 15},
		{15, 25, 40, 30, 20, 15, 25, 35, 45, 55, 50, 35, 25, 15, 10, 20},
		{20, 30, 45, 35, 25, 20, 30, 40, 50, 60, 55, 40, 30, 20, 15, 25},
		{25, 35, 50, 40, 30, 25, 35, 45, 55, 65, 60, 45, 35, 25, 20, 30},
		{30, 40, 55, 45, 35, 30, 40, 50, 60, 70, 65, 50, 40, 30, 25, 35},
	},
	"Asia": {
		{80, 90, 95, 100, 90, 80, 70, 75, 85, 95, 100, 90, 80, 70, 60, 50},
		{70, 80, 85, 90, 80, 70, 60, 65, 75, 85, 90, 80, 70, 60, 50, 40},
		{60, 70, 75, 80, 70, 60, 50, 55, 65, 75, 80, 70, 60, 50, 40, 30},
		{50, 60, 65, 70, 60, 50, 40, 45, 55, 65, 70, 60, 50, 40, 30, 20},
		{40, 50, 55, 60, 50, 40, 30, 35, 45, 55, 60, 50, 40, 30, 20, 10},
	},
}

// Heatmap returns a copy of the intensity grid for a region with one cell
// re-rolled, so successive polls show movement the way the live board
// does. Unknown regions get the Global grid.
func Heatmap(region string) (string, [][]int) {
	seed, ok := heatmapSeed[region]
	if !ok {
		region = "Global"
		seed = heatmapSeed[region]
	}

	grid := make([][]int, len(seed))
	for i, row := range seed {
		grid[i] = append([]int(nil), row...)
	}

	row := rand.Intn(len(grid))
	col := rand.Intn(len(grid[row]))
	grid[row][col] = rand.Intn(101)

	return region, grid
}
