// Package advisory generates multilingual public surge advisories and
// staffing recommendations for a hospital's current load.
package advisory

import (
	"regexp"
	"strings"
)

// Severity is the assessed surge severity of an advisory.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Valid reports whether the severity is one of the three advisory levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Source marks whether a result came from the live provider or from the
// deterministic fallback. Callers that need to know must check this field;
// the content alone does not reveal it.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Content is the multilingual advisory body rendered on every dashboard.
type Content struct {
	English        string   `json:"english"`
	Hindi          string   `json:"hindi"`
	Telugu         string   `json:"telugu"`
	Tamil          string   `json:"tamil"`
	Recommendation string   `json:"recommendation"`
	Severity       Severity `json:"severity"`
}

// Complete reports whether every field the dashboard renders is present.
// A partial provider response is treated the same as a failed one.
func (c Content) Complete() bool {
	return c.English != "" && c.Hindi != "" && c.Telugu != "" &&
		c.Tamil != "" && c.Recommendation != "" && c.Severity.Valid()
}

// Result pairs advisory content with its provenance.
type Result struct {
	Content Content `json:"content"`
	Source  Source  `json:"source"`
}

// FallbackContent is the fixed advisory served whenever the provider is
// unconfigured, unreachable, times out, or returns an unusable response.
// Severity Medium keeps the derived hospital status conservative.
func FallbackContent() Content {
	return Content{
		English:        "Hospitals in the area are experiencing high patient volumes. For non-urgent issues, please consider visiting local clinics. Your cooperation helps us prioritize critical care.",
		Hindi:          "क्षेत्र के अस्पताल उच्च रोगी मात्रा का अनुभव कर रहे हैं। गैर-जरूरी मुद्दों के लिए, कृपया स्थानीय क्लीनिकों पर जाने पर विचार करें। आपका सहयोग हमें महत्वपूर्ण देखभाल को प्राथमिकता देने में मदद करता है।",
		Telugu:         "ఈ ప్రాంతంలోని ఆసుపత్రులలో రోగుల రద్దీ ఎక్కువగా ఉంది. అత్యవసరం కాని సమస్యల కోసం, దయచేసి స్థానిక క్లినిక్‌లను సందర్శించండి. మీ సహకారం మాకు క్లిష్టమైన సంరక్షణకు ప్రాధాన్యత ఇవ్వడంలో సహాయపడుతుంది.",
		Tamil:          "இப்பகுதியில் உள்ள மருத்துவமனைகளில் நோயாளிகளின் எண்ணிக்கை அதிகமாக உள்ளது. அவசரமில்லாத சிக்கல்களுக்கு, உள்ளூர் கிளினிக்குகளுக்குச் செல்லுங்கள்.",
		Recommendation: "Use telemedicine services or local clinics for minor health concerns to help manage hospital load.",
		Severity:       SeverityMedium,
	}
}

// StaffingItem is one staff allocation recommendation.
type StaffingItem struct {
	Focus  string `json:"focus"`
	Action string `json:"action"`
}

// StaffingResult pairs the recommendation list with its provenance.
type StaffingResult struct {
	Items  []StaffingItem `json:"items"`
	Source Source         `json:"source"`
}

// FallbackStaffing is the fixed recommendation set served when the
// provider cannot be used.
func FallbackStaffing() []StaffingItem {
	return []StaffingItem{
		{Focus: "Emergency Room", Action: "Assign 2 additional nurses and 1 on-call doctor to manage high intake."},
		{Focus: "In-Patient Ward", Action: "Re-assign 1 floating nurse to support the IP ward and monitor bed capacity."},
		{Focus: "Telemedicine", Action: "Ensure full staffing for virtual consultations to deflect non-critical cases from the hospital."},
	}
}

var staffingLine = regexp.MustCompile(`\*\*(.+?):?\*\*:?\s*(.+)`)

// ParseStaffing turns the provider's bulleted prose into structured items.
// Lines that do not carry a bold focus label become items with an empty
// focus rather than being dropped.
func ParseStaffing(text string) []StaffingItem {
	var items []StaffingItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "•")
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := staffingLine.FindStringSubmatch(line); m != nil {
			items = append(items, StaffingItem{
				Focus:  strings.TrimSuffix(strings.TrimSpace(m[1]), ":"),
				Action: strings.TrimSpace(m[2]),
			})
			continue
		}
		items = append(items, StaffingItem{Action: line})
	}
	return items
}
