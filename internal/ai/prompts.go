package ai

import (
	"fmt"
	"math"
)

// AdvisorySchema constrains the advisory response to the multilingual
// advisory shape the dashboard renders.
func AdvisorySchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"english":        {Type: "string"},
			"hindi":          {Type: "string"},
			"telugu":         {Type: "string"},
			"tamil":          {Type: "string"},
			"recommendation": {Type: "string"},
			"severity":       {Type: "string", Enum: []string{"Low", "Medium", "High"}},
		},
		Required: []string{"english", "hindi", "telugu", "tamil", "recommendation", "severity"},
	}
}

// AdvisoryPrompt builds the public-advisory prompt from patient counts and
// capacity. Capacity must be positive; the handler validates before calling.
func AdvisoryPrompt(op, ip, er, capacity int) string {
	load := int(math.Round(float64(op+ip+er) / float64(capacity) * 100))

	return fmt.Sprintf(`Analyze the following hospital patient data and generate a short, clear, multilingual public advisory as a JSON object.
- Out-Patients (OP): %d
- In-Patients (IP): %d
- Emergency Room (ER) Patients: %d
- Total Hospital Capacity: %d

The current load is %d%%.

Advisory Requirements:
1. The tone must be calm and informative, avoiding panic-inducing language.
2. Include a reassurance line that emergency services are available for those who need them.
3. Provide a safe, actionable recommendation for the public (e.g., use clinics for minor issues, telemedicine).
4. Translate the main advisory into English, Hindi, Telugu, and Tamil.
5. Assess the severity as 'Low', 'Medium', or 'High' based on the patient load relative to capacity.
6. Respond with a single JSON object with keys: english, hindi, telugu, tamil, recommendation, severity.`,
		op, ip, er, capacity, load)
}

// StaffingPrompt asks for three staff allocation recommendations for the
// current patient load.
func StaffingPrompt(op, ip, er int) string {
	return fmt.Sprintf(`As an experienced hospital operations manager AI, analyze the following patient load and provide three concise, actionable staff allocation recommendations.
- Out-Patients (OP): %d
- In-Patients (IP): %d
- Emergency Room (ER) Patients: %d

Focus on immediate priorities for the ER, IP wards, and outpatient/telemedicine services to manage the surge effectively.
The response should be formatted as bullet points (using '•'), with the area of focus in bold (e.g., • **Emergency Room:** ...).`,
		op, ip, er)
}

// ResearchPrompt frames a free-text research query for correlation analysis.
func ResearchPrompt(query string) string {
	return fmt.Sprintf(`As a health data analyst AI, analyze the following research query. Consider recent real-world studies, news, or events that might correlate with or explain this phenomenon, and combine it with general epidemiological knowledge. Query: %q. Provide a concise analysis with potential correlations and insights.`, query)
}

// RiskPrompt asks for a risk assessment of a serialized outbreak time series.
func RiskPrompt(dataJSON string) string {
	return fmt.Sprintf(`You are an epidemiological risk analyst. Analyze the following time-series dataset representing an outbreak model:
%s

Data Key:
- Infection Rate: Daily new cases per 10k population.
- Hospital Stress Index: A score from 0-100 indicating system load.
- R0 Est: Estimated reproduction number.

Provide a concise risk assessment in bullet points:
1. Identify the highest risk factor.
2. Analyze the trend of the 'Hospital Stress Index'.
3. Provide one strategic public health recommendation.`, dataJSON)
}

// HealthNewsPrompt requests a short global health-news digest.
const HealthNewsPrompt = "Find the top 3 most critical current public health news headlines, outbreaks, or safety alerts globally (or relevant to major population centers) right now. Summarize them as a bulleted list. Keep it concise."

// ChatSystemInstruction is the non-negotiable safety framing for the health
// assistant. Every reply must carry the consult-a-doctor disclaimer.
const ChatSystemInstruction = "You are a helpful and safe AI health assistant. Your primary goal is to provide safe, non-diagnostic advice. You must NEVER provide a diagnosis. Always end your response with a clear disclaimer that you are not a medical professional and the user should consult a doctor for any health concerns."
