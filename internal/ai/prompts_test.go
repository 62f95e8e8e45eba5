package ai

import (
	"strings"
	"testing"
)

func TestAdvisoryPromptLoad(t *testing.T) {
	tests := []struct {
		name             string
		op, ip, er, cap  int
		wantLoad         string
	}{
		{"over capacity", 350, 480, 210, 1000, "104%"},
		{"half full", 100, 100, 50, 500, "50%"},
		{"rounds up", 1, 1, 1, 7, "43%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := AdvisoryPrompt(tt.op, tt.ip, tt.er, tt.cap)
			if !strings.Contains(prompt, tt.wantLoad) {
				t.Errorf("prompt must state the load %s:\n%s", tt.wantLoad, prompt)
			}
		})
	}
}

func TestAdvisoryPromptNamesLanguages(t *testing.T) {
	prompt := AdvisoryPrompt(10, 10, 10, 100)
	for _, lang := range []string{"English", "Hindi", "Telugu", "Tamil"} {
		if !strings.Contains(prompt, lang) {
			t.Errorf("prompt must name %s", lang)
		}
	}
}

func TestAdvisorySchema(t *testing.T) {
	schema := AdvisorySchema()
	if schema.Type != "object" {
		t.Fatalf("expected object schema, got %q", schema.Type)
	}

	for _, field := range []string{"english", "hindi", "telugu", "tamil", "recommendation", "severity"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("schema missing %q", field)
		}
	}
	if len(schema.Required) != 6 {
		t.Errorf("all 6 fields must be required, got %d", len(schema.Required))
	}

	severity := schema.Properties["severity"]
	if len(severity.Enum) != 3 {
		t.Errorf("severity enum must have 3 values, got %v", severity.Enum)
	}
}

func TestChatSystemInstructionForbidsDiagnosis(t *testing.T) {
	if !strings.Contains(ChatSystemInstruction, "NEVER provide a diagnosis") {
		t.Error("system instruction must forbid diagnosis")
	}
	if !strings.Contains(ChatSystemInstruction, "disclaimer") {
		t.Error("system instruction must require a disclaimer")
	}
}

func TestStaffingPromptFormat(t *testing.T) {
	prompt := StaffingPrompt(350, 480, 210)
	if !strings.Contains(prompt, "350") || !strings.Contains(prompt, "480") || !strings.Contains(prompt, "210") {
		t.Error("staffing prompt must carry the patient counts")
	}
	if !strings.Contains(prompt, "bullet points") {
		t.Error("staffing prompt must ask for bullet points")
	}
}
