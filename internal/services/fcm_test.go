package services

import (
	"strings"
	"testing"
)

func TestBreakdownAlertMessage(t *testing.T) {
	title, body, data := BreakdownAlertMessage("KA-01-GC-1234", "compactor", "hydraulic leak")

	if title == "" {
		t.Error("expected a non-empty title")
	}
	if !strings.Contains(body, "KA-01-GC-1234") {
		t.Errorf("body should name the truck, got %q", body)
	}
	if !strings.Contains(body, "hydraulic leak") {
		t.Errorf("body should carry the reason, got %q", body)
	}

	want := map[string]string{
		"type":            "breakdown_reported",
		"registration_no": "KA-01-GC-1234",
		"vehicle_class":   "compactor",
		"reason":          "hydraulic leak",
	}
	for key, value := range want {
		if data[key] != value {
			t.Errorf("data[%q] = %q, want %q", key, data[key], value)
		}
	}
}
