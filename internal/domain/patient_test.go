package domain

import "testing"

func TestPatientNormalizeTrimsFields(t *testing.T) {
	payload := &PatientPayload{
		Name:          "  Mario Verdi  ",
		Diagnosis:     " cholelithiasis ",
		Pending:       true,
		PendingReason: "  awaiting anesthesia clearance ",
	}

	payload.Normalize()

	if payload.Name != "Mario Verdi" {
		t.Errorf("expected trimmed name, got %q", payload.Name)
	}
	if payload.Diagnosis != "cholelithiasis" {
		t.Errorf("expected trimmed diagnosis, got %q", payload.Diagnosis)
	}
	if payload.PendingReason != "awaiting anesthesia clearance" {
		t.Errorf("expected trimmed pending reason, got %q", payload.PendingReason)
	}
}

func TestPatientNormalizeDropsReasonWhenNotPending(t *testing.T) {
	payload := &PatientPayload{
		Name:          "Mario Verdi",
		Pending:       false,
		PendingReason: "left over from an earlier edit",
	}

	payload.Normalize()

	if payload.PendingReason != "" {
		t.Errorf("expected pending reason cleared, got %q", payload.PendingReason)
	}
}
