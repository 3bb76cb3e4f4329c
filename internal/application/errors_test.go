package application

import "testing"

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	withFields := newValidationError("start", "time must be HH:MM")
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected generic message, got %q", got)
	}
	if got := withFields.FieldErrors["start"]; got != "time must be HH:MM" {
		t.Fatalf("expected field message, got %q", got)
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	if base.HasErrors() {
		t.Fatalf("expected empty error to report no fields")
	}
	base.add("clientName", "client name is required")

	other := newValidationError("services", "at least one service is required")
	base.merge(other)
	base.merge(nil)

	if !base.HasErrors() || len(base.FieldErrors) != 2 {
		t.Fatalf("expected two fields after merge, got %v", base.FieldErrors)
	}
}
