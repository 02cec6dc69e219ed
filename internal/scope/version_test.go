package scope

import (
	"errors"
	"testing"
)

func TestVersionCompatibilitySameMajor(t *testing.T) {
	resetVersionChecks()

	if err := CheckVersionCompatibility("1"); err != nil {
		t.Errorf("expected version 1 to be compatible: %v", err)
	}

	if err := CheckVersionCompatibility("1.9.3"); err != nil {
		t.Errorf("expected version 1.9.3 to be compatible: %v", err)
	}
}

func TestVersionCompatibilityMajorMismatch(t *testing.T) {
	resetVersionChecks()

	err := CheckVersionCompatibility("2.0.0")

	var e *Error

	if !errors.As(err, &e) || e.Kind != KindProtocolVersionMismatch {
		t.Fatalf("expected ProtocolVersionMismatch, got %v", err)
	}
}

func TestVersionCompatibilityMemoized(t *testing.T) {
	resetVersionChecks()

	first := CheckVersionCompatibility("3.0.0")
	second := CheckVersionCompatibility("3.0.0")

	if first == nil || second == nil {
		t.Fatal("expected mismatch errors")
	}

	// Same outcome object: the check runs once per distinct value.
	if first != second {
		t.Errorf("expected memoized outcome, got distinct errors")
	}
}
