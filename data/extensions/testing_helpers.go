package extensions

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
)

func AssertAreEqual[T comparable](t *testing.T, name string, expected T, actual T) {
	t.Helper()
	if expected != actual {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

func AssertNillability[T any](t *testing.T, name string, expected bool, actual *T) {
	t.Helper()
	if (actual == nil) != expected {
		t.Fatalf("value mismatch for %s, expected nil %v, got nil %v", name, expected, (actual == nil))
	}
}

// AssertMissing fails unless the value is the missing marker
func AssertMissing(t *testing.T, name string, actual null.Float) {
	t.Helper()
	if actual.Valid {
		t.Fatalf("expected %s to be missing, got %v", name, actual.Float64)
	}
}

// AssertFloat fails unless the value is present and within 1e-9 of expected
func AssertFloat(t *testing.T, name string, expected float64, actual null.Float) {
	t.Helper()
	if !actual.Valid {
		t.Fatalf("expected %s to be %v, got missing", name, expected)
	}
	if math.Abs(expected-actual.Float64) > 1e-9 {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual.Float64)
	}
}
