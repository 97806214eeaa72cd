// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// FloatTolerance is the default absolute/relative tolerance for
// AssertFloatNear, matching six decimal places.
const FloatTolerance = 1e-6

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless errors.Is(err, target).
func AssertErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// FloatNear reports whether got and want agree within FloatTolerance,
// absolute or relative.
func FloatNear(got, want float64) bool {
	return scalar.EqualWithinAbsOrRel(got, want, FloatTolerance, FloatTolerance)
}

// AssertFloatNear fails the test if got and want differ by more than
// FloatTolerance.
func AssertFloatNear(t testing.TB, got, want float64) {
	t.Helper()
	if !FloatNear(got, want) {
		t.Errorf("got %.9g, want %.9g", got, want)
	}
}

// WriteTempFile writes content into a fresh temp dir and returns the path.
func WriteTempFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
