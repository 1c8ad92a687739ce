package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Lasso.Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "moldesc: Lasso.Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "PCA.Transform",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "moldesc: PCA.Transform: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("StandardScaler.Transform", 12, 10, 1)

	want := "moldesc: StandardScaler.Transform: dimension mismatch on axis 1 (features). Expected 12, got 10"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 12 || dimErr.Got != 10 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LassoCV", "Predict")

	want := "moldesc: LassoCV: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewParseError(t *testing.T) {
	err := NewParseError("C1CC", 4, "unclosed ring bond 1")

	want := `moldesc: cannot parse "C1CC" at position 4: unclosed ring bond 1`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var parseErr *ParseError
	if !As(Wrap(err, "record 17"), &parseErr) {
		t.Fatal("wrapped error should still expose *ParseError")
	}
	if parseErr.Pos != 4 {
		t.Errorf("Pos = %d, want 4", parseErr.Pos)
	}
}

func TestNewFormatError(t *testing.T) {
	tests := []struct {
		name    string
		line    int
		wantMsg string
	}{
		{"with line", 12, "moldesc: qm9.jsonl.gz:12: missing field \"smiles\""},
		{"without line", 0, "moldesc: qm9.jsonl.gz: missing field \"smiles\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFormatError("qm9.jsonl.gz", tt.line, `missing field "smiles"`)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUndefinedDescriptorError(t *testing.T) {
	err := NewUndefinedDescriptorError("BalabanJ", "fewer than two heavy atoms")
	if err.Error() != "BalabanJ: undefined: fewer than two heavy atoms" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("Lasso", 1000, "duality gap 1.2e-3 above tolerance")

	want := "Lasso failed to converge after 1000 iterations: duality gap 1.2e-3 above tolerance"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarnRoutesToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewConvergenceWarning("Lasso", 10, ""))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrDegenerateInput, "in Cleaner.Clean")

	if !Is(wrapped, ErrDegenerateInput) {
		t.Error("Expected Is(wrapped, ErrDegenerateInput) to be true")
	}

	if !strings.Contains(wrapped.Error(), "in Cleaner.Clean") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
