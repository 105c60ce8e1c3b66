package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "eslgo: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "eslgo: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError("ComputeClassStatistics", "class 3", 2, 1)

	want := "eslgo: ComputeClassStatistics: insufficient data for class 3: need at least 2 rows, got 1"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var insErr *InsufficientDataError
	if !As(err, &insErr) {
		t.Fatal("Error should be castable to *InsufficientDataError")
	}
	if insErr.Got != 1 || insErr.Required != 2 {
		t.Errorf("unexpected fields: %+v", insErr)
	}
}

func TestNewInvalidModeError(t *testing.T) {
	err := NewInvalidModeError("ParseMode", "discriminant mode", "X")

	want := `eslgo: ParseMode: invalid discriminant mode "X"`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var modeErr *InvalidModeError
	if !As(err, &modeErr) {
		t.Error("Error should be castable to *InvalidModeError")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Classify", 10, 12, 1)

	want := "eslgo: Classify: dimension mismatch on axis 1 (features). Expected 10, got 12"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewParseError(t *testing.T) {
	cause := fmt.Errorf("invalid syntax")
	err := NewParseError(4, "x.3", "abc", cause)

	if !strings.Contains(err.Error(), `row 4, column "x.3"`) {
		t.Errorf("unexpected message: %v", err)
	}
	if !Is(err, cause) {
		t.Error("ParseError should unwrap to its cause")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("SmoothingSpline", "Predict")

	want := "eslgo: SmoothingSpline: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in LeaveOneOutCV")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in LeaveOneOutCV") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWarnUsesInstalledHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewUndefinedMetricWarning("error_rate", "no rows for class 7", 0))

	if len(got) != 1 {
		t.Fatalf("expected one warning, got %d", len(got))
	}
	if !strings.Contains(got[0].Error(), "no rows for class 7") {
		t.Errorf("unexpected warning text: %v", got[0])
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("fit", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := CheckNumericalStability("fit", []float64{1, math.NaN()}, 0)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("gcv", 0.5, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var numErr *NumericalInstabilityError
		if err := CheckScalar("gcv", v, 3); !As(err, &numErr) {
			t.Errorf("CheckScalar(%v): expected NumericalInstabilityError, got %v", v, err)
		} else if numErr.Iteration != 3 {
			t.Errorf("iteration = %d, want 3", numErr.Iteration)
		}
	}
}

type gridMatrix [][]float64

func (g gridMatrix) At(i, j int) float64 { return g[i][j] }

func TestCheckMatrix(t *testing.T) {
	ok := gridMatrix{{1, 2}, {3, 4}}
	if err := CheckMatrix("pinv", ok, 2, 2, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	bad := gridMatrix{{1, math.Inf(1)}, {math.NaN(), 4}}
	var numErr *NumericalInstabilityError
	if err := CheckMatrix("pinv", bad, 2, 2, 0); !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if len(numErr.Values) != 1 || !math.IsInf(numErr.Values[0], 1) {
		t.Errorf("scan should stop after the first bad row, got %v", numErr.Values)
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		num, den, want float64
	}{
		{3, 4, 0.75},
		{2, 0, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := SafeDivide(tt.num, tt.den); got != tt.want {
			t.Errorf("SafeDivide(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestLogSumExp(t *testing.T) {
	got := LogSumExp([]float64{1000, 1000})
	want := 1000 + math.Log(2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogSumExp() = %v, want %v", got, want)
	}
	if !math.IsInf(LogSumExp(nil), -1) {
		t.Error("LogSumExp(nil) should be -Inf")
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "refit")
		panic("boom")
	}

	err := fn()
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Operation != "refit" || panicErr.PanicValue != "boom" {
		t.Errorf("unexpected panic error: %+v", panicErr)
	}
	if panicErr.StackTrace == "" {
		t.Error("expected a captured stack trace")
	}
}

func TestSafeExecute(t *testing.T) {
	if err := SafeExecute("ok", func() error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	sentinel := fmt.Errorf("fit failed")
	if err := SafeExecute("fail", func() error { return sentinel }); err != sentinel {
		t.Errorf("expected sentinel error, got %v", err)
	}

	err := SafeExecute("panic", func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "panic in panic") {
		t.Errorf("expected recovered panic, got %v", err)
	}
}
