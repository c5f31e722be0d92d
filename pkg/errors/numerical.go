package errors

import (
	"fmt"
	"math"
)

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// NaN、Infなどを検出します。再フィット結果の検証に使用されます。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "weighted_refit", "score"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("robustgo: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return WithStack(err)
}

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64, iteration int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, iteration)
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}

// ClipValue clips a value to the range [min, max].
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
