package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidHorizon is returned when the projection horizon is not a positive number of years.
	ErrInvalidHorizon = errors.New("invalid horizon")
	// ErrInvalidScenarioParameter is returned for non-finite or out-of-domain numeric inputs.
	ErrInvalidScenarioParameter = errors.New("invalid scenario parameter")
)

// ParameterError names the offending field. It unwraps to ErrInvalidScenarioParameter.
type ParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s = %s: %s", ErrInvalidScenarioParameter, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidScenarioParameter }

// NewParameterError builds a ParameterError for a decimal value.
func NewParameterError(field string, value decimal.Decimal, reason string) *ParameterError {
	return &ParameterError{Field: field, Value: value.String(), Reason: reason}
}

// RateFromFloat converts a float coming from an external document or flag into a decimal,
// rejecting NaN and infinities.
func RateFromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, &ParameterError{Field: field, Value: fmt.Sprint(v), Reason: "must be finite"}
	}
	return decimal.NewFromFloat(v), nil
}
