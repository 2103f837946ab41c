package calculation

import (
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	minusOne = decimal.NewFromInt(-1)
	one      = decimal.NewFromInt(1)
	hundred  = decimal.NewFromInt(100)
	twelve   = decimal.NewFromInt(12)
)

// ValidateHorizon checks the number of projected years.
func ValidateHorizon(years int) error {
	if years <= 0 {
		return fmt.Errorf("%w: must be a positive number of years, got %d", domain.ErrInvalidHorizon, years)
	}
	return nil
}

// ValidatePortfolio checks the inputs the engine reads from a portfolio.
func ValidatePortfolio(p *domain.Portfolio) error {
	if p == nil {
		return &domain.ParameterError{Field: "portfolio", Value: "nil", Reason: "is required"}
	}
	if p.Capital.IsNegative() {
		return domain.NewParameterError("capital", p.Capital, "cannot be negative")
	}
	return validateAllocation(p.Allocation)
}

func validateAllocation(a domain.Allocation) error {
	for asset, w := range a {
		if _, err := domain.ParseAsset(string(asset)); err != nil {
			return &domain.ParameterError{Field: "allocation", Value: string(asset), Reason: "unknown bucket"}
		}
		if w.IsNegative() {
			return domain.NewParameterError("allocation."+string(asset), w, "cannot be negative")
		}
	}
	return nil
}

// ValidateScenario checks every rate the engine and the withdrawal calculator consume.
func ValidateScenario(s *domain.Scenario) error {
	if s == nil {
		return &domain.ParameterError{Field: "scenario", Value: "nil", Reason: "is required"}
	}
	if s.Inflation.LessThanOrEqual(minusOne) {
		return domain.NewParameterError("inflation", s.Inflation, "must be greater than -100%")
	}
	if s.GrowthCushion.LessThanOrEqual(minusOne) {
		return domain.NewParameterError("growth_cushion", s.GrowthCushion, "must be greater than -100%")
	}
	if s.FidelisCap.IsNegative() {
		return domain.NewParameterError("fidelis_cap", s.FidelisCap, "cannot be negative")
	}

	for _, asset := range domain.AllAssets {
		ret := s.AssetReturns.Return(asset)
		yield := s.AssetReturns.Yield(asset)
		if ret.LessThan(minusOne) {
			return domain.NewParameterError("asset_returns."+string(asset), ret, "cannot be below -100%")
		}
		// Fidelis pays its whole return as interest; the return check above covers it.
		if asset == domain.Fidelis {
			continue
		}
		if yield.IsNegative() || yield.GreaterThan(one) {
			return domain.NewParameterError("asset_returns."+string(asset)+"_yield", yield, "must be between 0 and 100%")
		}
		if ret.Sub(yield).LessThan(minusOne) {
			return domain.NewParameterError("asset_returns."+string(asset), ret, "return net of yield cannot be below -100%")
		}
	}

	for asset, rule := range s.TrimRules {
		if !asset.IsTrimEligible() {
			if rule.Enabled {
				return &domain.ParameterError{Field: "trim_rules", Value: string(asset), Reason: "bucket cannot be trimmed"}
			}
			continue
		}
		if rule.Threshold.IsNegative() {
			return domain.NewParameterError("trim_rules."+string(asset)+".threshold", rule.Threshold, "cannot be negative")
		}
		if !rule.Enabled {
			continue
		}
		fraction := TrimFraction(s.AssetReturns.Return(asset), s.Inflation, s.GrowthCushion, rule.Threshold)
		if fraction.GreaterThan(one) {
			return domain.NewParameterError("trim_rules."+string(asset), fraction, "trim would exceed the bucket balance")
		}
	}
	return nil
}
