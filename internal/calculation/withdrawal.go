package calculation

import (
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalRate derives a sustainable annual withdrawal rate from a scenario's expected returns
// over the growth and cashflow buckets of a portfolio. A nil portfolio uses the reference
// allocation. The rate never goes below zero and, when softCap is given, never above it.
func WithdrawalRate(s *domain.Scenario, p *domain.Portfolio, softCap *decimal.Decimal) (*domain.WithdrawalCalculation, error) {
	if err := ValidateScenario(s); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenarioName(s), err)
	}
	if p == nil {
		ref := domain.ReferencePortfolio()
		p = &ref
	}
	if err := validateAllocation(p.Allocation); err != nil {
		return nil, fmt.Errorf("portfolio %q: %w", portfolioName(p), err)
	}
	if softCap != nil && softCap.IsNegative() {
		return nil, domain.NewParameterError("soft_cap", *softCap, "cannot be negative")
	}

	calc := &domain.WithdrawalCalculation{
		Scenario:         s.Name,
		Rate:             decimal.Zero,
		RawRate:          decimal.Zero,
		WeightedReturn:   decimal.Zero,
		WeightedTrimRate: decimal.Zero,
		Weights:          domain.Balances{},
		SoftCap:          softCap,
	}

	total := decimal.Zero
	for _, asset := range domain.GrowthAndCashflowAssets {
		total = total.Add(p.Allocation.Weight(asset))
	}
	if total.IsZero() {
		calc.FloorApplied = true
		return calc, nil
	}

	for _, asset := range domain.GrowthAndCashflowAssets {
		weight := p.Allocation.Weight(asset).Div(total)
		calc.Weights[asset] = weight
		ret := s.AssetReturns.Return(asset)
		calc.WeightedReturn = calc.WeightedReturn.Add(weight.Mul(ret))

		if rule := s.TrimRuleFor(asset); rule.Enabled {
			fraction := TrimFraction(ret, s.Inflation, s.GrowthCushion, rule.Threshold)
			calc.WeightedTrimRate = calc.WeightedTrimRate.Add(weight.Mul(fraction))
		}
	}

	calc.RawRate = calc.WeightedReturn.Add(calc.WeightedTrimRate).Sub(s.Inflation).Sub(s.GrowthCushion)
	rate := calc.RawRate
	if rate.IsNegative() {
		calc.FloorApplied = true
		rate = decimal.Zero
	}
	if softCap != nil && rate.GreaterThan(*softCap) {
		calc.SoftCapApplied = true
		rate = *softCap
	}
	calc.Rate = rate
	return calc, nil
}

// WithdrawalRates computes the rate of every scenario for one portfolio, in input order.
func WithdrawalRates(scenarios []domain.Scenario, p *domain.Portfolio, softCap *decimal.Decimal) ([]domain.WithdrawalCalculation, error) {
	out := make([]domain.WithdrawalCalculation, 0, len(scenarios))
	for i := range scenarios {
		wc, err := WithdrawalRate(&scenarios[i], p, softCap)
		if err != nil {
			return nil, err
		}
		out = append(out, *wc)
	}
	return out, nil
}
