package calculation

import (
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// distributingAssets pay a cash yield every year. Fidelis interest is handled by the cap step.
var distributingAssets = []domain.Asset{domain.ERNX, domain.WQDV}

// initialBalances splits the starting capital by allocation weight.
func initialBalances(p *domain.Portfolio) domain.Balances {
	balances := make(domain.Balances, len(domain.AllAssets))
	for _, asset := range domain.AllAssets {
		balances[asset] = p.Capital.Mul(p.Allocation.Weight(asset)).Div(hundred)
	}
	return balances
}

// GenerateProjection runs the year loop. Inputs must already be validated.
func (e *Engine) GenerateProjection(p *domain.Portfolio, s *domain.Scenario, years int) []domain.YearResult {
	projection := make([]domain.YearResult, 0, years)
	balances := initialBalances(p)
	deflator := one
	inflationFactor := one.Add(s.Inflation)

	for idx := 0; idx < years; idx++ {
		// Real values compound from year one.
		deflator = deflator.Mul(inflationFactor)

		year, next := e.projectYear(idx, balances, p, s)
		year.RealCapital = year.Capital.Div(deflator)
		year.RealMonthlyIncome = year.MonthlyIncome.Div(deflator)
		projection = append(projection, year)

		if e.Debug {
			e.Logger.Debugf("%s %d: capital=%s income=%s reinvested=%s",
				p.Name, year.Year, year.Capital.StringFixed(2), year.Income.Total.StringFixed(2),
				year.Income.TotalReinvested().StringFixed(2))
		}
		balances = next
	}
	return projection
}

// projectYear applies one year of yield, trim, cap and growth to start-of-year balances and
// returns the year's result together with the balances carried into the next year.
func (e *Engine) projectYear(idx int, start domain.Balances, p *domain.Portfolio, s *domain.Scenario) (domain.YearResult, domain.Balances) {
	income := domain.IncomeBreakdown{
		Yield:          domain.Balances{},
		Trim:           domain.Balances{},
		ReinvestedTrim: domain.Balances{},
	}
	working := start.Clone()
	toPrimary := decimal.Zero

	// Yield leaves the bucket as cash; growth below excludes it from the compounding base.
	for _, asset := range distributingAssets {
		y := start.Get(asset).Mul(s.AssetReturns.Yield(asset))
		if !y.IsZero() {
			income.Yield[asset] = y
		}
	}

	for _, asset := range domain.TrimEligibleAssets {
		outcome := resolveTrimPolicy(asset, p, s).Apply(start.Get(asset))
		if !outcome.Income.IsZero() {
			income.Trim[asset] = outcome.Income
		}
		if !outcome.Reinvested.IsZero() {
			income.ReinvestedTrim[asset] = outcome.Reinvested
			toPrimary = toPrimary.Add(outcome.Reinvested)
		}
		working[asset] = working.Get(asset).Sub(outcome.Total())
	}

	// The cap takes priority over paying Fidelis interest out.
	fidelis := start.Get(domain.Fidelis)
	if fidelis.GreaterThan(s.FidelisCap) {
		income.CapOverflow = fidelis.Sub(s.FidelisCap)
		fidelis = s.FidelisCap
		toPrimary = toPrimary.Add(income.CapOverflow)
	}
	interest := fidelis.Mul(s.AssetReturns.Return(domain.Fidelis))
	if fidelis.GreaterThanOrEqual(s.FidelisCap) {
		income.FidelisReinvested = interest
		toPrimary = toPrimary.Add(interest)
	} else {
		income.FidelisInterest = interest
	}
	working[domain.Fidelis] = fidelis
	working[domain.VWCE] = working.Get(domain.VWCE).Add(toPrimary)

	next := make(domain.Balances, len(domain.AllAssets))
	for _, asset := range domain.AllAssets {
		growth := one.Add(s.AssetReturns.Return(asset)).Sub(s.AssetReturns.Yield(asset))
		next[asset] = working.Get(asset).Mul(growth)
	}

	income.Total = income.TotalYield().Add(income.TotalTrim()).Add(income.FidelisInterest)

	year := domain.YearResult{
		Year:          e.StartYear + idx,
		YearIndex:     idx,
		Capital:       next.Total(),
		Assets:        next.Clone(),
		Income:        income,
		MonthlyIncome: income.Total.Div(twelve),
	}
	return year, next
}
