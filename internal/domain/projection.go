package domain

import (
	"github.com/shopspring/decimal"
)

// Balances maps each bucket to a running balance.
type Balances map[Asset]decimal.Decimal

// Get returns the balance for a bucket, zero when absent.
func (b Balances) Get(a Asset) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b[a]
}

// Total sums every bucket.
func (b Balances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range AllAssets {
		total = total.Add(b.Get(a))
	}
	return total
}

// Clone returns an independent copy.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// IncomeBreakdown splits one year's income by bucket and type. Buckets that produced
// nothing of a given type are absent from the maps.
type IncomeBreakdown struct {
	Yield          Balances `json:"yield,omitempty"`
	Trim           Balances `json:"trim,omitempty"`
	ReinvestedTrim Balances `json:"reinvested_trim,omitempty"`

	FidelisInterest   decimal.Decimal `json:"fidelis_interest"`
	FidelisReinvested decimal.Decimal `json:"fidelis_reinvested"`
	CapOverflow       decimal.Decimal `json:"cap_overflow"`

	// Total is what was actually paid out: yield + paid trim + paid fidelis interest.
	Total decimal.Decimal `json:"total"`
}

// YieldFor returns the yield income of a bucket.
func (ib IncomeBreakdown) YieldFor(a Asset) decimal.Decimal { return ib.Yield.Get(a) }

// TrimFor returns the trim income paid out from a bucket.
func (ib IncomeBreakdown) TrimFor(a Asset) decimal.Decimal { return ib.Trim.Get(a) }

// ReinvestedTrimFor returns the trimmed amount of a bucket routed into the primary equity bucket.
func (ib IncomeBreakdown) ReinvestedTrimFor(a Asset) decimal.Decimal { return ib.ReinvestedTrim.Get(a) }

// TotalYield sums yield income across buckets.
func (ib IncomeBreakdown) TotalYield() decimal.Decimal { return ib.Yield.Total() }

// TotalTrim sums paid trim income across buckets.
func (ib IncomeBreakdown) TotalTrim() decimal.Decimal { return ib.Trim.Total() }

// TotalReinvested sums everything credited to the primary equity bucket this year.
func (ib IncomeBreakdown) TotalReinvested() decimal.Decimal {
	return ib.ReinvestedTrim.Total().Add(ib.FidelisReinvested).Add(ib.CapOverflow)
}

// YearResult is the state of a portfolio at the end of one simulated year.
type YearResult struct {
	Year      int `json:"year"`
	YearIndex int `json:"year_index"`

	Capital     decimal.Decimal `json:"capital"`
	RealCapital decimal.Decimal `json:"real_capital"`

	Assets Balances        `json:"assets"`
	Income IncomeBreakdown `json:"income"`

	MonthlyIncome     decimal.Decimal `json:"monthly_income"`
	RealMonthlyIncome decimal.Decimal `json:"real_monthly_income"`
}

// SimulationResult is the full yearly series for one portfolio under one scenario.
type SimulationResult struct {
	PortfolioID    string          `json:"portfolio_id"`
	PortfolioName  string          `json:"portfolio_name"`
	Color          string          `json:"color"`
	Currency       string          `json:"currency,omitempty"`
	Scenario       string          `json:"scenario"`
	StartYear      int             `json:"start_year"`
	InitialCapital decimal.Decimal `json:"initial_capital"`
	Years          []YearResult    `json:"years"`
}

// Final returns the last year, or false when the series is empty.
func (sr *SimulationResult) Final() (YearResult, bool) {
	if len(sr.Years) == 0 {
		return YearResult{}, false
	}
	return sr.Years[len(sr.Years)-1], true
}

// WithdrawalCalculation is the sustainable annual withdrawal rate implied by a scenario.
type WithdrawalCalculation struct {
	Scenario         string           `json:"scenario"`
	Rate             decimal.Decimal  `json:"rate"`
	RawRate          decimal.Decimal  `json:"raw_rate"`
	WeightedReturn   decimal.Decimal  `json:"weighted_return"`
	WeightedTrimRate decimal.Decimal  `json:"weighted_trim_rate"`
	Weights          Balances         `json:"weights,omitempty"`
	FloorApplied     bool             `json:"floor_applied"`
	SoftCapApplied   bool             `json:"soft_cap_applied"`
	SoftCap          *decimal.Decimal `json:"soft_cap,omitempty"`
}

// Comparison groups the results of several portfolios under one scenario.
type Comparison struct {
	Scenario    Scenario                `json:"scenario"`
	Results     []SimulationResult      `json:"results"`
	Withdrawals []WithdrawalCalculation `json:"withdrawals,omitempty"`
	Assumptions []string                `json:"assumptions,omitempty"`
}

// ResultSummary condenses a SimulationResult into headline figures.
type ResultSummary struct {
	PortfolioName      string          `json:"portfolio_name"`
	Years              int             `json:"years"`
	InitialCapital     decimal.Decimal `json:"initial_capital"`
	FinalCapital       decimal.Decimal `json:"final_capital"`
	FinalRealCapital   decimal.Decimal `json:"final_real_capital"`
	FirstMonthlyIncome decimal.Decimal `json:"first_monthly_income"`
	FinalMonthlyIncome decimal.Decimal `json:"final_monthly_income"`
	FinalRealMonthly   decimal.Decimal `json:"final_real_monthly_income"`
	TotalIncomePaid    decimal.Decimal `json:"total_income_paid"`
	TotalReinvested    decimal.Decimal `json:"total_reinvested"`
}
