package output

import (
	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation names the strongest portfolios of a comparison.
type Recommendation struct {
	BestCapital        string
	FinalRealCapital   decimal.Decimal
	BestIncome         string
	FirstMonthlyIncome decimal.Decimal
	// CapitalLead is the final real capital gap to the runner-up, zero with fewer than two portfolios.
	CapitalLead        decimal.Decimal
}

// AnalyzeComparison picks the portfolio with the highest final real capital and the one with
// the highest first-year monthly income. Ties go to the earlier portfolio.
func AnalyzeComparison(results *domain.Comparison) Recommendation {
	if results == nil || len(results.Results) == 0 {
		return Recommendation{}
	}
	summaries := calculation.SummarizeAll(results)

	bestCap, bestInc := 0, 0
	for i := 1; i < len(summaries); i++ {
		if summaries[i].FinalRealCapital.GreaterThan(summaries[bestCap].FinalRealCapital) {
			bestCap = i
		}
		if summaries[i].FirstMonthlyIncome.GreaterThan(summaries[bestInc].FirstMonthlyIncome) {
			bestInc = i
		}
	}

	rec := Recommendation{
		BestCapital:        summaries[bestCap].PortfolioName,
		FinalRealCapital:   summaries[bestCap].FinalRealCapital,
		BestIncome:         summaries[bestInc].PortfolioName,
		FirstMonthlyIncome: summaries[bestInc].FirstMonthlyIncome,
	}
	if len(summaries) > 1 {
		runnerUp := decimal.Zero
		first := true
		for i, s := range summaries {
			if i == bestCap {
				continue
			}
			if first || s.FinalRealCapital.GreaterThan(runnerUp) {
				runnerUp = s.FinalRealCapital
				first = false
			}
		}
		rec.CapitalLead = rec.FinalRealCapital.Sub(runnerUp)
	}
	return rec
}
