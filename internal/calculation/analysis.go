package calculation

import (
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize derives the headline figures of a projection.
func Summarize(result *domain.SimulationResult) domain.ResultSummary {
	summary := domain.ResultSummary{
		PortfolioName:    result.PortfolioName,
		Years:            len(result.Years),
		InitialCapital:   result.InitialCapital,
		FinalCapital:     result.InitialCapital,
		FinalRealCapital: result.InitialCapital,
		TotalIncomePaid:  decimal.Zero,
		TotalReinvested:  decimal.Zero,
	}
	if len(result.Years) == 0 {
		return summary
	}

	for _, y := range result.Years {
		summary.TotalIncomePaid = summary.TotalIncomePaid.Add(y.Income.Total)
		summary.TotalReinvested = summary.TotalReinvested.Add(y.Income.TotalReinvested())
	}
	first := result.Years[0]
	last := result.Years[len(result.Years)-1]
	summary.FinalCapital = last.Capital
	summary.FinalRealCapital = last.RealCapital
	summary.FirstMonthlyIncome = first.MonthlyIncome
	summary.FinalMonthlyIncome = last.MonthlyIncome
	summary.FinalRealMonthly = last.RealMonthlyIncome
	return summary
}

// SummarizeAll summarizes every result of a comparison, in order.
func SummarizeAll(comparison *domain.Comparison) []domain.ResultSummary {
	out := make([]domain.ResultSummary, 0, len(comparison.Results))
	for i := range comparison.Results {
		out = append(out, Summarize(&comparison.Results[i]))
	}
	return out
}
