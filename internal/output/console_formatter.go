package output

import (
	"bytes"
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PORTFOLIO PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Scenario: %s (inflation %s)\n", results.Scenario.Name, FormatRate(results.Scenario.Inflation))
	fmt.Fprintln(&buf)

	for i := range results.Results {
		r := &results.Results[i]
		s := calculation.Summarize(r)
		cur := currencyOf(r)
		fmt.Fprintf(&buf, "%s: Initial=%s Final=%s Real=%s Years=%d\n",
			s.PortfolioName,
			FormatMoney(s.InitialCapital, cur),
			FormatMoney(s.FinalCapital, cur),
			FormatMoney(s.FinalRealCapital, cur),
			s.Years,
		)
		fmt.Fprintf(&buf, "  MonthlyIncome first=%s final=%s real=%s\n",
			FormatMoney(s.FirstMonthlyIncome, cur),
			FormatMoney(s.FinalMonthlyIncome, cur),
			FormatMoney(s.FinalRealMonthly, cur),
		)
	}

	if len(results.Withdrawals) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SUSTAINABLE WITHDRAWAL RATES")
		for i, w := range results.Withdrawals {
			fmt.Fprintf(&buf, "  %s: %s%s\n", withdrawalLabel(results, i), FormatRate(w.Rate), withdrawalNote(w))
		}
	}

	rec := AnalyzeComparison(results)
	if rec.BestCapital != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Highest real capital: %s (%s)\n", rec.BestCapital, FormatMoney(rec.FinalRealCapital, firstCurrency(results)))
		fmt.Fprintf(&buf, "Highest starting income: %s (%s/month)\n", rec.BestIncome, FormatMoney(rec.FirstMonthlyIncome, firstCurrency(results)))
	}
	return buf.Bytes(), nil
}

func withdrawalNote(w domain.WithdrawalCalculation) string {
	switch {
	case w.FloorApplied:
		return " (floored at zero)"
	case w.SoftCapApplied:
		return fmt.Sprintf(" (capped, raw %s)", FormatRate(w.RawRate))
	}
	return ""
}

func firstCurrency(results *domain.Comparison) string {
	if len(results.Results) == 0 {
		return domain.DefaultCurrency
	}
	return currencyOf(&results.Results[0])
}
