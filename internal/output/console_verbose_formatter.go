package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the year-by-year console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintf(&buf, "DETAILED PORTFOLIO PROJECTION: %s SCENARIO\n", strings.ToUpper(results.Scenario.Name))
	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i := range results.Results {
		r := &results.Results[i]
		cur := currencyOf(r)
		title := fmt.Sprintf("PORTFOLIO %d: %s", i+1, r.PortfolioName)
		fmt.Fprintln(&buf, title)
		fmt.Fprintln(&buf, strings.Repeat("=", len(title)))

		if first, ok := firstYear(r); ok {
			writeBucketBreakdown(&buf, first, cur)
		}

		fmt.Fprintf(&buf, "%-6s %16s %16s %14s %14s %14s %14s %14s\n",
			"YEAR", "CAPITAL", "REAL CAPITAL", "YIELD", "TRIM", "FIDELIS", "REINVESTED", "MONTHLY")
		fmt.Fprintln(&buf, strings.Repeat("-", 96))
		for _, y := range r.Years {
			fmt.Fprintf(&buf, "%-6d %16s %16s %14s %14s %14s %14s %14s\n",
				y.Year,
				FormatMoney(y.Capital, cur),
				FormatMoney(y.RealCapital, cur),
				FormatMoney(y.Income.TotalYield(), cur),
				FormatMoney(y.Income.TotalTrim(), cur),
				FormatMoney(y.Income.FidelisInterest, cur),
				FormatMoney(y.Income.TotalReinvested(), cur),
				FormatMoney(y.MonthlyIncome, cur),
			)
		}
		fmt.Fprintln(&buf)

		s := calculation.Summarize(r)
		fmt.Fprintln(&buf, "LONG-TERM PROJECTION:")
		fmt.Fprintln(&buf, "---------------------")
		fmt.Fprintf(&buf, "  Final Capital:           %s\n", FormatMoney(s.FinalCapital, cur))
		fmt.Fprintf(&buf, "  Final Real Capital:      %s\n", FormatMoney(s.FinalRealCapital, cur))
		fmt.Fprintf(&buf, "  Final Real Monthly:      %s\n", FormatMoney(s.FinalRealMonthly, cur))
		fmt.Fprintf(&buf, "  Total Income Paid:       %s\n", FormatMoney(s.TotalIncomePaid, cur))
		fmt.Fprintf(&buf, "  Total Reinvested:        %s\n", FormatMoney(s.TotalReinvested, cur))
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf)
	}

	if len(results.Withdrawals) > 0 {
		fmt.Fprintln(&buf, "SUSTAINABLE WITHDRAWAL RATES")
		fmt.Fprintln(&buf, "============================")
		for i, w := range results.Withdrawals {
			fmt.Fprintf(&buf, "%-20s rate=%s weighted return=%s weighted trim=%s%s\n",
				withdrawalLabel(results, i), FormatRate(w.Rate), FormatRate(w.WeightedReturn), FormatRate(w.WeightedTrimRate), withdrawalNote(w))
		}
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeComparison(results)
	if rec.BestCapital != "" {
		cur := firstCurrency(results)
		fmt.Fprintln(&buf, "SUMMARY")
		fmt.Fprintln(&buf, "=======")
		fmt.Fprintf(&buf, "Highest real capital: %s (%s)\n", rec.BestCapital, FormatMoney(rec.FinalRealCapital, cur))
		if rec.CapitalLead.IsPositive() {
			fmt.Fprintf(&buf, "Lead over runner-up: %s\n", FormatMoney(rec.CapitalLead, cur))
		}
		fmt.Fprintf(&buf, "Highest starting income: %s (%s/month)\n", rec.BestIncome, FormatMoney(rec.FirstMonthlyIncome, cur))
	}

	return buf.Bytes(), nil
}

func firstYear(r *domain.SimulationResult) (domain.YearResult, bool) {
	if len(r.Years) == 0 {
		return domain.YearResult{}, false
	}
	return r.Years[0], true
}

// writeBucketBreakdown prints the first projected year per bucket.
func writeBucketBreakdown(buf *bytes.Buffer, y domain.YearResult, cur string) {
	fmt.Fprintf(buf, "FIRST YEAR (%d) BY BUCKET:\n", y.Year)
	fmt.Fprintf(buf, "%-12s %16s %14s %14s %14s\n", "BUCKET", "BALANCE", "YIELD", "TRIM", "REINVESTED")
	fmt.Fprintln(buf, strings.Repeat("-", 74))
	for _, a := range domain.AllAssets {
		balance := y.Assets.Get(a)
		yield := y.Income.YieldFor(a)
		trim := y.Income.TrimFor(a)
		reinvested := y.Income.ReinvestedTrimFor(a)
		if a == domain.Fidelis {
			yield = y.Income.FidelisInterest
			reinvested = y.Income.FidelisReinvested.Add(y.Income.CapOverflow)
		}
		if balance.IsZero() && yield.IsZero() && trim.IsZero() && reinvested.IsZero() {
			continue
		}
		bucketLine(buf, a.Label(), cur, balance, yield, trim, reinvested)
	}
	fmt.Fprintln(buf)
}

func bucketLine(buf *bytes.Buffer, label, cur string, balance, yield, trim, reinvested decimal.Decimal) {
	fmt.Fprintf(buf, "%-12s %16s %14s %14s %14s\n", label,
		FormatMoney(balance, cur), FormatMoney(yield, cur), FormatMoney(trim, cur), FormatMoney(reinvested, cur))
}
