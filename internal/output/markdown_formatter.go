package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// MarkdownFormatter renders the comparison as GitHub-flavored markdown.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Portfolio Projection: %s\n\n", results.Scenario.Name)

	fmt.Fprintln(&buf, "## Assumptions")
	fmt.Fprintln(&buf)
	for _, a := range GenerateAssumptions(results) {
		fmt.Fprintf(&buf, "- %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "## Summary")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "| Portfolio | Initial | Final | Final (real) | First monthly | Final monthly (real) |")
	fmt.Fprintln(&buf, "|---|---:|---:|---:|---:|---:|")
	for i := range results.Results {
		r := &results.Results[i]
		s := calculation.Summarize(r)
		cur := currencyOf(r)
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s | %s |\n", s.PortfolioName,
			FormatMoney(s.InitialCapital, cur), FormatMoney(s.FinalCapital, cur), FormatMoney(s.FinalRealCapital, cur),
			FormatMoney(s.FirstMonthlyIncome, cur), FormatMoney(s.FinalRealMonthly, cur))
	}
	fmt.Fprintln(&buf)

	if len(results.Withdrawals) > 0 {
		fmt.Fprintln(&buf, "## Sustainable Withdrawal Rates")
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "| Portfolio | Rate | Raw rate | Floored | Capped |")
		fmt.Fprintln(&buf, "|---|---:|---:|---|---|")
		for i, w := range results.Withdrawals {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n", withdrawalLabel(results, i), FormatRate(w.Rate), FormatRate(w.RawRate),
				boolToString(w.FloorApplied), boolToString(w.SoftCapApplied))
		}
		fmt.Fprintln(&buf)
	}

	if rec := AnalyzeComparison(results); rec.BestCapital != "" {
		fmt.Fprintln(&buf, "## Recommendation")
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "**%s** ends with the highest real capital; **%s** pays the most in its first year.\n",
			rec.BestCapital, rec.BestIncome)
	}
	return buf.Bytes(), nil
}

// RenderTerminal styles markdown for a plain terminal.
func RenderTerminal(md []byte) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render(string(md))
}
