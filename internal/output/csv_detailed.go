package output

import (
	"bytes"
	"encoding/csv"

	"github.com/portsim/portfolio-simulator/internal/domain"
)

// CSVDetailedExporter provides raw annual projection detail per portfolio, year and bucket.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "PortfolioID", "Year", "YearIndex", "Bucket", "Balance", "Yield", "Trim", "ReinvestedTrim", "Capital", "RealCapital", "IncomeTotal", "MonthlyIncome", "RealMonthlyIncome"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		for _, yr := range r.Years {
			for _, a := range domain.AllAssets {
				yield := yr.Income.YieldFor(a)
				reinvested := yr.Income.ReinvestedTrimFor(a)
				if a == domain.Fidelis {
					yield = yr.Income.FidelisInterest
					reinvested = yr.Income.FidelisReinvested.Add(yr.Income.CapOverflow)
				}
				row := []string{
					results.Scenario.Name,
					r.PortfolioID,
					intToString(yr.Year),
					intToString(yr.YearIndex),
					string(a),
					yr.Assets.Get(a).StringFixed(2),
					yield.StringFixed(2),
					yr.Income.TrimFor(a).StringFixed(2),
					reinvested.StringFixed(2),
					yr.Capital.StringFixed(2),
					yr.RealCapital.StringFixed(2),
					yr.Income.Total.StringFixed(2),
					yr.MonthlyIncome.StringFixed(2),
					yr.RealMonthlyIncome.StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
