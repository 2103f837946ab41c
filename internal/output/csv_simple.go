package output

import (
	"bytes"
	"encoding/csv"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per portfolio).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "PortfolioID", "Portfolio", "Currency", "Years", "InitialCapital", "FinalCapital", "FinalRealCapital", "FirstMonthlyIncome", "FinalMonthlyIncome", "FinalRealMonthlyIncome", "TotalIncomePaid", "TotalReinvested"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range results.Results {
		r := &results.Results[i]
		s := calculation.Summarize(r)
		row := []string{
			results.Scenario.Name,
			r.PortfolioID,
			s.PortfolioName,
			currencyOf(r),
			intToString(s.Years),
			s.InitialCapital.StringFixed(2),
			s.FinalCapital.StringFixed(2),
			s.FinalRealCapital.StringFixed(2),
			s.FirstMonthlyIncome.StringFixed(2),
			s.FinalMonthlyIncome.StringFixed(2),
			s.FinalRealMonthly.StringFixed(2),
			s.TotalIncomePaid.StringFixed(2),
			s.TotalReinvested.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
