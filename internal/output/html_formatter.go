package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": FormatMoney,
	"rate":  FormatRate,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type htmlPortfolio struct {
	Name     string
	Color    template.CSS
	Currency string
	Summary  domain.ResultSummary
	Years    []domain.YearResult
}

type htmlWithdrawal struct {
	Label string
	domain.WithdrawalCalculation
}

// chartSeries is embedded as JSON for client-side charting.
type chartSeries struct {
	Portfolio   string   `json:"portfolio"`
	Color       string   `json:"color"`
	Years       []int    `json:"years"`
	RealCapital []string `json:"real_capital"`
}

func (h HTMLFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer

	portfolios := make([]htmlPortfolio, 0, len(results.Results))
	chart := make([]chartSeries, 0, len(results.Results))
	for i := range results.Results {
		r := &results.Results[i]
		color := r.Color
		if color == "" {
			color = "#888888"
		}
		portfolios = append(portfolios, htmlPortfolio{
			Name:     r.PortfolioName,
			Color:    template.CSS(color),
			Currency: currencyOf(r),
			Summary:  calculation.Summarize(r),
			Years:    r.Years,
		})
		series := chartSeries{Portfolio: r.PortfolioName, Color: color}
		for _, y := range r.Years {
			series.Years = append(series.Years, y.Year)
			series.RealCapital = append(series.RealCapital, y.RealCapital.StringFixed(2))
		}
		chart = append(chart, series)
	}

	withdrawals := make([]htmlWithdrawal, 0, len(results.Withdrawals))
	for i, w := range results.Withdrawals {
		withdrawals = append(withdrawals, htmlWithdrawal{Label: withdrawalLabel(results, i), WithdrawalCalculation: w})
	}

	data := struct {
		*domain.Comparison
		Summaries      []htmlPortfolio
		Withdrawals    []htmlWithdrawal
		Recommendation Recommendation
		Assumptions    []string
		Chart          []chartSeries
	}{results, portfolios, withdrawals, AnalyzeComparison(results), GenerateAssumptions(results), chart}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
