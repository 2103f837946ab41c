package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders an A4 report with a summary page and a yearly table per portfolio.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(results *domain.Comparison) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	// Core fonts are cp1252; the translator maps symbols such as the euro sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 12, tr("Portfolio Projection: "+results.Scenario.Name), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, a := range GenerateAssumptions(results) {
		pdf.MultiCell(pdfContentWidth, 5, tr("- "+a), "", "L", false)
	}
	pdf.Ln(4)

	headers := []string{"Portfolio", "Initial", "Final", "Final (real)", "First monthly"}
	widths := []float64{50, 32.5, 32.5, 32.5, 32.5}
	pdfHeader(pdf, headers, widths)
	for i := range results.Results {
		r := &results.Results[i]
		s := calculation.Summarize(r)
		cur := currencyOf(r)
		pdfRow(pdf, tr, widths, s.PortfolioName,
			FormatMoney(s.InitialCapital, cur), FormatMoney(s.FinalCapital, cur),
			FormatMoney(s.FinalRealCapital, cur), FormatMoney(s.FirstMonthlyIncome, cur))
	}

	if len(results.Withdrawals) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(pdfContentWidth, 8, "Sustainable withdrawal rates", "", 1, "L", false, 0, "")
		wWidths := []float64{60, 40, 40, 40}
		pdfHeader(pdf, []string{"Portfolio", "Rate", "Raw rate", "Weighted return"}, wWidths)
		for i, w := range results.Withdrawals {
			pdfRow(pdf, tr, wWidths, withdrawalLabel(results, i), FormatRate(w.Rate), FormatRate(w.RawRate), FormatRate(w.WeightedReturn))
		}
	}

	yearWidths := []float64{20, 40, 40, 40, 40}
	for i := range results.Results {
		r := &results.Results[i]
		cur := currencyOf(r)
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(0, 51, 102)
		pdf.CellFormat(pdfContentWidth, 10, tr(r.PortfolioName), "", 1, "L", false, 0, "")
		pdfHeader(pdf, []string{"Year", "Capital", "Real capital", "Income", "Monthly"}, yearWidths)
		for _, y := range r.Years {
			pdfRow(pdf, tr, yearWidths, intToString(y.Year),
				FormatMoney(y.Capital, cur), FormatMoney(y.RealCapital, cur),
				FormatMoney(y.Income.Total, cur), FormatMoney(y.MonthlyIncome, cur))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfHeader(pdf *fpdf.Fpdf, headers []string, widths []float64) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 236, 245)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetTextColor(0, 51, 102)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func pdfRow(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells ...string) {
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(50, 50, 50)
	for i, c := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 6, tr(c), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
