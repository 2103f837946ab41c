package output

import (
	"testing"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func TestAnalyzeComparison_SelectsBestPortfolios(t *testing.T) {
	rec := AnalyzeComparison(buildTestComparison())
	if rec.BestCapital != "A" {
		t.Fatalf("BestCapital = %q, want A", rec.BestCapital)
	}
	if !rec.FinalRealCapital.Equal(decimal.NewFromInt(101950)) {
		t.Fatalf("FinalRealCapital = %s", rec.FinalRealCapital)
	}
	if !rec.CapitalLead.Equal(decimal.NewFromInt(101950 - 98067)) {
		t.Fatalf("CapitalLead = %s", rec.CapitalLead)
	}
	if rec.BestIncome != "B" {
		t.Fatalf("BestIncome = %q, want B", rec.BestIncome)
	}
	if !rec.FirstMonthlyIncome.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("FirstMonthlyIncome = %s", rec.FirstMonthlyIncome)
	}
}

func TestAnalyzeComparison_TiesKeepInputOrder(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Results[1].Years = cmp.Results[0].Years
	rec := AnalyzeComparison(cmp)
	if rec.BestCapital != "A" || rec.BestIncome != "A" {
		t.Fatalf("ties should favor the first portfolio, got %+v", rec)
	}
	if !rec.CapitalLead.IsZero() {
		t.Fatalf("CapitalLead = %s, want 0", rec.CapitalLead)
	}
}

func TestAnalyzeComparison_Empty(t *testing.T) {
	if rec := AnalyzeComparison(&domain.Comparison{}); rec.BestCapital != "" {
		t.Fatalf("expected empty recommendation, got %+v", rec)
	}
	if rec := AnalyzeComparison(nil); rec.BestCapital != "" {
		t.Fatalf("expected empty recommendation for nil, got %+v", rec)
	}
}
