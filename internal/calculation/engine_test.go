package calculation

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateYears_InvalidHorizon(t *testing.T) {
	engine := NewEngineWithStartYear(2025)
	for _, years := range []int{0, -1, -35} {
		res, err := engine.SimulateYears(singleBucket(domain.VWCE, 1000), averageScenario(), years)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon, "years=%d", years)
	}
}

func TestSimulateYears_InvalidParameters(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(p *domain.Portfolio, s *domain.Scenario)
		expectedField string
	}{
		{name: "negative capital", mutate: func(p *domain.Portfolio, _ *domain.Scenario) { p.Capital = decimal.NewFromInt(-1) }, expectedField: "capital"},
		{name: "negative weight", mutate: func(p *domain.Portfolio, _ *domain.Scenario) { p.Allocation[domain.ERNX] = decimal.NewFromInt(-5) }, expectedField: "allocation.ernx"},
		{name: "unknown bucket", mutate: func(p *domain.Portfolio, _ *domain.Scenario) { p.Allocation["vhyl"] = decimal.NewFromInt(5) }, expectedField: "allocation"},
		{name: "inflation at -100%", mutate: func(_ *domain.Portfolio, s *domain.Scenario) { s.Inflation = decimal.NewFromInt(-1) }, expectedField: "inflation"},
		{name: "return below -100%", mutate: func(_ *domain.Portfolio, s *domain.Scenario) { s.AssetReturns.VWCE = dec(-1.5) }, expectedField: "asset_returns.vwce"},
		{name: "fidelis below -100%", mutate: func(_ *domain.Portfolio, s *domain.Scenario) { s.AssetReturns.Fidelis = dec(-1.2) }, expectedField: "asset_returns.fidelis"},
		{name: "negative yield", mutate: func(_ *domain.Portfolio, s *domain.Scenario) { s.AssetReturns.ERNXYield = dec(-0.01) }, expectedField: "asset_returns.ernx_yield"},
		{name: "negative threshold", mutate: func(_ *domain.Portfolio, s *domain.Scenario) {
			s.TrimRules[domain.VWCE] = domain.TrimRule{Enabled: true, Threshold: dec(-0.01)}
		}, expectedField: "trim_rules.vwce.threshold"},
		{name: "trim on fidelis", mutate: func(_ *domain.Portfolio, s *domain.Scenario) {
			s.TrimRules[domain.Fidelis] = domain.TrimRule{Enabled: true}
		}, expectedField: "trim_rules"},
		{name: "negative cap", mutate: func(_ *domain.Portfolio, s *domain.Scenario) { s.FidelisCap = decimal.NewFromInt(-10) }, expectedField: "fidelis_cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portfolio := mixedPortfolio()
			scenario := averageScenario()
			tt.mutate(portfolio, scenario)

			res, err := NewEngineWithStartYear(2025).SimulateYears(portfolio, scenario, 10)
			assert.Nil(t, res)
			require.ErrorIs(t, err, domain.ErrInvalidScenarioParameter)
			var perr *domain.ParameterError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.expectedField, perr.Field)
		})
	}
}

func TestSimulateYears_NegativeFidelisReturn(t *testing.T) {
	scenario := averageScenario()
	scenario.AssetReturns.Fidelis = dec(-0.02)

	res, err := NewEngineWithStartYear(2025).SimulateYears(singleBucket(domain.Fidelis, 10000), scenario, 1)
	require.NoError(t, err)
	require.Len(t, res.Years, 1)

	year := res.Years[0]
	assert.True(t, year.Income.FidelisInterest.Equal(decimal.NewFromInt(-200)), "got %s", year.Income.FidelisInterest)
	assert.True(t, year.Income.FidelisReinvested.IsZero())
	assert.True(t, year.Income.CapOverflow.IsZero())
}

func TestNewEngine_UsesClockForStartYear(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	engine := NewEngine()
	assert.Equal(t, 2031, engine.StartYear)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestEngine_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	engine := NewEngineWithStartYear(2025)
	engine.SetLogger(NewWriterLogger(&buf, true))
	engine.Debug = true

	_, err := engine.SimulateYears(singleBucket(domain.VWCE, 1000), averageScenario(), 2)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[DEBUG] Single 2025")
	assert.Contains(t, buf.String(), "[DEBUG] Single 2026")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestSimulateAll_KeepsInputOrder(t *testing.T) {
	portfolios := []domain.Portfolio{*mixedPortfolio(), *singleBucket(domain.VWCE, 100000), *singleBucket(domain.ERNX, 5000)}
	portfolios[1].ID, portfolios[1].Name = "growth", "Growth"
	portfolios[2].ID, portfolios[2].Name = "income", "Income"

	results, err := NewEngineWithStartYear(2025).SimulateAll(context.Background(), portfolios, averageScenario(), 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "mixed", results[0].PortfolioID)
	assert.Equal(t, "growth", results[1].PortfolioID)
	assert.Equal(t, "income", results[2].PortfolioID)
	for _, r := range results {
		assert.Len(t, r.Years, 10)
	}
}

func TestSimulateAll_ReportsFailure(t *testing.T) {
	bad := *singleBucket(domain.VWCE, 100)
	bad.Capital = decimal.NewFromInt(-100)
	portfolios := []domain.Portfolio{*mixedPortfolio(), bad}

	results, err := NewEngineWithStartYear(2025).SimulateAll(context.Background(), portfolios, averageScenario(), 5)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, domain.ErrInvalidScenarioParameter)
}

func TestSimulateAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngineWithStartYear(2025).SimulateAll(ctx, []domain.Portfolio{*mixedPortfolio()}, averageScenario(), 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_AttachesWithdrawalRates(t *testing.T) {
	portfolios := []domain.Portfolio{*mixedPortfolio(), *singleBucket(domain.VWCE, 100000)}

	comparison, err := NewEngineWithStartYear(2025).Compare(context.Background(), portfolios, averageScenario(), 5)
	require.NoError(t, err)
	require.Len(t, comparison.Results, 2)
	require.Len(t, comparison.Withdrawals, 2)
	assert.Equal(t, "Average", comparison.Scenario.Name)
	assert.NotEmpty(t, comparison.Assumptions)

	summaries := SummarizeAll(comparison)
	require.Len(t, summaries, 2)
	assert.True(t, summaries[1].InitialCapital.Equal(decimal.NewFromInt(100000)))
	assert.True(t, summaries[1].FinalCapital.Equal(comparison.Results[1].Years[4].Capital))
	assert.Equal(t, 5, summaries[1].Years)
}

func TestSummarize_TotalsIncome(t *testing.T) {
	res, err := NewEngineWithStartYear(2025).SimulateYears(singleBucket(domain.VWCE, 100000), averageScenario(), 2)
	require.NoError(t, err)

	summary := Summarize(res)
	expected := res.Years[0].Income.Total.Add(res.Years[1].Income.Total)
	assert.True(t, summary.TotalIncomePaid.Equal(expected))
	assert.True(t, summary.FirstMonthlyIncome.Equal(res.Years[0].MonthlyIncome))
	assert.True(t, summary.FinalRealCapital.Equal(res.Years[1].RealCapital))

	empty := Summarize(&domain.SimulationResult{InitialCapital: decimal.NewFromInt(10)})
	assert.True(t, empty.FinalCapital.Equal(decimal.NewFromInt(10)))
}
