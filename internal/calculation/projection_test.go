package calculation

import (
	"testing"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func assertDecimalNear(t *testing.T, expected, actual decimal.Decimal, tolerance float64, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, expected.Sub(actual).Abs().LessThanOrEqual(dec(tolerance)),
		append([]any{"expected %s, got %s", expected.StringFixed(4), actual.StringFixed(4)}, msgAndArgs...)...)
}

// averageScenario mirrors the Average preset with a single VWCE trim rule.
func averageScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:          "Average",
		Inflation:     dec(0.03),
		GrowthCushion: dec(0.02),
		AssetReturns: domain.AssetReturns{
			VWCE:      dec(0.07),
			TVBETETF:  dec(0.08),
			ERNX:      dec(0.04),
			ERNXYield: dec(0.03),
			WQDV:      dec(0.06),
			WQDVYield: dec(0.035),
			Fidelis:   dec(0.06),
		},
		TrimRules: map[domain.Asset]domain.TrimRule{
			domain.VWCE: {Enabled: true, Threshold: decimal.Zero},
		},
		FidelisCap: decimal.NewFromInt(30000),
	}
}

func singleBucket(asset domain.Asset, capital int64) *domain.Portfolio {
	return &domain.Portfolio{
		ID:         "p1",
		Name:       "Single",
		Capital:    decimal.NewFromInt(capital),
		Allocation: domain.Allocation{asset: decimal.NewFromInt(100)},
	}
}

func TestSimulate_AverageSingleYearTrim(t *testing.T) {
	engine := NewEngineWithStartYear(2025)
	res, err := engine.SimulateYears(singleBucket(domain.VWCE, 100000), averageScenario(), 1)
	require.NoError(t, err)
	require.Len(t, res.Years, 1)

	year := res.Years[0]
	assert.Equal(t, 2025, year.Year)
	assert.True(t, year.Income.TrimFor(domain.VWCE).Equal(decimal.NewFromInt(2000)), "trim %s", year.Income.TrimFor(domain.VWCE))
	assert.True(t, year.Income.Total.Equal(decimal.NewFromInt(2000)))
	assert.True(t, year.Capital.Equal(decimal.NewFromInt(104860)), "capital %s", year.Capital)
	assert.True(t, year.Assets.Get(domain.VWCE).Equal(decimal.NewFromInt(104860)))
	assertDecimalNear(t, dec(101805.83), year.RealCapital, 0.01)
	assertDecimalNear(t, dec(166.67), year.MonthlyIncome, 0.01)
	assertDecimalNear(t, dec(161.81), year.RealMonthlyIncome, 0.01)
}

func TestSimulate_AccumulationBucketHasNoYield(t *testing.T) {
	scenario := averageScenario()
	scenario.TrimRules = nil

	res, err := NewEngineWithStartYear(2025).SimulateYears(singleBucket(domain.VWCE, 100000), scenario, 1)
	require.NoError(t, err)

	year := res.Years[0]
	assert.Empty(t, year.Income.Yield)
	assert.True(t, year.Income.YieldFor(domain.VWCE).IsZero())
	assert.True(t, year.Income.Total.IsZero())
	assert.True(t, year.Capital.Equal(decimal.NewFromInt(107000)), "capital %s", year.Capital)
}

func TestSimulate_DistributingYieldLeavesCompoundingBase(t *testing.T) {
	scenario := averageScenario()
	scenario.TrimRules = nil

	res, err := NewEngineWithStartYear(2025).SimulateYears(singleBucket(domain.ERNX, 100000), scenario, 2)
	require.NoError(t, err)

	first := res.Years[0]
	assert.True(t, first.Income.YieldFor(domain.ERNX).Equal(decimal.NewFromInt(3000)))
	assert.True(t, first.Capital.Equal(decimal.NewFromInt(101000)), "capital %s", first.Capital)

	second := res.Years[1]
	assert.True(t, second.Income.YieldFor(domain.ERNX).Equal(decimal.NewFromInt(3030)))
	assert.True(t, second.Capital.Equal(decimal.NewFromInt(102010)), "capital %s", second.Capital)
}

func TestSimulate_FidelisOverflowMovesToPrimaryEquity(t *testing.T) {
	scenario := averageScenario()
	scenario.TrimRules = nil
	portfolio := &domain.Portfolio{
		ID:      "capped",
		Name:    "Capped",
		Capital: decimal.NewFromInt(100000),
		Allocation: domain.Allocation{
			domain.VWCE:    decimal.NewFromInt(50),
			domain.Fidelis: decimal.NewFromInt(50),
		},
	}

	res, err := NewEngineWithStartYear(2025).SimulateYears(portfolio, scenario, 1)
	require.NoError(t, err)

	year := res.Years[0]
	assert.True(t, year.Income.CapOverflow.Equal(decimal.NewFromInt(20000)))
	assert.True(t, year.Income.FidelisReinvested.Equal(decimal.NewFromInt(1800)))
	assert.True(t, year.Income.FidelisInterest.IsZero())
	assert.True(t, year.Income.Total.IsZero())
	assert.True(t, year.Assets.Get(domain.Fidelis).Equal(decimal.NewFromInt(30000)))
	// (50000 + 20000 overflow + 1800 interest) * 1.07
	assert.True(t, year.Assets.Get(domain.VWCE).Equal(decimal.NewFromInt(76826)), "vwce %s", year.Assets.Get(domain.VWCE))
	assert.True(t, year.Capital.Equal(decimal.NewFromInt(106826)))
}

func TestSimulate_FidelisBelowCapPaysInterest(t *testing.T) {
	scenario := averageScenario()
	scenario.TrimRules = nil
	scenario.AssetReturns.Fidelis = dec(0.05)

	res, err := NewEngineWithStartYear(2025).SimulateYears(singleBucket(domain.Fidelis, 20000), scenario, 3)
	require.NoError(t, err)

	for _, year := range res.Years {
		assert.True(t, year.Income.FidelisInterest.Equal(decimal.NewFromInt(1000)))
		assert.True(t, year.Income.FidelisReinvested.IsZero())
		assert.True(t, year.Assets.Get(domain.Fidelis).Equal(decimal.NewFromInt(20000)))
		assert.True(t, year.Income.Total.Equal(decimal.NewFromInt(1000)))
	}
}

func TestSimulate_LegacyConditionalTiers(t *testing.T) {
	tests := []struct {
		name           string
		tvbReturn      float64
		expectedIncome int64
		expectedReinv  int64
		expectedTVB    int64
		expectedVWCE   int64
	}{
		{name: "high tier splits income and reinvestment", tvbReturn: 0.16, expectedIncome: 2000, expectedReinv: 2000, expectedTVB: 111360, expectedVWCE: 2140},
		{name: "mid tier pays two percent", tvbReturn: 0.12, expectedIncome: 2000, expectedReinv: 0, expectedTVB: 109760, expectedVWCE: 0},
		{name: "low return pays nothing", tvbReturn: 0.05, expectedIncome: 0, expectedReinv: 0, expectedTVB: 105000, expectedVWCE: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := averageScenario()
			scenario.AssetReturns.TVBETETF = dec(tt.tvbReturn)
			// An enabled trim rule is ignored while the legacy rule is selected.
			scenario.TrimRules[domain.TVBETETF] = domain.TrimRule{Enabled: true, Threshold: decimal.Zero}
			portfolio := singleBucket(domain.TVBETETF, 100000)
			portfolio.Rules.TVBETETFConditional = true

			res, err := NewEngineWithStartYear(2025).SimulateYears(portfolio, scenario, 1)
			require.NoError(t, err)

			year := res.Years[0]
			assert.True(t, year.Income.TrimFor(domain.TVBETETF).Equal(decimal.NewFromInt(tt.expectedIncome)), "income %s", year.Income.TrimFor(domain.TVBETETF))
			assert.True(t, year.Income.ReinvestedTrimFor(domain.TVBETETF).Equal(decimal.NewFromInt(tt.expectedReinv)))
			assert.True(t, year.Assets.Get(domain.TVBETETF).Equal(decimal.NewFromInt(tt.expectedTVB)), "tvbetetf %s", year.Assets.Get(domain.TVBETETF))
			assert.True(t, year.Assets.Get(domain.VWCE).Equal(decimal.NewFromInt(tt.expectedVWCE)), "vwce %s", year.Assets.Get(domain.VWCE))
		})
	}
}

func TestSimulate_ReinvestStrategyKeepsTrimInCapital(t *testing.T) {
	portfolio := singleBucket(domain.VWCE, 100000)
	portfolio.Strategy.Overperformance = domain.OverperformanceReinvest

	res, err := NewEngineWithStartYear(2025).SimulateYears(portfolio, averageScenario(), 1)
	require.NoError(t, err)

	year := res.Years[0]
	assert.True(t, year.Income.Total.IsZero())
	assert.True(t, year.Income.ReinvestedTrimFor(domain.VWCE).Equal(decimal.NewFromInt(2000)))
	assert.True(t, year.Capital.Equal(decimal.NewFromInt(107000)), "capital %s", year.Capital)
}

func mixedPortfolio() *domain.Portfolio {
	return &domain.Portfolio{
		ID:      "mixed",
		Name:    "Mixed",
		Capital: decimal.NewFromInt(250000),
		Allocation: domain.Allocation{
			domain.VWCE:     decimal.NewFromInt(40),
			domain.TVBETETF: decimal.NewFromInt(15),
			domain.ERNX:     decimal.NewFromInt(10),
			domain.WQDV:     decimal.NewFromInt(15),
			domain.Fidelis:  decimal.NewFromInt(20),
		},
	}
}

func TestSimulate_ConservationAndCapHoldEveryYear(t *testing.T) {
	scenario := averageScenario()
	scenario.TrimRules[domain.WQDV] = domain.TrimRule{Enabled: true, Threshold: dec(0.005)}
	scenario.TrimRules[domain.TVBETETF] = domain.TrimRule{Enabled: true, Threshold: dec(0.01)}

	res, err := NewEngineWithStartYear(2025).Simulate(mixedPortfolio(), scenario)
	require.NoError(t, err)
	require.Len(t, res.Years, DefaultHorizonYears)

	for i, year := range res.Years {
		assert.True(t, year.Capital.Equal(year.Assets.Total()), "year %d: capital %s != sum %s", i, year.Capital, year.Assets.Total())
		assert.True(t, year.Assets.Get(domain.Fidelis).LessThanOrEqual(scenario.FidelisCap), "year %d fidelis %s", i, year.Assets.Get(domain.Fidelis))
		for _, asset := range domain.AllAssets {
			assert.False(t, year.Assets.Get(asset).IsNegative(), "year %d %s negative", i, asset)
		}
		expectedTotal := year.Income.TotalYield().Add(year.Income.TotalTrim()).Add(year.Income.FidelisInterest)
		assert.True(t, year.Income.Total.Equal(expectedTotal))
		assert.Equal(t, 2025+i, year.Year)
	}
}

func TestSimulate_RealValuesDeflateFromYearOne(t *testing.T) {
	scenario := averageScenario()
	scenario.TrimRules = nil

	res, err := NewEngineWithStartYear(2030).SimulateYears(singleBucket(domain.VWCE, 100000), scenario, 3)
	require.NoError(t, err)

	for i, year := range res.Years {
		deflator := one.Add(scenario.Inflation).Pow(decimal.NewFromInt(int64(i + 1)))
		assertDecimalNear(t, year.Capital.Div(deflator), year.RealCapital, 0.000001, "year %d", i)
	}
	assert.Equal(t, []int{2030, 2031, 2032}, []int{res.Years[0].Year, res.Years[1].Year, res.Years[2].Year})
}

func TestSimulate_IsDeterministic(t *testing.T) {
	engine := NewEngineWithStartYear(2025)
	a, err := engine.Simulate(mixedPortfolio(), averageScenario())
	require.NoError(t, err)
	b, err := engine.Simulate(mixedPortfolio(), averageScenario())
	require.NoError(t, err)

	require.Equal(t, len(a.Years), len(b.Years))
	for i := range a.Years {
		assert.True(t, a.Years[i].Capital.Equal(b.Years[i].Capital))
		assert.True(t, a.Years[i].RealCapital.Equal(b.Years[i].RealCapital))
		assert.True(t, a.Years[i].Income.Total.Equal(b.Years[i].Income.Total))
		for _, asset := range domain.AllAssets {
			assert.True(t, a.Years[i].Assets.Get(asset).Equal(b.Years[i].Assets.Get(asset)))
		}
	}
}

func TestSimulate_ZeroCapitalProducesZeroSeries(t *testing.T) {
	res, err := NewEngineWithStartYear(2025).SimulateYears(singleBucket(domain.VWCE, 0), averageScenario(), 5)
	require.NoError(t, err)
	for _, year := range res.Years {
		assert.True(t, year.Capital.IsZero())
		assert.True(t, year.Income.Total.IsZero())
	}
}
