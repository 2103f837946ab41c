package config

import (
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Preset scenario names.
const (
	PresetPessimistic = "Pessimistic"
	PresetAverage     = "Average"
	PresetOptimistic  = "Optimistic"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// presetRecord is the static data behind a preset. Slices and maps are built fresh on every
// call to Presets so callers can edit what they get back.
type presetRecord struct {
	name          string
	inflation     float64
	regional      float64
	returns       [7]float64 // vwce, tvbetetf, ernx, ernx yield, wqdv, wqdv yield, fidelis
	trimThreshold float64
	fidelisCap    int64
}

var presetRecords = []presetRecord{
	{
		name: PresetPessimistic, inflation: 0.05, regional: 0.06,
		returns:       [7]float64{0.04, 0.03, 0.03, 0.03, 0.035, 0.03, 0.055},
		trimThreshold: 0.01, fidelisCap: 30000,
	},
	{
		name: PresetAverage, inflation: 0.03, regional: 0.04,
		returns:       [7]float64{0.07, 0.08, 0.04, 0.03, 0.06, 0.035, 0.06},
		trimThreshold: 0, fidelisCap: 30000,
	},
	{
		name: PresetOptimistic, inflation: 0.025, regional: 0.03,
		returns:       [7]float64{0.09, 0.11, 0.045, 0.03, 0.08, 0.04, 0.065},
		trimThreshold: 0, fidelisCap: 30000,
	},
}

func (r presetRecord) scenario() domain.Scenario {
	return domain.Scenario{
		Name:              r.name,
		Inflation:         d(r.inflation),
		RegionalInflation: d(r.regional),
		GrowthCushion:     domain.DefaultGrowthCushion(),
		TaxOnSaleProceeds: d(0.10),
		TaxOnDividends:    d(0.10),
		AssetReturns: domain.AssetReturns{
			VWCE:      d(r.returns[0]),
			TVBETETF:  d(r.returns[1]),
			ERNX:      d(r.returns[2]),
			ERNXYield: d(r.returns[3]),
			WQDV:      d(r.returns[4]),
			WQDVYield: d(r.returns[5]),
			Fidelis:   d(r.returns[6]),
		},
		TrimRules: map[domain.Asset]domain.TrimRule{
			domain.VWCE:     {Enabled: true, Threshold: d(r.trimThreshold)},
			domain.TVBETETF: {Enabled: true, Threshold: d(r.trimThreshold)},
			domain.ERNX:     {Enabled: false, Threshold: decimal.Zero},
			domain.WQDV:     {Enabled: false, Threshold: decimal.Zero},
		},
		FidelisCap: decimal.NewFromInt(r.fidelisCap),
		IsDefault:  r.name == PresetAverage,
	}
}

// Presets returns a fresh copy of the Pessimistic, Average and Optimistic scenarios.
func Presets() []domain.Scenario {
	out := make([]domain.Scenario, 0, len(presetRecords))
	for _, r := range presetRecords {
		out = append(out, r.scenario())
	}
	return out
}

// Preset returns a copy of one preset by name.
func Preset(name string) (domain.Scenario, bool) {
	for _, r := range presetRecords {
		if r.name == name {
			return r.scenario(), true
		}
	}
	return domain.Scenario{}, false
}

// ExamplePortfolios returns the sample portfolios written by CreateExampleConfiguration.
func ExamplePortfolios() []domain.Portfolio {
	return []domain.Portfolio{
		{
			ID: "balanced", Name: "Balanced income", Color: "#2563eb", Currency: domain.DefaultCurrency,
			Capital: decimal.NewFromInt(200000), Goal: "Monthly income with moderate growth",
			RiskLabel: "medium", Horizon: "long",
			Allocation: domain.Allocation{
				domain.VWCE:     decimal.NewFromInt(40),
				domain.TVBETETF: decimal.NewFromInt(15),
				domain.ERNX:     decimal.NewFromInt(10),
				domain.WQDV:     decimal.NewFromInt(20),
				domain.Fidelis:  decimal.NewFromInt(15),
			},
			Strategy: domain.PortfolioStrategy{Overperformance: domain.OverperformanceWithdraw},
		},
		{
			ID: "growth", Name: "Growth", Color: "#16a34a", Currency: domain.DefaultCurrency,
			Capital: decimal.NewFromInt(200000), Goal: "Maximize long-term capital",
			RiskLabel: "high", Horizon: "long",
			Allocation: domain.Allocation{
				domain.VWCE:     decimal.NewFromInt(80),
				domain.TVBETETF: decimal.NewFromInt(20),
			},
			Strategy: domain.PortfolioStrategy{Overperformance: domain.OverperformanceReinvest},
		},
		{
			ID: "local", Name: "Local market legacy", Color: "#f59e0b", Currency: domain.DefaultCurrency,
			Capital: decimal.NewFromInt(150000), Goal: "Income from the local fund",
			RiskLabel: "medium", Horizon: "medium",
			Allocation: domain.Allocation{
				domain.VWCE:     decimal.NewFromInt(30),
				domain.TVBETETF: decimal.NewFromInt(50),
				domain.Fidelis:  decimal.NewFromInt(20),
			},
			Rules: domain.PortfolioRules{TVBETETFConditional: true},
		},
	}
}
