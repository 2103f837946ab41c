package domain

import "github.com/shopspring/decimal"

// OverperformanceStrategy controls where excess-return trims go.
type OverperformanceStrategy string

const (
	// OverperformanceWithdraw pays trims out as income (default).
	OverperformanceWithdraw OverperformanceStrategy = "withdraw"
	// OverperformanceReinvest moves trims into the primary equity bucket instead of paying them out.
	OverperformanceReinvest OverperformanceStrategy = "reinvest"
)

// Allocation holds the initial percentage weight per bucket. Weights need not sum to 100.
type Allocation map[Asset]decimal.Decimal

// Weight returns the weight for a bucket, zero when absent.
func (a Allocation) Weight(asset Asset) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a[asset]
}

// Total returns the sum of all weights.
func (a Allocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, asset := range AllAssets {
		total = total.Add(a.Weight(asset))
	}
	return total
}

// PortfolioRules are per-portfolio toggles.
type PortfolioRules struct {
	// TVBETETFConditional selects the legacy discrete income rule for the local-market fund.
	TVBETETFConditional bool `yaml:"tvbetetf_conditional" json:"tvbetetfConditional"`
}

// PortfolioStrategy describes what to do with returns above the trim threshold.
type PortfolioStrategy struct {
	Overperformance          OverperformanceStrategy `yaml:"overperformance_strategy,omitempty" json:"overperformanceStrategy,omitempty"`
	OverperformanceThreshold decimal.Decimal         `yaml:"overperformance_threshold,omitempty" json:"overperformanceThreshold,omitempty"`
}

// Reinvests reports whether trims are routed back into the primary equity bucket.
func (s PortfolioStrategy) Reinvests() bool {
	return s.Overperformance == OverperformanceReinvest
}

// DefaultCurrency is the display currency for portfolios that do not set one.
const DefaultCurrency = "EUR"

// Portfolio is a named starting capital with an allocation and rule toggles.
type Portfolio struct {
	ID         string            `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Color      string            `yaml:"color" json:"color"`
	Currency   string            `yaml:"currency,omitempty" json:"currency,omitempty"`
	Capital    decimal.Decimal   `yaml:"capital" json:"capital"`
	Goal       string            `yaml:"goal,omitempty" json:"goal,omitempty"`
	RiskLabel  string            `yaml:"risk_label,omitempty" json:"riskLabel,omitempty"`
	Horizon    string            `yaml:"horizon,omitempty" json:"horizon,omitempty"`
	Allocation Allocation        `yaml:"allocation" json:"allocation"`
	Rules      PortfolioRules    `yaml:"rules" json:"rules"`
	Strategy   PortfolioStrategy `yaml:"strategy,omitempty" json:"strategy,omitempty"`
}

// ReferenceAllocation is the synthetic split used when no portfolio is given to the
// withdrawal-rate calculator.
var ReferenceAllocation = Allocation{
	VWCE:     decimal.NewFromInt(60),
	TVBETETF: decimal.NewFromInt(20),
	WQDV:     decimal.NewFromInt(20),
}

// ReferencePortfolio wraps ReferenceAllocation in a portfolio value.
func ReferencePortfolio() Portfolio {
	alloc := make(Allocation, len(ReferenceAllocation))
	for k, v := range ReferenceAllocation {
		alloc[k] = v
	}
	return Portfolio{ID: "reference", Name: "Reference", Allocation: alloc}
}
