package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TrimRule converts return above inflation + growth cushion + threshold into income.
type TrimRule struct {
	Enabled   bool            `yaml:"enabled" json:"enabled"`
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
}

// AssetReturns holds the expected total return per bucket and the cash yield of the
// distributing funds. Fidelis pays its whole return as interest.
type AssetReturns struct {
	VWCE      decimal.Decimal `yaml:"vwce" json:"vwce"`
	TVBETETF  decimal.Decimal `yaml:"tvbetetf" json:"tvbetetf"`
	ERNX      decimal.Decimal `yaml:"ernx" json:"ernx"`
	ERNXYield decimal.Decimal `yaml:"ernx_yield" json:"ernxYield"`
	WQDV      decimal.Decimal `yaml:"wqdv" json:"wqdv"`
	WQDVYield decimal.Decimal `yaml:"wqdv_yield" json:"wqdvYield"`
	Fidelis   decimal.Decimal `yaml:"fidelis" json:"fidelis"`
}

// Return returns the expected total annual return of a bucket.
func (r AssetReturns) Return(a Asset) decimal.Decimal {
	switch a {
	case VWCE:
		return r.VWCE
	case TVBETETF:
		return r.TVBETETF
	case ERNX:
		return r.ERNX
	case WQDV:
		return r.WQDV
	case Fidelis:
		return r.Fidelis
	}
	return decimal.Zero
}

// Yield returns the portion of a bucket's return paid out rather than compounded.
func (r AssetReturns) Yield(a Asset) decimal.Decimal {
	switch a {
	case ERNX:
		return r.ERNXYield
	case WQDV:
		return r.WQDVYield
	case Fidelis:
		return r.Fidelis
	}
	return decimal.Zero
}

// DefaultGrowthCushion returns the growth cushion applied to scenarios that do not set one.
func DefaultGrowthCushion() decimal.Decimal { return decimal.New(2, -2) }

// Scenario is a named economic regime.
type Scenario struct {
	Name              string             `yaml:"name" json:"name"`
	Inflation         decimal.Decimal    `yaml:"inflation" json:"inflation"`
	RegionalInflation decimal.Decimal    `yaml:"regional_inflation,omitempty" json:"regionalInflation,omitempty"` // carried only
	GrowthCushion     decimal.Decimal    `yaml:"growth_cushion" json:"growthCushion"`
	TaxOnSaleProceeds decimal.Decimal    `yaml:"tax_on_sale_proceeds,omitempty" json:"taxOnSaleProceeds,omitempty"`
	TaxOnDividends    decimal.Decimal    `yaml:"tax_on_dividends,omitempty" json:"taxOnDividends,omitempty"`
	AssetReturns      AssetReturns       `yaml:"asset_returns" json:"assetReturns"`
	TrimRules         map[Asset]TrimRule `yaml:"trim_rules" json:"trimRules"`
	FidelisCap        decimal.Decimal    `yaml:"fidelis_cap" json:"fidelisCap"`
	IsDefault         bool               `yaml:"is_default,omitempty" json:"isDefault,omitempty"`
}

// TrimRuleFor returns the rule for a bucket; absent rules are disabled.
func (s *Scenario) TrimRuleFor(a Asset) TrimRule {
	if s.TrimRules == nil {
		return TrimRule{}
	}
	return s.TrimRules[a]
}

var hundred = decimal.NewFromInt(100)

func pct(d decimal.Decimal) string { return d.Mul(hundred).StringFixed(2) + "%" }

// Assumptions lists the scenario's modeling inputs as human readable lines.
func (s *Scenario) Assumptions() []string {
	lines := []string{
		fmt.Sprintf("Inflation: %s annually (real values deflate from year one)", pct(s.Inflation)),
		fmt.Sprintf("Growth cushion: %s real return kept before trimming", pct(s.GrowthCushion)),
	}
	for _, a := range AllAssets {
		line := fmt.Sprintf("%s expected return: %s", a.Label(), pct(s.AssetReturns.Return(a)))
		if y := s.AssetReturns.Yield(a); y.IsPositive() && a != Fidelis {
			line += fmt.Sprintf(" (yield %s)", pct(y))
		}
		if rule := s.TrimRuleFor(a); rule.Enabled {
			line += fmt.Sprintf(", trim above %s", pct(rule.Threshold))
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		fmt.Sprintf("Fidelis cap: %s; interest above the cap is reinvested into %s", s.FidelisCap.StringFixed(2), VWCE.Label()),
		"Taxes on sales and dividends are informational and not deducted",
	)
	return lines
}
