package main

import (
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/config"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// Prints the trim fraction of every bucket and the reference withdrawal rate under each preset,
// then the first projected year of the balanced example portfolio.
func main() {
	presets := config.Presets()
	for i := range presets {
		s := &presets[i]
		fmt.Printf("%s (inflation %s, cushion %s)\n", s.Name, s.Inflation.StringFixed(3), s.GrowthCushion.StringFixed(3))
		for _, asset := range domain.TrimEligibleAssets {
			rule := s.TrimRuleFor(asset)
			fraction := calculation.TrimFraction(s.AssetReturns.Return(asset), s.Inflation, s.GrowthCushion, rule.Threshold)
			fmt.Printf("  %-9s enabled=%-5t threshold=%s fraction=%s\n", asset.Label(), rule.Enabled, rule.Threshold.StringFixed(3), fraction.StringFixed(4))
		}
		if wc, err := calculation.WithdrawalRate(s, nil, nil); err == nil {
			fmt.Printf("  withdrawal rate=%s raw=%s\n", wc.Rate.StringFixed(4), wc.RawRate.StringFixed(4))
		}
	}

	portfolio := config.ExamplePortfolios()[0]
	engine := calculation.NewEngineWithStartYear(2025)
	for i := range presets {
		res, err := engine.SimulateYears(&portfolio, &presets[i], 1)
		if err != nil {
			fmt.Printf("%s: %v\n", presets[i].Name, err)
			continue
		}
		y := res.Years[0]
		fmt.Printf("%s %s year %d: trim paid=%s reinvested=%s total income=%s\n", portfolio.Name, presets[i].Name,
			y.Year, y.Income.TotalTrim().StringFixed(2), y.Income.TotalReinvested().StringFixed(2), y.Income.Total.StringFixed(2))
	}
}
