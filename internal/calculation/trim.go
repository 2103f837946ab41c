package calculation

import (
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Legacy conditional tiers for the local-market fund, keyed on its raw expected return.
var (
	legacyHighReturn      = decimal.NewFromFloat(0.15)
	legacyHighWithdrawal  = decimal.NewFromFloat(0.04)
	legacyHighIncomeShare = decimal.NewFromFloat(0.5)
	legacyMidReturn       = decimal.NewFromFloat(0.10)
	legacyMidWithdrawal   = decimal.NewFromFloat(0.02)
)

// TrimFraction is the share of a bucket's balance converted to cash for one year:
// max(0, max(0, return - inflation - cushion) - threshold).
// The withdrawal-rate calculator uses the same function.
func TrimFraction(ret, inflation, cushion, threshold decimal.Decimal) decimal.Decimal {
	excess := decimal.Max(decimal.Zero, ret.Sub(inflation).Sub(cushion))
	return decimal.Max(decimal.Zero, excess.Sub(threshold))
}

// TrimOutcome is the amount taken out of a bucket, split by destination.
type TrimOutcome struct {
	Income     decimal.Decimal
	Reinvested decimal.Decimal
}

// Total is the amount debited from the source bucket.
func (o TrimOutcome) Total() decimal.Decimal { return o.Income.Add(o.Reinvested) }

// TrimPolicy is the rule applied to one bucket for one year. The set of variants is closed:
// NoTrim, ExcessReturnTrim and LegacyConditional.
type TrimPolicy interface {
	Apply(balance decimal.Decimal) TrimOutcome
	Name() string
	trimPolicy()
}

// NoTrim leaves the bucket untouched.
type NoTrim struct{}

func (NoTrim) Apply(decimal.Decimal) TrimOutcome { return TrimOutcome{} }
func (NoTrim) Name() string                      { return "none" }
func (NoTrim) trimPolicy()                       {}

// ExcessReturnTrim withdraws balance × Fraction, paid as income or reinvested into the
// primary equity bucket.
type ExcessReturnTrim struct {
	Fraction decimal.Decimal
	Reinvest bool
}

func (t ExcessReturnTrim) Apply(balance decimal.Decimal) TrimOutcome {
	amount := balance.Mul(t.Fraction)
	if t.Reinvest {
		return TrimOutcome{Income: decimal.Zero, Reinvested: amount}
	}
	return TrimOutcome{Income: amount, Reinvested: decimal.Zero}
}
func (ExcessReturnTrim) Name() string { return "excess-return" }
func (ExcessReturnTrim) trimPolicy()  {}

// LegacyConditional is the older discrete income rule for the local-market fund.
type LegacyConditional struct {
	Return decimal.Decimal
}

func (t LegacyConditional) Apply(balance decimal.Decimal) TrimOutcome {
	switch {
	case t.Return.GreaterThanOrEqual(legacyHighReturn):
		amount := balance.Mul(legacyHighWithdrawal)
		income := amount.Mul(legacyHighIncomeShare)
		return TrimOutcome{Income: income, Reinvested: amount.Sub(income)}
	case t.Return.GreaterThanOrEqual(legacyMidReturn):
		return TrimOutcome{Income: balance.Mul(legacyMidWithdrawal), Reinvested: decimal.Zero}
	}
	return TrimOutcome{}
}
func (LegacyConditional) Name() string { return "legacy-conditional" }
func (LegacyConditional) trimPolicy()  {}

// resolveTrimPolicy picks the policy for a bucket once per year.
func resolveTrimPolicy(asset domain.Asset, p *domain.Portfolio, s *domain.Scenario) TrimPolicy {
	if !asset.IsTrimEligible() {
		return NoTrim{}
	}
	ret := s.AssetReturns.Return(asset)
	if asset == domain.TVBETETF && p.Rules.TVBETETFConditional {
		return LegacyConditional{Return: ret}
	}
	rule := s.TrimRuleFor(asset)
	if !rule.Enabled {
		return NoTrim{}
	}
	return ExcessReturnTrim{
		Fraction: TrimFraction(ret, s.Inflation, s.GrowthCushion, rule.Threshold),
		Reinvest: p.Strategy.Reinvests(),
	}
}
