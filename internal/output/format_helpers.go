package output

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatMoney formats an amount in the given ISO currency using its symbol, grouping and
// minor-unit precision. Unknown codes fall back to "<amount> <code>".
func FormatMoney(amount decimal.Decimal, code string) string {
	if code == "" {
		code = domain.DefaultCurrency
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.032) as a percentage (3.20%).
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func currencyOf(r *domain.SimulationResult) string {
	if r.Currency == "" {
		return domain.DefaultCurrency
	}
	return r.Currency
}

// withdrawalLabel names a withdrawal row after its portfolio when the comparison carries one
// row per result, and after its scenario otherwise.
func withdrawalLabel(results *domain.Comparison, i int) string {
	if len(results.Withdrawals) == len(results.Results) {
		return results.Results[i].PortfolioName
	}
	return results.Withdrawals[i].Scenario
}
