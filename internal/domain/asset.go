package domain

import "fmt"

// Asset identifies one of the fixed investment buckets tracked by the engine.
type Asset string

const (
	// VWCE is the primary equity accumulation fund. Reinvested amounts land here.
	VWCE Asset = "vwce"
	// TVBETETF is the local-market equity fund.
	TVBETETF Asset = "tvbetetf"
	// ERNX is the distributing bond / income fund.
	ERNX Asset = "ernx"
	// WQDV is the distributing dividend (cashflow) equity fund.
	WQDV Asset = "wqdv"
	// Fidelis is the capped fixed-income instrument; its interest is paid out in full.
	Fidelis Asset = "fidelis"
)

// AllAssets lists every bucket in canonical order.
var AllAssets = []Asset{VWCE, TVBETETF, ERNX, WQDV, Fidelis}

// GrowthAndCashflowAssets is the subset used by the withdrawal-rate calculator.
var GrowthAndCashflowAssets = []Asset{VWCE, TVBETETF, WQDV}

// TrimEligibleAssets can carry a trim rule. Fidelis is governed by its cap instead.
var TrimEligibleAssets = []Asset{VWCE, TVBETETF, ERNX, WQDV}

// ParseAsset resolves a canonical asset identifier.
func ParseAsset(s string) (Asset, error) {
	for _, a := range AllAssets {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown asset %q", s)
}

// Label returns the display ticker for the bucket.
func (a Asset) Label() string {
	switch a {
	case VWCE:
		return "VWCE"
	case TVBETETF:
		return "TVBETETF"
	case ERNX:
		return "ERNX"
	case WQDV:
		return "WQDV"
	case Fidelis:
		return "Fidelis"
	}
	return string(a)
}

// IsTrimEligible reports whether a trim rule may apply to the bucket.
func (a Asset) IsTrimEligible() bool {
	for _, e := range TrimEligibleAssets {
		if e == a {
			return true
		}
	}
	return false
}
