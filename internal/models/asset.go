package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset represents one tradable pair from the static market table.
// The table is loaded once at startup and never mutated.
type Asset struct {
	Name       string `json:"name"`
	Market     string `json:"market"` // "OTC" or "Regular"
	Change     string `json:"change"` // signed percent string, e.g. "+0.34%"
	Profit1Min int    `json:"profit_1min"`
	Profit5Min int    `json:"profit_5min"`
	IsOTC      bool   `json:"is_otc"`
}

// ChangeValue parses the signed percent-change string into a float.
// "+0.34%" -> 0.34, "-3.18%" -> -3.18.
func (a Asset) ChangeValue() (float64, error) {
	s := a.Change
	if len(s) > 0 && s[len(s)-1] == '%' {
		s = s[:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("malformed change %q for asset %s: %w", a.Change, a.Name, err)
	}
	return d.InexactFloat64(), nil
}
