package assets

import "binary-signal-bot-go/internal/models"

// table is the fixed market reference data, ordered roughly by 1-minute payout.
var table = []models.Asset{
	// High payout OTC pairs
	{Name: "USD/TRY", Market: "OTC", Change: "+0.34%", Profit1Min: 95, Profit5Min: 94, IsOTC: true},
	{Name: "EUR/SGD", Market: "OTC", Change: "+0.02%", Profit1Min: 91, Profit5Min: 86, IsOTC: true},
	{Name: "EUR/GBP", Market: "Regular", Change: "-0.25%", Profit1Min: 89, Profit5Min: 90, IsOTC: false},
	{Name: "EUR/NZD", Market: "OTC", Change: "+0.71%", Profit1Min: 88, Profit5Min: 93, IsOTC: true},
	{Name: "NZD/CHF", Market: "OTC", Change: "-3.18%", Profit1Min: 88, Profit5Min: 84, IsOTC: true},
	{Name: "NZD/USD", Market: "OTC", Change: "+2.21%", Profit1Min: 88, Profit5Min: 93, IsOTC: true},
	{Name: "USD/PKR", Market: "OTC", Change: "-0.17%", Profit1Min: 87, Profit5Min: 87, IsOTC: true},
	{Name: "USD/ZAR", Market: "OTC", Change: "+0.41%", Profit1Min: 86, Profit5Min: 78, IsOTC: true},

	// Popular pairs
	{Name: "AUD/NZD", Market: "OTC", Change: "+3.18%", Profit1Min: 94, Profit5Min: 94, IsOTC: true},
	{Name: "USD/INR", Market: "OTC", Change: "-0.2%", Profit1Min: 94, Profit5Min: 94, IsOTC: true},
	{Name: "USD/COP", Market: "OTC", Change: "+0.14%", Profit1Min: 93, Profit5Min: 93, IsOTC: true},
	{Name: "NZD/JPY", Market: "OTC", Change: "-1%", Profit1Min: 91, Profit5Min: 93, IsOTC: true},
	{Name: "GBP/NZD", Market: "OTC", Change: "+1.04%", Profit1Min: 88, Profit5Min: 91, IsOTC: true},
	{Name: "EUR/JPY", Market: "Regular", Change: "+0.14%", Profit1Min: 87, Profit5Min: 90, IsOTC: false},

	// Mid-range
	{Name: "USD/BRL", Market: "OTC", Change: "-3.37%", Profit1Min: 85, Profit5Min: 88, IsOTC: true},
	{Name: "USD/IDR", Market: "OTC", Change: "+0.4%", Profit1Min: 85, Profit5Min: 91, IsOTC: true},
	{Name: "USD/ARS", Market: "OTC", Change: "+0.56%", Profit1Min: 84, Profit5Min: 84, IsOTC: true},
	{Name: "USD/DZD", Market: "OTC", Change: "+0%", Profit1Min: 84, Profit5Min: 84, IsOTC: true},
	{Name: "CAD/CHF", Market: "OTC", Change: "+3.97%", Profit1Min: 83, Profit5Min: 86, IsOTC: true},

	// Standard pairs
	{Name: "USD/PHP", Market: "OTC", Change: "+0%", Profit1Min: 86, Profit5Min: 89, IsOTC: true},
	{Name: "USD/JPY", Market: "Regular", Change: "-0.2%", Profit1Min: 79, Profit5Min: 90, IsOTC: false},
	{Name: "USD/NGN", Market: "OTC", Change: "+0%", Profit1Min: 79, Profit5Min: 77, IsOTC: true},
}

// All returns the full asset table. Callers must not mutate the result.
func All() []models.Asset {
	return table
}

// Count returns the number of assets in the table.
func Count() int {
	return len(table)
}

// At returns the asset at index i, wrapping out-of-range indexes.
func At(i int) models.Asset {
	n := len(table)
	return table[((i%n)+n)%n]
}
