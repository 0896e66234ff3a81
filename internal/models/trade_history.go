package models

import "gorm.io/gorm"

// Trade result labels as shown in the history panel.
const (
	ResultProfit = "PROFIT"
	ResultLoss   = "LOSS"
)

// TradeHistoryItem is one resolved trade in the capped history ledger.
type TradeHistoryItem struct {
	gorm.Model
	TradeID      string    `gorm:"uniqueIndex" json:"id"`
	Time         string    `json:"time"` // wall-clock HH:MM:SS at resolution
	Asset        string    `json:"asset"`
	Signal       TradeType `json:"signal"`
	Result       string    `json:"result"`        // PROFIT or LOSS
	ProfitAmount string    `json:"profit_amount"` // signed percent string, e.g. "+94%"
}
