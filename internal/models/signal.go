package models

// TradeType is the directional recommendation attached to a signal.
type TradeType string

const (
	TradeCall TradeType = "CALL" // price up
	TradePut  TradeType = "PUT"  // price down
)

// Trend classifies the drift direction of an asset.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// MACDSignal is the simulated MACD indicator label.
type MACDSignal string

const (
	MACDBuy     MACDSignal = "BUY"
	MACDSell    MACDSignal = "SELL"
	MACDNeutral MACDSignal = "NEUTRAL"
)

// MarketAnalysis is the auxiliary indicator bundle attached to a signal.
type MarketAnalysis struct {
	RSI      int        `json:"rsi"` // always within [10,90]
	Trend    Trend      `json:"trend"`
	Strategy string     `json:"strategy"`
	MACD     MACDSignal `json:"macd"`
}

// SignalResult is a freshly generated recommendation for one asset.
// It is ephemeral; only the resolved trade outcome is persisted.
type SignalResult struct {
	Signal   TradeType      `json:"signal"`
	Strength int            `json:"strength"` // 0..99
	Analysis MarketAnalysis `json:"analysis"`
}

// NextSignalPreview is the pending signal shown during the final countdown.
type NextSignalPreview struct {
	Trade  TradeType `json:"trade"`
	Asset  string    `json:"asset"`
	Profit int       `json:"profit"`
}
