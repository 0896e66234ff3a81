package signal

import (
	"math"
	"math/rand"
	"time"

	"binary-signal-bot-go/internal/models"
)

// Strategy labels reported alongside a signal.
const (
	StrategyOTCMomentum   = "OTC Momentum Push"
	StrategyOTCReversal   = "OTC Micro-Reversal"
	StrategySMATrend      = "SMA Trend Following"
	StrategyRSIDivergence = "RSI Divergence Reversal"
	StrategyRangeBounce   = "Bollinger Range Bounce"
)

// Volatility classification thresholds on the absolute percent change.
const (
	volatileThreshold = 0.8
	flatThreshold     = 0.05
)

// maxStrength is the hard ceiling on a signal's confidence score.
const maxStrength = 99

// flatStrengthCap limits confidence on flat markets.
const flatStrengthCap = 75

// Generator derives buy/sell recommendations from the static market table.
// All randomness comes from the injected source, so results are reproducible
// under a fixed seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator driven by the given random source.
// A nil source falls back to a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate produces a SignalResult for the asset. It fails only when the
// asset's percent-change string cannot be parsed.
func (g *Generator) Generate(asset models.Asset) (models.SignalResult, error) {
	change, err := asset.ChangeValue()
	if err != nil {
		return models.SignalResult{}, err
	}

	absChange := math.Abs(change)
	isPositive := change > 0

	// RSI tracks trend strength: a hard move up puts RSI high, a hard move
	// down puts it low, flat markets hover around the middle.
	baseRSI := 50.0
	if isPositive {
		baseRSI += absChange * 15
	} else {
		baseRSI -= absChange * 15
	}
	noise := float64(g.rng.Intn(10) - 5)
	rsi := clampInt(int(math.Floor(baseRSI+noise)), 10, 90)

	return g.evaluate(asset, change, rsi), nil
}

// evaluate applies the strategy-selection decision procedure for a given
// asset, parsed change and simulated RSI.
func (g *Generator) evaluate(asset models.Asset, change float64, rsi int) models.SignalResult {
	absChange := math.Abs(change)
	isPositive := change > 0
	isVolatile := absChange > volatileThreshold
	isFlat := absChange < flatThreshold

	var trend models.Trend
	switch {
	case change > 0.1:
		trend = models.TrendBullish
	case change < -0.1:
		trend = models.TrendBearish
	default:
		trend = models.TrendNeutral
	}

	var (
		signal   models.TradeType
		strategy string
		macd     models.MACDSignal
		score    float64
	)

	if asset.IsOTC {
		if isVolatile {
			// Strong OTC move: momentum, follow the drift.
			signal = directionFor(isPositive)
			strategy = StrategyOTCMomentum
			macd = macdFor(isPositive)
			score = 85 + g.rng.Float64()*10
		} else {
			// Quiet OTC market: bet against the small drift.
			signal = directionFor(!isPositive)
			strategy = StrategyOTCReversal
			macd = models.MACDNeutral
			score = 65 + g.rng.Float64()*10
		}
	} else {
		switch {
		case absChange > 0.3 && absChange < 1.5:
			signal = directionFor(isPositive)
			strategy = StrategySMATrend
			macd = macdFor(isPositive)
			if rsi > 30 && rsi < 70 {
				score = 88 + g.rng.Float64()*7
			} else {
				// Overbought/oversold makes trend-following riskier.
				score = 80 + g.rng.Float64()*5
			}
		case absChange >= 1.5 || rsi > 80 || rsi < 20:
			signal = directionFor(rsi <= 80)
			strategy = StrategyRSIDivergence
			macd = macdFor(rsi <= 80)
			score = 90 + g.rng.Float64()*5
		default:
			// Sideways market, coin-flip with low confidence.
			signal = directionFor(g.rng.Float64() > 0.5)
			strategy = StrategyRangeBounce
			macd = models.MACDNeutral
			score = 70 + g.rng.Float64()*12
		}
	}

	if isFlat {
		score = math.Min(score, flatStrengthCap)
	}

	return models.SignalResult{
		Signal:   signal,
		Strength: int(math.Min(maxStrength, math.Floor(score))),
		Analysis: models.MarketAnalysis{
			RSI:      rsi,
			Trend:    trend,
			Strategy: strategy,
			MACD:     macd,
		},
	}
}

func directionFor(up bool) models.TradeType {
	if up {
		return models.TradeCall
	}
	return models.TradePut
}

func macdFor(up bool) models.MACDSignal {
	if up {
		return models.MACDBuy
	}
	return models.MACDSell
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
