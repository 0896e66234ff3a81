package signal

import (
	"math/rand"
	"testing"

	"binary-signal-bot-go/internal/assets"
	"binary-signal-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_BoundsHoldForAllAssetsAndSeeds(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		for _, asset := range assets.All() {
			result, err := gen.Generate(asset)
			require.NoError(t, err, "asset %s seed %d", asset.Name, seed)

			assert.GreaterOrEqual(t, result.Strength, 0)
			assert.LessOrEqual(t, result.Strength, 99)
			assert.GreaterOrEqual(t, result.Analysis.RSI, 10)
			assert.LessOrEqual(t, result.Analysis.RSI, 90)
			assert.Contains(t, []models.TradeType{models.TradeCall, models.TradePut}, result.Signal)
		}
	}
}

func TestGenerate_FlatMarketCapsStrength(t *testing.T) {
	flat := models.Asset{Name: "EUR/SGD", Market: "OTC", Change: "+0.02%", Profit1Min: 91, IsOTC: true}

	for seed := int64(0); seed < 50; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		result, err := gen.Generate(flat)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Strength, 75, "flat market must never score above 75")
	}
}

func TestGenerate_MalformedChangeFails(t *testing.T) {
	bad := models.Asset{Name: "XXX/YYY", Change: "n/a"}
	gen := NewGenerator(rand.New(rand.NewSource(1)))

	_, err := gen.Generate(bad)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed change")
}

func TestEvaluate_StrategySelection(t *testing.T) {
	testCases := []struct {
		name             string
		asset            models.Asset
		change           float64
		rsi              int
		expectedSignal   models.TradeType
		expectedStrategy string
		expectedTrend    models.Trend
		expectedMACD     models.MACDSignal
		minStrength      int
		maxStrength      int
	}{
		{
			name:             "Non-OTC moderate uptrend follows the trend",
			asset:            models.Asset{Name: "EUR/JPY", IsOTC: false},
			change:           1.2,
			rsi:              55,
			expectedSignal:   models.TradeCall,
			expectedStrategy: StrategySMATrend,
			expectedTrend:    models.TrendBullish,
			expectedMACD:     models.MACDBuy,
			minStrength:      88,
			maxStrength:      94,
		},
		{
			name:             "Non-OTC moderate downtrend follows the trend",
			asset:            models.Asset{Name: "EUR/GBP", IsOTC: false},
			change:           -0.5,
			rsi:              45,
			expectedSignal:   models.TradePut,
			expectedStrategy: StrategySMATrend,
			expectedTrend:    models.TrendBearish,
			expectedMACD:     models.MACDSell,
			minStrength:      88,
			maxStrength:      94,
		},
		{
			name:             "Non-OTC overbought extreme reverses down",
			asset:            models.Asset{Name: "USD/JPY", IsOTC: false},
			change:           0.2,
			rsi:              85,
			expectedSignal:   models.TradePut,
			expectedStrategy: StrategyRSIDivergence,
			expectedTrend:    models.TrendBullish,
			expectedMACD:     models.MACDSell,
			minStrength:      90,
			maxStrength:      94,
		},
		{
			name:             "Non-OTC oversold extreme reverses up",
			asset:            models.Asset{Name: "USD/JPY", IsOTC: false},
			change:           -0.02,
			rsi:              15,
			expectedSignal:   models.TradeCall,
			expectedStrategy: StrategyRSIDivergence,
			expectedTrend:    models.TrendNeutral,
			expectedMACD:     models.MACDBuy,
			minStrength:      0, // flat cap applies at change -0.02
			maxStrength:      75,
		},
		{
			name:             "OTC volatile move rides the momentum",
			asset:            models.Asset{Name: "AUD/NZD", IsOTC: true},
			change:           3.18,
			rsi:              80,
			expectedSignal:   models.TradeCall,
			expectedStrategy: StrategyOTCMomentum,
			expectedTrend:    models.TrendBullish,
			expectedMACD:     models.MACDBuy,
			minStrength:      85,
			maxStrength:      94,
		},
		{
			name:             "OTC quiet drift gets faded",
			asset:            models.Asset{Name: "USD/TRY", IsOTC: true},
			change:           0.34,
			rsi:              55,
			expectedSignal:   models.TradePut,
			expectedStrategy: StrategyOTCReversal,
			expectedTrend:    models.TrendBullish,
			expectedMACD:     models.MACDNeutral,
			minStrength:      65,
			maxStrength:      74,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				gen := NewGenerator(rand.New(rand.NewSource(seed)))
				result := gen.evaluate(tc.asset, tc.change, tc.rsi)

				assert.Equal(t, tc.expectedSignal, result.Signal)
				assert.Equal(t, tc.expectedStrategy, result.Analysis.Strategy)
				assert.Equal(t, tc.expectedTrend, result.Analysis.Trend)
				assert.Equal(t, tc.expectedMACD, result.Analysis.MACD)
				assert.GreaterOrEqual(t, result.Strength, tc.minStrength)
				assert.LessOrEqual(t, result.Strength, tc.maxStrength)
				assert.Equal(t, tc.rsi, result.Analysis.RSI)
			}
		})
	}
}

func TestEvaluate_SidewaysIsCoinFlipWithLowConfidence(t *testing.T) {
	asset := models.Asset{Name: "EUR/GBP", IsOTC: false}

	seenCall, seenPut := false, false
	for seed := int64(0); seed < 40; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		result := gen.evaluate(asset, 0.25, 50)

		assert.Equal(t, StrategyRangeBounce, result.Analysis.Strategy)
		assert.Equal(t, models.MACDNeutral, result.Analysis.MACD)
		assert.GreaterOrEqual(t, result.Strength, 70)
		assert.LessOrEqual(t, result.Strength, 81)

		switch result.Signal {
		case models.TradeCall:
			seenCall = true
		case models.TradePut:
			seenPut = true
		}
	}
	assert.True(t, seenCall && seenPut, "both directions should appear over many seeds")
}

func TestGenerate_DeterministicUnderFixedSeed(t *testing.T) {
	asset := assets.At(0)

	first, err := NewGenerator(rand.New(rand.NewSource(42))).Generate(asset)
	require.NoError(t, err)
	second, err := NewGenerator(rand.New(rand.NewSource(42))).Generate(asset)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
