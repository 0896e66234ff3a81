package monetize

import (
	"time"

	"go.uber.org/zap"
)

// Placement identifies which simulated ad slot is shown before an action.
type Placement string

const (
	PlacementAppOpen              Placement = "app_open"
	PlacementInterstitial         Placement = "interstitial"
	PlacementRewarded             Placement = "rewarded"
	PlacementRewardedTrade        Placement = "rewarded_trade"
	PlacementRewardedInterstitial Placement = "rewarded_interstitial"
)

// Gate stands in for an ad/monetization SDK. The core treats it as a
// pass-through: it must eventually invoke the completion callback, and the
// gated action proceeds only then. No timing requirement beyond that.
type Gate interface {
	Present(placement Placement, onComplete func())
}

// StubGate simulates an ad impression with a fixed delay before invoking
// the completion callback.
type StubGate struct {
	delay  time.Duration
	logger *zap.Logger
}

// NewStubGate creates a StubGate. A zero delay completes synchronously.
func NewStubGate(delay time.Duration, logger *zap.Logger) *StubGate {
	return &StubGate{delay: delay, logger: logger.Named("monetize")}
}

// Present implements Gate.
func (g *StubGate) Present(placement Placement, onComplete func()) {
	g.logger.Debug("Presenting ad placement", zap.String("placement", string(placement)))
	if g.delay <= 0 {
		onComplete()
		return
	}
	time.AfterFunc(g.delay, onComplete)
}
