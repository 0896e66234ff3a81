package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"binary-signal-bot-go/internal/assets"
	"binary-signal-bot-go/internal/config"
	"binary-signal-bot-go/internal/connectivity"
	"binary-signal-bot-go/internal/ledger"
	"binary-signal-bot-go/internal/models"
	"binary-signal-bot-go/internal/monetize"
	"binary-signal-bot-go/internal/quota"
	"binary-signal-bot-go/internal/signal"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action errors surfaced through the API as user-visible gates.
var (
	ErrOffline        = errors.New("network is offline")
	ErrQuotaExhausted = errors.New("daily trade limit reached")
	ErrNotRunning     = errors.New("no active session")
)

// SyncStatus is the scheduler's externally visible state.
type SyncStatus string

const (
	StatusIdle    SyncStatus = "IDLE"
	StatusSyncing SyncStatus = "SYNCING"
	StatusPerfect SyncStatus = "PERFECT"
	StatusOffline SyncStatus = "OFFLINE"
)

// Clock abstracts wall-clock reads so ticks are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Hooks are optional callbacks fired from within a tick. They run on the
// tick goroutine and must return quickly.
type Hooks struct {
	// OnWarning fires exactly once per minute when the countdown reaches
	// the 10-second preview mark.
	OnWarning func()
	// OnResolved fires after a minute boundary has been resolved and logged.
	OnResolved func(item models.TradeHistoryItem)
}

// Deps bundles the engine's collaborators.
type Deps struct {
	Generator *signal.Generator
	Ledger    *ledger.Ledger
	Quota     *quota.Tracker
	Conn      connectivity.Provider
	Gate      monetize.Gate
	Clock     Clock
	Rand      *rand.Rand
	Hooks     Hooks
}

// pendingSignal is the previewed recommendation for the upcoming minute.
type pendingSignal struct {
	trade models.TradeType
	index int
}

// Engine is the countdown scheduler. It aligns one-second ticks to the
// wall clock, previews the next signal in the final ten seconds of each
// minute and resolves the finished minute into a ledger entry at second 0.
//
// All state mutation happens on the tick goroutine or under the mutex;
// collaborator snapshots are read once per tick.
type Engine struct {
	logger *zap.Logger
	cfg    *config.Config

	gen    *signal.Generator
	trades *ledger.Ledger
	quota  *quota.Tracker
	conn   connectivity.Provider
	gate   monetize.Gate
	clock  Clock
	rng    *rand.Rand
	hooks  Hooks

	mu               sync.RWMutex
	authenticated    bool
	status           SyncStatus
	autoMode         bool
	rotation         assets.Rotation
	assetIndex       int
	current          models.SignalResult
	next             models.NextSignalPreview
	pending          *pendingSignal
	secondsRemaining int
	showPreview      bool
	warned           bool
}

// NewEngine creates a signal engine. Nil Clock, Rand and Gate fall back to
// the system clock, a time-seeded source and a synchronous stub gate.
func NewEngine(logger *zap.Logger, cfg *config.Config, deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Gate == nil {
		deps.Gate = monetize.NewStubGate(0, logger)
	}

	return &Engine{
		logger:           logger.Named("engine"),
		cfg:              cfg,
		gen:              deps.Generator,
		trades:           deps.Ledger,
		quota:            deps.Quota,
		conn:             deps.Conn,
		gate:             deps.Gate,
		clock:            deps.Clock,
		rng:              deps.Rand,
		hooks:            deps.Hooks,
		status:           StatusIdle,
		autoMode:         cfg.Signals.AutoMode,
		rotation:         assets.ParseRotation(cfg.Signals.Rotation),
		secondsRemaining: 59,
	}
}

// Run aligns to the next whole-second boundary, then ticks once per second
// until the context is cancelled. Cancellation also clears the pending
// alignment delay; no tick fires after Run returns.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	e.status = StatusSyncing
	if e.conn.Online() {
		e.regenerateLocked(false)
	}
	e.mu.Unlock()

	delay := time.Second - time.Duration(e.clock.Now().Nanosecond())
	e.logger.Info("Synchronizing ticks to the wall clock", zap.Duration("delay", delay))

	align := time.NewTimer(delay)
	defer align.Stop()
	select {
	case <-ctx.Done():
		return
	case <-align.C:
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	e.logger.Info("Signal engine running")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping signal engine...")
			e.mu.Lock()
			e.status = StatusIdle
			e.mu.Unlock()
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick performs one scheduler step. Ordering within a tick: auth check,
// offline check, quota freeze, countdown update, preview update, minute
// resolution. Each later step is skipped when an earlier one short-circuits.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.authenticated {
		e.status = StatusIdle
		return
	}

	if !e.conn.Online() {
		// The countdown pauses while offline; quota and ledger are never
		// touched until connectivity returns.
		e.status = StatusOffline
		return
	}
	if e.status != StatusPerfect {
		e.status = StatusPerfect
	}

	if e.quota.Remaining() <= 0 {
		e.secondsRemaining = 0
		e.showPreview = false
		return
	}

	now := e.clock.Now()
	sec := now.Second()

	rem := 59 - sec
	if rem < 0 {
		rem = 59
	}
	e.secondsRemaining = rem

	if rem <= 10 && rem > 0 {
		e.showPreview = true
		if rem == 10 && !e.warned {
			e.warned = true
			if e.hooks.OnWarning != nil {
				e.hooks.OnWarning()
			}
		}
	} else {
		e.showPreview = false
		e.warned = false
	}

	if sec == 0 && e.autoMode {
		e.resolveMinuteLocked(now)
	}
}

// resolveMinuteLocked turns the just-finished minute into a ledger entry,
// consumes one trade from the quota and advances to the next asset.
func (e *Engine) resolveMinuteLocked(now time.Time) {
	if e.quota.Remaining() <= 0 {
		return
	}

	finished := assets.At(e.assetIndex)

	// Higher confidence means a higher simulated win chance, shaved by a
	// fixed house edge.
	winChance := float64(e.current.Strength)/100 - e.cfg.Signals.HouseEdge
	isWin := e.rng.Float64() < winChance

	result := models.ResultLoss
	profit := "-100%"
	if isWin {
		result = models.ResultProfit
		profit = fmt.Sprintf("+%d%%", finished.Profit1Min)
	}

	item := models.TradeHistoryItem{
		TradeID:      uuid.NewString(),
		Time:         now.Format("15:04:05"),
		Asset:        finished.Name,
		Signal:       e.current.Signal,
		Result:       result,
		ProfitAmount: profit,
	}
	if err := e.trades.Append(&item); err != nil {
		e.logger.Error("Failed to log resolved trade", zap.Error(err))
		return
	}
	remaining, err := e.quota.Consume()
	if err != nil {
		e.logger.Error("Failed to consume trade quota", zap.Error(err))
	}

	e.logger.Info("Minute resolved",
		zap.String("asset", finished.Name),
		zap.String("signal", string(e.current.Signal)),
		zap.String("result", result),
		zap.Int("trades_remaining", remaining))

	if e.rotation != assets.RotationNone {
		if e.pending != nil {
			e.assetIndex = e.pending.index
		} else {
			e.assetIndex = assets.Next(e.rotation, e.assetIndex, e.rng)
		}
	}
	e.regenerateLocked(true)

	if e.hooks.OnResolved != nil {
		e.hooks.OnResolved(item)
	}
}

// regenerateLocked computes a fresh signal for the current asset and the
// preview for the asset that follows it. When usePending is set, the
// direction shown during the preview is honored for the new current signal.
func (e *Engine) regenerateLocked(usePending bool) {
	asset := assets.At(e.assetIndex)
	result, err := e.gen.Generate(asset)
	if err != nil {
		e.logger.Error("Failed to generate signal", zap.String("asset", asset.Name), zap.Error(err))
		return
	}
	if usePending && e.pending != nil && e.pending.index == e.assetIndex {
		result.Signal = e.pending.trade
	}
	e.current = result

	nextIndex := assets.Next(e.rotation, e.assetIndex, e.rng)
	nextAsset := assets.At(nextIndex)
	nextResult, err := e.gen.Generate(nextAsset)
	if err != nil {
		e.logger.Error("Failed to generate preview signal", zap.String("asset", nextAsset.Name), zap.Error(err))
		return
	}

	e.next = models.NextSignalPreview{
		Trade:  nextResult.Signal,
		Asset:  nextAsset.Name,
		Profit: nextAsset.Profit1Min,
	}
	e.pending = &pendingSignal{trade: nextResult.Signal, index: nextIndex}
}

// Refresh regenerates the current and preview signals without consuming
// quota. Used after sign-in and when connectivity returns.
func (e *Engine) Refresh() error {
	if !e.conn.Online() {
		return ErrOffline
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.regenerateLocked(false)
	return nil
}

// ManualSignal consumes one trade and regenerates the signal, gated behind
// an interstitial ad placement. The quota decrement and the regeneration
// happen when the gate invokes its completion callback.
func (e *Engine) ManualSignal() error {
	if !e.conn.Online() {
		return ErrOffline
	}
	if !e.Authenticated() {
		return ErrNotRunning
	}
	if e.quota.Remaining() <= 0 {
		return ErrQuotaExhausted
	}

	e.gate.Present(monetize.PlacementInterstitial, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, err := e.quota.Consume(); err != nil {
			e.logger.Error("Failed to consume trade quota", zap.Error(err))
			return
		}
		e.regenerateLocked(false)
	})
	return nil
}

// ClaimBonusTrade grants one extra trade through the rewarded-ad gate.
// The claim is rejected up front once the daily bonus cap is reached.
func (e *Engine) ClaimBonusTrade() error {
	if !e.conn.Online() {
		return ErrOffline
	}
	state, err := e.quota.State()
	if err != nil {
		return err
	}
	if state.BonusClaimsToday >= models.BonusLimit {
		return quota.ErrBonusCapReached
	}

	e.gate.Present(monetize.PlacementRewardedTrade, func() {
		if _, err := e.quota.GrantBonus(); err != nil {
			e.logger.Warn("Bonus grant rejected", zap.Error(err))
		}
	})
	return nil
}

// LogResult manually records a win or loss for the currently displayed
// asset. Wins pay out a randomized share of the asset's 1-minute payout.
func (e *Engine) LogResult(result string) (models.TradeHistoryItem, error) {
	if result != models.ResultProfit && result != models.ResultLoss {
		return models.TradeHistoryItem{}, fmt.Errorf("invalid result %q", result)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	asset := assets.At(e.assetIndex)
	profit := "-100%"
	if result == models.ResultProfit {
		pct := int(math.Round(float64(asset.Profit1Min) * (0.8 + e.rng.Float64()*0.2)))
		profit = fmt.Sprintf("+%d%%", pct)
	}

	item := models.TradeHistoryItem{
		TradeID:      uuid.NewString(),
		Time:         e.clock.Now().Format("15:04:05"),
		Asset:        asset.Name,
		Signal:       e.current.Signal,
		Result:       result,
		ProfitAmount: profit,
	}
	if err := e.trades.Append(&item); err != nil {
		return models.TradeHistoryItem{}, err
	}
	return item, nil
}

// SetAuthenticated flips the engine between IDLE and the running states.
func (e *Engine) SetAuthenticated(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.authenticated = active
	if active {
		e.status = StatusSyncing
		if e.conn.Online() {
			e.regenerateLocked(false)
		}
	} else {
		e.status = StatusIdle
		e.showPreview = false
	}
}

// Authenticated reports whether the engine is serving an active session.
func (e *Engine) Authenticated() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.authenticated
}

// SetAutoMode toggles automatic minute-boundary resolution.
func (e *Engine) SetAutoMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoMode = on
}

// SetRotation changes the asset-advance policy.
func (e *Engine) SetRotation(rot assets.Rotation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rotation = rot
}

// Snapshot is a consistent read of the engine's displayed state.
type Snapshot struct {
	Status           SyncStatus               `json:"status"`
	Asset            models.Asset             `json:"asset"`
	Signal           models.SignalResult      `json:"signal"`
	SecondsRemaining int                      `json:"seconds_remaining"`
	ShowPreview      bool                     `json:"show_preview"`
	NextSignal       models.NextSignalPreview `json:"next_signal"`
	TradesRemaining  int                      `json:"trades_remaining"`
	AutoMode         bool                     `json:"auto_mode"`
	Rotation         assets.Rotation          `json:"rotation"`
}

// Snapshot returns the current engine state for the API layer.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Status:           e.status,
		Asset:            assets.At(e.assetIndex),
		Signal:           e.current,
		SecondsRemaining: e.secondsRemaining,
		ShowPreview:      e.showPreview,
		NextSignal:       e.next,
		TradesRemaining:  e.quota.Remaining(),
		AutoMode:         e.autoMode,
		Rotation:         e.rotation,
	}
}
