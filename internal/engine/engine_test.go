package engine

import (
	"math/rand"
	"testing"
	"time"

	"binary-signal-bot-go/internal/config"
	"binary-signal-bot-go/internal/connectivity"
	"binary-signal-bot-go/internal/ledger"
	"binary-signal-bot-go/internal/models"
	"binary-signal-bot-go/internal/quota"
	"binary-signal-bot-go/internal/signal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeClock returns a controllable wall-clock time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) setSecond(sec int) {
	c.now = time.Date(2026, 9, 1, 14, 30, sec, 0, time.UTC)
}

type testEnv struct {
	engine  *Engine
	ledger  *ledger.Ledger
	tracker *quota.Tracker
	clock   *fakeClock
	conn    *connectivity.Static
}

func setupTest(t *testing.T, online bool, tradesRemaining int) *testEnv {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TradeHistoryItem{}, &models.QuotaState{}))

	log := zap.NewNop()
	trades := ledger.New(db, log)
	tracker := quota.New(db, log)
	require.NoError(t, tracker.ResetForNewUser("2026-09-01", tradesRemaining))

	clock := &fakeClock{}
	clock.setSecond(30)
	conn := connectivity.Static(online)

	cfg := &config.Config{
		Signals: config.Signals{
			AutoMode:  true,
			Rotation:  "SEQUENTIAL",
			HouseEdge: 0.05,
		},
	}

	eng := NewEngine(log, cfg, Deps{
		Generator: signal.NewGenerator(rand.New(rand.NewSource(7))),
		Ledger:    trades,
		Quota:     tracker,
		Conn:      conn,
		Clock:     clock,
		Rand:      rand.New(rand.NewSource(7)),
	})
	eng.SetAuthenticated(true)

	return &testEnv{engine: eng, ledger: trades, tracker: tracker, clock: clock, conn: &conn}
}

func TestTick_OfflineNeverMutatesQuotaOrLedger(t *testing.T) {
	env := setupTest(t, false, 5)

	before, err := env.tracker.State()
	require.NoError(t, err)
	countBefore, err := env.ledger.Count()
	require.NoError(t, err)

	// Many ticks across minute boundaries while offline.
	for sec := 0; sec < 180; sec++ {
		env.clock.setSecond(sec % 60)
		env.engine.Tick()
	}

	after, err := env.tracker.State()
	require.NoError(t, err)
	countAfter, err := env.ledger.Count()
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, countBefore, countAfter)
	assert.Equal(t, StatusOffline, env.engine.Snapshot().Status)
}

func TestTick_CountdownTracksWallClock(t *testing.T) {
	env := setupTest(t, true, 5)

	env.clock.setSecond(17)
	env.engine.Tick()
	assert.Equal(t, 42, env.engine.Snapshot().SecondsRemaining)

	env.clock.setSecond(0)
	env.engine.Tick()
	assert.Equal(t, 59, env.engine.Snapshot().SecondsRemaining)
}

func TestTick_PreviewWindowAndOneShotWarning(t *testing.T) {
	warnings := 0
	env := setupTest(t, true, 5)
	env.engine.hooks.OnWarning = func() { warnings++ }

	env.clock.setSecond(48)
	env.engine.Tick()
	assert.False(t, env.engine.Snapshot().ShowPreview)

	env.clock.setSecond(49) // 10 seconds remaining
	env.engine.Tick()
	snap := env.engine.Snapshot()
	assert.True(t, snap.ShowPreview)
	assert.Equal(t, 10, snap.SecondsRemaining)
	assert.Equal(t, 1, warnings)

	// A second tick landing on the same second must not warn again.
	env.engine.Tick()
	assert.Equal(t, 1, warnings)

	env.clock.setSecond(55)
	env.engine.Tick()
	assert.True(t, env.engine.Snapshot().ShowPreview)
	assert.Equal(t, 1, warnings)
}

func TestTick_MinuteBoundaryResolvesExactlyOnce(t *testing.T) {
	env := setupTest(t, true, 1)
	require.NoError(t, env.engine.Refresh())

	var resolved []models.TradeHistoryItem
	env.engine.hooks.OnResolved = func(item models.TradeHistoryItem) {
		resolved = append(resolved, item)
	}

	env.clock.setSecond(0)
	env.engine.Tick()

	require.Len(t, resolved, 1)
	assert.Equal(t, 0, env.tracker.Remaining())

	count, err := env.ledger.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Quota is exhausted now: the next boundary tick must freeze, not resolve.
	env.engine.Tick()
	assert.Len(t, resolved, 1)

	snap := env.engine.Snapshot()
	assert.Equal(t, 0, snap.SecondsRemaining)
	assert.False(t, snap.ShowPreview)

	count, err = env.ledger.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTick_ResolutionAdvancesToPendingAsset(t *testing.T) {
	env := setupTest(t, true, 10)
	require.NoError(t, env.engine.Refresh())

	before := env.engine.Snapshot()
	require.NotEmpty(t, before.NextSignal.Asset)

	env.clock.setSecond(0)
	env.engine.Tick()

	after := env.engine.Snapshot()
	assert.Equal(t, before.NextSignal.Asset, after.Asset.Name,
		"the previewed asset becomes current after the boundary")
	assert.Equal(t, before.NextSignal.Trade, after.Signal.Signal,
		"the previewed direction is honored")
}

func TestTick_IdleWhenSignedOut(t *testing.T) {
	env := setupTest(t, true, 5)
	env.engine.SetAuthenticated(false)

	env.clock.setSecond(0)
	env.engine.Tick()

	snap := env.engine.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)

	count, err := env.ledger.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestManualSignal_GatesOnOfflineAndQuota(t *testing.T) {
	offline := setupTest(t, false, 5)
	assert.ErrorIs(t, offline.engine.ManualSignal(), ErrOffline)

	exhausted := setupTest(t, true, 0)
	assert.ErrorIs(t, exhausted.engine.ManualSignal(), ErrQuotaExhausted)
}

func TestManualSignal_ConsumesQuotaAndRegenerates(t *testing.T) {
	env := setupTest(t, true, 5)
	require.NoError(t, env.engine.Refresh())

	require.NoError(t, env.engine.ManualSignal())

	// The stub gate completes synchronously, so the decrement has landed.
	assert.Equal(t, 4, env.tracker.Remaining())
}

func TestClaimBonusTrade_RejectedAtCap(t *testing.T) {
	env := setupTest(t, true, 5)
	for i := 0; i < models.BonusLimit; i++ {
		require.NoError(t, env.engine.ClaimBonusTrade())
	}
	assert.Equal(t, 5+models.BonusLimit, env.tracker.Remaining())

	assert.ErrorIs(t, env.engine.ClaimBonusTrade(), quota.ErrBonusCapReached)
	assert.Equal(t, 5+models.BonusLimit, env.tracker.Remaining())
}

func TestLogResult_AppendsManualEntry(t *testing.T) {
	env := setupTest(t, true, 5)
	require.NoError(t, env.engine.Refresh())

	item, err := env.engine.LogResult(models.ResultLoss)
	require.NoError(t, err)
	assert.Equal(t, "-100%", item.ProfitAmount)

	item, err = env.engine.LogResult(models.ResultProfit)
	require.NoError(t, err)
	assert.Regexp(t, `^\+\d+%$`, item.ProfitAmount)

	_, err = env.engine.LogResult("DRAW")
	assert.Error(t, err)

	count, err := env.ledger.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
