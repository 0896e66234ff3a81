package quota

import (
	"errors"
	"fmt"
	"time"

	"binary-signal-bot-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrBonusCapReached is returned when the daily bonus-claim cap is hit.
var ErrBonusCapReached = errors.New("daily bonus claim limit reached")

// DateFormat is the calendar-day granularity used for daily resets.
const DateFormat = "2006-01-02"

// Today formats a time as a reset-comparison date string.
func Today(t time.Time) string {
	return t.Format(DateFormat)
}

// Tracker owns the single persisted QuotaState row and enforces the
// once-per-day reset and the bonus-claim cap.
type Tracker struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a Tracker.
func New(db *gorm.DB, logger *zap.Logger) *Tracker {
	return &Tracker{db: db, logger: logger.Named("quota")}
}

// load fetches the quota row, creating it with a zeroed state when absent.
func (t *Tracker) load() (*models.QuotaState, error) {
	var state models.QuotaState
	err := t.db.First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.QuotaState{}
		if err := t.db.Create(&state).Error; err != nil {
			return nil, fmt.Errorf("failed to create quota state: %w", err)
		}
		return &state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quota state: %w", err)
	}
	return &state, nil
}

// Reconcile applies the daily-boundary reset. When the persisted reset date
// differs from today, trades-remaining is re-baselined to the plan allotment
// and bonus claims are zeroed, persisted immediately so a reload on the same
// day cannot reset twice. Same-day calls return the persisted state verbatim.
func (t *Tracker) Reconcile(today string, planAllotment int) (models.QuotaState, error) {
	state, err := t.load()
	if err != nil {
		return models.QuotaState{}, err
	}

	if state.LastResetDate == today {
		return *state, nil
	}

	state.TradesRemaining = planAllotment
	state.BonusClaimsToday = 0
	state.LastResetDate = today
	if err := t.db.Save(state).Error; err != nil {
		return models.QuotaState{}, fmt.Errorf("failed to persist daily reset: %w", err)
	}

	t.logger.Info("Daily quota reset",
		zap.String("date", today),
		zap.Int("trades_remaining", planAllotment))
	return *state, nil
}

// Consume decrements trades-remaining by one, flooring at zero. It returns
// the remaining count after the decrement.
func (t *Tracker) Consume() (int, error) {
	state, err := t.load()
	if err != nil {
		return 0, err
	}
	if state.TradesRemaining > 0 {
		state.TradesRemaining--
		if err := t.db.Save(state).Error; err != nil {
			return 0, fmt.Errorf("failed to persist quota decrement: %w", err)
		}
	}
	return state.TradesRemaining, nil
}

// GrantBonus adds one trade to the allowance and records the claim. Once
// the daily cap is reached the grant is rejected and nothing changes.
func (t *Tracker) GrantBonus() (models.QuotaState, error) {
	state, err := t.load()
	if err != nil {
		return models.QuotaState{}, err
	}
	if state.BonusClaimsToday >= models.BonusLimit {
		return *state, ErrBonusCapReached
	}

	state.TradesRemaining++
	state.BonusClaimsToday++
	if err := t.db.Save(state).Error; err != nil {
		return models.QuotaState{}, fmt.Errorf("failed to persist bonus grant: %w", err)
	}

	t.logger.Info("Bonus trade granted",
		zap.Int("trades_remaining", state.TradesRemaining),
		zap.Int("bonus_claims_today", state.BonusClaimsToday))
	return *state, nil
}

// Rebaseline overwrites trades-remaining with the given allotment, leaving
// bonus claims untouched. Used on plan changes and new-user sign-up.
func (t *Tracker) Rebaseline(planAllotment int) error {
	state, err := t.load()
	if err != nil {
		return err
	}
	state.TradesRemaining = planAllotment
	if err := t.db.Save(state).Error; err != nil {
		return fmt.Errorf("failed to persist quota re-baseline: %w", err)
	}
	t.logger.Info("Quota re-baselined", zap.Int("trades_remaining", planAllotment))
	return nil
}

// ResetForNewUser zeroes bonus claims and re-baselines the allotment in one
// persisted write, stamping today's date so the daily reset does not fire
// again on the same day.
func (t *Tracker) ResetForNewUser(today string, planAllotment int) error {
	state, err := t.load()
	if err != nil {
		return err
	}
	state.TradesRemaining = planAllotment
	state.BonusClaimsToday = 0
	state.LastResetDate = today
	if err := t.db.Save(state).Error; err != nil {
		return fmt.Errorf("failed to persist new-user quota reset: %w", err)
	}
	return nil
}

// State returns the current persisted quota state.
func (t *Tracker) State() (models.QuotaState, error) {
	state, err := t.load()
	if err != nil {
		return models.QuotaState{}, err
	}
	return *state, nil
}

// Remaining returns trades-remaining, or zero when the state cannot be read.
func (t *Tracker) Remaining() int {
	state, err := t.load()
	if err != nil {
		t.logger.Warn("Failed to read quota state, treating as exhausted", zap.Error(err))
		return 0
	}
	return state.TradesRemaining
}
