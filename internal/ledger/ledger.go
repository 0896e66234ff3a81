package ledger

import (
	"fmt"

	"binary-signal-bot-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxEntries caps the trade history at the most recent entries.
const MaxEntries = 50

// Ledger is the append-only, capped trade history backed by the database.
type Ledger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a Ledger.
func New(db *gorm.DB, logger *zap.Logger) *Ledger {
	return &Ledger{db: db, logger: logger.Named("ledger")}
}

// Append stores a resolved trade and trims the history down to MaxEntries,
// discarding the oldest rows first.
func (l *Ledger) Append(item *models.TradeHistoryItem) error {
	if err := l.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to append trade %s: %w", item.TradeID, err)
	}

	// Keep only the newest MaxEntries rows.
	var keepIDs []uint
	if err := l.db.Model(&models.TradeHistoryItem{}).
		Order("id desc").
		Limit(MaxEntries).
		Pluck("id", &keepIDs).Error; err != nil {
		return fmt.Errorf("failed to find rows to keep: %w", err)
	}
	if err := l.db.Unscoped().
		Where("id NOT IN ?", keepIDs).
		Delete(&models.TradeHistoryItem{}).Error; err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	l.logger.Debug("Trade logged",
		zap.String("trade_id", item.TradeID),
		zap.String("asset", item.Asset),
		zap.String("result", item.Result))
	return nil
}

// Recent returns the stored history, newest first.
func (l *Ledger) Recent() ([]models.TradeHistoryItem, error) {
	var items []models.TradeHistoryItem
	if err := l.db.Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load trade history: %w", err)
	}
	return items, nil
}

// Remove deletes the entry with the given trade id. Removing an unknown id
// is a no-op.
func (l *Ledger) Remove(tradeID string) error {
	if err := l.db.Unscoped().
		Where("trade_id = ?", tradeID).
		Delete(&models.TradeHistoryItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove trade %s: %w", tradeID, err)
	}
	return nil
}

// Clear empties the entire history.
func (l *Ledger) Clear() error {
	if err := l.db.Unscoped().
		Where("1 = 1").
		Delete(&models.TradeHistoryItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear trade history: %w", err)
	}
	l.logger.Info("Trade history cleared")
	return nil
}

// Count returns the number of stored entries.
func (l *Ledger) Count() (int64, error) {
	var count int64
	if err := l.db.Model(&models.TradeHistoryItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count trade history: %w", err)
	}
	return count, nil
}
