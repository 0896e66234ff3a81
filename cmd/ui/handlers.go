package main

import (
	"encoding/json"
	"net/http"

	"binary-signal-bot-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{log: log, db: db}
}

// HistoryHandler returns the logged trades, newest first.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	var items []models.TradeHistoryItem
	if err := h.db.Order("id desc").Find(&items).Error; err != nil {
		h.log.Error("Failed to get trade history from database", zap.Error(err))
		http.Error(w, "Failed to get trade history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// StatsDetail holds calculated statistics for the logged history.
type StatsDetail struct {
	TotalTrades    int64   `json:"total_trades"`
	Wins           int64   `json:"wins"`
	Losses         int64   `json:"losses"`
	WinRate        float64 `json:"win_rate"`
	LastTradeTime  string  `json:"last_trade_time,omitempty"`
	LastTradeAsset string  `json:"last_trade_asset,omitempty"`
}

// StatisticsHandler calculates win/loss statistics over the stored history.
// The ledger keeps at most the 50 most recent trades, so these are rolling
// figures, not lifetime totals.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var items []models.TradeHistoryItem
	if err := h.db.Order("id desc").Find(&items).Error; err != nil {
		h.log.Error("Failed to get trades for statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	stats := StatsDetail{}
	for _, item := range items {
		stats.TotalTrades++
		if item.Result == models.ResultProfit {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades)
		stats.LastTradeTime = items[0].Time
		stats.LastTradeAsset = items[0].Asset
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// ProfileHandler returns the stored user profile, or the default one when
// nothing has been stored yet.
func (h *APIHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := h.db.First(&profile).Error; err != nil {
		h.log.Warn("No stored profile, serving default", zap.Error(err))
		profile = models.DefaultProfile()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
