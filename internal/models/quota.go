package models

import "gorm.io/gorm"

// BonusLimit caps bonus trade claims per calendar day.
const BonusLimit = 20

// QuotaState tracks the daily trade allowance.
// There should only ever be one row in this table.
type QuotaState struct {
	gorm.Model
	TradesRemaining  int    `gorm:"not null" json:"trades_remaining"`
	BonusClaimsToday int    `gorm:"not null" json:"bonus_claims_today"`
	LastResetDate    string `gorm:"not null" json:"last_reset_date"`
}
