package models

import "gorm.io/gorm"

// SessionState holds the local auth-session flag and one-shot UI flags.
// There should only ever be one row in this table.
type SessionState struct {
	gorm.Model
	Active      bool `gorm:"not null;default:false" json:"active"`
	SeenWelcome bool `gorm:"not null;default:false" json:"seen_welcome"`
}
