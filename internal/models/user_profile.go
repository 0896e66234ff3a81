package models

import "gorm.io/gorm"

// Plan tiers, ordered lowest to highest.
const (
	PlanFree     = "Free"
	PlanStandard = "Standard"
	PlanPremium  = "Premium"
	PlanUltimate = "Ultimate"
)

// PlanAllotment returns the daily trade allotment for a plan tier.
// Unknown tiers fall back to the Free allotment.
func PlanAllotment(plan string) int {
	switch plan {
	case PlanStandard, PlanPremium:
		return 100
	case PlanUltimate:
		return 150
	default:
		return 20
	}
}

// ValidPlan reports whether plan is one of the known tiers.
func ValidPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanStandard, PlanPremium, PlanUltimate:
		return true
	}
	return false
}

// UserProfile is the locally stored account record.
// There should only ever be one row in this table.
type UserProfile struct {
	gorm.Model
	Username       string `gorm:"not null" json:"username"`
	Email          string `gorm:"not null" json:"email"`
	Plan           string `gorm:"not null;default:Free" json:"plan"`
	AvatarInitials string `json:"avatar_initials"`
}

// DefaultProfile is the fallback used when no profile has been stored
// or the stored one cannot be read.
func DefaultProfile() UserProfile {
	return UserProfile{
		Username:       "Trading Pro",
		Email:          "trader@example.com",
		Plan:           PlanFree,
		AvatarInitials: "TP",
	}
}
