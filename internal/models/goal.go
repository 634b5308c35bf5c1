package models

import "time"

// Goal represents a savings goal. CurrentAmount accumulates only through
// goal contributions, each of which also debits a funding account and
// records an EXPENSE transaction for history.
type Goal struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}
