package models

import (
	"time"

	"gorm.io/gorm"
)

// OutboundEmail is a queued notification. Rows with SentAt == nil are retried
// by the scheduler until MaxEmailAttempts is reached. ClaimedAt is set while
// a sender owns the row.
type OutboundEmail struct {
	gorm.Model
	Recipient string     `gorm:"size:254;not null"`
	Subject   string     `gorm:"size:255;not null"`
	HTML      string     `gorm:"type:text"`
	Attempts  int        `gorm:"default:0"`
	LastError string     `gorm:"type:text"`
	SentAt    *time.Time `gorm:"index"`
	ClaimedAt *time.Time
}

const MaxEmailAttempts = 8
