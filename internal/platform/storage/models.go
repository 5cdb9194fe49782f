package storage

import (
	"time"

	"gorm.io/datatypes"
)

// Reminder is one stored reminder.
type Reminder struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Text        string     `gorm:"not null" json:"text"`
	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// Exchange records one completed pipeline turn for the history API.
type Exchange struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SessionID  string         `gorm:"index" json:"session_id"`
	Transcript string         `json:"transcript"`
	Intent     string         `gorm:"index" json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   datatypes.JSON `json:"entities,omitempty"`
	Response   string         `json:"response"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (Exchange) TableName() string {
	return "exchanges"
}
