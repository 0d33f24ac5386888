package models

import "time"

type JournalEntry struct {
	Entity
	Date       time.Time `gorm:"index;not null" json:"date"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Feeling    string    `gorm:"type:text" json:"feeling,omitempty"`
	GlowMoment string    `gorm:"type:text" json:"glowMoment,omitempty"`
	Learning   string    `gorm:"type:text" json:"learning,omitempty"`
}
