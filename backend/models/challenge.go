package models

import (
	"time"

	"glowup/backend/progression"
)

// ChallengeProgress is the stored progression of one user. CompletedDays and
// DayNotes are kept as JSON text columns; CurrentDay caches the value derived
// from StartDate at the last read or write.
type ChallengeProgress struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentDay    int            `gorm:"not null;default:1" json:"currentDay"`
	CompletedDays []int          `gorm:"type:text;serializer:json" json:"completedDays"`
	DayNotes      map[int]string `gorm:"type:text;serializer:json" json:"dayNotes"`
	StartDate     *time.Time     `json:"startDate"`
	Version       int            `gorm:"not null;default:0" json:"version"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// State returns the engine view of the row.
func (cp *ChallengeProgress) State() progression.Progress {
	return progression.Progress{
		StartDate:     cp.StartDate,
		CompletedDays: cp.CompletedDays,
		DayNotes:      cp.DayNotes,
	}
}

// Apply copies p back onto the row and refreshes the cached current day.
func (cp *ChallengeProgress) Apply(p progression.Progress, currentDay int) {
	cp.StartDate = p.StartDate
	cp.CompletedDays = p.CompletedDays
	cp.DayNotes = p.DayNotes
	if cp.CompletedDays == nil {
		cp.CompletedDays = []int{}
	}
	if cp.DayNotes == nil {
		cp.DayNotes = map[int]string{}
	}
	cp.CurrentDay = currentDay
}
