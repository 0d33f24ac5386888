package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultHydrationGoal = 8

var (
	SleepQualities = []string{"bad", "average", "good", "excellent"}
	Moods          = []string{"sad", "tired", "neutral", "calm", "happy", "radiant"}
)

// DailyTracker is the tracker sheet of one user for one calendar day.
type DailyTracker struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_tracker_user_date" json:"-"`
	Date            string    `gorm:"size:10;not null;uniqueIndex:idx_tracker_user_date" json:"date"` // YYYY-MM-DD
	Hydration       int       `gorm:"not null;default:0" json:"hydration"`
	HydrationGoal   int       `gorm:"not null;default:8" json:"hydrationGoal"`
	SleepHours      *float64  `json:"sleepHours,omitempty"`
	SleepQuality    string    `gorm:"size:16" json:"sleepQuality,omitempty"`
	Mood            string    `gorm:"size:16" json:"mood,omitempty"`
	Activity        string    `json:"activity,omitempty"`
	ActivityMinutes *int      `json:"activityMinutes,omitempty"`
	SkincareDone    bool      `gorm:"not null;default:false" json:"skincareDone"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (t *DailyTracker) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
