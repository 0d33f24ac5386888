package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultReminderTime = "09:00"
)

// UserProfile holds the settings screen of one user.
type UserProfile struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Theme                string     `gorm:"size:8;not null" json:"theme"`
	NotificationsEnabled bool       `gorm:"not null" json:"notificationsEnabled"`
	DailyReminderEnabled bool       `gorm:"not null" json:"dailyReminderEnabled"`
	ReminderTime         string     `gorm:"size:5;not null" json:"reminderTime"`
	GlowUpStartDate      *time.Time `json:"glowUpStartDate"`
	TotalGlowUpDays      int        `gorm:"not null;default:0" json:"totalGlowUpDays"`
	LastReminderOn       string     `gorm:"size:10" json:"-"` // YYYY-MM-DD in the challenge location
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// NewUserProfile returns the profile every new user starts with.
func NewUserProfile(userID uint) UserProfile {
	return UserProfile{
		UserID:               userID,
		Theme:                ThemeLight,
		NotificationsEnabled: true,
		DailyReminderEnabled: true,
		ReminderTime:         DefaultReminderTime,
	}
}
