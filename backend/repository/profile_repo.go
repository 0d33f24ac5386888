package repository

import (
	"context"
	"errors"
	"fmt"

	"glowup/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// FindOrCreate returns the profile of userID, creating the default one on
// first access.
func (r *ProfileRepository) FindOrCreate(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	profile = models.NewUserProfile(userID)
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// Save writes every settings column of profile, zero values included.
func (r *ProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	err := r.db.WithContext(ctx).Model(profile).
		Select("theme", "notifications_enabled", "daily_reminder_enabled", "reminder_time",
			"glow_up_start_date", "total_glow_up_days", "updated_at").
		Updates(profile).Error
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// SyncChallenge mirrors the challenge start date and completed day count onto
// the profile of userID.
func (r *ProfileRepository) SyncChallenge(ctx context.Context, userID uint, cp *models.ChallengeProgress) error {
	profile, err := r.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	profile.GlowUpStartDate = nil
	profile.TotalGlowUpDays = 0
	if cp != nil {
		profile.GlowUpStartDate = cp.StartDate
		profile.TotalGlowUpDays = len(cp.CompletedDays)
	}
	return r.Save(ctx, profile)
}

// DueReminders lists the profiles that want a reminder at hhmm and have not
// received one on day (YYYY-MM-DD).
func (r *ProfileRepository) DueReminders(ctx context.Context, hhmm, day string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := r.db.WithContext(ctx).
		Where("notifications_enabled = ? AND daily_reminder_enabled = ?", true, true).
		Where("reminder_time = ?", hhmm).
		Where("last_reminder_on IS NULL OR last_reminder_on <> ?", day).
		Order("id").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return profiles, nil
}

// ClaimReminder marks the profile as reminded on day. It returns false when
// another run already claimed it, so each reminder is sent at most once a day.
func (r *ProfileRepository) ClaimReminder(ctx context.Context, profileID uint, day string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("id = ?", profileID).
		Where("last_reminder_on IS NULL OR last_reminder_on <> ?", day).
		Update("last_reminder_on", day)
	if res.Error != nil {
		return false, fmt.Errorf("claim reminder: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
