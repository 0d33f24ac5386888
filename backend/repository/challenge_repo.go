package repository

import (
	"context"
	"errors"
	"fmt"

	"glowup/backend/models"
	"glowup/backend/progression"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVersionConflict is returned when a save races with another writer.
var ErrVersionConflict = errors.New("challenge progress was modified by another writer")

// ChallengeRepository stores one ChallengeProgress row per user.
type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ChallengeRepository) WithTx(tx *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: tx}
}

// Find returns the progress of userID or gorm.ErrRecordNotFound.
func (r *ChallengeRepository) Find(ctx context.Context, userID uint) (*models.ChallengeProgress, error) {
	return r.find(r.db.WithContext(ctx), userID)
}

func (r *ChallengeRepository) find(db *gorm.DB, userID uint) (*models.ChallengeProgress, error) {
	var cp models.ChallengeProgress
	if err := db.Where("user_id = ?", userID).First(&cp).Error; err != nil {
		return nil, err
	}
	normalize(&cp)
	return &cp, nil
}

// FindOrCreate returns the progress of userID, creating an unstarted one on
// first access.
func (r *ChallengeRepository) FindOrCreate(ctx context.Context, userID uint) (*models.ChallengeProgress, error) {
	return r.findOrCreate(ctx, userID, false)
}

// FindForUpdate is FindOrCreate with the row locked until the surrounding
// transaction ends, so read-modify-write callers do not race each other.
// Must be called on a repository bound with WithTx.
func (r *ChallengeRepository) FindForUpdate(ctx context.Context, userID uint) (*models.ChallengeProgress, error) {
	return r.findOrCreate(ctx, userID, true)
}

func (r *ChallengeRepository) findOrCreate(ctx context.Context, userID uint, lock bool) (*models.ChallengeProgress, error) {
	read := func() (*models.ChallengeProgress, error) {
		db := r.db.WithContext(ctx)
		if lock {
			// sqlite ignores row locks; its writers are serialized anyway
			db = db.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return r.find(db, userID)
	}

	cp, err := read()
	if err == nil {
		return cp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find challenge progress: %w", err)
	}

	fresh := models.ChallengeProgress{
		UserID:        userID,
		CurrentDay:    1,
		CompletedDays: []int{},
		DayNotes:      map[int]string{},
	}
	// a concurrent first request may have created the row already
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&fresh).Error
	if err != nil {
		return nil, fmt.Errorf("create challenge progress: %w", err)
	}
	return read()
}

// Save writes cp if nobody else wrote since it was read, then bumps
// cp.Version. A stale cp yields ErrVersionConflict and nothing is written.
func (r *ChallengeRepository) Save(ctx context.Context, cp *models.ChallengeProgress) error {
	next := *cp
	next.Version = cp.Version + 1
	if next.CompletedDays == nil {
		next.CompletedDays = []int{}
	}
	if next.DayNotes == nil {
		next.DayNotes = map[int]string{}
	}

	res := r.db.WithContext(ctx).
		Model(&next).
		Select("current_day", "completed_days", "day_notes", "start_date", "version", "updated_at").
		Where("version = ?", cp.Version).
		Updates(&next)
	if res.Error != nil {
		return fmt.Errorf("save challenge progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}

	*cp = next
	return nil
}

// Delete discards all progression state of userID.
func (r *ChallengeRepository) Delete(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ChallengeProgress{}).Error
	if err != nil {
		return fmt.Errorf("delete challenge progress: %w", err)
	}
	return nil
}

// normalize repairs rows written by older clients: unsorted or duplicated
// days, out-of-range ids, empty notes.
func normalize(cp *models.ChallengeProgress) {
	p, _ := progression.Normalize(cp.State())
	cp.CompletedDays = p.CompletedDays
	cp.DayNotes = p.DayNotes
	if cp.CompletedDays == nil {
		cp.CompletedDays = []int{}
	}
}
