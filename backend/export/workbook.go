// Package export renders the data of one user as an XLSX workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"glowup/backend/content"
	"glowup/backend/models"
	"glowup/backend/progression"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	SheetChallenge = "Challenge"
	SheetJournal   = "Journal"
	SheetTrackers  = "Trackers"
	SheetRoutine   = "Routine"
	SheetVision    = "Vision"
)

// Data is everything exported for a user.
type Data struct {
	User     models.User
	Progress progression.Progress
	Journal  []models.JournalEntry
	Trackers []models.DailyTracker
	Routine  []models.RoutineItem
	Vision   []models.VisionBoardImage
}

// Collect loads the exported data of userID. A user who never opened the
// challenge exports an empty progress.
func Collect(ctx context.Context, db *gorm.DB, userID uint) (Data, error) {
	var d Data
	db = db.WithContext(ctx)

	if err := db.First(&d.User, userID).Error; err != nil {
		return d, fmt.Errorf("load user: %w", err)
	}

	var cp models.ChallengeProgress
	err := db.Where("user_id = ?", userID).First(&cp).Error
	switch {
	case err == nil:
		d.Progress, _ = progression.Normalize(cp.State())
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return d, fmt.Errorf("load challenge progress: %w", err)
	}

	if err := db.Where("user_id = ?", userID).Order("date").Order("created_at").Find(&d.Journal).Error; err != nil {
		return d, fmt.Errorf("load journal: %w", err)
	}
	if err := db.Where("user_id = ?", userID).Order("date").Find(&d.Trackers).Error; err != nil {
		return d, fmt.Errorf("load trackers: %w", err)
	}
	if err := db.Where("user_id = ?", userID).Order("sort_order").Find(&d.Routine).Error; err != nil {
		return d, fmt.Errorf("load routine: %w", err)
	}
	if err := db.Where("user_id = ?", userID).Order("position").Find(&d.Vision).Error; err != nil {
		return d, fmt.Errorf("load vision board: %w", err)
	}
	return d, nil
}

// Build lays out d on one sheet per section. Day statuses are computed at now.
func Build(d Data, engine *progression.Engine, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	b := &builder{f: f, header: header}
	b.challenge(d, engine, now)
	b.journal(d.Journal)
	b.trackers(d.Trackers)
	b.routine(d.Routine)
	b.vision(d.Vision)
	if b.err != nil {
		f.Close()
		return nil, b.err
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetChallenge); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, d Data, engine *progression.Engine, now time.Time) error {
	f, err := Build(d, engine, now)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// builder keeps the first error so sheet code stays linear.
type builder struct {
	f      *excelize.File
	header int
	err    error
}

func (b *builder) sheet(name string, widths []float64, columns ...string) {
	if b.err != nil {
		return
	}
	if _, b.err = b.f.NewSheet(name); b.err != nil {
		return
	}
	b.row(name, 1, toRow(columns))
	if b.err == nil {
		b.err = b.f.SetRowStyle(name, 1, 1, b.header)
	}
	for i, w := range widths {
		if b.err != nil {
			return
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		b.err = b.f.SetColWidth(name, col, col, w)
	}
}

func (b *builder) row(sheet string, n int, values []interface{}) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(sheet, cell, &values)
}

func (b *builder) challenge(d Data, engine *progression.Engine, now time.Time) {
	b.sheet(SheetChallenge, []float64{6, 6, 40, 12, 60}, "Day", "Week", "Title", "Status", "Note")
	for i, day := range content.Days() {
		b.row(SheetChallenge, i+2, []interface{}{
			day.ID, day.Week, day.Title, string(engine.Status(d.Progress, day.ID, now)), d.Progress.Note(day.ID),
		})
	}

	summary := progression.TotalDays + 3
	start := ""
	if d.Progress.StartDate != nil {
		start = d.Progress.StartDate.In(engine.Location()).Format("2006-01-02")
	}
	b.row(SheetChallenge, summary, []interface{}{"Started", start})
	b.row(SheetChallenge, summary+1, []interface{}{"Current day", engine.CurrentDay(d.Progress.StartDate, now)})
	b.row(SheetChallenge, summary+2, []interface{}{"Completed", len(d.Progress.CompletedDays)})
	b.row(SheetChallenge, summary+3, []interface{}{"Completion %", progression.CompletionPercentage(d.Progress.CompletedDays)})
}

func (b *builder) journal(entries []models.JournalEntry) {
	b.sheet(SheetJournal, []float64{12, 60, 30, 30, 30}, "Date", "Content", "Feeling", "Glow moment", "Learning")
	for i, e := range entries {
		b.row(SheetJournal, i+2, []interface{}{
			e.Date.Format("2006-01-02"), e.Content, e.Feeling, e.GlowMoment, e.Learning,
		})
	}
}

func (b *builder) trackers(trackers []models.DailyTracker) {
	b.sheet(SheetTrackers, []float64{12, 10, 10, 12, 14, 10, 20, 16, 10},
		"Date", "Hydration", "Goal", "Sleep hours", "Sleep quality", "Mood", "Activity", "Activity minutes", "Skincare")
	for i, t := range trackers {
		var sleep, minutes interface{}
		if t.SleepHours != nil {
			sleep = *t.SleepHours
		}
		if t.ActivityMinutes != nil {
			minutes = *t.ActivityMinutes
		}
		b.row(SheetTrackers, i+2, []interface{}{
			t.Date, t.Hydration, t.HydrationGoal, sleep, t.SleepQuality, t.Mood, t.Activity, minutes, t.SkincareDone,
		})
	}
}

func (b *builder) routine(items []models.RoutineItem) {
	b.sheet(SheetRoutine, []float64{8, 30, 40, 8, 8, 10}, "Order", "Title", "Description", "Time", "Active", "Completed")
	for i, it := range items {
		b.row(SheetRoutine, i+2, []interface{}{it.Order, it.Title, it.Description, it.Time, it.IsActive, it.Completed})
	}
}

func (b *builder) vision(images []models.VisionBoardImage) {
	b.sheet(SheetVision, []float64{8, 60, 40}, "Position", "Image URL", "Caption")
	for i, img := range images {
		b.row(SheetVision, i+2, []interface{}{img.Position, img.ImageURL, img.Caption})
	}
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
