package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"glowup/backend/config"
	"glowup/backend/models"
	"glowup/backend/progression"
	"glowup/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuild(t *testing.T) {
	engine := progression.NewEngine(time.UTC)
	start := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	sleep := 7.5

	d := Data{
		User: models.User{Name: "Camille"},
		Progress: progression.Progress{
			StartDate:     &start,
			CompletedDays: []int{1, 2},
			DayNotes:      map[int]string{2: "bien dormi"},
		},
		Journal:  []models.JournalEntry{{Date: now, Content: "merci", Feeling: "calme"}},
		Trackers: []models.DailyTracker{{Date: "2025-03-10", Hydration: 6, HydrationGoal: 8, SleepHours: &sleep, Mood: "happy"}},
		Routine:  models.DefaultRoutine(1),
		Vision:   []models.VisionBoardImage{{ImageURL: "https://example.com/a.jpg", Caption: "plage"}},
	}

	f, err := Build(d, engine, now)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetChallenge, SheetJournal, SheetTrackers, SheetRoutine, SheetVision}, f.GetSheetList())

	rows, err := f.GetRows(SheetChallenge)
	require.NoError(t, err)
	assert.Equal(t, []string{"Day", "Week", "Title", "Status", "Note"}, rows[0])
	assert.Equal(t, "completed", rows[2][3])
	assert.Equal(t, "bien dormi", rows[2][4])
	assert.Equal(t, "unlocked", rows[3][3])
	assert.Equal(t, "locked", rows[4][3])

	current, err := f.GetCellValue(SheetChallenge, "B34")
	require.NoError(t, err)
	assert.Equal(t, "3", current)
	pct, err := f.GetCellValue(SheetChallenge, "B36")
	require.NoError(t, err)
	assert.Equal(t, "7", pct)

	rows, err = f.GetRows(SheetTrackers)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-03-10", "6", "8", "7.5", "", "happy"}, rows[1][:6])

	rows, err = f.GetRows(SheetRoutine)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
	assert.Equal(t, "Hydratation matinale", rows[1][1])
}

func TestWriteProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Data{}, progression.NewEngine(time.UTC), time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetJournal)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestCollect(t *testing.T) {
	db, err := utils.InitDB(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user := models.User{Name: "Lou", Email: "lou@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	routine := models.DefaultRoutine(user.ID)
	require.NoError(t, db.Create(&routine).Error)
	require.NoError(t, db.Create(&models.JournalEntry{Entity: models.Entity{UserID: user.ID}, Date: time.Now(), Content: "hello"}).Error)

	d, err := Collect(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lou", d.User.Name)
	assert.Nil(t, d.Progress.StartDate)
	assert.Len(t, d.Routine, 5)
	assert.Len(t, d.Journal, 1)
	assert.Empty(t, d.Trackers)

	_, err = Collect(context.Background(), db, user.ID+100)
	assert.Error(t, err)
}
