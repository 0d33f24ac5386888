package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"glowup/backend/content"
	"glowup/backend/export"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOverview(t *testing.T) {
	clock.Set(now0)
	token := newUser(t)

	resp, env := request(t, http.MethodGet, "/api/overview", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var before struct {
		Started    bool   `json:"started"`
		CurrentDay int    `json:"currentDay"`
		Quote      string `json:"quote"`
		Counts     struct {
			RoutineActive int64 `json:"routineActive"`
		} `json:"counts"`
	}
	env.decode(t, &before)
	assert.False(t, before.Started)
	assert.Equal(t, 1, before.CurrentDay)
	assert.Equal(t, content.Quote, before.Quote)
	assert.Equal(t, int64(5), before.Counts.RoutineActive)

	request(t, http.MethodPost, "/api/challenge/start", token, nil)
	completeDay(t, token, 1)
	request(t, http.MethodPost, "/api/journal", token, map[string]string{"content": "merci"})
	request(t, http.MethodPost, "/api/trackers", token, map[string]interface{}{"hydration": 2})

	resp, env = request(t, http.MethodGet, "/api/overview", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var after struct {
		Started              bool   `json:"started"`
		CurrentDay           int    `json:"currentDay"`
		TodayStatus          string `json:"todayStatus"`
		CompletedDays        int    `json:"completedDays"`
		CompletionPercentage int    `json:"completionPercentage"`
		Today                struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"today"`
		Tracker *struct {
			Hydration int `json:"hydration"`
		} `json:"tracker"`
		Counts struct {
			Journal int64 `json:"journal"`
		} `json:"counts"`
	}
	env.decode(t, &after)
	assert.True(t, after.Started)
	assert.Equal(t, "completed", after.TodayStatus)
	assert.Equal(t, 1, after.CompletedDays)
	assert.Equal(t, 3, after.CompletionPercentage)
	assert.Equal(t, 1, after.Today.ID)
	require.NotNil(t, after.Tracker)
	assert.Equal(t, 2, after.Tracker.Hydration)
	assert.Equal(t, int64(1), after.Counts.Journal)
}

func TestTodayAffirmation(t *testing.T) {
	clock.Set(now0)
	token := newUser(t)

	resp, env := request(t, http.MethodGet, "/api/affirmations/today", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Date           string `json:"date"`
		Affirmation    string `json:"affirmation"`
		Day            int    `json:"day"`
		DayAffirmation string `json:"dayAffirmation"`
	}
	env.decode(t, &out)
	assert.Equal(t, "2025-03-10", out.Date)
	assert.Equal(t, content.AffirmationFor(now0), out.Affirmation)
	assert.Empty(t, out.DayAffirmation)

	request(t, http.MethodPost, "/api/challenge/start", token, nil)
	resp, env = request(t, http.MethodGet, "/api/affirmations/today", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.decode(t, &out)
	day, _ := content.Day(1)
	assert.Equal(t, 1, out.Day)
	assert.Equal(t, day.Affirmation, out.DayAffirmation)
}

func TestExport(t *testing.T) {
	clock.Set(now0)
	token := newUser(t)
	request(t, http.MethodPost, "/api/challenge/start", token, nil)
	completeDay(t, token, 1)
	request(t, http.MethodPut, "/api/challenge/days/1/note", token, map[string]string{"note": "premier pas"})
	request(t, http.MethodPost, "/api/journal", token, map[string]string{"content": "Une belle journée"})
	request(t, http.MethodPost, "/api/vision", token, map[string]string{"imageUrl": "https://example.com/a.jpg"})

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "glowup-2025-03-10.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{
		export.SheetChallenge, export.SheetJournal, export.SheetTrackers, export.SheetRoutine, export.SheetVision,
	}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetChallenge)
	require.NoError(t, err)
	require.Greater(t, len(rows), 30)
	assert.Equal(t, []string{"1", "1"}, rows[1][:2])
	assert.Equal(t, "completed", rows[1][3])
	assert.Equal(t, "premier pas", rows[1][4])
	assert.Equal(t, "locked", rows[2][3])

	rows, err = f.GetRows(export.SheetJournal)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Une belle journée", rows[1][1])

	rows, err = f.GetRows(export.SheetRoutine)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
