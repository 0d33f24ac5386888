package routes

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idOnly struct {
	ID string `json:"id"`
}

func TestJournal(t *testing.T) {
	clock.Set(now0)
	token := newUser(t)
	other := newUser(t)

	resp, env := request(t, http.MethodPost, "/api/journal", token, map[string]string{"content": "  "})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(env.Details), "content")

	resp, _ = request(t, http.MethodPost, "/api/journal", token, map[string]string{"content": "x", "date": "10/03/2025"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var ids []string
	for _, date := range []string{"2025-03-08", "2025-03-10", "2025-03-09"} {
		resp, env = request(t, http.MethodPost, "/api/journal", token, map[string]string{
			"date": date, "content": "Aujourd'hui " + date, "glowMoment": "soleil",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var e idOnly
		env.decode(t, &e)
		require.NotEmpty(t, e.ID)
		ids = append(ids, e.ID)
	}

	resp, env = request(t, http.MethodGet, "/api/journal?page=1&pageSize=2", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), env.Total)
	var page []struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	env.decode(t, &page)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID, "newest first")
	assert.Equal(t, ids[2], page[1].ID)

	resp, env = request(t, http.MethodGet, "/api/journal?page=2&pageSize=2", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page = nil
	env.decode(t, &page)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	// entries of someone else are invisible
	resp, _ = request(t, http.MethodDelete, "/api/journal/"+ids[0], other, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, env = request(t, http.MethodGet, "/api/journal", other, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Zero(t, env.Total)

	resp, _ = request(t, http.MethodDelete, "/api/journal/"+ids[0], token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = request(t, http.MethodDelete, "/api/journal/"+ids[0], token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

type trackerView struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Hydration     int      `json:"hydration"`
	HydrationGoal int      `json:"hydrationGoal"`
	SleepHours    *float64 `json:"sleepHours"`
	Mood          string   `json:"mood"`
	SkincareDone  bool     `json:"skincareDone"`
}

func TestTrackers(t *testing.T) {
	clock.Set(now0)
	token := newUser(t)

	resp, env := request(t, http.MethodGet, "/api/trackers", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, len(env.Data) == 0 || string(env.Data) == "null")

	resp, env = request(t, http.MethodPost, "/api/trackers", token, map[string]interface{}{
		"hydration": 5, "mood": "happy", "sleepHours": 7.5,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var first trackerView
	env.decode(t, &first)
	assert.Equal(t, "2025-03-10", first.Date, "defaults to today")
	assert.Equal(t, 8, first.HydrationGoal)
	require.NotNil(t, first.SleepHours)
	assert.Equal(t, 7.5, *first.SleepHours)

	// saving the same date again replaces it in place
	resp, env = request(t, http.MethodPost, "/api/trackers", token, map[string]interface{}{
		"date": "2025-03-10", "hydration": 9, "mood": "radiant", "skincareDone": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var second trackerView
	env.decode(t, &second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 9, second.Hydration)
	assert.Equal(t, "radiant", second.Mood)
	assert.Nil(t, second.SleepHours)

	resp, _ = request(t, http.MethodPost, "/api/trackers", token, map[string]interface{}{
		"date": "2025-03-08", "hydration": 3, "mood": "sad", "sleepHours": 6,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = request(t, http.MethodPost, "/api/trackers", token, map[string]interface{}{"mood": "angry", "sleepQuality": "meh"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(env.Details), "mood")
	assert.Contains(t, string(env.Details), "sleepQuality")

	resp, env = request(t, http.MethodGet, "/api/trackers?date=2025-03-08", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var byDate trackerView
	env.decode(t, &byDate)
	assert.Equal(t, 3, byDate.Hydration)

	resp, env = request(t, http.MethodGet, "/api/trackers", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var latest trackerView
	env.decode(t, &latest)
	assert.Equal(t, "2025-03-10", latest.Date)

	resp, _ = request(t, http.MethodGet, "/api/trackers?date=yesterday", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTrackerAnalytics(t *testing.T) {
	clock.Set(now0)
	token := newUser(t)

	for _, body := range []map[string]interface{}{
		{"date": "2025-03-01", "hydration": 8, "mood": "calm"},
		{"date": "2025-03-05", "hydration": 8, "mood": "happy", "sleepHours": 8, "skincareDone": true},
		{"date": "2025-03-10", "hydration": 4, "mood": "happy", "sleepHours": 6, "activityMinutes": 30},
	} {
		resp, _ := request(t, http.MethodPost, "/api/trackers", token, body)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, env := request(t, http.MethodGet, "/api/trackers/analytics", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Stats struct {
			Days                 int            `json:"days"`
			TrackedDays          int            `json:"trackedDays"`
			AvgHydration         float64        `json:"avgHydration"`
			HydrationGoalMet     int            `json:"hydrationGoalMet"`
			AvgSleepHours        float64        `json:"avgSleepHours"`
			SkincareDays         int            `json:"skincareDays"`
			TotalActivityMinutes int            `json:"totalActivityMinutes"`
			Moods                map[string]int `json:"moods"`
		} `json:"stats"`
		Period struct {
			StartDate string `json:"start_date"`
			EndDate   string `json:"end_date"`
		} `json:"period"`
	}
	env.decode(t, &out)
	assert.Equal(t, "2025-03-04", out.Period.StartDate)
	assert.Equal(t, "2025-03-10", out.Period.EndDate)
	assert.Equal(t, 7, out.Stats.Days)
	assert.Equal(t, 2, out.Stats.TrackedDays)
	assert.InDelta(t, 6.0, out.Stats.AvgHydration, 1e-9)
	assert.Equal(t, 1, out.Stats.HydrationGoalMet)
	assert.InDelta(t, 7.0, out.Stats.AvgSleepHours, 1e-9)
	assert.Equal(t, 1, out.Stats.SkincareDays)
	assert.Equal(t, 30, out.Stats.TotalActivityMinutes)
	assert.Equal(t, map[string]int{"happy": 2}, out.Stats.Moods)

	resp, env = request(t, http.MethodGet, "/api/trackers/analytics?start_date=2025-03-01&end_date=2025-03-10", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.decode(t, &out)
	assert.Equal(t, 10, out.Stats.Days)
	assert.Equal(t, 3, out.Stats.TrackedDays)

	resp, _ = request(t, http.MethodGet, "/api/trackers/analytics?start_date=2025-03-10&end_date=2025-03-01", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp, _ = request(t, http.MethodGet, "/api/trackers/analytics?start_date=bad", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

type routineView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Time      string `json:"time"`
	Order     int    `json:"order"`
	IsActive  bool   `json:"isActive"`
	Completed bool   `json:"completed"`
}

func TestRoutine(t *testing.T) {
	token := newUser(t)

	resp, env := request(t, http.MethodGet, "/api/routine", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var items []routineView
	env.decode(t, &items)
	require.Len(t, items, 5)
	assert.Equal(t, "Hydratation matinale", items[0].Title)
	for i, it := range items {
		assert.Equal(t, i+1, it.Order)
		assert.True(t, it.IsActive)
	}

	resp, env = request(t, http.MethodPost, "/api/routine", token, map[string]string{"title": "Étirements", "time": "07:15"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created routineView
	env.decode(t, &created)
	assert.Equal(t, 6, created.Order)
	assert.True(t, created.IsActive)

	resp, _ = request(t, http.MethodPost, "/api/routine", token, map[string]string{"title": ""})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = request(t, http.MethodPut, "/api/routine/"+created.ID, token, map[string]interface{}{"completed": true, "isActive": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated routineView
	env.decode(t, &updated)
	assert.True(t, updated.Completed)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Étirements", updated.Title)
	assert.Equal(t, "07:15", updated.Time)

	resp, _ = request(t, http.MethodPut, "/api/routine/"+created.ID, token, map[string]string{"time": "25:00"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = request(t, http.MethodPut, "/api/routine/"+created.ID, newUser(t), map[string]bool{"completed": false})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = request(t, http.MethodDelete, "/api/routine/"+created.ID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = request(t, http.MethodDelete, "/api/routine/"+created.ID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestVisionBoard(t *testing.T) {
	token := newUser(t)

	resp, _ := request(t, http.MethodPost, "/api/vision", token, map[string]string{"imageUrl": "ftp://example.com/a.png"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = request(t, http.MethodPost, "/api/vision", token, map[string]string{"imageUrl": "not a url"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var ids []string
	for _, url := range []string{"https://example.com/plage.jpg", "data:image/png;base64,iVBORw0KGgo="} {
		resp, env := request(t, http.MethodPost, "/api/vision", token, map[string]string{"imageUrl": url, "caption": "rêve"})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var img idOnly
		env.decode(t, &img)
		ids = append(ids, img.ID)
	}

	resp, env := request(t, http.MethodGet, "/api/vision", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var images []struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
	}
	env.decode(t, &images)
	require.Len(t, images, 2)
	assert.Equal(t, ids[0], images[0].ID)
	assert.Equal(t, 0, images[0].Position)
	assert.Equal(t, 1, images[1].Position)

	resp, _ = request(t, http.MethodDelete, "/api/vision/"+ids[0], token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = request(t, http.MethodDelete, "/api/vision/"+ids[0], token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
