package controllers

import (
	"errors"
	"slices"
	"time"

	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrackerController struct {
	*Env
}

func NewTrackerController(env *Env) *TrackerController {
	return &TrackerController{Env: env}
}

type TrackerRequest struct {
	Date            string   `json:"date" example:"2025-01-10"`
	Hydration       int      `json:"hydration"`
	HydrationGoal   int      `json:"hydrationGoal"`
	SleepHours      *float64 `json:"sleepHours"`
	SleepQuality    string   `json:"sleepQuality" enums:"bad,average,good,excellent"`
	Mood            string   `json:"mood" enums:"sad,tired,neutral,calm,happy,radiant"`
	Activity        string   `json:"activity"`
	ActivityMinutes *int     `json:"activityMinutes"`
	SkincareDone    bool     `json:"skincareDone"`
}

// TrackerAnalytics aggregates the trackers of a period.
type TrackerAnalytics struct {
	Days                 int            `json:"days"`
	TrackedDays          int            `json:"trackedDays"`
	AvgHydration         float64        `json:"avgHydration"`
	HydrationGoalMet     int            `json:"hydrationGoalMet"`
	AvgSleepHours        float64        `json:"avgSleepHours"`
	SkincareDays         int            `json:"skincareDays"`
	TotalActivityMinutes int            `json:"totalActivityMinutes"`
	Moods                map[string]int `json:"moods"`
	SleepQualities       map[string]int `json:"sleepQualities"`
}

func (r *TrackerRequest) validate() map[string]string {
	problems := map[string]string{}
	if _, err := time.Parse(dateLayout, r.Date); err != nil {
		problems["date"] = "Invalid date format. Use YYYY-MM-DD"
	}
	if r.Hydration < 0 {
		problems["hydration"] = "Hydration cannot be negative"
	}
	if r.HydrationGoal < 0 {
		problems["hydrationGoal"] = "Hydration goal cannot be negative"
	}
	if r.SleepHours != nil && (*r.SleepHours < 0 || *r.SleepHours > 24) {
		problems["sleepHours"] = "Sleep hours must be between 0 and 24"
	}
	if r.SleepQuality != "" && !slices.Contains(models.SleepQualities, r.SleepQuality) {
		problems["sleepQuality"] = "Unknown sleep quality"
	}
	if r.Mood != "" && !slices.Contains(models.Moods, r.Mood) {
		problems["mood"] = "Unknown mood"
	}
	if r.ActivityMinutes != nil && *r.ActivityMinutes < 0 {
		problems["activityMinutes"] = "Activity minutes cannot be negative"
	}
	return problems
}

// GetTracker godoc
// @Summary Get a daily tracker
// @Description Returns the tracker of the given date, or the latest one when no date is given. Data is null when nothing was tracked.
// @Tags trackers
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /trackers [get]
func (tc *TrackerController) GetTracker(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := tc.DB.WithContext(c.UserContext()).Where("user_id = ?", userID)
	if date := c.Query("date"); date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return utils.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		}
		query = query.Where("date = ?", date)
	} else {
		query = query.Order("date DESC")
	}

	var tracker models.DailyTracker
	err := query.First(&tracker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Success(c, fiber.StatusOK, nil)
	}
	if err != nil {
		tc.Logger.Error("load tracker", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch tracker")
	}

	return utils.Success(c, fiber.StatusOK, tracker)
}

// SaveTracker godoc
// @Summary Save a daily tracker
// @Description Creates or replaces the tracker of a date (today by default)
// @Tags trackers
// @Accept json
// @Produce json
// @Param input body TrackerRequest true "Tracker"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /trackers [post]
func (tc *TrackerController) SaveTracker(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input TrackerRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Date == "" {
		input.Date = tc.today()
	}
	if input.HydrationGoal == 0 {
		input.HydrationGoal = models.DefaultHydrationGoal
	}
	if problems := input.validate(); len(problems) > 0 {
		return utils.ValidationError(c, problems)
	}

	tracker := models.DailyTracker{
		UserID:          userID,
		Date:            input.Date,
		Hydration:       input.Hydration,
		HydrationGoal:   input.HydrationGoal,
		SleepHours:      input.SleepHours,
		SleepQuality:    input.SleepQuality,
		Mood:            input.Mood,
		Activity:        input.Activity,
		ActivityMinutes: input.ActivityMinutes,
		SkincareDone:    input.SkincareDone,
	}

	// Один трекер на пользователя и дату
	err := tc.DB.WithContext(c.UserContext()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"hydration", "hydration_goal", "sleep_hours", "sleep_quality", "mood",
			"activity", "activity_minutes", "skincare_done", "updated_at",
		}),
	}).Create(&tracker).Error
	if err != nil {
		tc.Logger.Error("save tracker", "user_id", userID, "date", input.Date, "err", err)
		return utils.InternalServerError(c, "Failed to save tracker")
	}

	// The id generated for the insert is not the stored one after an update.
	var stored models.DailyTracker
	if err := tc.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND date = ?", userID, input.Date).
		First(&stored).Error; err != nil {
		tc.Logger.Error("reload tracker", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to save tracker")
	}

	return utils.Success(c, fiber.StatusOK, stored)
}

// GetAnalytics godoc
// @Summary Tracker analytics
// @Description Aggregates the trackers of a period (last 7 days by default)
// @Tags trackers
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /trackers/analytics [get]
func (tc *TrackerController) GetAnalytics(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// Парсим даты или устанавливаем значения по умолчанию
	end, err := tc.parseDate(c.Query("end_date"), tc.today())
	if err != nil {
		return utils.BadRequest(c, "Invalid end_date format. Use YYYY-MM-DD")
	}
	start, err := tc.parseDate(c.Query("start_date"), end.AddDate(0, 0, -6).Format(dateLayout))
	if err != nil {
		return utils.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD")
	}
	if start.After(end) {
		return utils.BadRequest(c, "start_date must not be after end_date")
	}

	var trackers []models.DailyTracker
	if err := tc.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start.Format(dateLayout), end.Format(dateLayout)).
		Order("date").
		Find(&trackers).Error; err != nil {
		tc.Logger.Error("load trackers", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch trackers")
	}

	days := int(end.Sub(start).Hours()/24) + 1
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"stats":    summarize(trackers, days),
		"trackers": trackers,
		"period": fiber.Map{
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
		},
	})
}

func (tc *TrackerController) parseDate(value, fallback string) (time.Time, error) {
	if value == "" {
		value = fallback
	}
	return time.Parse(dateLayout, value)
}

func summarize(trackers []models.DailyTracker, days int) TrackerAnalytics {
	stats := TrackerAnalytics{
		Days:           days,
		TrackedDays:    len(trackers),
		Moods:          map[string]int{},
		SleepQualities: map[string]int{},
	}
	if len(trackers) == 0 {
		return stats
	}

	var hydration, sleep float64
	var sleepNights int
	for _, t := range trackers {
		hydration += float64(t.Hydration)
		if t.HydrationGoal > 0 && t.Hydration >= t.HydrationGoal {
			stats.HydrationGoalMet++
		}
		if t.SleepHours != nil {
			sleep += *t.SleepHours
			sleepNights++
		}
		if t.SkincareDone {
			stats.SkincareDays++
		}
		if t.ActivityMinutes != nil {
			stats.TotalActivityMinutes += *t.ActivityMinutes
		}
		if t.Mood != "" {
			stats.Moods[t.Mood]++
		}
		if t.SleepQuality != "" {
			stats.SleepQualities[t.SleepQuality]++
		}
	}
	stats.AvgHydration = hydration / float64(len(trackers))
	if sleepNights > 0 {
		stats.AvgSleepHours = sleep / float64(sleepNights)
	}
	return stats
}
