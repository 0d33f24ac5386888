package controllers

import (
	"errors"

	"glowup/backend/content"
	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/progression"
	"glowup/backend/repository"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OverviewController struct {
	*Env
	challenges *repository.ChallengeRepository
}

func NewOverviewController(env *Env) *OverviewController {
	return &OverviewController{Env: env, challenges: repository.NewChallengeRepository(env.DB)}
}

// GetTodayAffirmation godoc
// @Summary Affirmation of the day
// @Description Returns the bonus affirmation of today's date and, once the challenge has started, the affirmation of the current day
// @Tags affirmations
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /affirmations/today [get]
func (oc *OverviewController) GetTodayAffirmation(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	now := oc.now()
	result := fiber.Map{
		"date":        oc.today(),
		"affirmation": content.AffirmationFor(now.In(oc.Engine.Location())),
	}

	cp, err := oc.challenges.Find(c.UserContext(), userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		oc.Logger.Error("load challenge progress", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch affirmation")
	}
	if cp != nil && cp.StartDate != nil {
		dayID := oc.Engine.CurrentDay(cp.StartDate, now)
		if day, found := content.Day(dayID); found {
			result["day"] = dayID
			result["dayAffirmation"] = day.Affirmation
		}
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetOverview godoc
// @Summary Dashboard overview
// @Description Current day and its content, completion, today's tracker and collection counts
// @Tags overview
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /overview [get]
func (oc *OverviewController) GetOverview(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	ctx := c.UserContext()
	now := oc.now()

	// Получаем прогресс пользователя
	var p progression.Progress
	cp, err := oc.challenges.Find(ctx, userID)
	switch {
	case err == nil:
		p = cp.State()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		oc.Logger.Error("load challenge progress", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch overview")
	}
	currentDay := oc.Engine.CurrentDay(p.StartDate, now)
	today, _ := content.Day(currentDay)

	var tracker *models.DailyTracker
	var t models.DailyTracker
	err = oc.DB.WithContext(ctx).Where("user_id = ? AND date = ?", userID, oc.today()).First(&t).Error
	switch {
	case err == nil:
		tracker = &t
	case !errors.Is(err, gorm.ErrRecordNotFound):
		oc.Logger.Error("load today's tracker", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch overview")
	}

	// Счётчики разделов
	var counts struct {
		Journal        int64 `json:"journal"`
		Vision         int64 `json:"vision"`
		RoutineActive  int64 `json:"routineActive"`
		RoutineChecked int64 `json:"routineChecked"`
	}
	db := oc.DB.WithContext(ctx)
	for _, q := range []*gorm.DB{
		db.Model(&models.JournalEntry{}).Where("user_id = ?", userID).Count(&counts.Journal),
		db.Model(&models.VisionBoardImage{}).Where("user_id = ?", userID).Count(&counts.Vision),
		db.Model(&models.RoutineItem{}).Where("user_id = ? AND is_active = ?", userID, true).Count(&counts.RoutineActive),
		db.Model(&models.RoutineItem{}).Where("user_id = ? AND is_active = ? AND completed = ?", userID, true, true).Count(&counts.RoutineChecked),
	} {
		if q.Error != nil {
			oc.Logger.Error("count overview sections", "user_id", userID, "err", q.Error)
			return utils.InternalServerError(c, "Failed to fetch overview")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"started":              p.StartDate != nil,
		"currentDay":           currentDay,
		"today":                today,
		"todayStatus":          oc.Engine.Status(p, currentDay, now),
		"completedDays":        len(p.CompletedDays),
		"completionPercentage": progression.CompletionPercentage(p.CompletedDays),
		"clockBehind":          oc.Engine.ClockBehind(p.StartDate, now),
		"tracker":              tracker,
		"counts":               counts,
		"quote":                content.Quote,
	})
}
