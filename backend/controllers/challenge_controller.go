package controllers

import (
	"context"
	"errors"
	"time"

	"glowup/backend/content"
	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/progression"
	"glowup/backend/repository"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ChallengeController struct {
	*Env
	challenges *repository.ChallengeRepository
	profiles   *repository.ProfileRepository
}

func NewChallengeController(env *Env) *ChallengeController {
	return &ChallengeController{
		Env:        env,
		challenges: repository.NewChallengeRepository(env.DB),
		profiles:   repository.NewProfileRepository(env.DB),
	}
}

// ChallengeView is the progress of a user together with everything derived
// from it at request time.
type ChallengeView struct {
	models.ChallengeProgress
	Started              bool                     `json:"started"`
	CompletionPercentage int                      `json:"completionPercentage"`
	ClockBehind          bool                     `json:"clockBehind"`
	Days                 []DaySummary             `json:"days"`
	Celebration          *progression.Celebration `json:"celebration,omitempty"`
}

type DaySummary struct {
	ID          int                `json:"id"`
	Week        int                `json:"week"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	IsReviewDay bool               `json:"isReviewDay"`
	Status      progression.Status `json:"status"`
	HasNote     bool               `json:"hasNote"`
}

type DayDetail struct {
	content.ChallengeDay
	Status progression.Status `json:"status"`
	Note   string             `json:"note"`
}

type SyncChallengeRequest struct {
	CompletedDays []int          `json:"completedDays"`
	DayNotes      map[int]string `json:"dayNotes"`
	StartDate     *time.Time     `json:"startDate"`
	Version       *int           `json:"version"`
}

type DayNoteRequest struct {
	Note string `json:"note"`
}

func (cc *ChallengeController) view(cp *models.ChallengeProgress, now time.Time) ChallengeView {
	p := cp.State()
	cp.CurrentDay = cc.Engine.CurrentDay(p.StartDate, now)

	v := ChallengeView{
		ChallengeProgress:    *cp,
		Started:              p.StartDate != nil,
		CompletionPercentage: progression.CompletionPercentage(p.CompletedDays),
		ClockBehind:          cc.Engine.ClockBehind(p.StartDate, now),
		Days:                 cc.summaries(p, content.Days(), now),
	}
	if v.ClockBehind {
		cc.Logger.Warn("clock is behind challenge start", "user_id", cp.UserID, "start", p.StartDate, "now", now)
	}
	return v
}

func (cc *ChallengeController) summaries(p progression.Progress, days []content.ChallengeDay, now time.Time) []DaySummary {
	out := make([]DaySummary, 0, len(days))
	for _, d := range days {
		out = append(out, DaySummary{
			ID:          d.ID,
			Week:        d.Week,
			Title:       d.Title,
			Description: d.Description,
			IsReviewDay: d.IsReviewDay,
			Status:      cc.Engine.Status(p, d.ID, now),
			HasNote:     p.Note(d.ID) != "",
		})
	}
	return out
}

// mutateAttempts bounds how often mutate re-reads after losing a race with
// another writer.
const mutateAttempts = 3

// mutate loads the progress of userID, applies fn and saves the result in
// one transaction, mirroring start date and completed count on the profile.
// fn returning a nil progress means nothing changed. A save that lost a race
// is replayed on fresh state, so fn must be safe to call again.
func (cc *ChallengeController) mutate(ctx context.Context, userID uint, fn func(cp *models.ChallengeProgress) (*progression.Progress, error)) (*models.ChallengeProgress, error) {
	for attempt := 1; ; attempt++ {
		cp, stale, err := cc.mutateOnce(ctx, userID, fn)
		if !stale || attempt == mutateAttempts {
			return cp, err
		}
		cc.Logger.Debug("challenge progress changed underneath, retrying", "user_id", userID, "attempt", attempt)
	}
}

func (cc *ChallengeController) mutateOnce(ctx context.Context, userID uint, fn func(cp *models.ChallengeProgress) (*progression.Progress, error)) (cp *models.ChallengeProgress, stale bool, err error) {
	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		challenges := cc.challenges.WithTx(tx)
		var err error
		if cp, err = challenges.FindForUpdate(ctx, userID); err != nil {
			return err
		}
		next, err := fn(cp)
		if err != nil || next == nil {
			return err
		}
		cp.Apply(*next, cc.Engine.CurrentDay(next.StartDate, cc.now()))
		if err := challenges.Save(ctx, cp); err != nil {
			stale = errors.Is(err, repository.ErrVersionConflict)
			return err
		}
		return cc.profiles.WithTx(tx).SyncChallenge(ctx, userID, cp)
	})
	return cp, stale, err
}

// fail maps engine and storage errors onto HTTP responses.
func (cc *ChallengeController) fail(c *fiber.Ctx, userID uint, err error) error {
	switch {
	case errors.Is(err, progression.ErrDayLocked):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, progression.ErrInvalidDayID):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, errStartDateLocked):
		return utils.Conflict(c, "Challenge already started; reset it to choose another start date")
	default:
		cc.Logger.Error("challenge progress", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to update challenge progress")
	}
}

// GetChallenge godoc
// @Summary Get challenge progress
// @Description Returns the stored progress (created on first access) with current day, completion percentage and per-day status
// @Tags challenge
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /challenge [get]
func (cc *ChallengeController) GetChallenge(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	cp, err := cc.challenges.FindOrCreate(c.UserContext(), userID)
	if err != nil {
		cc.Logger.Error("load challenge progress", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch challenge progress")
	}

	return utils.Success(c, fiber.StatusOK, cc.view(cp, cc.now()))
}

// SyncChallenge godoc
// @Summary Sync challenge progress
// @Description Pushes a client copy of the progress. Completed days are merged and never removed, notes are replaced, the start date is only taken while unset and a different one is refused. Sending the last seen version turns on the conflict check.
// @Tags challenge
// @Accept json
// @Produce json
// @Param input body SyncChallengeRequest true "Client progress"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /challenge [put]
func (cc *ChallengeController) SyncChallenge(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input SyncChallengeRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	incoming := progression.Progress{CompletedDays: input.CompletedDays, DayNotes: input.DayNotes}
	if _, rejected := progression.Normalize(incoming); len(rejected) > 0 {
		return utils.Error(c, fiber.StatusBadRequest, progression.ErrInvalidDayID, fiber.Map{"rejected": rejected})
	}
	if input.StartDate != nil && input.StartDate.After(cc.now()) {
		return utils.ValidationError(c, map[string]string{"startDate": "Start date cannot be in the future"})
	}

	now := cc.now()
	cp, err := cc.mutate(c.UserContext(), userID, func(cp *models.ChallengeProgress) (*progression.Progress, error) {
		if input.Version != nil && *input.Version != cp.Version {
			return nil, repository.ErrVersionConflict
		}

		p := cp.State()
		switch {
		case input.StartDate == nil:
		case p.StartDate == nil:
			start := input.StartDate.UTC()
			p.StartDate = &start
		case !p.StartDate.Equal(*input.StartDate):
			return nil, errStartDateLocked
		}
		for _, id := range input.CompletedDays {
			var err error
			if p, _, err = cc.Engine.CompleteDay(p, id, now); err != nil {
				return nil, err
			}
		}
		if input.DayNotes != nil {
			p.DayNotes = map[int]string{}
			for id, text := range input.DayNotes {
				var err error
				if p, err = cc.Engine.WriteNote(p, id, text, now); err != nil {
					return nil, err
				}
			}
		}
		return &p, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) && cp != nil {
			return utils.Conflict(c, err.Error(), cc.view(cp, now))
		}
		return cc.fail(c, userID, err)
	}

	return utils.Success(c, fiber.StatusOK, cc.view(cp, now))
}

// StartChallenge godoc
// @Summary Start the challenge
// @Description Sets the start date to now. Calling it again keeps the first start date.
// @Tags challenge
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /challenge/start [post]
func (cc *ChallengeController) StartChallenge(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	now := cc.now()
	cp, err := cc.mutate(c.UserContext(), userID, func(cp *models.ChallengeProgress) (*progression.Progress, error) {
		if cp.StartDate != nil {
			return nil, nil
		}
		p := cp.State()
		p.StartDate = &now
		return &p, nil
	})
	if err != nil {
		return cc.fail(c, userID, err)
	}

	cc.Logger.Info("challenge started", "user_id", userID, "start", cp.StartDate)
	return utils.Success(c, fiber.StatusOK, cc.view(cp, now))
}

// ResetChallenge godoc
// @Summary Reset the challenge
// @Description Discards start date, completed days and notes
// @Tags challenge
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /challenge [delete]
func (cc *ChallengeController) ResetChallenge(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := cc.challenges.WithTx(tx).Delete(c.UserContext(), userID); err != nil {
			return err
		}
		return cc.profiles.WithTx(tx).SyncChallenge(c.UserContext(), userID, nil)
	})
	if err != nil {
		cc.Logger.Error("reset challenge", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to reset challenge")
	}

	cc.Logger.Info("challenge reset", "user_id", userID)
	return utils.Success(c, fiber.StatusOK, fiber.Map{"reset": true})
}

// ListDays godoc
// @Summary List challenge days
// @Description Returns the 30 days with their status for the authenticated user
// @Tags challenge
// @Produce json
// @Param week query int false "Only days of this week (1-4)"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /challenge/days [get]
func (cc *ChallengeController) ListDays(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	cp, err := cc.challenges.FindOrCreate(c.UserContext(), userID)
	if err != nil {
		cc.Logger.Error("load challenge progress", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch challenge days")
	}

	days := content.Days()
	if week := c.QueryInt("week"); week > 0 {
		days = content.Week(week)
	}
	return utils.Success(c, fiber.StatusOK, cc.summaries(cp.State(), days, cc.now()))
}

// GetDay godoc
// @Summary Get a challenge day
// @Description Returns the full content of an unlocked day with the user's note
// @Tags challenge
// @Produce json
// @Param id path int true "Day id (1-30)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /challenge/days/{id} [get]
func (cc *ChallengeController) GetDay(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dayID, err := c.ParamsInt("id")
	day, found := content.Day(dayID)
	if err != nil || !found {
		return utils.BadRequest(c, "Invalid day ID")
	}

	cp, err := cc.challenges.FindOrCreate(c.UserContext(), userID)
	if err != nil {
		cc.Logger.Error("load challenge progress", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch challenge day")
	}

	p := cp.State()
	status := cc.Engine.Status(p, dayID, cc.now())
	if status == progression.StatusLocked {
		return utils.Forbidden(c, "Day is locked")
	}

	return utils.Success(c, fiber.StatusOK, DayDetail{ChallengeDay: day, Status: status, Note: p.Note(dayID)})
}

// CompleteDay godoc
// @Summary Complete a challenge day
// @Description Marks an unlocked day as completed. The response carries a celebration the first time a day is completed; the final flag is set for day 30.
// @Tags challenge
// @Produce json
// @Param id path int true "Day id (1-30)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /challenge/days/{id}/complete [post]
func (cc *ChallengeController) CompleteDay(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dayID, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest(c, "Invalid day ID")
	}

	now := cc.now()
	var celebration *progression.Celebration
	cp, err := cc.mutate(c.UserContext(), userID, func(cp *models.ChallengeProgress) (*progression.Progress, error) {
		next, cel, err := cc.Engine.CompleteDay(cp.State(), dayID, now)
		if err != nil || cel == nil {
			return nil, err
		}
		celebration = cel
		return &next, nil
	})
	if err != nil {
		return cc.fail(c, userID, err)
	}

	if celebration != nil {
		cc.Logger.Info("day completed", "user_id", userID, "day", dayID, "final", celebration.Final)
	}
	v := cc.view(cp, now)
	v.Celebration = celebration
	return utils.Success(c, fiber.StatusOK, v)
}

// SetDayNote godoc
// @Summary Write a day note
// @Description Stores the note of a day; an empty note removes it
// @Tags challenge
// @Accept json
// @Produce json
// @Param id path int true "Day id (1-30)"
// @Param input body DayNoteRequest true "Note"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /challenge/days/{id}/note [put]
func (cc *ChallengeController) SetDayNote(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dayID, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest(c, "Invalid day ID")
	}

	var input DayNoteRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	now := cc.now()
	cp, err := cc.mutate(c.UserContext(), userID, func(cp *models.ChallengeProgress) (*progression.Progress, error) {
		next, err := cc.Engine.WriteNote(cp.State(), dayID, input.Note, now)
		if err != nil {
			return nil, err
		}
		return &next, nil
	})
	if err != nil {
		return cc.fail(c, userID, err)
	}

	return utils.Success(c, fiber.StatusOK, cc.view(cp, now))
}
