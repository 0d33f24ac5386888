package controllers

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/progression"
	"glowup/backend/repository"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ProfileController struct {
	*Env
	profiles   *repository.ProfileRepository
	challenges *repository.ChallengeRepository
}

func NewProfileController(env *Env) *ProfileController {
	return &ProfileController{
		Env:        env,
		profiles:   repository.NewProfileRepository(env.DB),
		challenges: repository.NewChallengeRepository(env.DB),
	}
}

type UpdateProfileRequest struct {
	Theme                *string    `json:"theme" enums:"light,dark"`
	NotificationsEnabled *bool      `json:"notificationsEnabled"`
	DailyReminderEnabled *bool      `json:"dailyReminderEnabled"`
	ReminderTime         *string    `json:"reminderTime" example:"09:00"`
	GlowUpStartDate      *time.Time `json:"glowUpStartDate"`
}

type UpdateAccountRequest struct {
	Name        string `json:"name" example:"Camille"`
	Email       string `json:"email" example:"camille@example.com" format:"email"`
	OldPassword string `json:"oldPassword" minLength:"8"`
	NewPassword string `json:"newPassword" minLength:"8"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the account, settings and challenge summary of the authenticated user
// @Tags profile
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile [get]
func (pc *ProfileController) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	profile, err := pc.profiles.FindOrCreate(c.UserContext(), userID)
	if err != nil {
		pc.Logger.Error("load profile", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch user profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user":    userView(user),
		"profile": profile,
	})
}

// UpdateProfile godoc
// @Summary Update settings
// @Description Updates theme, notification and reminder settings. The challenge start date can only be set while the challenge has not started.
// @Tags profile
// @Accept json
// @Produce json
// @Param input body UpdateProfileRequest true "Settings"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile [put]
func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input UpdateProfileRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	problems := map[string]string{}
	if input.Theme != nil && *input.Theme != models.ThemeLight && *input.Theme != models.ThemeDark {
		problems["theme"] = "Theme must be light or dark"
	}
	if input.ReminderTime != nil && !validClock(*input.ReminderTime) {
		problems["reminderTime"] = "Reminder time must be HH:MM"
	}
	if input.GlowUpStartDate != nil && input.GlowUpStartDate.After(pc.now()) {
		problems["glowUpStartDate"] = "Start date cannot be in the future"
	}
	if len(problems) > 0 {
		return utils.ValidationError(c, problems)
	}

	var profile *models.UserProfile
	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		profiles := pc.profiles.WithTx(tx)
		var err error
		if profile, err = profiles.FindOrCreate(c.UserContext(), userID); err != nil {
			return err
		}

		if input.Theme != nil {
			profile.Theme = *input.Theme
		}
		if input.NotificationsEnabled != nil {
			profile.NotificationsEnabled = *input.NotificationsEnabled
		}
		if input.DailyReminderEnabled != nil {
			profile.DailyReminderEnabled = *input.DailyReminderEnabled
		}
		if input.ReminderTime != nil {
			profile.ReminderTime = *input.ReminderTime
		}

		if input.GlowUpStartDate != nil {
			cp, err := pc.challenges.WithTx(tx).FindForUpdate(c.UserContext(), userID)
			if err != nil {
				return err
			}
			if cp.StartDate == nil {
				start := input.GlowUpStartDate.UTC()
				cp.Apply(progression.Progress{StartDate: &start, CompletedDays: cp.CompletedDays, DayNotes: cp.DayNotes},
					pc.Engine.CurrentDay(&start, pc.now()))
				if err := pc.challenges.WithTx(tx).Save(c.UserContext(), cp); err != nil {
					return err
				}
			} else if !cp.StartDate.Equal(*input.GlowUpStartDate) {
				return errStartDateLocked
			}
			profile.GlowUpStartDate = cp.StartDate
		}

		return profiles.Save(c.UserContext(), profile)
	})
	switch {
	case errors.Is(err, errStartDateLocked):
		return utils.Conflict(c, "Challenge already started; reset it to choose another start date")
	case errors.Is(err, repository.ErrVersionConflict):
		return utils.Conflict(c, "Challenge progress changed, retry")
	case err != nil:
		pc.Logger.Error("update profile", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to update user profile")
	}

	return utils.Success(c, fiber.StatusOK, profile)
}

// UpdateAccount godoc
// @Summary Update account
// @Description Changes name, email or password of the authenticated user
// @Tags profile
// @Accept json
// @Produce json
// @Param input body UpdateAccountRequest true "Account update data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /account [put]
func (pc *ProfileController) UpdateAccount(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input UpdateAccountRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}

	// Обновление email
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return utils.BadRequest(c, "Invalid email address")
		}
		var existingUser models.User
		if err := pc.DB.Where("email = ?", email).First(&existingUser).Error; err == nil && existingUser.ID != user.ID {
			return utils.Conflict(c, "Email already taken")
		}
		user.Email = email
	}

	// Обновление пароля
	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		if len(input.NewPassword) < minPasswordLength {
			return utils.BadRequest(c, "Password must be at least 8 characters")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashedPassword)
	}

	// Сохраняем изменения
	if err := pc.DB.Save(&user).Error; err != nil {
		pc.Logger.Error("update account", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, userView(user))
}

var errStartDateLocked = errors.New("challenge start date already set")

func validClock(hhmm string) bool {
	if len(hhmm) != 5 {
		return false
	}
	_, err := time.Parse("15:04", hhmm)
	return err == nil
}
