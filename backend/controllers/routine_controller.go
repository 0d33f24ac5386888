package controllers

import (
	"errors"
	"strings"

	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RoutineController struct {
	*Env
}

func NewRoutineController(env *Env) *RoutineController {
	return &RoutineController{Env: env}
}

// RoutineRequest is used for create and partial update.
type RoutineRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Time        *string `json:"time" example:"07:30"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
	Completed   *bool   `json:"completed"`
}

func (r *RoutineRequest) apply(item *models.RoutineItem) map[string]string {
	problems := map[string]string{}
	if r.Title != nil {
		item.Title = strings.TrimSpace(*r.Title)
	}
	if item.Title == "" {
		problems["title"] = "Title is required"
	}
	if r.Description != nil {
		item.Description = *r.Description
	}
	if r.Time != nil {
		if *r.Time != "" && !validClock(*r.Time) {
			problems["time"] = "Time must be HH:MM"
		}
		item.Time = *r.Time
	}
	if r.Order != nil {
		item.Order = *r.Order
	}
	if r.IsActive != nil {
		item.IsActive = *r.IsActive
	}
	if r.Completed != nil {
		item.Completed = *r.Completed
	}
	return problems
}

// ListRoutine godoc
// @Summary List routine items
// @Tags routine
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /routine [get]
func (rc *RoutineController) ListRoutine(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	items := []models.RoutineItem{}
	if err := rc.DB.WithContext(c.UserContext()).
		Where("user_id = ?", userID).
		Order("sort_order").Order("created_at").
		Find(&items).Error; err != nil {
		rc.Logger.Error("list routine", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch routine")
	}

	return utils.Success(c, fiber.StatusOK, items)
}

// CreateRoutineItem godoc
// @Summary Add a routine item
// @Description New items are active and go to the end of the routine unless an order is given
// @Tags routine
// @Accept json
// @Produce json
// @Param input body RoutineRequest true "Routine item"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /routine [post]
func (rc *RoutineController) CreateRoutineItem(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input RoutineRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	item := models.RoutineItem{Entity: models.Entity{UserID: userID}, IsActive: true}
	if problems := input.apply(&item); len(problems) > 0 {
		return utils.ValidationError(c, problems)
	}
	if input.Order == nil {
		var last int
		err := rc.DB.WithContext(c.UserContext()).Model(&models.RoutineItem{}).
			Select("COALESCE(MAX(sort_order), 0)").
			Where("user_id = ?", userID).
			Scan(&last).Error
		if err != nil {
			rc.Logger.Error("find last routine order", "user_id", userID, "err", err)
			return utils.InternalServerError(c, "Failed to save routine item")
		}
		item.Order = last + 1
	}

	if err := rc.DB.WithContext(c.UserContext()).Create(&item).Error; err != nil {
		rc.Logger.Error("create routine item", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to save routine item")
	}

	return utils.Created(c, item)
}

// UpdateRoutineItem godoc
// @Summary Update a routine item
// @Description Only the fields present in the body change
// @Tags routine
// @Accept json
// @Produce json
// @Param id path string true "Routine item id"
// @Param input body RoutineRequest true "Changed fields"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /routine/{id} [put]
func (rc *RoutineController) UpdateRoutineItem(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input RoutineRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var item models.RoutineItem
	err := rc.DB.WithContext(c.UserContext()).
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Routine item not found")
	}
	if err != nil {
		rc.Logger.Error("load routine item", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to update routine item")
	}

	if problems := input.apply(&item); len(problems) > 0 {
		return utils.ValidationError(c, problems)
	}

	if err := rc.DB.WithContext(c.UserContext()).Model(&item).
		Select("title", "description", "time", "sort_order", "is_active", "completed", "updated_at").
		Updates(&item).Error; err != nil {
		rc.Logger.Error("update routine item", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to update routine item")
	}

	return utils.Success(c, fiber.StatusOK, item)
}

// DeleteRoutineItem godoc
// @Summary Delete a routine item
// @Tags routine
// @Produce json
// @Param id path string true "Routine item id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /routine/{id} [delete]
func (rc *RoutineController) DeleteRoutineItem(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	res := rc.DB.WithContext(c.UserContext()).
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		Delete(&models.RoutineItem{})
	if res.Error != nil {
		rc.Logger.Error("delete routine item", "user_id", userID, "err", res.Error)
		return utils.InternalServerError(c, "Failed to delete routine item")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Routine item not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": c.Params("id")})
}
