package controllers

import (
	"strings"
	"time"

	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type JournalController struct {
	*Env
}

func NewJournalController(env *Env) *JournalController {
	return &JournalController{Env: env}
}

type JournalRequest struct {
	Date       string `json:"date" example:"2025-01-10"`
	Content    string `json:"content"`
	Feeling    string `json:"feeling"`
	GlowMoment string `json:"glowMoment"`
	Learning   string `json:"learning"`
}

// pagination reads page and pageSize, accepting limit as an alias of pageSize.
func pagination(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("pageSize", c.QueryInt("limit", defaultPageSize))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// ListEntries godoc
// @Summary List journal entries
// @Description Returns the journal entries of the user, newest first
// @Tags journal
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Entries per page" default(50)
// @Success 200 {object} utils.PaginatedResponse
// @Security ApiKeyAuth
// @Router /journal [get]
func (jc *JournalController) ListEntries(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	page, pageSize := pagination(c)

	owned := jc.DB.WithContext(c.UserContext()).Model(&models.JournalEntry{}).
		Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := owned.Count(&total).Error; err != nil {
		jc.Logger.Error("count journal entries", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch journal entries")
	}

	entries := []models.JournalEntry{}
	err := owned.Order("date DESC").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		jc.Logger.Error("list journal entries", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch journal entries")
	}

	return utils.Paginate(c, entries, total, page, pageSize)
}

// CreateEntry godoc
// @Summary Create a journal entry
// @Tags journal
// @Accept json
// @Produce json
// @Param input body JournalRequest true "Entry"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /journal [post]
func (jc *JournalController) CreateEntry(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input JournalRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	problems := map[string]string{}
	if strings.TrimSpace(input.Content) == "" {
		problems["content"] = "Content is required"
	}
	if input.Date == "" {
		input.Date = jc.today()
	}
	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		problems["date"] = "Invalid date format. Use YYYY-MM-DD"
	}
	if len(problems) > 0 {
		return utils.ValidationError(c, problems)
	}

	entry := models.JournalEntry{
		Entity:     models.Entity{UserID: userID},
		Date:       date,
		Content:    input.Content,
		Feeling:    input.Feeling,
		GlowMoment: input.GlowMoment,
		Learning:   input.Learning,
	}
	if err := jc.DB.WithContext(c.UserContext()).Create(&entry).Error; err != nil {
		jc.Logger.Error("create journal entry", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to save journal entry")
	}

	return utils.Created(c, entry)
}

// DeleteEntry godoc
// @Summary Delete a journal entry
// @Tags journal
// @Produce json
// @Param id path string true "Entry id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /journal/{id} [delete]
func (jc *JournalController) DeleteEntry(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	res := jc.DB.WithContext(c.UserContext()).
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		Delete(&models.JournalEntry{})
	if res.Error != nil {
		jc.Logger.Error("delete journal entry", "user_id", userID, "err", res.Error)
		return utils.InternalServerError(c, "Failed to delete journal entry")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Journal entry not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": c.Params("id")})
}
