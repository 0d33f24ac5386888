package controllers

import (
	"net/url"
	"strings"

	"glowup/backend/middleware"
	"glowup/backend/models"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type VisionController struct {
	*Env
}

func NewVisionController(env *Env) *VisionController {
	return &VisionController{Env: env}
}

type VisionRequest struct {
	ImageURL string `json:"imageUrl" example:"https://example.com/beach.jpg"`
	Caption  string `json:"caption"`
	Position *int   `json:"position"`
}

// validImageURL accepts absolute http(s) links and inline data:image URLs.
func validImageURL(raw string) bool {
	if strings.HasPrefix(raw, "data:image/") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ListImages godoc
// @Summary List vision board images
// @Tags vision
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /vision [get]
func (vc *VisionController) ListImages(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	images := []models.VisionBoardImage{}
	if err := vc.DB.WithContext(c.UserContext()).
		Where("user_id = ?", userID).
		Order("position").Order("created_at").
		Find(&images).Error; err != nil {
		vc.Logger.Error("list vision board", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to fetch vision board")
	}

	return utils.Success(c, fiber.StatusOK, images)
}

// AddImage godoc
// @Summary Add a vision board image
// @Tags vision
// @Accept json
// @Produce json
// @Param input body VisionRequest true "Image"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /vision [post]
func (vc *VisionController) AddImage(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input VisionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if !validImageURL(input.ImageURL) {
		return utils.ValidationError(c, map[string]string{"imageUrl": "Image URL must be an http(s) or data:image URL"})
	}

	image := models.VisionBoardImage{
		Entity:   models.Entity{UserID: userID},
		ImageURL: input.ImageURL,
		Caption:  input.Caption,
	}
	if input.Position != nil {
		image.Position = *input.Position
	} else {
		var count int64
		err := vc.DB.WithContext(c.UserContext()).Model(&models.VisionBoardImage{}).
			Where("user_id = ?", userID).
			Count(&count).Error
		if err != nil {
			vc.Logger.Error("count vision images", "user_id", userID, "err", err)
			return utils.InternalServerError(c, "Failed to save image")
		}
		image.Position = int(count)
	}

	if err := vc.DB.WithContext(c.UserContext()).Create(&image).Error; err != nil {
		vc.Logger.Error("add vision image", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to save image")
	}

	return utils.Created(c, image)
}

// DeleteImage godoc
// @Summary Remove a vision board image
// @Tags vision
// @Produce json
// @Param id path string true "Image id"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /vision/{id} [delete]
func (vc *VisionController) DeleteImage(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	res := vc.DB.WithContext(c.UserContext()).
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		Delete(&models.VisionBoardImage{})
	if res.Error != nil {
		vc.Logger.Error("delete vision image", "user_id", userID, "err", res.Error)
		return utils.InternalServerError(c, "Failed to delete image")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Image not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": c.Params("id")})
}
