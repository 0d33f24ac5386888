package controllers

import (
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Health godoc
// @Summary Health check
// @Description Reports liveness and database reachability
// @Tags health
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /health [get]
func (e *Env) Health(c *fiber.Ctx) error {
	sqlDB, err := e.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		e.Logger.Error("database ping", "err", err)
		return utils.Error(c, fiber.StatusServiceUnavailable, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"status": "ok",
		"time":   e.now(),
	})
}
