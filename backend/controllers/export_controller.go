package controllers

import (
	"bytes"
	"fmt"

	"glowup/backend/export"
	"glowup/backend/middleware"
	"glowup/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	*Env
}

func NewExportController(env *Env) *ExportController {
	return &ExportController{Env: env}
}

// Export godoc
// @Summary Export user data
// @Description Downloads challenge progress, journal, trackers, routine and vision board as an XLSX workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security ApiKeyAuth
// @Router /export [get]
func (ec *ExportController) Export(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	data, err := export.Collect(c.UserContext(), ec.DB, userID)
	if err != nil {
		ec.Logger.Error("collect export", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to export data")
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, data, ec.Engine, ec.now()); err != nil {
		ec.Logger.Error("build export", "user_id", userID, "err", err)
		return utils.InternalServerError(c, "Failed to export data")
	}

	ec.Logger.Info("data exported", "user_id", userID, "bytes", buf.Len())
	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="glowup-%s.xlsx"`, ec.today()))
	return c.Send(buf.Bytes())
}
