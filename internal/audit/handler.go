package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
)

// GET /api/audit-logs?entity_type=item&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		q := database.DB.Order("created_at DESC").Limit(limit)
		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}

		var logs []models.AuditLog
		if err := q.Find(&logs).Error; err != nil {
			return err
		}
		return c.JSON(logs)
	}
}
