package issuance

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"workwear-backend/internal/audit"
	"workwear-backend/internal/auth"
	"workwear-backend/internal/models"
	"workwear-backend/internal/validation"
)

type IssueRequest struct {
	EmployeeID uint   `json:"employee_id" validate:"required"`
	ItemCode   uint   `json:"item_code" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Reason     string `json:"reason" validate:"required,min=3,max=255"`
	IssuedAt   string `json:"issued_at"` // optional, "2006-01-02"
}

type ReturnRequest struct {
	Grade      string `json:"grade" validate:"required,max=20"`
	ReturnedAt string `json:"returned_at"` // optional, "2006-01-02"
}

type BatchReturnRequest struct {
	Entries    []BatchEntry `json:"entries" validate:"required,min=1,dive"`
	ReturnedAt string       `json:"returned_at"` // optional, shared timestamp
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
	}
	return &d, nil
}

// POST /api/movements
func IssueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IssueRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		issuedAt, err := parseOptionalDate(body.IssuedAt)
		if err != nil {
			return err
		}

		movement, err := Issue(body.EmployeeID, body.ItemCode, body.Quantity, body.Reason, issuedAt)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}

// PATCH /api/movements/:id/return
func ReturnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid movement id")
		}

		var body ReturnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		returnedAt, err := parseOptionalDate(body.ReturnedAt)
		if err != nil {
			return err
		}

		movement, err := MarkReturn(uint(id), body.Grade, returnedAt)
		if err != nil {
			return err
		}
		return c.JSON(movement)
	}
}

// POST /api/movements/return-batch
func BatchReturnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchReturnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		returnedAt, err := parseOptionalDate(body.ReturnedAt)
		if err != nil {
			return err
		}

		movements, err := MarkReturnBatch(body.Entries, returnedAt)
		if err != nil {
			return err
		}
		return c.JSON(movements)
	}
}

// DELETE /api/movements/:id
func DeleteMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid movement id")
		}

		before, err := Get(uint(id))
		if err != nil {
			return err
		}

		if err := Remove(uint(id)); err != nil {
			return err
		}

		audit.Write(c, audit.Entry{
			EntityType:  "movement",
			EntityID:    uint(id),
			Action:      models.AuditActionDelete,
			Description: "movement record deleted (no stock effect)",
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/movements/:id
func GetMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid movement id")
		}
		movement, err := Get(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(movement)
	}
}

// GET /api/movements
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		movements, err := List()
		if err != nil {
			return err
		}
		return c.JSON(movements)
	}
}

// GET /api/movements/mine: whatever workwear the caller holds or held.
func ListMineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.CallerID(c)
		if err != nil {
			return err
		}
		movements, err := ListByEmployee(id)
		if err != nil {
			return err
		}
		return c.JSON(movements)
	}
}

// GET /api/movements/active
func ListActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		movements, err := ListActive()
		if err != nil {
			return err
		}
		return c.JSON(movements)
	}
}

// GET /api/movements/returned
func ListReturnedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		movements, err := ListReturned()
		if err != nil {
			return err
		}
		return c.JSON(movements)
	}
}

// GET /api/movements/by-date?from=2025-01-01&to=2025-01-31
func ListByDateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := time.Parse("2006-01-02", c.Query("from"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from must be 'YYYY-MM-DD'")
		}
		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to must be 'YYYY-MM-DD'")
		}
		// include the whole end day
		to = to.Add(24*time.Hour - time.Nanosecond)

		result, err := ListByDate(from, to)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// GET /api/movements/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := GetStats()
		if err != nil {
			return err
		}
		return c.JSON(stats)
	}
}
