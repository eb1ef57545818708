package catalog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"workwear-backend/internal/audit"
	"workwear-backend/internal/config"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
	"workwear-backend/internal/validation"
)

type CreateItemRequest struct {
	Type  string `json:"type" validate:"required,max=100"`
	Color string `json:"color" validate:"required,max=50"`
	Size  string `json:"size" validate:"required,max=20"`
}

type UpdateItemRequest struct {
	Type  *string `json:"type"`
	Color *string `json:"color"`
	Size  *string `json:"size"`
}

// GET /api/items
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := List()
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// GET /api/items/search?q=
func SearchItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := Search(c.Query("q"))
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// GET /api/items/options
func ItemOptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := Options()
		if err != nil {
			return err
		}
		return c.JSON(opts)
	}
}

// GET /api/items/:code
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}
		item, err := Lookup(uint(code))
		if err != nil {
			return err
		}
		return c.JSON(item)
	}
}

// POST /api/items
func CreateItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		item, err := Register(body.Type, body.Color, body.Size, cfg.CodeFloor)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"code": item.Code, "type": item.Type, "color": item.Color, "size": item.Size,
		}).Info("item registered")

		audit.Write(c, audit.Entry{
			EntityType:  "item",
			EntityID:    item.Code,
			Action:      models.AuditActionCreate,
			Description: "item registered",
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PATCH /api/items/:code
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		before, err := Lookup(uint(code))
		if err != nil {
			return err
		}

		item, err := Update(uint(code), UpdateAttrs{Type: body.Type, Color: body.Color, Size: body.Size})
		if err != nil {
			return err
		}

		audit.Write(c, audit.Entry{
			EntityType:  "item",
			EntityID:    item.Code,
			Action:      models.AuditActionUpdate,
			Description: "item attributes changed",
			Before:      before,
			After:       item,
		})

		return c.JSON(item)
	}
}

// DELETE /api/items/:code
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}

		before, err := Lookup(uint(code))
		if err != nil {
			return err
		}

		if err := Remove(uint(code)); err != nil {
			return err
		}

		audit.Write(c, audit.Entry{
			EntityType:  "item",
			EntityID:    uint(code),
			Action:      models.AuditActionDelete,
			Description: "item removed from catalog",
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/items/:code/history: every movement of the item.
func ItemHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}
		if _, err := Lookup(uint(code)); err != nil {
			return err
		}

		var movements []models.Movement
		if err := database.DB.
			Where("item_code = ?", code).
			Order("issued_at DESC").
			Find(&movements).Error; err != nil {
			return err
		}
		return c.JSON(movements)
	}
}

// GET /api/items/:code/active: movements still out in the field.
func ItemActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}
		if _, err := Lookup(uint(code)); err != nil {
			return err
		}

		var movements []models.Movement
		if err := database.DB.
			Where("item_code = ? AND returned_at IS NULL", code).
			Order("issued_at DESC").
			Find(&movements).Error; err != nil {
			return err
		}
		return c.JSON(movements)
	}
}
