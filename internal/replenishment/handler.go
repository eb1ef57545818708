package replenishment

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"workwear-backend/internal/models"
	"workwear-backend/internal/validation"
)

type PlaceOrderRequest struct {
	ItemCode  uint   `json:"item_code" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Supplier  string `json:"supplier" validate:"max=100"`
	Note      string `json:"note" validate:"max=255"`
	OrderedAt string `json:"ordered_at"` // optional, "2006-01-02"
}

type UpdateOrderRequest struct {
	Quantity *int    `json:"quantity"`
	Supplier *string `json:"supplier"`
	Note     *string `json:"note"`
}

// POST /api/orders
func PlaceOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var orderedAt *time.Time
		if body.OrderedAt != "" {
			d, err := time.Parse("2006-01-02", body.OrderedAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "ordered_at must be 'YYYY-MM-DD'")
			}
			orderedAt = &d
		}

		order, err := Place(body.ItemCode, body.Quantity, body.Supplier, body.Note, orderedAt)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// PATCH /api/orders/:id/complete
func FulfillOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}
		result, err := Fulfill(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// PATCH /api/orders/:id/cancel
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}
		order, err := Cancel(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(order)
	}
}

// PATCH /api/orders/:id
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		var body UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		order, err := Update(uint(id), UpdateAttrs{Quantity: body.Quantity, Supplier: body.Supplier, Note: body.Note})
		if err != nil {
			return err
		}
		return c.JSON(order)
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}
		if err := Remove(uint(id)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}
		order, err := Get(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(order)
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := List()
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/pending
func ListPendingOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := ListPending()
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/by-status/:status
func ListOrdersByStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := models.OrderStatus(c.Params("status"))
		switch status {
		case models.OrderPlaced, models.OrderFulfilled, models.OrderCancelled:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "status must be placed, fulfilled or cancelled")
		}
		orders, err := ListByStatus(status)
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/by-item/:code
func ListOrdersByItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}
		orders, err := ListByItem(uint(code))
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}
