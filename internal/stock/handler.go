package stock

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
	"workwear-backend/internal/validation"
)

type MoveGradeRequest struct {
	FromGrade string `json:"from_grade" validate:"required"`
	ToGrade   string `json:"to_grade" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type BucketResponse struct {
	Grade    string `json:"grade"`
	Quantity int    `json:"quantity"`
}

type ItemStockResponse struct {
	ItemCode uint             `json:"item_code"`
	Total    int              `json:"total"`
	Buckets  []BucketResponse `json:"buckets"`
}

// GET /api/items/:code/stock
func GetItemStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}

		var item models.Item
		if err := database.DB.First(&item, "code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		buckets, err := ListByItem(database.DB, uint(code))
		if err != nil {
			return err
		}

		return c.JSON(buildItemStockResponse(uint(code), buckets))
	}
}

func buildItemStockResponse(code uint, buckets []models.StockBucket) ItemStockResponse {
	resp := ItemStockResponse{ItemCode: code, Buckets: []BucketResponse{}}
	for _, b := range buckets {
		resp.Total += b.Quantity
		resp.Buckets = append(resp.Buckets, BucketResponse{Grade: b.Grade, Quantity: b.Quantity})
	}
	return resp
}

// POST /api/items/:code/stock/move
//
// Administrative correction of a recorded quality: shifts quantity from
// one grade bucket to another. Merges into the target bucket.
func MoveGradeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item code")
		}

		var body MoveGradeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var item models.Item
		if err := database.DB.First(&item, "code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return MoveGrade(tx, uint(code), body.FromGrade, body.ToGrade, body.Quantity)
		})
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"item_code": code,
			"from":      body.FromGrade,
			"to":        body.ToGrade,
			"quantity":  body.Quantity,
		}).Info("stock grade corrected")

		buckets, err := ListByItem(database.DB, uint(code))
		if err != nil {
			return err
		}
		return c.JSON(buildItemStockResponse(uint(code), buckets))
	}
}
