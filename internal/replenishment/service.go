// Package replenishment manages supplier orders. Fulfilling an order
// moves its quantity into the item's "new" bucket; the status change
// and the stock increment share one transaction.
package replenishment

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
	"workwear-backend/internal/stock"
)

// Place creates a supplier order in "placed" state. The item must exist.
func Place(itemCode uint, qty int, supplier, note string, orderedAt *time.Time) (*models.SupplyOrder, error) {
	if qty < 1 {
		return nil, apperrors.Validationf("quantity must be at least 1")
	}

	var item models.Item
	if err := database.DB.First(&item, "code = ?", itemCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	at := time.Now()
	if orderedAt != nil {
		at = *orderedAt
	}
	order := models.SupplyOrder{
		ItemCode:  itemCode,
		Quantity:  qty,
		OrderedAt: at,
		Status:    models.OrderPlaced,
		Supplier:  strings.TrimSpace(supplier),
		Note:      strings.TrimSpace(note),
	}
	if err := database.DB.Create(&order).Error; err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"item_code": itemCode,
		"quantity":  qty,
	}).Info("supply order placed")

	return &order, nil
}

// FulfillResult reports what a fulfillment did to the "new" bucket.
type FulfillResult struct {
	Order         *models.SupplyOrder `json:"order"`
	AddedQuantity int                 `json:"added_quantity"`
	NewStockLevel int                 `json:"new_stock_level"`
}

// Fulfill transitions a placed order to fulfilled and books its
// quantity into the "new" bucket. A second Fulfill on the same order is
// an idempotent no-op (no second increment); fulfilling a cancelled
// order is an ErrInvalidState.
func Fulfill(orderID uint) (*FulfillResult, error) {
	var result FulfillResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var order models.SupplyOrder
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		// Guarded transition: only the caller that flips placed ->
		// fulfilled books the stock, however concurrent fulfillments
		// interleave.
		res := tx.Model(&models.SupplyOrder{}).
			Where("id = ? AND status = ?", orderID, models.OrderPlaced).
			Update("status", models.OrderFulfilled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already terminal; re-read the committed status.
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				return err
			}
			if order.Status == models.OrderCancelled {
				return apperrors.ErrInvalidState
			}
			level, err := stock.GetBucket(tx, order.ItemCode, models.GradeNew)
			if err != nil {
				return err
			}
			result = FulfillResult{Order: &order, AddedQuantity: 0, NewStockLevel: level}
			return nil
		}

		order.Status = models.OrderFulfilled
		if err := stock.Release(tx, order.ItemCode, models.GradeNew, order.Quantity); err != nil {
			return err
		}

		level, err := stock.GetBucket(tx, order.ItemCode, models.GradeNew)
		if err != nil {
			return err
		}
		result = FulfillResult{Order: &order, AddedQuantity: order.Quantity, NewStockLevel: level}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AddedQuantity > 0 {
		logrus.WithFields(logrus.Fields{
			"order_id":        orderID,
			"item_code":       result.Order.ItemCode,
			"added_quantity":  result.AddedQuantity,
			"new_stock_level": result.NewStockLevel,
		}).Info("supply order fulfilled")
	}

	return &result, nil
}

// Cancel transitions a placed order to cancelled, with no stock
// effect. Cancelling twice is idempotent; cancelling a fulfilled order
// is an ErrInvalidState.
func Cancel(orderID uint) (*models.SupplyOrder, error) {
	var order models.SupplyOrder
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		res := tx.Model(&models.SupplyOrder{}).
			Where("id = ? AND status = ?", orderID, models.OrderPlaced).
			Update("status", models.OrderCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				return err
			}
			if order.Status == models.OrderFulfilled {
				return apperrors.ErrInvalidState
			}
			return nil
		}

		order.Status = models.OrderCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateAttrs are the fields editable while an order is still placed.
type UpdateAttrs struct {
	Quantity *int
	Supplier *string
	Note     *string
}

// Update edits a placed order. Fulfilled and cancelled orders are
// frozen.
func Update(orderID uint, attrs UpdateAttrs) (*models.SupplyOrder, error) {
	if attrs.Quantity != nil && *attrs.Quantity < 1 {
		return nil, apperrors.Validationf("quantity must be at least 1")
	}

	changes := map[string]any{}
	if attrs.Quantity != nil {
		changes["quantity"] = *attrs.Quantity
	}
	if attrs.Supplier != nil {
		changes["supplier"] = strings.TrimSpace(*attrs.Supplier)
	}
	if attrs.Note != nil {
		changes["note"] = strings.TrimSpace(*attrs.Note)
	}

	var order models.SupplyOrder
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if len(changes) > 0 {
			// Guarded: the order stays frozen even when a fulfill or
			// cancel lands between the read and this write.
			res := tx.Model(&models.SupplyOrder{}).
				Where("id = ? AND status = ?", orderID, models.OrderPlaced).
				Updates(changes)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperrors.ErrInvalidState
			}
		} else if order.Status != models.OrderPlaced {
			return apperrors.ErrInvalidState
		}

		return tx.First(&order, "id = ?", orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Remove deletes an order record. No stock effect, mirroring movement
// deletion: the books are corrected, the ledger stands.
func Remove(orderID uint) error {
	res := database.DB.Delete(&models.SupplyOrder{}, "id = ?", orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Get fetches one order.
func Get(orderID uint) (*models.SupplyOrder, error) {
	var order models.SupplyOrder
	err := database.DB.First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns all orders, newest first.
func List() ([]models.SupplyOrder, error) {
	var orders []models.SupplyOrder
	err := database.DB.Order("ordered_at DESC").Find(&orders).Error
	return orders, err
}

// ListPending returns orders still in "placed" state.
func ListPending() ([]models.SupplyOrder, error) {
	return ListByStatus(models.OrderPlaced)
}

func ListByStatus(status models.OrderStatus) ([]models.SupplyOrder, error) {
	var orders []models.SupplyOrder
	err := database.DB.
		Where("status = ?", status).
		Order("ordered_at DESC").
		Find(&orders).Error
	return orders, err
}

func ListByItem(itemCode uint) ([]models.SupplyOrder, error) {
	var orders []models.SupplyOrder
	err := database.DB.
		Where("item_code = ?", itemCode).
		Order("ordered_at DESC").
		Find(&orders).Error
	return orders, err
}
