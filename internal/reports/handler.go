// Package reports provides the read-only dashboard and export views.
// Everything here consumes the ledger; nothing mutates it.
package reports

import (
	"github.com/gofiber/fiber/v2"

	"workwear-backend/internal/config"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
	"workwear-backend/internal/stock"
)

type DashboardStats struct {
	EmployeeCount int64 `json:"employee_count"`
	ItemCount     int64 `json:"item_count"`
	MovementCount int64 `json:"movement_count"`
	OrderCount    int64 `json:"order_count"`
	TotalStock    int   `json:"total_stock"`
}

// GET /api/dashboard/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s DashboardStats
		if err := database.DB.Model(&models.Employee{}).Count(&s.EmployeeCount).Error; err != nil {
			return err
		}
		if err := database.DB.Model(&models.Item{}).Count(&s.ItemCount).Error; err != nil {
			return err
		}
		if err := database.DB.Model(&models.Movement{}).Count(&s.MovementCount).Error; err != nil {
			return err
		}
		if err := database.DB.Model(&models.SupplyOrder{}).Count(&s.OrderCount).Error; err != nil {
			return err
		}
		total, err := stock.SumAll(database.DB)
		if err != nil {
			return err
		}
		s.TotalStock = total
		return c.JSON(s)
	}
}

type LowStockRow struct {
	Code     uint   `json:"code"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// GET /api/dashboard/low-stock: items whose total across all grades
// falls below the configured threshold, including items with no
// buckets at all.
func LowStockHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []LowStockRow
		err := database.DB.Model(&models.Item{}).
			Select("items.code AS code, items.type AS type, items.color AS color, items.size AS size, COALESCE(SUM(stock_buckets.quantity), 0) AS quantity").
			Joins("LEFT JOIN stock_buckets ON stock_buckets.item_code = items.code").
			Group("items.code, items.type, items.color, items.size").
			Having("COALESCE(SUM(stock_buckets.quantity), 0) < ?", cfg.LowStockThreshold).
			Order("quantity ASC, code ASC").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []LowStockRow{}
		}
		return c.JSON(rows)
	}
}

type RecentActivity struct {
	RecentMovements []models.Movement    `json:"recent_movements"`
	PendingOrders   []models.SupplyOrder `json:"pending_orders"`
}

// GET /api/dashboard/recent-activity
func RecentActivityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var activity RecentActivity
		if err := database.DB.
			Order("created_at DESC").
			Limit(10).
			Find(&activity.RecentMovements).Error; err != nil {
			return err
		}
		if err := database.DB.
			Where("status = ?", models.OrderPlaced).
			Order("created_at DESC").
			Limit(10).
			Find(&activity.PendingOrders).Error; err != nil {
			return err
		}
		return c.JSON(activity)
	}
}
