package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/audit"
	"workwear-backend/internal/auth"
	"workwear-backend/internal/catalog"
	"workwear-backend/internal/config"
	"workwear-backend/internal/database"
	"workwear-backend/internal/employee"
	"workwear-backend/internal/issuance"
	"workwear-backend/internal/models"
	"workwear-backend/internal/replenishment"
	"workwear-backend/internal/reports"
	"workwear-backend/internal/stock"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	database.Init(cfg)

	if err := auth.BootstrapAdmin(cfg); err != nil {
		logrus.WithError(err).Fatal("admin bootstrap failed")
	}

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Employees
	employees := protected.Group("/employees")
	employees.Get("/", auth.RequireRole(models.RoleManager), employee.ListEmployeesHandler())
	employees.Get("/names", auth.RequireRole(models.RoleManager), employee.ListEmployeeNamesHandler())
	employees.Get("/with-active-items", auth.RequireRole(models.RoleManager), employee.ListWithActiveItemsHandler())
	employees.Post("/", auth.RequireRole(models.RoleAdmin), employee.CreateEmployeeHandler())
	employees.Get("/:id", auth.RequireRole(models.RoleManager), employee.GetEmployeeHandler())
	employees.Patch("/:id", auth.RequireRole(models.RoleAdmin), employee.UpdateEmployeeHandler())
	employees.Delete("/:id", auth.RequireRole(models.RoleAdmin), employee.DeleteEmployeeHandler())
	employees.Get("/:id/movements", auth.RequireRole(models.RoleManager), employee.EmployeeMovementsHandler())

	// Catalog
	items := protected.Group("/items")
	items.Get("/", catalog.ListItemsHandler())
	items.Get("/search", catalog.SearchItemsHandler())
	items.Get("/options", catalog.ItemOptionsHandler())
	items.Post("/", auth.RequireRole(models.RoleManager), catalog.CreateItemHandler(cfg))
	items.Get("/:code", catalog.GetItemHandler())
	items.Patch("/:code", auth.RequireRole(models.RoleManager), catalog.UpdateItemHandler())
	items.Delete("/:code", auth.RequireRole(models.RoleAdmin), catalog.DeleteItemHandler())
	items.Get("/:code/history", auth.RequireRole(models.RoleManager), catalog.ItemHistoryHandler())
	items.Get("/:code/active", auth.RequireRole(models.RoleManager), catalog.ItemActiveHandler())

	// Stock ledger views and corrections
	items.Get("/:code/stock", stock.GetItemStockHandler())
	items.Post("/:code/stock/move", auth.RequireRole(models.RoleManager), stock.MoveGradeHandler())

	// Movements (issue / return)
	movements := protected.Group("/movements")
	movements.Get("/", auth.RequireRole(models.RoleManager), issuance.ListMovementsHandler())
	movements.Get("/mine", issuance.ListMineHandler())
	movements.Get("/active", auth.RequireRole(models.RoleManager), issuance.ListActiveHandler())
	movements.Get("/returned", auth.RequireRole(models.RoleManager), issuance.ListReturnedHandler())
	movements.Get("/by-date", auth.RequireRole(models.RoleManager), issuance.ListByDateHandler())
	movements.Get("/stats", auth.RequireRole(models.RoleManager), issuance.StatsHandler())
	movements.Post("/", auth.RequireRole(models.RoleManager), issuance.IssueHandler())
	movements.Post("/return-batch", auth.RequireRole(models.RoleManager), issuance.BatchReturnHandler())
	movements.Get("/:id", auth.RequireRole(models.RoleManager), issuance.GetMovementHandler())
	movements.Patch("/:id/return", auth.RequireRole(models.RoleManager), issuance.ReturnHandler())
	movements.Delete("/:id", auth.RequireRole(models.RoleAdmin), issuance.DeleteMovementHandler())

	// Supply orders
	orders := protected.Group("/orders")
	orders.Get("/", auth.RequireRole(models.RoleManager), replenishment.ListOrdersHandler())
	orders.Get("/pending", auth.RequireRole(models.RoleManager), replenishment.ListPendingOrdersHandler())
	orders.Get("/by-status/:status", auth.RequireRole(models.RoleManager), replenishment.ListOrdersByStatusHandler())
	orders.Get("/by-item/:code", auth.RequireRole(models.RoleManager), replenishment.ListOrdersByItemHandler())
	orders.Post("/", auth.RequireRole(models.RoleManager), replenishment.PlaceOrderHandler())
	orders.Get("/:id", auth.RequireRole(models.RoleManager), replenishment.GetOrderHandler())
	orders.Patch("/:id/complete", auth.RequireRole(models.RoleAdmin), replenishment.FulfillOrderHandler())
	orders.Patch("/:id/cancel", auth.RequireRole(models.RoleAdmin), replenishment.CancelOrderHandler())
	orders.Patch("/:id", auth.RequireRole(models.RoleManager), replenishment.UpdateOrderHandler())
	orders.Delete("/:id", auth.RequireRole(models.RoleAdmin), replenishment.DeleteOrderHandler())

	// Dashboard & reports
	protected.Get("/dashboard/stats", auth.RequireRole(models.RoleManager), reports.StatsHandler())
	protected.Get("/dashboard/low-stock", auth.RequireRole(models.RoleManager), reports.LowStockHandler(cfg))
	protected.Get("/dashboard/recent-activity", auth.RequireRole(models.RoleManager), reports.RecentActivityHandler())
	protected.Get("/reports/stock.xlsx", auth.RequireRole(models.RoleManager), reports.StockExportHandler())

	// Audit trail
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
