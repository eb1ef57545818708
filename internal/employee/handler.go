// Package employee is the administrative CRUD for the people workwear
// gets issued to. It carries no stock logic; movements reference
// employees by id and block deletion while anything is still out.
package employee

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/audit"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
	"workwear-backend/internal/validation"
)

type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Phone    string `json:"phone" validate:"max=30"`
	Position string `json:"position" validate:"max=100"`
	Role     string `json:"role" validate:"required,oneof=user manager admin"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Position *string `json:"position"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// POST /api/employees
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Username = strings.TrimSpace(body.Username)

		var count int64
		if err := database.DB.Model(&models.Employee{}).
			Where("email = ? OR username = ?", body.Email, body.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrConflict
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		emp := models.Employee{
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			Phone:        strings.TrimSpace(body.Phone),
			Position:     strings.TrimSpace(body.Position),
			Role:         models.Role(body.Role),
			Username:     body.Username,
			PasswordHash: string(hash),
		}
		if err := database.DB.Create(&emp).Error; err != nil {
			return err
		}

		audit.Write(c, audit.Entry{
			EntityType:  "employee",
			EntityID:    emp.ID,
			Action:      models.AuditActionCreate,
			Description: "employee created",
			After:       emp,
		})

		return c.Status(fiber.StatusCreated).JSON(emp)
	}
}

// GET /api/employees
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var employees []models.Employee
		if err := database.DB.Order("name ASC").Find(&employees).Error; err != nil {
			return err
		}
		return c.JSON(employees)
	}
}

// GET /api/employees/names: id/name pairs for pickers.
func ListEmployeeNamesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		type nameRow struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		}
		var rows []nameRow
		if err := database.DB.Model(&models.Employee{}).
			Select("id, name").
			Order("name ASC").
			Scan(&rows).Error; err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// GET /api/employees/with-active-items: employees that still hold workwear.
func ListWithActiveItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var employees []models.Employee
		if err := database.DB.
			Where("id IN (?)", database.DB.Model(&models.Movement{}).
				Select("employee_id").
				Where("returned_at IS NULL")).
			Order("name ASC").
			Find(&employees).Error; err != nil {
			return err
		}
		return c.JSON(employees)
	}
}

// GET /api/employees/:id
func GetEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}

		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		return c.JSON(emp)
	}
}

// PATCH /api/employees/:id
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}

		var body UpdateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		before := emp

		if body.Name != nil {
			emp.Name = strings.TrimSpace(*body.Name)
		}
		if body.Email != nil {
			emp.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			emp.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Position != nil {
			emp.Position = strings.TrimSpace(*body.Position)
		}
		if body.Role != nil {
			role := models.Role(*body.Role)
			switch role {
			case models.RoleUser, models.RoleManager, models.RoleAdmin:
				emp.Role = role
			default:
				return apperrors.Validationf("role must be user, manager or admin")
			}
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return apperrors.Validationf("password must be at least 8 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
			}
			emp.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&emp).Error; err != nil {
			return err
		}

		audit.Write(c, audit.Entry{
			EntityType:  "employee",
			EntityID:    emp.ID,
			Action:      models.AuditActionUpdate,
			Description: "employee updated",
			Before:      before,
			After:       emp,
		})

		return c.JSON(emp)
	}
}

// DELETE /api/employees/:id: refused while the employee still holds
// unreturned workwear.
func DeleteEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}

		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var open int64
		if err := database.DB.Model(&models.Movement{}).
			Where("employee_id = ? AND returned_at IS NULL", id).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrConflict
		}

		if err := database.DB.Delete(&emp).Error; err != nil {
			return err
		}

		audit.Write(c, audit.Entry{
			EntityType:  "employee",
			EntityID:    emp.ID,
			Action:      models.AuditActionDelete,
			Description: "employee deleted",
			Before:      emp,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/employees/:id/movements
func EmployeeMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
		}

		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var movements []models.Movement
		if err := database.DB.
			Where("employee_id = ?", id).
			Order("issued_at DESC").
			Find(&movements).Error; err != nil {
			return err
		}
		return c.JSON(movements)
	}
}
