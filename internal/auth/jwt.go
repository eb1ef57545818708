package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workwear-backend/internal/models"
)

type Claims struct {
	EmployeeID uint        `json:"employee_id"`
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, emp *models.Employee) (string, error) {
	claims := &Claims{
		EmployeeID: emp.ID,
		Username:   emp.Username,
		Role:       emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
