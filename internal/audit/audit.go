// Package audit records administrative writes (catalog and employee
// changes, movement deletions) as an append-only trail. Stock levels
// themselves are already reconstructable from movements and orders.
package audit

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"workwear-backend/internal/auth"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
)

type Entry struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Write stores one audit row. The actor is taken from the request's
// auth context. Audit failures are logged, never propagated: the
// business write has already committed.
func Write(c *fiber.Ctx, e Entry) {
	actorID, err := auth.CallerID(c)
	if err != nil {
		actorID = 0
	}

	row := models.AuditLog{
		EmployeeID:  actorID,
		Actor:       auth.CallerName(c),
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  marshalOrNull(e.Before),
		AfterData:   marshalOrNull(e.After),
	}

	if err := database.DB.Create(&row).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"entity_type": e.EntityType,
			"entity_id":   e.EntityID,
			"action":      e.Action,
		}).Error("could not write audit log")
	}
}

func marshalOrNull(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
