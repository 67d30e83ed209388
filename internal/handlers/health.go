package handlers

import (
	"time"

	"vibecode/internal/database"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	status := "healthy"
	schemaVersion := 0
	if h.db != nil {
		if v, err := h.db.SchemaVersion(); err == nil {
			schemaVersion = v
		} else {
			status = "degraded"
		}
	}

	return c.JSON(fiber.Map{
		"status":         status,
		"schema_version": schemaVersion,
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
