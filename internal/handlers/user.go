package handlers

import (
	"log"
	"strconv"

	"vibecode/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves per-user aggregates from the memory store.
type UserHandler struct {
	store *services.ContextMemoryStore
}

// NewUserHandler creates a new user handler
func NewUserHandler(store *services.ContextMemoryStore) *UserHandler {
	return &UserHandler{store: store}
}

// Statistics returns session counts, word totals and recent activity for one
// user.
func (h *UserHandler) Statistics(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userID is required",
		})
	}

	stats, err := h.store.GetUserStatistics(c.Context(), userID)
	if err != nil {
		log.Printf("❌ [USER-API] Failed to load statistics for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load user statistics",
		})
	}

	return c.JSON(stats)
}

// RecentSessions returns session summaries for the trailing window.
func (h *UserHandler) RecentSessions(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userID is required",
		})
	}

	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must be a positive integer",
		})
	}

	sessions, err := h.store.GetRecentSessions(c.Context(), userID, days)
	if err != nil {
		log.Printf("❌ [USER-API] Failed to load sessions for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recent sessions",
		})
	}

	return c.JSON(fiber.Map{
		"user_id":  userID,
		"days":     days,
		"sessions": sessions,
	})
}
