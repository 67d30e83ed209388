package handlers

import (
	"strings"
	"time"

	"vibecode/internal/models"
	"vibecode/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SynthesisHandler exposes context synthesis over an already-classified
// voice input, for callers that run their own transcription.
type SynthesisHandler struct {
	engine *services.ContextSynthesisEngine
}

// NewSynthesisHandler creates a new synthesis handler
func NewSynthesisHandler(engine *services.ContextSynthesisEngine) *SynthesisHandler {
	return &SynthesisHandler{engine: engine}
}

type synthesizeRequest struct {
	UserID     string             `json:"user_id"`
	VoiceInput *models.VoiceInput `json:"voice_input"`
}

// Synthesize runs the four-layer fusion and returns the synthesized context
// with its summary projection.
func (h *SynthesisHandler) Synthesize(c *fiber.Ctx) error {
	var req synthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.UserID == "" || req.VoiceInput == nil || strings.TrimSpace(req.VoiceInput.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and voice_input.text are required",
		})
	}

	if req.VoiceInput.InputID == "" {
		req.VoiceInput.InputID = uuid.New().String()
	}
	if req.VoiceInput.SessionID == "" {
		req.VoiceInput.SessionID = uuid.New().String()
	}
	if req.VoiceInput.Timestamp.IsZero() {
		req.VoiceInput.Timestamp = time.Now().UTC()
	}
	if req.VoiceInput.Intent == "" {
		req.VoiceInput.Intent = models.IntentExploreIdeas
	}

	synthesized := h.engine.SynthesizeContext(c.Context(), req.UserID, req.VoiceInput)

	return c.JSON(fiber.Map{
		"context": synthesized,
		"summary": synthesized.GetPrimaryContextSummary(),
	})
}
