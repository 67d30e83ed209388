package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"vibecode/internal/services"
	"vibecode/internal/transcription"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// VoiceHandler accepts author utterances as text or audio, runs them through
// the voice pipeline and the synthesis engine, and returns the fused context.
type VoiceHandler struct {
	processor        *services.VoiceInputProcessor
	engine           *services.ContextSynthesisEngine
	maxAudioUploadMB int
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(processor *services.VoiceInputProcessor, engine *services.ContextSynthesisEngine, maxAudioUploadMB int) *VoiceHandler {
	return &VoiceHandler{
		processor:        processor,
		engine:           engine,
		maxAudioUploadMB: maxAudioUploadMB,
	}
}

type textInputRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// ProcessText handles transcribed or typed utterances.
func (h *VoiceHandler) ProcessText(c *fiber.Ctx) error {
	var req textInputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.UserID == "" || strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and text are required",
		})
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	input := h.processor.ProcessText(req.Text, req.SessionID, req.UserID)
	synthesized := h.engine.SynthesizeContext(c.Context(), req.UserID, input)

	return c.JSON(fiber.Map{
		"voice_input": input,
		"context":     synthesized,
	})
}

// ProcessAudio handles multipart audio uploads: transcription, voice
// characteristic extraction, then synthesis.
func (h *VoiceHandler) ProcessAudio(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("❌ [VOICE-API] No file uploaded: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No audio file uploaded",
		})
	}

	maxBytes := int64(h.maxAudioUploadMB) * 1024 * 1024
	if file.Size > maxBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Audio file too large. Maximum size is %dMB", h.maxAudioUploadMB),
		})
	}

	if mimeType := file.Header.Get("Content-Type"); mimeType != "" && !transcription.IsSupportedFormat(mimeType) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": fmt.Sprintf("Unsupported audio format %q", mimeType),
		})
	}

	userID := c.FormValue("user_id", "")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}
	sessionID := c.FormValue("session_id", "")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	language := c.FormValue("language", "")

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".webm" // default extension for browser recordings
	}
	tempFile := filepath.Join(os.TempDir(), fmt.Sprintf("voice_%s%s", uuid.New().String(), ext))
	if err := c.SaveFile(file, tempFile); err != nil {
		log.Printf("❌ [VOICE-API] Failed to save temp file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process audio file",
		})
	}
	defer os.Remove(tempFile)

	log.Printf("🎵 [VOICE-API] Processing audio: %s (%d bytes)", file.Filename, file.Size)
	input := h.processor.Process(c.Context(), tempFile, sessionID, userID, language)
	synthesized := h.engine.SynthesizeContext(c.Context(), userID, input)

	return c.JSON(fiber.Map{
		"voice_input": input,
		"context":     synthesized,
	})
}
