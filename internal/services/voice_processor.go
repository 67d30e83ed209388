package services

import (
	"context"
	"log"
	"time"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"
	"vibecode/internal/transcription"

	"github.com/google/uuid"
)

// VoiceInputProcessor turns raw audio or text into a structured VoiceInput.
// Processing is a pure function over its inputs; persistence happens in the
// caller. Failures never propagate — they degrade to an empty, low-confidence
// input with the explore_ideas intent.
type VoiceInputProcessor struct {
	transcriber transcription.Transcriber
	extractor   *VoiceCharacteristicsExtractor
	intents     *IntentClassifier
	emotions    *EmotionAnalyzer
	metrics     *Metrics
}

// NewVoiceInputProcessor wires the full voice pipeline. The transcriber may
// be nil for text-only deployments.
func NewVoiceInputProcessor(transcriber transcription.Transcriber, tables *heuristics.Registry, metrics *Metrics) *VoiceInputProcessor {
	return &VoiceInputProcessor{
		transcriber: transcriber,
		extractor:   NewVoiceCharacteristicsExtractor(tables),
		intents:     NewIntentClassifier(tables),
		emotions:    NewEmotionAnalyzer(tables),
		metrics:     metrics,
	}
}

// Process transcribes the recorded audio and runs the full pipeline.
func (p *VoiceInputProcessor) Process(ctx context.Context, audioPath, sessionID, userID, language string) *models.VoiceInput {
	if p.transcriber == nil {
		log.Printf("⚠️  [VOICE] No transcriber configured, degrading to empty input")
		return p.degraded(sessionID, userID)
	}

	result, err := p.transcriber.Transcribe(ctx, audioPath, language)
	if err != nil {
		if p.metrics != nil {
			p.metrics.Transcriptions.WithLabelValues("error").Inc()
		}
		log.Printf("⚠️  [VOICE] Transcription failed, degrading to empty input: %v", err)
		return p.degraded(sessionID, userID)
	}
	if p.metrics != nil {
		p.metrics.Transcriptions.WithLabelValues("ok").Inc()
	}

	return p.build(result.Text, result.Confidence, result.Analysis, sessionID, userID)
}

// ProcessText is the text-only fallback. Transcription confidence is fixed at
// 1.0 and the voice analysis is neutral.
func (p *VoiceInputProcessor) ProcessText(text, sessionID, userID string) *models.VoiceInput {
	return p.build(text, 1.0, transcription.DefaultAnalysis(), sessionID, userID)
}

func (p *VoiceInputProcessor) build(text string, confidence float64, analysis transcription.AudioAnalysis, sessionID, userID string) *models.VoiceInput {
	vc := p.extractor.Extract(text, analysis)
	intent, intentConfidence := p.intents.Classify(text, vc)
	emotions := p.emotions.Analyze(text, vc, analysis)

	if p.metrics != nil {
		p.metrics.VoiceInputs.WithLabelValues(string(intent)).Inc()
	}
	log.Printf("🎙️  [VOICE] Processed input: intent=%s (%.2f) emotion=%s mood=%s",
		intent, intentConfidence, emotions.PrimaryEmotion, emotions.Mood)

	return &models.VoiceInput{
		InputID:              uuid.New().String(),
		SessionID:            sessionID,
		UserID:               userID,
		Text:                 text,
		Confidence:           models.Clamp01(confidence),
		Intent:               intent,
		IntentConfidence:     intentConfidence,
		Emotions:             emotions,
		VoiceCharacteristics: vc,
		Timestamp:            time.Now().UTC(),
	}
}

// degraded is the documented fallback input for transcription failures.
func (p *VoiceInputProcessor) degraded(sessionID, userID string) *models.VoiceInput {
	return &models.VoiceInput{
		InputID:    uuid.New().String(),
		SessionID:  sessionID,
		UserID:     userID,
		Text:       "",
		Confidence: 0.1,
		Intent:     models.IntentExploreIdeas,
		Emotions: models.EmotionProfile{
			PrimaryEmotion: models.EmotionNeutral,
			Mood:           models.MoodFocused,
			EnergyLevel:    0.5,
		},
		VoiceCharacteristics: models.DefaultVoiceCharacteristics(),
		Timestamp:            time.Now().UTC(),
	}
}
