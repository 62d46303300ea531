package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adjeikofi/cropdoc"
)

// mockAIService is a mock implementation for development and testing
type mockAIService struct {
	logger *slog.Logger
}

// newMockAIService creates a new mock AI service
func newMockAIService(logger *slog.Logger) *mockAIService {
	return &mockAIService{
		logger: logger,
	}
}

// DiagnoseCrop returns a canned diagnosis for testing
func (s *mockAIService) DiagnoseCrop(ctx context.Context, req cropdoc.DiagnosisRequest) (*cropdoc.DiagnosisResult, error) {
	s.logger.Info("🤖 MOCK AI: Diagnosing crop",
		slog.String("plant_type", string(req.PlantType)),
		slog.Int("image_bytes", len(req.ImageData)),
	)

	if len(req.ImageData) == 0 {
		return nil, cropdoc.Invalid("Image data is required for diagnosis")
	}

	text := fmt.Sprintf(
		"The %s plant in this photo appears healthy. Leaves show normal coloration with no visible lesions, "+
			"spotting, or wilting. Continue regular watering and monitor new growth for early signs of disease. "+
			"This is simulated output for testing purposes.",
		req.PlantType,
	)

	return &cropdoc.DiagnosisResult{
		Text:       text,
		TokensUsed: 0,
	}, nil
}

// Chat returns a canned reply for testing
func (s *mockAIService) Chat(ctx context.Context, messages []cropdoc.ChatMessage) (*cropdoc.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, cropdoc.Invalid("At least one message is required")
	}

	s.logger.Info("🤖 MOCK AI: Chat",
		slog.Int("messages", len(messages)),
	)

	return &cropdoc.ChatMessage{
		Role:    "assistant",
		Content: "I can help with crop diseases, their symptoms, and treatment. This is simulated output for testing purposes.",
	}, nil
}
