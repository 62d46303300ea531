package mock

import (
	"context"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.AIService = (*AIService)(nil)

// AIService is a mock implementation of cropdoc.AIService.
type AIService struct {
	DiagnoseCropFn func(ctx context.Context, req cropdoc.DiagnosisRequest) (*cropdoc.DiagnosisResult, error)
	ChatFn         func(ctx context.Context, messages []cropdoc.ChatMessage) (*cropdoc.ChatMessage, error)
}

func (s *AIService) DiagnoseCrop(ctx context.Context, req cropdoc.DiagnosisRequest) (*cropdoc.DiagnosisResult, error) {
	if s.DiagnoseCropFn != nil {
		return s.DiagnoseCropFn(ctx, req)
	}
	return &cropdoc.DiagnosisResult{Text: "The plant appears healthy."}, nil
}

func (s *AIService) Chat(ctx context.Context, messages []cropdoc.ChatMessage) (*cropdoc.ChatMessage, error) {
	if s.ChatFn != nil {
		return s.ChatFn(ctx, messages)
	}
	return &cropdoc.ChatMessage{Role: "assistant", Content: "mock reply"}, nil
}
