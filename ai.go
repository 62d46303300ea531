package cropdoc

import "context"

// AIService defines operations against the generative-AI backend.
type AIService interface {
	// DiagnoseCrop analyzes a cropped plant image and returns a plain-text
	// diagnosis of its health.
	DiagnoseCrop(ctx context.Context, req DiagnosisRequest) (*DiagnosisResult, error)

	// Chat relays a conversation to the model and returns the assistant's
	// reply. The conversation content is passed through untouched.
	Chat(ctx context.Context, messages []ChatMessage) (*ChatMessage, error)
}

// DiagnosisRequest carries one image to the diagnosis model.
type DiagnosisRequest struct {
	// ImageData is the JPEG-encoded cropped image.
	ImageData []byte

	// PlantType narrows the diagnosis to the submitted category.
	PlantType PlantCategory

	// ImageName is the user's display name for the image.
	ImageName string
}

// DiagnosisResult is the model's verdict on a single image.
type DiagnosisResult struct {
	// Text is the diagnosis body written to the artifact.
	Text string `json:"text"`

	// TokensUsed tracks API usage, when the provider reports it.
	TokensUsed int `json:"tokensUsed,omitempty"`
}

// ChatMessage is one turn of an AI chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AIConfig holds configuration for AI services.
type AIConfig struct {
	// Provider is the AI provider ("mock" or "claude").
	Provider string

	// Claude-specific configuration
	ClaudeAPIKey string
	ClaudeModel  string

	MaxTokens   int
	Temperature float64
}

// DefaultAIConfig returns the default AI configuration.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Provider:    "mock",
		ClaudeModel: "claude-sonnet-4-20250514",
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}
