// Package ai provides cropdoc.AIService implementations.
package ai

import (
	"log/slog"

	"github.com/adjeikofi/cropdoc"
)

// NewAIService creates an AI service based on the provider configuration.
func NewAIService(logger *slog.Logger, config cropdoc.AIConfig) cropdoc.AIService {
	switch config.Provider {
	case "claude":
		return newClaudeService(logger, config)
	default:
		return newMockAIService(logger)
	}
}
