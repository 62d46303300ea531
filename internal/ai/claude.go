package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/adjeikofi/cropdoc"
)

// claudeService implements cropdoc.AIService using Claude (Anthropic)
type claudeService struct {
	client      *anthropic.Client
	logger      *slog.Logger
	model       string
	maxTokens   int
	temperature float64
}

// newClaudeService creates a new Claude AI service
func newClaudeService(logger *slog.Logger, config cropdoc.AIConfig) *claudeService {
	client := anthropic.NewClient(
		option.WithAPIKey(config.ClaudeAPIKey),
	)

	return &claudeService{
		client:      &client,
		logger:      logger,
		model:       config.ClaudeModel,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
	}
}

// DiagnoseCrop analyzes a cropped plant image using Claude's vision API.
func (s *claudeService) DiagnoseCrop(ctx context.Context, req cropdoc.DiagnosisRequest) (*cropdoc.DiagnosisResult, error) {
	if len(req.ImageData) == 0 {
		return nil, cropdoc.Invalid("Image data is required for diagnosis")
	}

	s.logger.Info("diagnosing crop with Claude",
		slog.String("model", s.model),
		slog.String("plant_type", string(req.PlantType)),
		slog.Int("image_bytes", len(req.ImageData)))

	base64Image := base64.StdEncoding.EncodeToString(req.ImageData)

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System: []anthropic.TextBlockParam{
			{
				Text: diagnosisSystemPrompt,
			},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(s.buildDiagnosisPrompt(req)),
				anthropic.NewImageBlockBase64(cropdoc.ImageContentType, base64Image),
			),
		},
		Temperature: anthropic.Float(s.temperature),
	})
	if err != nil {
		s.logger.Error("failed to diagnose crop with Claude",
			slog.String("error", err.Error()))
		return nil, cropdoc.Unavailable("Diagnosis model request failed", err)
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}

	s.logger.Info("Claude diagnosis complete",
		slog.Int("input_tokens", int(message.Usage.InputTokens)),
		slog.Int("output_tokens", int(message.Usage.OutputTokens)))

	return &cropdoc.DiagnosisResult{
		Text:       strings.TrimSpace(responseText),
		TokensUsed: int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}, nil
}

// Chat relays a crop-care conversation to the model.
func (s *claudeService) Chat(ctx context.Context, messages []cropdoc.ChatMessage) (*cropdoc.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, cropdoc.Invalid("At least one message is required")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System: []anthropic.TextBlockParam{
			{
				Text: chatSystemPrompt,
			},
		},
		Temperature: anthropic.Float(s.temperature),
	}

	for _, msg := range messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == "assistant" {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	message, err := s.client.Messages.New(ctx, params)
	if err != nil {
		s.logger.Error("failed to chat with Claude",
			slog.String("error", err.Error()))
		return nil, cropdoc.Unavailable("Chat model request failed", err)
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}

	return &cropdoc.ChatMessage{
		Role:    "assistant",
		Content: strings.TrimSpace(responseText),
	}, nil
}

const diagnosisSystemPrompt = `You are an expert plant pathologist. You analyze photos of crops and diagnose their health.

For each photo, provide:
1. Whether the plant appears healthy or diseased
2. The most likely disease, if any, with the symptoms you observed
3. Probable causes
4. Practical treatment and prevention steps a grower can take

Write plain text a farmer can read aloud. Do not use markdown formatting. If the photo does not show a plant, say so plainly.`

const chatSystemPrompt = `You are an expert in crop disease diagnosis. Your job is to answer questions specifically related to identifying crop diseases, their symptoms, causes, and how to treat or prevent them. You should not answer any questions that are unrelated to crops or plant care. If the question is not related to crops, kindly inform the user that you can only assist with crop-related issues. If they greet you, don't be rude about it.`

// buildDiagnosisPrompt creates the user prompt for one submission.
func (s *claudeService) buildDiagnosisPrompt(req cropdoc.DiagnosisRequest) string {
	prompt := "Please diagnose the health of the plant in this photo."

	if req.PlantType != "" && req.PlantType != cropdoc.PlantInvalid {
		prompt += fmt.Sprintf(" The grower identified it as: %s.", req.PlantType)
	}
	if req.ImageName != "" {
		prompt += fmt.Sprintf(" The grower labeled the photo %q.", req.ImageName)
	}

	return prompt
}
