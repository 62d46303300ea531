package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adjeikofi/cropdoc"
)

// chatTimeout allows for model latency, which far exceeds database calls.
const chatTimeout = 30 * time.Second

// ChatRequest carries a crop-care conversation to the model.
type ChatRequest struct {
	Messages []ChatMessageParam `json:"messages" validate:"required,min=1,max=50,dive"`
}

// ChatMessageParam is one turn of the conversation.
type ChatMessageParam struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

func (s *Server) handleChat(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), chatTimeout)
	defer cancel()

	var req ChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	messages := make([]cropdoc.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = cropdoc.ChatMessage{Role: m.Role, Content: m.Content}
	}

	reply, err := s.aiService.Chat(ctx, messages)
	if err != nil {
		return err
	}

	return RespondOK(c, reply)
}
