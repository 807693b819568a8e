// Package handler exposes the storefront HTTP endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/williamkasasa/hackathon-seaweed/internal/events"
	"github.com/williamkasasa/hackathon-seaweed/internal/middleware"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
)

// ChatRunner runs one orchestrated chat turn.
type ChatRunner interface {
	Run(ctx context.Context, messages []model.ChatMessage) (*model.AssistantReply, error)
}

// ChatHandler handles the conversational assistant endpoint.
type ChatHandler struct {
	runner    ChatRunner
	publisher events.Publisher
	logger    *logger.Logger
}

// NewChatHandler creates a new chat handler. publisher may be nil.
func NewChatHandler(runner ChatRunner, publisher events.Publisher, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		runner:    runner,
		publisher: publisher,
		logger:    log,
	}
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateChatMessages(req.Messages); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.runner.Run(ctx, req.Messages)
	if err != nil {
		h.logger.Error("chat turn failed")
		status, message := classifyChatError(err)
		writeError(w, status, message)
		return
	}

	if h.publisher != nil {
		if pubErr := h.publisher.PublishChatTurn(ctx, reply); pubErr != nil {
			h.logger.Warn("failed to publish chat turn event")
		}
	}

	writeJSON(w, http.StatusOK, reply)
}

// classifyChatError maps upstream gateway failures to a transport-level
// status: rate limited, unavailable, or generic.
func classifyChatError(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return http.StatusTooManyRequests, "assistant is rate limited, try again shortly"
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return http.StatusBadGateway, "assistant is temporarily unavailable"
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadGateway, "assistant is temporarily unavailable"
	}

	return http.StatusInternalServerError, "failed to process chat request"
}
