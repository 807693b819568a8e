package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
)

// ValidateChatMessages validates an incoming chat history.
func ValidateChatMessages(messages []model.ChatMessage) error {
	if len(messages) == 0 {
		return errors.New("messages cannot be empty")
	}
	if len(messages) > 100 {
		return errors.New("message history exceeds maximum length")
	}
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleUser, model.RoleAssistant:
		default:
			return errors.New("message role must be user or assistant")
		}
		if err := ValidateMessageContent(msg.Content); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateProductID validates a catalog product id.
func ValidateProductID(id string) error {
	if id == "" {
		return errors.New("product ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("product ID exceeds maximum length")
	}
	return nil
}

// ValidateCheckoutID validates a checkout session id.
func ValidateCheckoutID(id string) error {
	if !strings.HasPrefix(id, "checkout_") {
		return errors.New("invalid checkout ID format")
	}
	if len(id) > 64 {
		return errors.New("checkout ID exceeds maximum length")
	}
	return nil
}
