// Package checkout implements the checkout session lifecycle: creation from
// cart items, shipping recalculation and payment completion.
package checkout

import (
	"context"
	"errors"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
)

// ErrSessionNotFound is returned when a checkout id does not exist.
var ErrSessionNotFound = errors.New("checkout session not found")

// Store is the injectable key-value store holding checkout sessions. The
// session id is the only external handle; no enumeration is offered.
type Store interface {
	Get(ctx context.Context, id string) (*model.CheckoutSession, error)
	Put(ctx context.Context, session *model.CheckoutSession) error
	Delete(ctx context.Context, id string) error
}
