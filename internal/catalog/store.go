// Package catalog provides read access to the product catalog.
package catalog

import (
	"context"
	"errors"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
)

// ErrProductNotFound is returned when a product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// Store is the read-only product catalog backing the tool dispatcher and
// the checkout engine.
type Store interface {
	// List returns the full catalog ordered by product name.
	List(ctx context.Context) ([]model.Product, error)

	// Get returns one product by id, or ErrProductNotFound.
	Get(ctx context.Context, id string) (*model.Product, error)
}
