package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/williamkasasa/hackathon-seaweed/internal/catalog"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
	"github.com/williamkasasa/hackathon-seaweed/pkg/metrics"
)

// Dispatcher executes a single named tool call against the catalog. Every
// execution returns a well-formed JSON string; collaborator failures are
// absorbed into an {"error": ...} payload and never propagate.
type Dispatcher struct {
	catalog catalog.Store
	logger  *logger.Logger
}

// NewDispatcher creates a tool dispatcher.
func NewDispatcher(store catalog.Store, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		catalog: store,
		logger:  log,
	}
}

type addToCartArgs struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type showProductArgs struct {
	ProductID string `json:"product_id"`
}

// Execute runs one tool call. rawArgs is the JSON-encoded argument string as
// the model emitted it; an empty string is treated as an empty object.
func (d *Dispatcher) Execute(ctx context.Context, name, rawArgs string) string {
	result := d.execute(ctx, name, rawArgs)

	status := "ok"
	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(result), &probe) == nil && probe.Error != "" {
		status = "error"
	}
	metrics.RecordToolExecution(name, status)

	return result
}

func (d *Dispatcher) execute(ctx context.Context, name, rawArgs string) string {
	if rawArgs == "" {
		rawArgs = "{}"
	}

	switch name {
	case NameListProducts:
		products, err := d.catalog.List(ctx)
		if err != nil {
			d.logger.Error("failed to fetch products")
			return errorResult("Failed to fetch products")
		}
		if products == nil {
			// An empty catalog is a valid result, not an error.
			products = []model.Product{}
		}
		return mustMarshal(products)

	case NameShowProductDetails:
		var args showProductArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return errorResult("Invalid arguments")
		}
		product, err := d.catalog.Get(ctx, args.ProductID)
		if err != nil {
			if !errors.Is(err, catalog.ErrProductNotFound) {
				d.logger.Error("failed to fetch product details")
				return errorResult("Failed to fetch product details")
			}
			return errorResult("Product not found")
		}
		return mustMarshal(map[string]any{"product": product})

	case NameAddToCart:
		var args addToCartArgs
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return errorResult("Invalid arguments")
		}
		quantity := int(args.Quantity)
		if quantity <= 0 {
			quantity = 1
		}
		return mustMarshal(map[string]any{
			"success":    true,
			"message":    fmt.Sprintf("Added product %s (quantity: %d) to cart", args.ProductID, quantity),
			"action":     ActionAddToCart,
			"product_id": args.ProductID,
			"quantity":   quantity,
		})

	case NameStartCheckout:
		return mustMarshal(map[string]any{
			"success": true,
			"message": "Starting checkout process",
			"action":  ActionStartCheckout,
		})

	default:
		return errorResult("Unknown tool")
	}
}

func errorResult(reason string) string {
	return mustMarshal(map[string]string{"error": reason})
}

// mustMarshal encodes v, falling back to a generic error payload if the
// value itself cannot be encoded. The orchestrator relies on every tool
// result being parseable JSON.
func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{"error":"failed to encode tool result"}`
	}
	return string(b)
}
