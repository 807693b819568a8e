// Package tool declares the assistant's invocable tools and dispatches
// tool calls against the catalog.
package tool

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool names. This is a closed set: the dispatcher rejects anything else.
const (
	NameListProducts       = "list_products"
	NameShowProductDetails = "show_product_details"
	NameAddToCart          = "add_to_cart"
	NameStartCheckout      = "start_checkout"
)

// Frontend signaling actions carried in tool results. The server never
// mutates cart state; these tell the UI layer to do it.
const (
	ActionAddToCart     = "frontend_add_to_cart"
	ActionStartCheckout = "frontend_start_checkout"
)

// Definitions returns the fixed tool catalog advertised to the model.
func Definitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        NameListProducts,
				Description: "Fetch the product catalog from the seller",
				Parameters: jsonschema.Definition{
					Type:       jsonschema.Object,
					Properties: map[string]jsonschema.Definition{},
					Required:   []string{},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        NameShowProductDetails,
				Description: "Display detailed information about a specific product in a beautiful UI card. Use this when discussing a single product.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"product_id": {
							Type:        jsonschema.String,
							Description: "The ID of the product to show",
						},
					},
					Required: []string{"product_id"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        NameAddToCart,
				Description: "Signal the frontend to add an item to the cart",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"product_id": {
							Type:        jsonschema.String,
							Description: "The ID of the product to add",
						},
						"quantity": {
							Type:        jsonschema.Number,
							Description: "The quantity to add",
						},
					},
					Required: []string{"product_id"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        NameStartCheckout,
				Description: "Signal the frontend to initiate the checkout flow",
				Parameters: jsonschema.Definition{
					Type:       jsonschema.Object,
					Properties: map[string]jsonschema.Definition{},
					Required:   []string{},
				},
			},
		},
	}
}
