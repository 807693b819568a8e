package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CheckoutStatus is the lifecycle status of a checkout session.
type CheckoutStatus string

const (
	StatusNotReadyForPayment CheckoutStatus = "not_ready_for_payment"
	StatusReadyForPayment    CheckoutStatus = "ready_for_payment"
	StatusCompleted          CheckoutStatus = "completed"
	StatusCanceled           CheckoutStatus = "canceled"
)

// Total types, in the order they appear in a session's totals list.
const (
	TotalTypeSubtotal    = "subtotal"
	TotalTypeFulfillment = "fulfillment"
	TotalTypeTax         = "tax"
	TotalTypeTotal       = "total"
)

// Buyer identifies the purchaser on a checkout session.
type Buyer struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Address is a fulfillment or billing address.
type Address struct {
	Name       string `json:"name"`
	LineOne    string `json:"line_one"`
	LineTwo    string `json:"line_two,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// FulfillmentOption is a selectable shipping method. Amount is the shipping
// cost in minor units. External collaborators send the cost under varying
// keys ("amount", "total", "subtotal") as either a number or a string;
// UnmarshalJSON coalesces them so the ambiguity never reaches core logic.
type FulfillmentOption struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Subtitle    string `json:"subtitle,omitempty"`
	Carrier     string `json:"carrier,omitempty"`
	Amount      int64  `json:"amount"`
}

// UnmarshalJSON normalizes loosely shaped option payloads into the canonical
// form at the boundary.
func (f *FulfillmentOption) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"id"`
		DisplayName string          `json:"display_name"`
		Title       string          `json:"title"`
		Subtitle    string          `json:"subtitle"`
		Carrier     string          `json:"carrier"`
		Amount      json.RawMessage `json:"amount"`
		Total       json.RawMessage `json:"total"`
		Subtotal    json.RawMessage `json:"subtotal"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.ID = raw.ID
	f.DisplayName = raw.DisplayName
	if f.DisplayName == "" {
		f.DisplayName = raw.Title
	}
	f.Subtitle = raw.Subtitle
	f.Carrier = raw.Carrier

	for _, candidate := range []json.RawMessage{raw.Amount, raw.Total, raw.Subtotal} {
		if len(candidate) == 0 {
			continue
		}
		amount, ok := coerceAmount(candidate)
		if !ok {
			continue
		}
		f.Amount = amount
		return nil
	}
	f.Amount = 0
	return nil
}

// coerceAmount parses a JSON number or a numeric string into minor units.
func coerceAmount(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// LineItem is one priced entry of a checkout session. All amounts are
// integer minor units; Total == Subtotal - Discount + Tax.
type LineItem struct {
	ID         string   `json:"id"`
	Item       CartItem `json:"item"`
	BaseAmount int64    `json:"base_amount"`
	Discount   int64    `json:"discount"`
	Subtotal   int64    `json:"subtotal"`
	Tax        int64    `json:"tax"`
	Total      int64    `json:"total"`
}

// Total is one keyed entry of a session's totals breakdown.
type Total struct {
	Type        string `json:"type"`
	DisplayText string `json:"display_text"`
	Amount      int64  `json:"amount"`
}

// Link is a hyperlink attached to a checkout session.
type Link struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PaymentProvider describes the payment capability attached to a session.
type PaymentProvider struct {
	Provider                string   `json:"provider"`
	SupportedPaymentMethods []string `json:"supported_payment_methods"`
}

// CheckoutSession is a server-side record of an in-progress order.
type CheckoutSession struct {
	ID                  string              `json:"id"`
	Buyer               *Buyer              `json:"buyer,omitempty"`
	PaymentProvider     *PaymentProvider    `json:"payment_provider,omitempty"`
	Status              CheckoutStatus      `json:"status"`
	Currency            string              `json:"currency"`
	LineItems           []LineItem          `json:"line_items"`
	FulfillmentAddress  *Address            `json:"fulfillment_address,omitempty"`
	FulfillmentOptions  []FulfillmentOption `json:"fulfillment_options"`
	FulfillmentOptionID string              `json:"fulfillment_option_id,omitempty"`
	Totals              []Total             `json:"totals"`
	Messages            []string            `json:"messages"`
	Links               []Link              `json:"links"`
	Order               *OrderReference     `json:"order,omitempty"`
}

// OrderReference links a completed session to its placed order.
type OrderReference struct {
	ID           string `json:"id"`
	ChargeID     string `json:"charge_id,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

// TotalAmount returns the amount recorded under the given totals type.
func (s *CheckoutSession) TotalAmount(totalType string) int64 {
	for _, t := range s.Totals {
		if t.Type == totalType {
			return t.Amount
		}
	}
	return 0
}

// FindFulfillmentOption returns the option with the given id, if present.
func (s *CheckoutSession) FindFulfillmentOption(id string) (FulfillmentOption, bool) {
	for _, opt := range s.FulfillmentOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return FulfillmentOption{}, false
}

// CreateCheckoutRequest is the request to create a checkout session.
type CreateCheckoutRequest struct {
	Items              []CartItem `json:"items"`
	Buyer              *Buyer     `json:"buyer,omitempty"`
	FulfillmentAddress *Address   `json:"fulfillment_address,omitempty"`
}

// UpdateCheckoutRequest is the request to change a session's shipping choice.
type UpdateCheckoutRequest struct {
	FulfillmentOptionID string `json:"fulfillment_option_id"`
}

// CompleteCheckoutRequest is the request to finalize payment for a session.
type CompleteCheckoutRequest struct {
	PaymentToken    string `json:"payment_token"`
	PaymentProvider string `json:"payment_provider,omitempty"`
}
