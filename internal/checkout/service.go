package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/williamkasasa/hackathon-seaweed/internal/catalog"
	"github.com/williamkasasa/hackathon-seaweed/internal/events"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/internal/payment"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
	"github.com/williamkasasa/hackathon-seaweed/pkg/metrics"
)

var (
	// ErrEmptyCart is returned when a session is created without items.
	ErrEmptyCart = errors.New("checkout requires at least one item")

	// ErrOutOfStock is returned when a requested item has no stock left.
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrUnknownFulfillmentOption is returned when an update names an
	// option that is not on the session.
	ErrUnknownFulfillmentOption = errors.New("unknown fulfillment option")

	// ErrSessionNotPayable is returned when completing a session that is
	// not awaiting payment, including one that already completed. Stale
	// payment tokens cannot double-charge.
	ErrSessionNotPayable = errors.New("checkout session is not awaiting payment")

	// ErrPaymentTokenRequired is returned when completion lacks a token.
	ErrPaymentTokenRequired = errors.New("payment token is required")
)

const defaultPaymentProvider = "stripe"

// PaymentExchanger performs the two-step token exchange during completion.
type PaymentExchanger interface {
	IssueToken(ctx context.Context, req payment.TokenRequest) (string, error)
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

// Service owns the checkout session lifecycle. Sessions have a single
// logical owner for their short lifetime, so operations on one id are
// assumed not to race.
type Service struct {
	store     Store
	catalog   catalog.Store
	payments  PaymentExchanger
	publisher events.Publisher
	logger    *logger.Logger
	currency  string
	now       func() time.Time
}

// NewService creates a checkout service. publisher may be nil.
func NewService(store Store, cat catalog.Store, payments PaymentExchanger, publisher events.Publisher, currency string, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		catalog:   cat,
		payments:  payments,
		publisher: publisher,
		logger:    log,
		currency:  currency,
		now:       time.Now,
	}
}

// defaultFulfillmentOptions returns the selectable shipping methods and
// their costs in minor units.
func defaultFulfillmentOptions() []model.FulfillmentOption {
	return []model.FulfillmentOption{
		{
			ID:          "shipping_standard",
			DisplayName: "Standard Shipping",
			Subtitle:    "5-7 business days",
			Carrier:     "USPS",
			Amount:      300,
		},
		{
			ID:          "shipping_fast",
			DisplayName: "Express Shipping",
			Subtitle:    "2-3 business days",
			Carrier:     "FedEx",
			Amount:      500,
		},
		{
			ID:          "shipping_overnight",
			DisplayName: "Overnight Shipping",
			Subtitle:    "Next business day",
			Carrier:     "FedEx",
			Amount:      800,
		},
	}
}

// Create builds a new checkout session from cart items, pricing line items
// at current catalog prices and selecting the default shipping option.
func (s *Service) Create(ctx context.Context, req *model.CreateCheckoutRequest) (*model.CheckoutSession, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]model.LineItem, 0, len(req.Items))
	var subtotal int64
	for _, item := range req.Items {
		product, err := s.catalog.Get(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ID, err)
		}

		quantity := item.ClampQuantity(product.Stock)
		if quantity == 0 {
			return nil, fmt.Errorf("product %s: %w", item.ID, ErrOutOfStock)
		}

		baseAmount := product.Price * int64(quantity)
		lineItems = append(lineItems, model.LineItem{
			ID:         item.ID,
			Item:       model.CartItem{ID: item.ID, Quantity: quantity},
			BaseAmount: baseAmount,
			Discount:   0,
			Subtotal:   baseAmount,
			Tax:        0,
			Total:      baseAmount,
		})
		subtotal += baseAmount
	}

	options := defaultFulfillmentOptions()
	selected := options[0]

	session := &model.CheckoutSession{
		ID:    newCheckoutID(s.now()),
		Buyer: req.Buyer,
		PaymentProvider: &model.PaymentProvider{
			Provider:                defaultPaymentProvider,
			SupportedPaymentMethods: []string{"card"},
		},
		Status:              model.StatusReadyForPayment,
		Currency:            s.currency,
		LineItems:           lineItems,
		FulfillmentAddress:  req.FulfillmentAddress,
		FulfillmentOptions:  options,
		FulfillmentOptionID: selected.ID,
		Totals:              buildTotals(subtotal, selected.Amount, 0),
		Messages:            []string{},
		Links: []model.Link{
			{Type: "terms_of_use", URL: "https://example.com/terms"},
			{Type: "privacy_policy", URL: "https://example.com/privacy"},
		},
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	metrics.CheckoutSessionsTotal.Inc()
	s.logger.Info("checkout session created",
		zap.String("checkout_id", session.ID),
		zap.Int("line_items", len(session.LineItems)),
		zap.Int64("total", session.TotalAmount(model.TotalTypeTotal)),
	)
	return session, nil
}

// Get returns a session by id.
func (s *Service) Get(ctx context.Context, id string) (*model.CheckoutSession, error) {
	return s.store.Get(ctx, id)
}

// UpdateShipping changes the selected fulfillment option and recomputes the
// totals, holding subtotal and tax constant. An unknown option id fails
// without mutating the session.
func (s *Service) UpdateShipping(ctx context.Context, id, fulfillmentOptionID string) (*model.CheckoutSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	option, ok := session.FindFulfillmentOption(fulfillmentOptionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFulfillmentOption, fulfillmentOptionID)
	}

	session.FulfillmentOptionID = option.ID
	session.Totals = buildTotals(
		session.TotalAmount(model.TotalTypeSubtotal),
		option.Amount,
		session.TotalAmount(model.TotalTypeTax),
	)

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("checkout shipping updated",
		zap.String("checkout_id", session.ID),
		zap.String("fulfillment_option_id", option.ID),
		zap.Int64("total", session.TotalAmount(model.TotalTypeTotal)),
	)
	return session, nil
}

// Complete finalizes payment for a session: it issues a constrained-use
// payment token scoped to the session's currency and total, redeems it as a
// charge, and only then marks the session completed. A failure at either
// step leaves the stored session exactly as it was, so the caller can retry.
func (s *Service) Complete(ctx context.Context, id, paymentToken, provider string) (*model.CheckoutSession, error) {
	if paymentToken == "" {
		return nil, ErrPaymentTokenRequired
	}
	if provider == "" {
		provider = defaultPaymentProvider
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusReadyForPayment {
		return nil, fmt.Errorf("%w: status %s", ErrSessionNotPayable, session.Status)
	}

	total := session.TotalAmount(model.TotalTypeTotal)

	sharedToken, err := s.payments.IssueToken(ctx, payment.TokenRequest{
		PaymentMethod: paymentToken,
		Currency:      session.Currency,
		MaxAmount:     total,
	})
	if err != nil {
		return nil, fmt.Errorf("payment token exchange failed: %w", err)
	}

	charge, err := s.payments.Charge(ctx, payment.ChargeRequest{
		Token:      sharedToken,
		Provider:   provider,
		CheckoutID: session.ID,
		Currency:   session.Currency,
		Amount:     total,
	})
	if err != nil {
		return nil, fmt.Errorf("charge failed: %w", err)
	}

	session.Status = model.StatusCompleted
	session.Order = &model.OrderReference{
		ID:       newOrderID(s.now()),
		ChargeID: charge.ID,
	}
	session.Messages = append(session.Messages, "Your order has been placed successfully.")

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store completed session: %w", err)
	}

	metrics.OrdersCompletedTotal.Inc()
	s.logger.Info("checkout completed",
		zap.String("checkout_id", session.ID),
		zap.String("order_id", session.Order.ID),
		zap.Int64("total", total),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCompleted(ctx, session); err != nil {
			// The order is placed; event delivery failure is not fatal.
			s.logger.Warn("failed to publish order completed event",
				zap.String("checkout_id", session.ID),
			)
		}
	}

	return session, nil
}

// buildTotals assembles the ordered totals list; the total line is always
// the exact integer sum of the other three.
func buildTotals(subtotal, fulfillment, tax int64) []model.Total {
	return []model.Total{
		{Type: model.TotalTypeSubtotal, DisplayText: "Subtotal", Amount: subtotal},
		{Type: model.TotalTypeFulfillment, DisplayText: "Shipping", Amount: fulfillment},
		{Type: model.TotalTypeTax, DisplayText: "Tax", Amount: tax},
		{Type: model.TotalTypeTotal, DisplayText: "Total", Amount: subtotal + fulfillment + tax},
	}
}

// newCheckoutID builds an opaque session id. Timestamp plus random suffix
// keeps collision probability negligible for a session's short lifetime.
func newCheckoutID(now time.Time) string {
	return fmt.Sprintf("checkout_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func newOrderID(now time.Time) string {
	return fmt.Sprintf("order_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// cloneSession deep-copies a session through its JSON form.
func cloneSession(session *model.CheckoutSession) (*model.CheckoutSession, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to clone session: %w", err)
	}
	var clone model.CheckoutSession
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone session: %w", err)
	}
	return &clone, nil
}
