package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamkasasa/hackathon-seaweed/internal/catalog"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/internal/payment"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
)

// fakeExchanger scripts the two payment exchange steps.
type fakeExchanger struct {
	issueErr  error
	chargeErr error
	issued    []payment.TokenRequest
	charged   []payment.ChargeRequest
}

func (f *fakeExchanger) IssueToken(ctx context.Context, req payment.TokenRequest) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issued = append(f.issued, req)
	return "spt_test_123", nil
}

func (f *fakeExchanger) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	f.charged = append(f.charged, req)
	return &payment.ChargeResult{ID: "ch_test_456"}, nil
}

func newTestService(exchanger *fakeExchanger) *Service {
	store := catalog.NewMemoryStore([]model.Product{
		{ID: "kombu", Name: "Kombu Seaweed Sheets", Price: 4000, Stock: 10},
		{ID: "wakame", Name: "Wakame Salad Mix", Price: 1500, Stock: 3},
		{ID: "hijiki", Name: "Hijiki Strands", Price: 2200, Stock: 0},
	})
	return NewService(NewMemoryStore(), store, exchanger, nil, "usd", logger.NewNop())
}

func createKombuSession(t *testing.T, s *Service, quantity int) *model.CheckoutSession {
	t.Helper()
	session, err := s.Create(context.Background(), &model.CreateCheckoutRequest{
		Items: []model.CartItem{{ID: "kombu", Quantity: quantity}},
	})
	require.NoError(t, err)
	return session
}

func assertTotalsInvariant(t *testing.T, session *model.CheckoutSession) {
	t.Helper()
	sum := session.TotalAmount(model.TotalTypeSubtotal) +
		session.TotalAmount(model.TotalTypeFulfillment) +
		session.TotalAmount(model.TotalTypeTax)
	assert.Equal(t, sum, session.TotalAmount(model.TotalTypeTotal))
}

func TestCreateComputesTotals(t *testing.T) {
	s := newTestService(&fakeExchanger{})

	session := createKombuSession(t, s, 2)

	assert.True(t, strings.HasPrefix(session.ID, "checkout_"))
	assert.Equal(t, model.StatusReadyForPayment, session.Status)
	assert.Equal(t, "usd", session.Currency)
	assert.Equal(t, "shipping_standard", session.FulfillmentOptionID)
	require.Len(t, session.LineItems, 1)

	item := session.LineItems[0]
	assert.Equal(t, int64(8000), item.BaseAmount)
	assert.Equal(t, item.Subtotal-item.Discount+item.Tax, item.Total)

	assert.Equal(t, int64(8000), session.TotalAmount(model.TotalTypeSubtotal))
	assert.Equal(t, int64(300), session.TotalAmount(model.TotalTypeFulfillment))
	assert.Equal(t, int64(0), session.TotalAmount(model.TotalTypeTax))
	assert.Equal(t, int64(8300), session.TotalAmount(model.TotalTypeTotal))
	assertTotalsInvariant(t, session)

	require.Len(t, session.FulfillmentOptions, 3)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	s := newTestService(&fakeExchanger{})

	_, err := s.Create(context.Background(), &model.CreateCheckoutRequest{
		Items: []model.CartItem{{ID: "nope", Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	s := newTestService(&fakeExchanger{})

	_, err := s.Create(context.Background(), &model.CreateCheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateClampsQuantityToStock(t *testing.T) {
	s := newTestService(&fakeExchanger{})

	session, err := s.Create(context.Background(), &model.CreateCheckoutRequest{
		Items: []model.CartItem{{ID: "wakame", Quantity: 50}},
	})
	require.NoError(t, err)

	require.Len(t, session.LineItems, 1)
	assert.Equal(t, 3, session.LineItems[0].Item.Quantity)
	assert.Equal(t, int64(4500), session.TotalAmount(model.TotalTypeSubtotal))
	assertTotalsInvariant(t, session)
}

func TestCreateRejectsOutOfStockProduct(t *testing.T) {
	s := newTestService(&fakeExchanger{})

	_, err := s.Create(context.Background(), &model.CreateCheckoutRequest{
		Items: []model.CartItem{{ID: "hijiki", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestUpdateShippingRecomputesTotals(t *testing.T) {
	s := newTestService(&fakeExchanger{})
	session := createKombuSession(t, s, 2)

	updated, err := s.UpdateShipping(context.Background(), session.ID, "shipping_fast")
	require.NoError(t, err)

	assert.Equal(t, "shipping_fast", updated.FulfillmentOptionID)
	assert.Equal(t, int64(8000), updated.TotalAmount(model.TotalTypeSubtotal))
	assert.Equal(t, int64(500), updated.TotalAmount(model.TotalTypeFulfillment))
	assert.Equal(t, int64(8500), updated.TotalAmount(model.TotalTypeTotal))
	assertTotalsInvariant(t, updated)
}

func TestUpdateShippingUnknownOptionDoesNotMutate(t *testing.T) {
	s := newTestService(&fakeExchanger{})
	session := createKombuSession(t, s, 2)

	_, err := s.UpdateShipping(context.Background(), session.ID, "shipping_teleport")
	assert.ErrorIs(t, err, ErrUnknownFulfillmentOption)

	stored, err := s.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "shipping_standard", stored.FulfillmentOptionID)
	assert.Equal(t, int64(8300), stored.TotalAmount(model.TotalTypeTotal))
}

func TestUpdateShippingUnknownSession(t *testing.T) {
	s := newTestService(&fakeExchanger{})

	_, err := s.UpdateShipping(context.Background(), "checkout_missing", "shipping_fast")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompleteMarksSessionCompleted(t *testing.T) {
	exchanger := &fakeExchanger{}
	s := newTestService(exchanger)
	session := createKombuSession(t, s, 2)

	completed, err := s.Complete(context.Background(), session.ID, "pm_card_visa", "")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, completed.Status)
	require.NotNil(t, completed.Order)
	assert.True(t, strings.HasPrefix(completed.Order.ID, "order_"))
	assert.Equal(t, "ch_test_456", completed.Order.ChargeID)

	// The issued token is scoped to the session's currency and total.
	require.Len(t, exchanger.issued, 1)
	assert.Equal(t, "usd", exchanger.issued[0].Currency)
	assert.Equal(t, int64(8300), exchanger.issued[0].MaxAmount)

	// The charge redeems the issued token, not the raw payment method.
	require.Len(t, exchanger.charged, 1)
	assert.Equal(t, "spt_test_123", exchanger.charged[0].Token)
	assert.Equal(t, "stripe", exchanger.charged[0].Provider)
	assert.Equal(t, int64(8300), exchanger.charged[0].Amount)

	stored, err := s.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)
}

func TestCompleteTokenIssueFailureLeavesSessionRetryable(t *testing.T) {
	exchanger := &fakeExchanger{issueErr: errors.New("issuer rejected")}
	s := newTestService(exchanger)
	session := createKombuSession(t, s, 2)

	_, err := s.Complete(context.Background(), session.ID, "pm_card_visa", "stripe")
	require.Error(t, err)

	stored, getErr := s.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.StatusReadyForPayment, stored.Status)
	assert.Nil(t, stored.Order)

	// Retry succeeds once the issuer recovers.
	exchanger.issueErr = nil
	completed, err := s.Complete(context.Background(), session.ID, "pm_card_visa", "stripe")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
}

func TestCompleteChargeFailureLeavesSessionRetryable(t *testing.T) {
	exchanger := &fakeExchanger{chargeErr: errors.New("card declined")}
	s := newTestService(exchanger)
	session := createKombuSession(t, s, 2)

	_, err := s.Complete(context.Background(), session.ID, "pm_card_visa", "stripe")
	require.Error(t, err)

	stored, getErr := s.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.StatusReadyForPayment, stored.Status)
}

func TestCompleteTwiceFails(t *testing.T) {
	s := newTestService(&fakeExchanger{})
	session := createKombuSession(t, s, 1)

	_, err := s.Complete(context.Background(), session.ID, "pm_card_visa", "stripe")
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), session.ID, "pm_card_visa", "stripe")
	assert.ErrorIs(t, err, ErrSessionNotPayable)
}

func TestCompleteRequiresToken(t *testing.T) {
	s := newTestService(&fakeExchanger{})
	session := createKombuSession(t, s, 1)

	_, err := s.Complete(context.Background(), session.ID, "", "stripe")
	assert.ErrorIs(t, err, ErrPaymentTokenRequired)
}

func TestMemoryStoreCopiesSessions(t *testing.T) {
	s := newTestService(&fakeExchanger{})
	session := createKombuSession(t, s, 2)

	// Mutating a returned session must not leak into the store.
	session.Status = model.StatusCanceled
	session.Totals[0].Amount = 1

	stored, err := s.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReadyForPayment, stored.Status)
	assert.Equal(t, int64(8000), stored.TotalAmount(model.TotalTypeSubtotal))
}
