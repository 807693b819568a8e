package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulfillmentOptionUnmarshalNormalizesShapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantName string
		wantAmt  int64
	}{
		{
			name:     "canonical amount number",
			payload:  `{"id":"shipping_fast","display_name":"Express","amount":500}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "amount as string",
			payload:  `{"id":"shipping_fast","display_name":"Express","amount":"500"}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "total fallback",
			payload:  `{"id":"shipping_fast","display_name":"Express","total":500}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "subtotal fallback as string",
			payload:  `{"id":"shipping_fast","display_name":"Express","subtotal":"500"}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "title used when display_name absent",
			payload:  `{"id":"shipping_fast","title":"Express","amount":500}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "display_name wins over title",
			payload:  `{"id":"shipping_fast","display_name":"Express","title":"Other","amount":500}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "amount wins over total",
			payload:  `{"id":"shipping_fast","display_name":"Express","amount":500,"total":999}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "unparseable amount falls through to total",
			payload:  `{"id":"shipping_fast","display_name":"Express","amount":"free","total":500}`,
			wantName: "Express",
			wantAmt:  500,
		},
		{
			name:     "no cost keys at all",
			payload:  `{"id":"shipping_fast","display_name":"Express"}`,
			wantName: "Express",
			wantAmt:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opt FulfillmentOption
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &opt))
			assert.Equal(t, "shipping_fast", opt.ID)
			assert.Equal(t, tt.wantName, opt.DisplayName)
			assert.Equal(t, tt.wantAmt, opt.Amount)
		})
	}
}

func TestFulfillmentOptionUnmarshalInvalidJSON(t *testing.T) {
	var opt FulfillmentOption
	assert.Error(t, json.Unmarshal([]byte(`{"id":`), &opt))
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		stock    int
		want     int
	}{
		{"within stock", 2, 10, 2},
		{"zero defaults to one", 0, 10, 1},
		{"negative defaults to one", -3, 10, 1},
		{"capped at stock", 50, 3, 3},
		{"no stock", 1, 0, 0},
		{"exactly stock", 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := CartItem{ID: "kombu", Quantity: tt.quantity}
			assert.Equal(t, tt.want, item.ClampQuantity(tt.stock))
		})
	}
}

func TestSessionTotalAmount(t *testing.T) {
	session := &CheckoutSession{
		Totals: []Total{
			{Type: TotalTypeSubtotal, Amount: 8000},
			{Type: TotalTypeFulfillment, Amount: 300},
			{Type: TotalTypeTax, Amount: 0},
			{Type: TotalTypeTotal, Amount: 8300},
		},
	}

	assert.Equal(t, int64(8000), session.TotalAmount(TotalTypeSubtotal))
	assert.Equal(t, int64(8300), session.TotalAmount(TotalTypeTotal))
	assert.Equal(t, int64(0), session.TotalAmount("discount"))
}

func TestSessionFindFulfillmentOption(t *testing.T) {
	session := &CheckoutSession{
		FulfillmentOptions: []FulfillmentOption{
			{ID: "shipping_standard", Amount: 300},
			{ID: "shipping_fast", Amount: 500},
		},
	}

	opt, ok := session.FindFulfillmentOption("shipping_fast")
	require.True(t, ok)
	assert.Equal(t, int64(500), opt.Amount)

	_, ok = session.FindFulfillmentOption("shipping_teleport")
	assert.False(t, ok)
}
