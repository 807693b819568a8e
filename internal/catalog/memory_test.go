package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
)

func TestMemoryStoreListOrdersByName(t *testing.T) {
	store := NewMemoryStore([]model.Product{
		{ID: "c", Name: "Wakame Salad Mix", Price: 1500, Stock: 5},
		{ID: "a", Name: "Kombu Sheets", Price: 4000, Stock: 10},
		{ID: "b", Name: "Nori Wraps", Price: 900, Stock: 20},
	})

	products, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Kombu Sheets", products[0].Name)
	assert.Equal(t, "Nori Wraps", products[1].Name)
	assert.Equal(t, "Wakame Salad Mix", products[2].Name)
}

func TestMemoryStoreGet(t *testing.T) {
	store := NewSeededStore()

	product, err := store.Get(context.Background(), "SKU-003")
	require.NoError(t, err)
	assert.Equal(t, "Kombu Seaweed Sheets", product.Name)
	assert.Equal(t, int64(4000), product.Price)

	_, err = store.Get(context.Background(), "SKU-999")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStoreReplace(t *testing.T) {
	store := NewSeededStore()
	store.Replace([]model.Product{
		{ID: "new-1", Name: "Dulse Chips", Price: 1200, Stock: 15},
	})

	products, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "new-1", products[0].ID)

	_, err = store.Get(context.Background(), "SKU-003")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
