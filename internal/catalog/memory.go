package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
)

// MemoryStore is an in-memory catalog.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]model.Product
}

// NewMemoryStore creates a catalog holding the given products.
func NewMemoryStore(products []model.Product) *MemoryStore {
	m := make(map[string]model.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &MemoryStore{products: m}
}

// NewSeededStore creates a catalog with the default product set.
func NewSeededStore() *MemoryStore {
	return NewMemoryStore(SeedProducts())
}

// List returns all products ordered by name.
func (s *MemoryStore) List(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// Get returns one product by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// Replace swaps the full product set. Used by the generator on refresh.
func (s *MemoryStore) Replace(products []model.Product) {
	m := make(map[string]model.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	s.mu.Lock()
	s.products = m
	s.mu.Unlock()
}

// SeedProducts returns the built-in fallback catalog.
func SeedProducts() []model.Product {
	return []model.Product{
		{
			ID:          "SKU-001",
			Name:        "Organic Kelp Powder",
			Description: "Rich in minerals and perfect for smoothies and soups.",
			Price:       1995,
			Stock:       50,
			Image:       "https://images.unsplash.com/photo-1505253149613-112d21d9f6a9?w=400",
		},
		{
			ID:          "SKU-002",
			Name:        "Artisanal Kelp Flakes",
			Description: "Hand-harvested Laminaria flakes with a deep umami finish.",
			Price:       1450,
			Stock:       80,
			Image:       "/images/artisanal-kelp-flakes.png",
		},
		{
			ID:          "SKU-003",
			Name:        "Kombu Seaweed Sheets",
			Description: "Premium dried kombu for dashi, broths and slow braises.",
			Price:       4000,
			Stock:       35,
			Image:       "https://images.unsplash.com/photo-1505253213348-ce3e0ff1f0cc?w=400",
		},
		{
			ID:          "SKU-004",
			Name:        "Spirulina Wakame Immunity Boost",
			Description: "Daily greens blend pairing spirulina with mineral-dense wakame.",
			Price:       2900,
			Stock:       60,
			Image:       "/images/spirulina-wakame-immunity-boost.png",
		},
		{
			ID:          "SKU-005",
			Name:        "Irish Moss Hydration Serum",
			Description: "Chondrus crispus serum for deep skin hydration.",
			Price:       3600,
			Stock:       25,
			Image:       "https://images.unsplash.com/photo-1505253304499-671c55fb57fe?w=400",
		},
		{
			ID:          "SKU-006",
			Name:        "Bladderwrack Garden Fertilizer",
			Description: "Fucus vesiculosus meal that revives depleted garden soil.",
			Price:       2250,
			Stock:       100,
			Image:       "https://images.unsplash.com/photo-1505253668822-42074d58a7c6?w=400",
		},
	}
}
