package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/williamkasasa/hackathon-seaweed/internal/llm"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
)

const generatorSystemPrompt = `You are a product catalog generator for a premium natural seaweed e-commerce platform. Generate diverse, market-ready products.`

const generatorUserPrompt = `Generate 10 unique seaweed products covering gourmet food, wellness supplements, skincare and household categories. Use different seaweed types: Laminaria (Kelp), Wakame, Hijiki, Chondrus Crispus (Irish Moss), Fucus Vesiculosus (Bladderwrack).

Respond with ONLY a JSON array. Each element must have: "id" (SKU identifier like SKU-201), "name", "description" (one sentence), "price" (integer cents, 1000-6000), "stock" (integer, 10-100), "image" (URL).`

// Generator is a catalog backed by LLM generation with a TTL cache. When
// generation fails the seeded fallback catalog is served instead, so the
// storefront never comes up empty.
type Generator struct {
	client llm.Client
	logger *logger.Logger
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	products  []model.Product
	fetchedAt time.Time
}

// NewGenerator creates an LLM-backed catalog.
func NewGenerator(client llm.Client, ttl time.Duration, log *logger.Logger) *Generator {
	return &Generator{
		client: client,
		logger: log,
		ttl:    ttl,
		now:    time.Now,
	}
}

// List returns the current catalog ordered by name, regenerating it when the
// cache has expired.
func (g *Generator) List(ctx context.Context) ([]model.Product, error) {
	products, err := g.current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, len(products))
	copy(out, products)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns one product by id.
func (g *Generator) Get(ctx context.Context, id string) (*model.Product, error) {
	products, err := g.current(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (g *Generator) current(ctx context.Context) ([]model.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.products != nil && g.now().Sub(g.fetchedAt) <= g.ttl {
		return g.products, nil
	}

	products, err := g.generate(ctx)
	if err != nil {
		g.logger.Warn("catalog generation failed, serving fallback catalog")
		// Stale generated products beat the static seed if we have them.
		if g.products != nil {
			return g.products, nil
		}
		return SeedProducts(), nil
	}

	g.products = products
	g.fetchedAt = g.now()
	return g.products, nil
}

func (g *Generator) generate(ctx context.Context) ([]model.Product, error) {
	resp, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: generatorUserPrompt},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog completion failed: %w", err)
	}

	products, err := parseProducts(resp.Content)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// parseProducts extracts a product array from model output, tolerating
// markdown code fences around the JSON.
func parseProducts(content string) ([]model.Product, error) {
	trimmed := strings.TrimSpace(content)
	if start := strings.Index(trimmed, "["); start >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > start {
			trimmed = trimmed[start : end+1]
		}
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(trimmed), &products); err != nil {
		return nil, fmt.Errorf("failed to parse generated catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("generated catalog is empty")
	}
	for _, p := range products {
		if p.ID == "" || p.Name == "" || p.Price <= 0 {
			return nil, fmt.Errorf("generated product %q is malformed", p.ID)
		}
	}
	return products, nil
}
