package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamkasasa/hackathon-seaweed/internal/llm"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
)

// stubLLM returns a scripted sequence of completions.
type stubLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &llm.CompletionResponse{Content: s.responses[i]}, nil
}

func (s *stubLLM) Name() string     { return "stub" }
func (s *stubLLM) Models() []string { return nil }

const generatedCatalog = `[
	{"id":"SKU-201","name":"Dulse Snack Strips","description":"Smoky dried dulse.","price":1300,"stock":40,"image":"https://example.com/dulse.png"},
	{"id":"SKU-202","name":"Bladderwrack Bath Soak","description":"Mineral bath blend.","price":2800,"stock":20,"image":"https://example.com/soak.png"}
]`

func TestGeneratorServesGeneratedCatalog(t *testing.T) {
	stub := &stubLLM{responses: []string{generatedCatalog}}
	g := NewGenerator(stub, time.Hour, logger.NewNop())

	products, err := g.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Bladderwrack Bath Soak", products[0].Name)
	assert.Equal(t, "Dulse Snack Strips", products[1].Name)

	product, err := g.Get(context.Background(), "SKU-201")
	require.NoError(t, err)
	assert.Equal(t, int64(1300), product.Price)
}

func TestGeneratorCachesWithinTTL(t *testing.T) {
	stub := &stubLLM{responses: []string{generatedCatalog}}
	g := NewGenerator(stub, time.Hour, logger.NewNop())

	_, err := g.List(context.Background())
	require.NoError(t, err)
	_, err = g.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
}

func TestGeneratorRegeneratesAfterTTL(t *testing.T) {
	stub := &stubLLM{responses: []string{generatedCatalog, generatedCatalog}}
	g := NewGenerator(stub, time.Hour, logger.NewNop())

	current := time.Unix(1_700_000_000, 0)
	g.now = func() time.Time { return current }

	_, err := g.List(context.Background())
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, err = g.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
}

func TestGeneratorFallsBackToSeedOnFailure(t *testing.T) {
	stub := &stubLLM{errs: []error{errors.New("provider down")}}
	g := NewGenerator(stub, time.Hour, logger.NewNop())

	products, err := g.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, len(SeedProducts()))
}

func TestGeneratorServesStaleCatalogOnRefreshFailure(t *testing.T) {
	stub := &stubLLM{
		responses: []string{generatedCatalog, ""},
		errs:      []error{nil, errors.New("provider down")},
	}
	g := NewGenerator(stub, time.Hour, logger.NewNop())

	current := time.Unix(1_700_000_000, 0)
	g.now = func() time.Time { return current }

	_, err := g.List(context.Background())
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	products, err := g.List(context.Background())
	require.NoError(t, err)

	// Stale generated products, not the static seed.
	require.Len(t, products, 2)
	assert.Equal(t, 2, stub.calls)
}

func TestParseProducts(t *testing.T) {
	t.Run("strips code fences", func(t *testing.T) {
		fenced := "```json\n" + generatedCatalog + "\n```"
		products, err := parseProducts(fenced)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("rejects empty array", func(t *testing.T) {
		_, err := parseProducts("[]")
		assert.Error(t, err)
	})

	t.Run("rejects malformed product", func(t *testing.T) {
		_, err := parseProducts(`[{"id":"","name":"x","price":100}]`)
		assert.Error(t, err)
	})

	t.Run("rejects non-json", func(t *testing.T) {
		_, err := parseProducts("sorry, I cannot do that")
		assert.Error(t, err)
	})
}
