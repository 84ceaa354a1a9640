package embedding

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/teambrief/teambrief/ai"
)

const (
	// DefaultModel is the embedding model used when none is configured.
	DefaultModel = "text-embedding-3-small"
	// DefaultBatchSize is the number of texts sent per provider call.
	DefaultBatchSize = 100
	// DefaultMonthlyBudgetUSD is the spend ceiling used when none is
	// configured.
	DefaultMonthlyBudgetUSD = 100.0

	// tokenizerEncoding must match the encoding the chunker sizes with,
	// or pre-flight estimates drift from billed usage.
	tokenizerEncoding = "cl100k_base"

	// warnUtilization is the budget fraction at which reservations start
	// logging warnings. Non-blocking.
	warnUtilization = 0.75
)

// modelPricing is USD per one million tokens.
var modelPricing = map[string]float64{
	"text-embedding-3-small": 0.02,
	"text-embedding-3-large": 0.13,
	"text-embedding-ada-002": 0.10,
}

// PricePerMillion returns the USD price per one million tokens for a
// model. Models outside the table are billed at the default model's rate.
func PricePerMillion(model string) float64 {
	if price, ok := modelPricing[model]; ok {
		return price
	}
	return modelPricing[DefaultModel]
}

// CostSummary is a point-in-time view of cumulative spend.
type CostSummary struct {
	Model       string  `json:"model"`
	TokensUsed  int     `json:"tokens_used"`
	CostUSD     float64 `json:"cost_usd"`
	BudgetUSD   float64 `json:"budget_usd"`
	Utilization float64 `json:"utilization_percent"`
}

// Governor embeds text through an ai.EmbeddingClient while holding
// cumulative spend under a monthly ceiling. Safe for concurrent use.
type Governor struct {
	client        ai.EmbeddingClient
	model         string
	batchSize     int
	budgetUSD     float64
	pricePerToken float64
	encoding      *tiktoken.Tiktoken
	logger        *slog.Logger

	mu         sync.Mutex
	tokensUsed int
	spentUSD   float64
}

// Option configures a Governor.
type Option func(*Governor)

// WithModel sets the embedding model. Models outside the pricing table are
// billed at the default model's rate.
func WithModel(model string) Option {
	return func(g *Governor) {
		g.model = model
	}
}

// WithBatchSize sets the number of texts per provider call.
func WithBatchSize(size int) Option {
	return func(g *Governor) {
		g.batchSize = size
	}
}

// WithMonthlyBudget sets the spend ceiling in USD.
func WithMonthlyBudget(usd float64) Option {
	return func(g *Governor) {
		g.budgetUSD = usd
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Governor) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGovernor creates a governor over the given client.
func NewGovernor(client ai.EmbeddingClient, opts ...Option) (*Governor, error) {
	g := &Governor{
		client:    client,
		model:     DefaultModel,
		batchSize: DefaultBatchSize,
		budgetUSD: DefaultMonthlyBudgetUSD,
		logger:    slog.Default().With("component", "embedding_governor"),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.client == nil {
		return nil, ErrNilClient
	}
	if g.budgetUSD <= 0 {
		return nil, ErrInvalidBudget
	}
	if g.batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	price, ok := modelPricing[g.model]
	if !ok {
		price = modelPricing[DefaultModel]
		g.logger.Warn("model not in pricing table, billing at default rate",
			"model", g.model)
	}
	g.pricePerToken = price / 1_000_000

	encoding, err := tiktoken.GetEncoding(tokenizerEncoding)
	if err != nil {
		return nil, err
	}
	g.encoding = encoding

	return g, nil
}

// Model returns the configured embedding model identifier.
func (g *Governor) Model() string {
	return g.model
}

// EstimateTokens counts tokens the way the provider will.
func (g *Governor) EstimateTokens(text string) int {
	return len(g.encoding.Encode(text, nil, nil))
}

// EstimateCost prices a token count under the configured model.
func (g *Governor) EstimateCost(tokens int) float64 {
	return float64(tokens) * g.pricePerToken
}

// EmbedText embeds a single text. A call whose projected cost would push
// spend past the ceiling is refused: nil vector, nil error. Refusal is an
// operating condition, not a failure.
func (g *Governor) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("empty text provided for embedding")
		return nil, nil
	}

	estimated := g.EstimateTokens(text)
	if !g.reserve(estimated) {
		return nil, nil
	}

	resp, err := g.client.CreateEmbeddings(ctx, g.model, []string{text})
	if err != nil {
		g.release(estimated)
		return nil, err
	}
	g.commit(estimated, resp.TokensUsed)

	if len(resp.Vectors) == 0 {
		g.logger.Warn("provider returned no vectors")
		return nil, nil
	}
	return resp.Vectors[0], nil
}

// EmbedBatch embeds texts in fixed-size sub-batches, preserving input
// order. Each sub-batch is reserved and sent independently: a refused or
// failed sub-batch leaves nils at exactly its positions while the rest
// proceed.
func (g *Governor) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	results := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))
		sub := texts[start:end]

		estimated := 0
		for _, text := range sub {
			estimated += g.EstimateTokens(text)
		}

		if !g.reserve(estimated) {
			g.logger.Warn("sub-batch refused, budget exhausted",
				"from", start, "to", end)
			continue
		}

		resp, err := g.client.CreateEmbeddings(ctx, g.model, sub)
		if err != nil {
			g.release(estimated)
			g.logger.Error("sub-batch failed",
				"from", start, "to", end, "err", err)
			continue
		}
		g.commit(estimated, resp.TokensUsed)

		for i, vec := range resp.Vectors {
			if start+i < end {
				results[start+i] = vec
			}
		}
	}

	return results
}

// Summary reports cumulative spend against the ceiling.
func (g *Governor) Summary() CostSummary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return CostSummary{
		Model:       g.model,
		TokensUsed:  g.tokensUsed,
		CostUSD:     g.spentUSD,
		BudgetUSD:   g.budgetUSD,
		Utilization: g.spentUSD / g.budgetUSD * 100,
	}
}

// reserve charges an estimated token count against the ceiling. Returns
// false, leaving the counters untouched, when the projection would exceed
// the budget.
func (g *Governor) reserve(tokens int) bool {
	cost := g.EstimateCost(tokens)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.spentUSD+cost > g.budgetUSD {
		g.logger.Error("embedding refused, monthly budget would be exceeded",
			"estimated_cost_usd", cost,
			"spent_usd", g.spentUSD,
			"budget_usd", g.budgetUSD)
		return false
	}

	g.spentUSD += cost
	g.tokensUsed += tokens

	if g.spentUSD >= g.budgetUSD*warnUtilization {
		g.logger.Warn("embedding budget utilization high",
			"utilization_percent", g.spentUSD/g.budgetUSD*100)
	}
	return true
}

// release undoes a reservation after a failed provider call.
func (g *Governor) release(tokens int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.spentUSD -= g.EstimateCost(tokens)
	g.tokensUsed -= tokens
}

// commit reconciles a reservation with the token count the provider
// actually billed.
func (g *Governor) commit(estimated, actual int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokensUsed += actual - estimated
	g.spentUSD += g.EstimateCost(actual) - g.EstimateCost(estimated)
}
