package audit

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/teambrief/teambrief/embedding"
)

// weeksPerMonth converts weekly volume to a monthly projection.
const weeksPerMonth = 52.0 / 12.0

// Estimate projects embedding volume and spend for a candidate source.
type Estimate struct {
	Model             string  `json:"model"`
	SampleCount       int     `json:"sample_count"`
	AvgTokensPerItem  float64 `json:"avg_tokens_per_item"`
	ItemsPerWeek      int     `json:"items_per_week"`
	TokensPerWeek     int     `json:"tokens_per_week"`
	TokensPerMonth    int     `json:"tokens_per_month"`
	WeeklyCostUSD     float64 `json:"weekly_cost_usd"`
	MonthlyCostUSD    float64 `json:"monthly_cost_usd"`
	BudgetUSD         float64 `json:"budget_usd"`
	BudgetUtilization float64 `json:"budget_utilization_percent"`
	WithinBudget      bool    `json:"within_budget"`
}

// Estimator projects token volume from representative samples. Token
// counts use the same encoding the chunker and governor size with, so
// projections line up with what ingestion will actually spend.
type Estimator struct {
	model    string
	encoding *tiktoken.Tiktoken
	logger   *slog.Logger
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithEstimatorModel sets the embedding model to price against. Default is
// the governor's default model.
func WithEstimatorModel(model string) EstimatorOption {
	return func(e *Estimator) {
		if model != "" {
			e.model = model
		}
	}
}

// WithEstimatorLogger sets a custom logger. Default is slog.Default().
func WithEstimatorLogger(logger *slog.Logger) EstimatorOption {
	return func(e *Estimator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEstimator creates a volume estimator.
func NewEstimator(opts ...EstimatorOption) (*Estimator, error) {
	e := &Estimator{
		model:  embedding.DefaultModel,
		logger: slog.Default().With("component", "audit_estimator"),
	}
	for _, opt := range opts {
		opt(e)
	}

	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	e.encoding = encoding
	return e, nil
}

// Estimate projects weekly and monthly spend from sample items and an
// expected weekly item volume, then checks the projection against the
// monthly budget.
func (e *Estimator) Estimate(samples []string, itemsPerWeek int, budgetUSD float64) (*Estimate, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if itemsPerWeek <= 0 {
		return nil, ErrInvalidVolume
	}
	if budgetUSD <= 0 {
		return nil, ErrInvalidBudget
	}

	total := 0
	for _, sample := range samples {
		total += len(e.encoding.Encode(sample, nil, nil))
	}
	avg := float64(total) / float64(len(samples))

	perToken := embedding.PricePerMillion(e.model) / 1_000_000
	tokensPerWeek := avg * float64(itemsPerWeek)
	tokensPerMonth := tokensPerWeek * weeksPerMonth
	monthlyCost := tokensPerMonth * perToken

	est := &Estimate{
		Model:             e.model,
		SampleCount:       len(samples),
		AvgTokensPerItem:  avg,
		ItemsPerWeek:      itemsPerWeek,
		TokensPerWeek:     int(tokensPerWeek),
		TokensPerMonth:    int(tokensPerMonth),
		WeeklyCostUSD:     tokensPerWeek * perToken,
		MonthlyCostUSD:    monthlyCost,
		BudgetUSD:         budgetUSD,
		BudgetUtilization: monthlyCost / budgetUSD * 100,
		WithinBudget:      monthlyCost <= budgetUSD,
	}

	e.logger.Info("volume estimate",
		"model", est.Model,
		"avg_tokens_per_item", est.AvgTokensPerItem,
		"monthly_cost_usd", est.MonthlyCostUSD,
		"within_budget", est.WithinBudget)

	return est, nil
}
