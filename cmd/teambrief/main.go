// Copyright 2025 Teambrief Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/teambrief/teambrief/ai"
	"github.com/teambrief/teambrief/ai/openai"
	"github.com/teambrief/teambrief/audit"
	"github.com/teambrief/teambrief/cache"
	"github.com/teambrief/teambrief/chunk"
	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/digest"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/ingestion"
	"github.com/teambrief/teambrief/pii"
	"github.com/teambrief/teambrief/search"
	"github.com/teambrief/teambrief/source"
	"github.com/teambrief/teambrief/storage/badger"
	"github.com/teambrief/teambrief/vecstore"
	"github.com/teambrief/teambrief/vecstore/pgvector"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// providerFlags configure the embedding/summary provider and the budget
// governor. Shared by every command that spends tokens.
func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Provider API key",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "OpenAI-compatible endpoint override (e.g. a local server)",
			EnvVars: []string{"OPENAI_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   ai.DefaultEmbeddingModel,
			EnvVars: []string{"TEAMBRIEF_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "summary-model",
			Usage:   "Chat model used for digest summaries",
			Value:   ai.DefaultSummaryModel,
			EnvVars: []string{"TEAMBRIEF_SUMMARY_MODEL"},
		},
		&cli.Float64Flag{
			Name:    "budget",
			Usage:   "Monthly embedding budget in USD",
			Value:   embedding.DefaultMonthlyBudgetUSD,
			EnvVars: []string{"TEAMBRIEF_MONTHLY_BUDGET"},
		},
	}
}

// storeFlags configure the pgvector-backed vector store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "pg-dsn",
			Usage:   "Postgres DSN for the pgvector store",
			EnvVars: []string{"TEAMBRIEF_PG_DSN"},
		},
		&cli.IntFlag{
			Name:    "dimension",
			Usage:   "Embedding vector dimension",
			Value:   1536,
			EnvVars: []string{"TEAMBRIEF_DIMENSION"},
		},
	}
}

func dbFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   usage,
		EnvVars: []string{"TEAMBRIEF_DB"},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "teambrief",
		Usage: "Team knowledge ingestion, search and digest pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Redact, chunk, embed and store documents from a directory export",
				Action: ingestCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory holding the exported documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Logical source of the export (chat, docs, drive)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent document workers (0 uses the CPU-based default)",
					},
					dbFlag("BadgerDB directory for the ingest ledger"),
				}, providerFlags()...), storeFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Query stored passages",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Restrict the search to one source (empty searches all)",
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum results to return",
						Value: 10,
					},
					dbFlag("BadgerDB directory for the response cache (optional)"),
				}, providerFlags()...), storeFlags()...),
			},
			{
				Name:   "digest",
				Usage:  "Build a topic digest from stored passages",
				Action: digestCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Topic to cover (repeatable)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "passages",
						Usage: "Passages per partition per topic",
						Value: 5,
					},
				}, providerFlags()...), storeFlags()...),
			},
			{
				Name:   "audit",
				Usage:  "Scan a directory export for sensitive data before ingestion",
				Action: auditCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory holding the exported documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Logical source of the export (chat, docs, drive)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write the JSON report here instead of stdout",
					},
				},
			},
			{
				Name:   "estimate",
				Usage:  "Project embedding volume and spend for a candidate source",
				Action: estimateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory holding representative sample documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Logical source of the samples (chat, docs, drive)",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "items-per-week",
						Usage:    "Expected new items per week once live",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-samples",
						Usage: "Cap on sample documents read from the directory",
						Value: 100,
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model to price against",
						Value:   ai.DefaultEmbeddingModel,
						EnvVars: []string{"TEAMBRIEF_EMBEDDING_MODEL"},
					},
					&cli.Float64Flag{
						Name:    "budget",
						Usage:   "Monthly embedding budget in USD",
						Value:   embedding.DefaultMonthlyBudgetUSD,
						EnvVars: []string{"TEAMBRIEF_MONTHLY_BUDGET"},
					},
				},
			},
			{
				Name:  "cache",
				Usage: "Inspect and maintain the response cache",
				Subcommands: []*cli.Command{
					{
						Name:   "stats",
						Usage:  "Show cache entry counts and size",
						Action: cacheStatsCommand,
						Flags:  []cli.Flag{dbFlag("BadgerDB directory holding the cache")},
					},
					{
						Name:   "sweep",
						Usage:  "Remove expired cache entries",
						Action: cacheSweepCommand,
						Flags:  []cli.Flag{dbFlag("BadgerDB directory holding the cache")},
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show vector store statistics",
				Action: statsCommand,
				Flags:  storeFlags(),
			},
		},
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	src := core.Source(c.String("source"))
	if err := core.ValidateSource(src); err != nil {
		return err
	}

	governor, provider, err := buildGovernor(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	store, closeStore, err := buildStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	chunker, err := chunk.NewChunker()
	if err != nil {
		return err
	}

	opts := []ingestion.Option{}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	if dbPath := c.String("db"); dbPath != "" {
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("open ledger database: %w", err)
		}
		defer backend.Close()

		ledger, err := ingestion.NewLedger(backend)
		if err != nil {
			return err
		}
		opts = append(opts, ingestion.WithLedger(ledger))
	}

	pipeline, err := ingestion.NewPipeline(pii.NewRedactor(), chunker, governor, store, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	conn, err := source.NewDirectoryConnector(c.String("dir"), src)
	if err != nil {
		return err
	}

	report, err := pipeline.IngestFromConnector(ctx, conn)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"report": report,
		"spend":  governor.Summary(),
	})
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}
	if src := c.String("source"); src != "" {
		if err := core.ValidateSource(core.Source(src)); err != nil {
			return err
		}
	}

	governor, provider, err := buildGovernor(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	store, closeStore, err := buildStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []search.Option{}
	if dbPath := c.String("db"); dbPath != "" {
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("open cache database: %w", err)
		}
		defer backend.Close()

		responseCache, err := cache.New(backend)
		if err != nil {
			return err
		}
		opts = append(opts, search.WithCache(responseCache))
	}

	searcher, err := search.NewSearcher(governor, store, opts...)
	if err != nil {
		return err
	}

	results, err := searcher.Search(ctx, query, c.String("source"), c.Int("max-hits"))
	if err != nil {
		return err
	}
	return printJSON(results)
}

func digestCommand(c *cli.Context) error {
	ctx := context.Background()

	governor, provider, err := buildGovernor(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	store, closeStore, err := buildStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	builder, err := digest.NewBuilder(governor, store, provider.Summarizer(),
		digest.WithPassagesPerPartition(c.Int("passages")))
	if err != nil {
		return err
	}

	result, err := builder.Build(ctx, c.StringSlice("topic"))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func auditCommand(c *cli.Context) error {
	ctx := context.Background()

	src := core.Source(c.String("source"))
	if err := core.ValidateSource(src); err != nil {
		return err
	}

	conn, err := source.NewDirectoryConnector(c.String("dir"), src)
	if err != nil {
		return err
	}
	docs, err := conn.FetchDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetch documents: %w", err)
	}

	items := make([]any, 0, len(docs))
	for _, doc := range docs {
		items = append(items, map[string]any{
			"title": doc.Title,
			"text":  doc.Content,
		})
	}

	scanner := pii.NewScanner()
	result := scanner.ScanData(map[string]any{"documents": items}, string(src))

	report, err := audit.NewReport(result, scanner)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.WriteJSON(out); err != nil {
		return err
	}

	if !report.Passed {
		return fmt.Errorf("audit failed: critical findings present")
	}
	return nil
}

func estimateCommand(c *cli.Context) error {
	ctx := context.Background()

	src := core.Source(c.String("source"))
	if err := core.ValidateSource(src); err != nil {
		return err
	}

	conn, err := source.NewDirectoryConnector(c.String("dir"), src)
	if err != nil {
		return err
	}
	docs, err := conn.FetchDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetch documents: %w", err)
	}

	maxSamples := c.Int("max-samples")
	var samples []string
	for _, doc := range docs {
		if len(samples) >= maxSamples {
			break
		}
		samples = append(samples, doc.Content)
	}

	estimator, err := audit.NewEstimator(
		audit.WithEstimatorModel(c.String("embedding-model")))
	if err != nil {
		return err
	}

	est, err := estimator.Estimate(samples, c.Int("items-per-week"), c.Float64("budget"))
	if err != nil {
		return err
	}
	return printJSON(est)
}

func cacheStatsCommand(c *cli.Context) error {
	responseCache, backend, err := openCache(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	stats, err := responseCache.Stats()
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func cacheSweepCommand(c *cli.Context) error {
	responseCache, backend, err := openCache(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	removed, err := responseCache.ClearExpired()
	if err != nil {
		return err
	}
	return printJSON(map[string]int{"removed": removed})
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	store, closeStore, err := buildStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

// buildGovernor wires the provider and the budget governor from flags.
func buildGovernor(c *cli.Context) (*embedding.Governor, ai.Provider, error) {
	cfg := ai.NewConfig(
		ai.WithAPIKey(c.String("api-key")),
		ai.WithBaseURL(c.String("base-url")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithSummaryModel(c.String("summary-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	governor, err := embedding.NewGovernor(provider.EmbeddingClient(),
		embedding.WithModel(cfg.EmbeddingModel),
		embedding.WithMonthlyBudget(c.Float64("budget")))
	if err != nil {
		provider.Close()
		return nil, nil, err
	}
	return governor, provider, nil
}

// buildStore wires the pgvector-backed store from flags.
func buildStore(ctx context.Context, c *cli.Context) (*vecstore.Store, func(), error) {
	dsn := c.String("pg-dsn")
	if dsn == "" {
		return nil, nil, fmt.Errorf("pg-dsn is required (flag or TEAMBRIEF_PG_DSN)")
	}

	dimension := c.Int("dimension")
	index, err := pgvector.New(ctx, dsn, dimension)
	if err != nil {
		return nil, nil, fmt.Errorf("connect vector store: %w", err)
	}

	store, err := vecstore.NewStore(index, dimension)
	if err != nil {
		index.Close()
		return nil, nil, err
	}
	return store, index.Close, nil
}

func openCache(c *cli.Context) (*cache.Cache, *badger.Backend, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, nil, fmt.Errorf("db is required (flag or TEAMBRIEF_DB)")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache database: %w", err)
	}

	responseCache, err := cache.New(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return responseCache, backend, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// setup loads the env file when present, then configures logging.
func setup(c *cli.Context) error {
	if path := c.String("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
