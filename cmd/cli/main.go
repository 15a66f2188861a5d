package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/verp/fundmetrics/internal/adapter/repository/postgres"
	redisrepo "github.com/verp/fundmetrics/internal/adapter/repository/redis"
	"github.com/verp/fundmetrics/internal/domain"
	"github.com/verp/fundmetrics/internal/infrastructure/config"
	"github.com/verp/fundmetrics/internal/infrastructure/logger"
	"github.com/verp/fundmetrics/internal/infrastructure/metrics"
	pginfra "github.com/verp/fundmetrics/internal/infrastructure/postgres"
	redisinfra "github.com/verp/fundmetrics/internal/infrastructure/redis"
	"github.com/verp/fundmetrics/internal/usecase"
)

// metricsAPI is what the metrics commands need. Both MetricsService and
// its caching wrapper satisfy it.
type metricsAPI interface {
	GetPartnershipMetrics(ctx context.Context, partnershipID string, asOf *time.Time) (*domain.PerformanceSnapshot, error)
	GetFundMetrics(ctx context.Context, fundID string, asOf *time.Time) (map[string]*domain.PerformanceSnapshot, error)
	GetPartnershipPositions(ctx context.Context, partnershipID string, asOf *time.Time) ([]*domain.Position, error)
}

type app struct {
	cfg     *config.Config
	ledger  *usecase.LedgerService
	metrics metricsAPI
	caching *usecase.CachingMetricsService
	close   func()

	// File mode state, nil when backed by Postgres.
	fileDoc *ledgerFile
}

// ledgerPath switches the CLI into file mode: the whole ledger lives
// in one JSON document and no database or cache is touched.
var ledgerPath string

func buildApp(ctx context.Context) (*app, error) {
	if ledgerPath != "" {
		return buildFileApp()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	transactions := postgres.NewTransactionRepository(pool)
	directory := postgres.NewDirectoryRepository(pool)
	idGen := postgres.NewULIDGenerator()
	obs := metrics.New()

	a := &app{
		cfg:    cfg,
		ledger: usecase.NewLedgerService(transactions, directory, idGen, obs),
		close:  pool.Close,
	}

	svc := usecase.NewMetricsService(transactions, directory, obs, cfg.FundFanOut)
	a.metrics = svc

	if cfg.RedisURL != "" {
		client, err := redisinfra.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		cache := redisrepo.NewSnapshotCache(client)
		a.caching = usecase.NewCachingMetricsService(svc, cache, obs, cfg.SnapshotCacheTTL)
		a.metrics = a.caching
		a.close = func() {
			_ = client.Close()
			pool.Close()
		}

		log.Debug().Str("ttl", cfg.SnapshotCacheTTL.String()).Msg("snapshot caching enabled")
	}

	return a, nil
}

func buildFileApp() (*app, error) {
	store, doc, err := loadLedgerFile(ledgerPath)
	if err != nil {
		return nil, err
	}

	return &app{
		ledger:  usecase.NewLedgerService(store, store, postgres.NewULIDGenerator(), nil),
		metrics: usecase.NewMetricsService(store, store, nil, 0),
		close:   func() {},
		fileDoc: doc,
	}, nil
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fundmetrics",
		Short:         "Fund performance metrics CLI",
		Long:          `Records fund ledger transactions and computes point-in-time positions and performance metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&ledgerPath, "ledger-file", "", "Operate on a JSON ledger file instead of the database")

	root.AddCommand(
		migrateCmd(),
		partnershipCmd(),
		fundCmd(),
		positionsCmd(),
		recordCmd(),
		transactionsCmd(),
	)

	return root
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return pginfra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return pginfra.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
	)

	return cmd
}

func partnershipCmd() *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "partnership <partnership-id>",
		Short: "Performance snapshot for a limited partnership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			snapshot, err := a.metrics.GetPartnershipMetrics(ctx, args[0], asOf)
			if err != nil {
				return err
			}

			printJSON(snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Valuation date (YYYY-MM-DD or RFC 3339), latest when omitted")

	return cmd
}

func fundCmd() *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "fund <fund-id>",
		Short: "Performance snapshots for every partnership in a fund",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			snapshots, err := a.metrics.GetFundMetrics(ctx, args[0], asOf)
			if err != nil {
				return err
			}

			printJSON(snapshots)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Valuation date (YYYY-MM-DD or RFC 3339), latest when omitted")

	return cmd
}

func positionsCmd() *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "positions <partnership-id>",
		Short: "Open positions for a limited partnership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			positions, err := a.metrics.GetPartnershipPositions(ctx, args[0], asOf)
			if err != nil {
				return err
			}

			printJSON(positions)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Valuation date (YYYY-MM-DD or RFC 3339), latest when omitted")

	return cmd
}

func recordCmd() *cobra.Command {
	var (
		partnershipID      string
		txType             string
		dateFlag           string
		description        string
		companyID          string
		shares             string
		pricePerShare      string
		sharesOutstanding  string
		fullyDilutedShares string
		recipientType      string
		recipientID        string
		totalAmount        string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append a transaction to the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseAsOf(dateFlag)
			if err != nil {
				return err
			}
			if date == nil {
				now := time.Now().UTC()
				date = &now
			}

			input := usecase.RecordTransactionInput{
				PartnershipID:      partnershipID,
				Type:               domain.TransactionType(txType),
				Date:               *date,
				Description:        description,
				PortfolioCompanyID: companyID,
				RecipientType:      domain.RecipientType(recipientType),
				RecipientID:        recipientID,
			}

			if input.TotalAmount, err = parseDecimal(totalAmount, "amount"); err != nil {
				return err
			}
			if input.Shares, err = parseDecimal(shares, "shares"); err != nil {
				return err
			}
			if input.PricePerShare, err = parseDecimal(pricePerShare, "price"); err != nil {
				return err
			}
			if input.SharesOutstanding, err = parseNullDecimal(sharesOutstanding, "shares-outstanding"); err != nil {
				return err
			}
			if input.FullyDilutedShares, err = parseNullDecimal(fullyDilutedShares, "fully-diluted"); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			tx, err := a.ledger.RecordTransaction(ctx, input)
			if err != nil {
				return err
			}

			if a.caching != nil {
				_ = a.caching.Invalidate(ctx, tx.PartnershipID, nil)
			}

			if a.fileDoc != nil {
				if err := appendToLedgerFile(ledgerPath, a.fileDoc, tx); err != nil {
					return err
				}
			}

			printJSON(tx)
			return nil
		},
	}

	cmd.Flags().StringVar(&partnershipID, "partnership", "", "Limited partnership ID (required)")
	cmd.Flags().StringVar(&txType, "type", "", "Transaction type: buy, sell, capital_return, realized_gain, dividend (required)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Transaction date (YYYY-MM-DD or RFC 3339), now when omitted")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&companyID, "company", "", "Portfolio company ID (buy/sell)")
	cmd.Flags().StringVar(&shares, "shares", "", "Share count (buy/sell)")
	cmd.Flags().StringVar(&pricePerShare, "price", "", "Price per share (buy/sell)")
	cmd.Flags().StringVar(&sharesOutstanding, "shares-outstanding", "", "Company shares outstanding at trade time")
	cmd.Flags().StringVar(&fullyDilutedShares, "fully-diluted", "", "Company fully diluted shares at trade time")
	cmd.Flags().StringVar(&recipientType, "recipient-type", "", "Distribution recipient type: limited_partner or general_partner")
	cmd.Flags().StringVar(&recipientID, "recipient", "", "Distribution recipient ID")
	cmd.Flags().StringVar(&totalAmount, "amount", "", "Total amount (required)")

	_ = cmd.MarkFlagRequired("partnership")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transactionsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "transactions <partnership-id>",
		Short: "List a partnership's transactions, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			transactions, err := a.ledger.ListTransactions(ctx, usecase.ListTransactionsInput{
				PartnershipID: args[0],
				Limit:         limit,
				Offset:        offset,
			})
			if err != nil {
				return err
			}

			printJSON(transactions)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

// parseAsOf accepts a plain date or a full RFC 3339 timestamp. Plain
// dates are read as end of day UTC so the day's transactions count.
func parseAsOf(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.Add(24*time.Hour - time.Nanosecond)
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", value)
	}

	return &t, nil
}

func parseDecimal(value, flag string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s value %q", flag, value)
	}

	return d, nil
}

func parseNullDecimal(value, flag string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := parseDecimal(value, flag)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func printJSON(v any) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(payload))
}
