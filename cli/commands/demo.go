package commands

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/liamwh/veloxide"
	"github.com/liamwh/veloxide/adapters"
	"github.com/liamwh/veloxide/adapters/memory"
	"github.com/liamwh/veloxide/adapters/postgres"
	"github.com/liamwh/veloxide/bank"
	"github.com/liamwh/veloxide/cli/config"
	"github.com/liamwh/veloxide/cli/styles"
	"github.com/liamwh/veloxide/logging"
	"github.com/liamwh/veloxide/middleware/metrics"
	"github.com/liamwh/veloxide/middleware/tracing"
	"github.com/liamwh/veloxide/publisher/kafka"
	"github.com/liamwh/veloxide/publisher/sns"
	"github.com/liamwh/veloxide/serializer/msgpack"
)

// NewDemoCommand creates the demo command: it runs a short bank account
// scenario against the configured backend and prints the resulting view.
func NewDemoCommand(configDir *string) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a bank account scenario end to end",
		Long: `Opens an account, deposits money and withdraws cash through an ATM,
then prints the materialized account view.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runDemo(cmd.Context(), cfg, accountID)
		},
	}

	cmd.Flags().StringVar(&accountID, "account-id", "demo-account", "Account ID for the scenario")
	return cmd
}

func runDemo(ctx context.Context, cfg *config.Config, accountID string) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Tracing.Enabled && cfg.Tracing.Stdout {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		otel.SetTracerProvider(tp)
		defer func() { _ = tp.Shutdown(ctx) }()
	}

	eventStore, viewStore, cleanup, err := newAdapters(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	m := metrics.New(metrics.WithServiceName(cfg.Service.Name))
	tracer := tracing.NewTracer(tracing.WithServiceName(cfg.Service.Name))

	opts := []veloxide.ExecutorOption{
		veloxide.WithLogger(logger),
		veloxide.WithMiddleware(
			veloxide.ValidationMiddleware(),
			m.CommandMiddleware(),
			tracer.CommandMiddleware(),
			veloxide.LoggingMiddleware(logger),
		),
		veloxide.WithSubscribers(veloxide.NewLoggingSubscriber(logger)),
	}

	if cfg.Kafka.Enabled {
		opts = append(opts, veloxide.WithSubscribers(
			kafka.New(cfg.Kafka.Topic, cfg.Kafka.Brokers),
		))
	}

	if cfg.SNS.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		opts = append(opts, veloxide.WithSubscribers(
			sns.New(awssns.NewFromConfig(awsCfg), cfg.SNS.TopicARN),
		))
	}

	service := bank.NewServiceWithSerializer(
		m.WrapEventStore(tracer.WrapEventStore(eventStore)),
		viewStore,
		bank.HappyPathServices{},
		newSerializer(cfg),
		opts...,
	)

	fmt.Println(styles.Step("opening account %s", accountID))
	if err := service.ExecuteCommand(ctx, accountID, bank.OpenAccount{AccountID: accountID}); err != nil {
		return err
	}

	fmt.Println(styles.Step("depositing 200.00"))
	if err := service.ExecuteCommand(ctx, accountID, bank.DepositMoney{Amount: 200}); err != nil {
		return err
	}

	fmt.Println(styles.Step("withdrawing 100.00 at ATM atm-1"))
	if err := service.ExecuteCommand(ctx, accountID, bank.WithdrawMoney{Amount: 100, AtmID: "atm-1"}); err != nil {
		return err
	}

	view, err := service.AccountView(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account view: %w", err)
	}

	fmt.Println()
	fmt.Println(styles.Subtitle.Render("Account view"))
	fmt.Println(styles.Ok("account %s, balance %.2f", view.AccountID, view.Balance))
	for _, tx := range view.AccountTransactions {
		fmt.Println(styles.Muted.Render(fmt.Sprintf("  %-16s %10.2f", tx.Description, tx.Amount)))
	}
	return nil
}

func newSerializer(cfg *config.Config) bank.SerializerFactory {
	if cfg.Service.PayloadEncoding == "msgpack" {
		return func(r *veloxide.EventRegistry) veloxide.Serializer {
			return msgpack.NewSerializer(r)
		}
	}
	return func(r *veloxide.EventRegistry) veloxide.Serializer {
		return veloxide.NewJSONSerializer(r)
	}
}

func newLogger(cfg *config.Config) (*logging.ZapLogger, error) {
	if cfg.Service.LogLevel == "debug" {
		return logging.NewDevelopment()
	}
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logging.NewZapLogger(zl), nil
}

func newAdapters(ctx context.Context, cfg *config.Config) (adapters.EventStoreAdapter, adapters.ViewStoreAdapter, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		pg, err := postgres.NewAdapter(cfg.Database.URL, postgres.WithSchema(cfg.Database.Schema))
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Initialize(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, nil, err
		}
		return pg, pg, func() { _ = pg.Close() }, nil

	case "memory", "":
		return memory.NewAdapter(), memory.NewViewStore(), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
