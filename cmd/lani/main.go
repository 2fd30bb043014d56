package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/lani-platform/lani/internal/cli"
	"github.com/lani-platform/lani/internal/cli/formatter"
	"github.com/lani-platform/lani/internal/config"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/metrics"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/notify"
	"github.com/lani-platform/lani/internal/policy"
	"github.com/lani-platform/lani/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	uow := db.NewSQLiteUnitOfWork(database)

	var alerts notify.Publisher = notify.NewNoopPublisher()
	if cfg.AlertsEnabled() {
		pub, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			// Alerts are best effort; the ledger keeps working without them.
			logger.Warn("budget_alerts_disabled", "error", err.Error())
		} else {
			alerts = pub
		}
	}
	defer alerts.Close()

	cur, err := money.NewCurrency(cfg.Currency)
	if err != nil {
		return err
	}
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithCurrency(cur),
		service.WithAlertPublisher(alerts),
		service.WithDecisionObserver(policy.MultiObserver{
			policy.NewLogDecisionObserver(logger),
			metrics.DecisionObserver{},
		}),
		service.WithUseCaseObserver(service.NewMetricsUseCaseObserver()),
	}
	if cfg.LogUseCases {
		opts = append(opts, service.WithUseCaseObserver(service.NewLogUseCaseObserver(logger)))
	}

	app := &cli.App{
		Users:        service.NewUserService(uow, opts...),
		Projects:     service.NewProjectService(uow, opts...),
		Members:      service.NewMembershipService(uow, opts...),
		Tasks:        service.NewTaskService(uow, opts...),
		Budgets:      service.NewBudgetService(uow, opts...),
		Transactions: service.NewTransactionService(uow, opts...),
		Reports:      service.NewReportService(uow, opts...),
		Seed:         service.NewSeedService(uow, opts...),
		Metrics:      metrics.HandlerWith,
		MetricsAddr:  cfg.MetricsAddr,
	}

	fd := os.Stdout.Fd()
	formatter.SetPlain(os.Getenv("NO_COLOR") != "" || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
