package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/metrics"
	"github.com/lani-platform/lani/internal/service"
)

func newServeMetricsCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics, including live budget gauges, until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Metrics == nil {
				return fmt.Errorf("metrics are not configured")
			}
			if addr == "" {
				addr = app.MetricsAddr
			}
			if addr == "" {
				return fmt.Errorf("no listen address: pass --addr or set LANI_METRICS_ADDR")
			}

			h, err := app.Metrics(metrics.NewBudgetCollector(budgetSampler(app.Reports)))
			if err != nil {
				return fmt.Errorf("registering budget collector: %w", err)
			}
			return serveMetrics(ctxOf(cmd), addr, h, func(a string) {
				printf(cmd, "Serving metrics on http://%s/metrics\n", a)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, e.g. :9090")
	return cmd
}

func serveMetrics(ctx context.Context, addr string, h http.Handler, started func(string)) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	started(addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// budgetSampler adapts the report service's snapshot to the exporter.
func budgetSampler(reports service.ReportService) metrics.BudgetSampler {
	return func(ctx context.Context) ([]metrics.BudgetSample, error) {
		lines, err := reports.BudgetSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]metrics.BudgetSample, 0, len(lines))
		for _, l := range lines {
			out = append(out, metrics.BudgetSample{
				ProjectID:      l.Budget.ProjectID,
				BudgetID:       l.Budget.ID,
				Budget:         l.Budget.Name,
				Currency:       string(l.Summary.Amount.Currency),
				Status:         string(l.Summary.Status),
				AmountCents:    l.Summary.Amount.Cents,
				SpentCents:     l.Summary.Spent.Cents,
				RemainingCents: l.Summary.Remaining.Cents,
				Utilization:    l.Summary.PercentageUsed.Float() / 100,
				Active:         l.Summary.Active,
			})
		}
		return out, nil
	}
}
