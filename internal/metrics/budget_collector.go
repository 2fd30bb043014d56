package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const budgetScrapeTimeout = 10 * time.Second

// BudgetSample is one budget's state at scrape time.
type BudgetSample struct {
	ProjectID      string
	BudgetID       string
	Budget         string
	Currency       string
	Status         string
	AmountCents    int64
	SpentCents     int64
	RemainingCents int64
	// Utilization is spent over amount; 1 means fully used.
	Utilization float64
	Active      bool
}

// BudgetSampler reads every budget from one consistent snapshot.
type BudgetSampler func(ctx context.Context) ([]BudgetSample, error)

var budgetLabels = []string{"project_id", "budget_id", "budget", "currency"}

// BudgetCollector recomputes budget gauges on every scrape, so the exported
// values always match the ledger.
type BudgetCollector struct {
	sample BudgetSampler

	amount      *prometheus.Desc
	spent       *prometheus.Desc
	remaining   *prometheus.Desc
	utilization *prometheus.Desc
	status      *prometheus.Desc
	active      *prometheus.Desc
	up          *prometheus.Desc
}

var _ prometheus.Collector = (*BudgetCollector)(nil)

func NewBudgetCollector(sample BudgetSampler) *BudgetCollector {
	desc := func(name, help string, extra ...string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName("lani", "budget", name), help,
			append(append([]string(nil), budgetLabels...), extra...), nil,
		)
	}
	return &BudgetCollector{
		sample:      sample,
		amount:      desc("amount_cents", "Budgeted amount in minor units."),
		spent:       desc("spent_cents", "Expenses charged to the budget in minor units."),
		remaining:   desc("remaining_cents", "Amount minus spent; negative when over budget."),
		utilization: desc("utilization_ratio", "Spent divided by amount."),
		status:      desc("status", "Always 1; the status label carries the budget status.", "status"),
		active:      desc("active", "1 while today falls inside the budget period."),
		up: prometheus.NewDesc(
			prometheus.BuildFQName("lani", "budget", "snapshot_up"),
			"1 if the last budget snapshot succeeded.", nil, nil,
		),
	}
}

func (c *BudgetCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.amount, c.spent, c.remaining, c.utilization, c.status, c.active, c.up} {
		ch <- d
	}
}

func (c *BudgetCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), budgetScrapeTimeout)
	defer cancel()

	samples, err := c.sample(ctx)
	if err != nil {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
	for _, s := range samples {
		labels := []string{s.ProjectID, s.BudgetID, s.Budget, s.Currency}
		ch <- prometheus.MustNewConstMetric(c.amount, prometheus.GaugeValue, float64(s.AmountCents), labels...)
		ch <- prometheus.MustNewConstMetric(c.spent, prometheus.GaugeValue, float64(s.SpentCents), labels...)
		ch <- prometheus.MustNewConstMetric(c.remaining, prometheus.GaugeValue, float64(s.RemainingCents), labels...)
		ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, s.Utilization, labels...)
		ch <- prometheus.MustNewConstMetric(c.status, prometheus.GaugeValue, 1, append(labels, s.Status)...)
		ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, boolGauge(s.Active), labels...)
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// HandlerWith serves the package collectors plus extra, which are kept in
// their own registry so repeated calls never collide.
func HandlerWith(extra ...prometheus.Collector) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	for _, c := range extra {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return promhttp.HandlerFor(prometheus.Gatherers{Registry, reg}, promhttp.HandlerOpts{}), nil
}
