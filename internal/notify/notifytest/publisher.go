// Package notifytest provides an in-memory notify.Publisher for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/lani-platform/lani/internal/notify"
)

var _ notify.Publisher = (*MemoryPublisher)(nil)

// MemoryPublisher records alerts instead of sending them. Setting Err makes
// every publish fail.
type MemoryPublisher struct {
	mu     sync.Mutex
	alerts []notify.BudgetAlert
	Err    error
}

func (m *MemoryPublisher) PublishBudgetAlert(_ context.Context, alert notify.BudgetAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Alerts returns a copy of everything published so far.
func (m *MemoryPublisher) Alerts() []notify.BudgetAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.BudgetAlert(nil), m.alerts...)
}
