package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/importer"
)

type seedService struct {
	base
}

// NewSeedService loads seed files. Seeding is an operator task and bypasses
// the policy engine.
func NewSeedService(uow db.UnitOfWork, opts ...Option) SeedService {
	return &seedService{base: newBase(uow, opts)}
}

func (s *seedService) SeedFile(ctx context.Context, path string) (*SeedResult, error) {
	seed, err := importer.LoadSeedFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading seed file: %w", err)
	}
	return s.Seed(ctx, seed)
}

// Seed validates, converts and stores the whole seed in one transaction.
func (s *seedService) Seed(ctx context.Context, seed *importer.SeedFile) (res *SeedResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "seed", startedAt, fields, err) }()

	if errs := importer.ValidateSeed(seed); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	gen, err := importer.Convert(seed, s.currency, s.now())
	if err != nil {
		return nil, fmt.Errorf("converting seed: %w", err)
	}

	err = s.within(ctx, func(ctx context.Context, w *work) error {
		for _, u := range gen.Users {
			if err := w.Users.Create(ctx, u); err != nil {
				return fmt.Errorf("creating user %q: %w", u.Email, err)
			}
		}
		for _, p := range gen.Projects {
			if err := w.Projects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %q: %w", p.Name, err)
			}
		}
		for _, m := range gen.Memberships {
			if err := w.Memberships.Create(ctx, m); err != nil {
				return fmt.Errorf("creating membership: %w", err)
			}
		}
		for _, t := range gen.Tasks {
			if err := w.Tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		for _, b := range gen.Budgets {
			if err := w.Budgets.Create(ctx, b); err != nil {
				return fmt.Errorf("creating budget %q: %w", b.Name, err)
			}
		}
		for _, tx := range gen.Transactions {
			if err := w.Transactions.Create(ctx, tx); err != nil {
				return fmt.Errorf("creating transaction %q: %w", tx.Description, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res = &SeedResult{
		Users:        len(gen.Users),
		Projects:     len(gen.Projects),
		Memberships:  len(gen.Memberships),
		Tasks:        len(gen.Tasks),
		Budgets:      len(gen.Budgets),
		Transactions: len(gen.Transactions),
	}
	fields["projects"] = res.Projects
	fields["transactions"] = res.Transactions
	return res, nil
}
