package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
)

// Generated holds the domain objects produced from a seed, in insertion
// order.
type Generated struct {
	Users        []*domain.User
	Projects     []*domain.Project
	Memberships  []*domain.Membership
	Tasks        []*domain.Task
	Budgets      []*domain.Budget
	Transactions []*domain.Transaction
}

// Convert transforms a validated seed into domain objects ready for
// persistence. Amounts without a currency use cur, or their budget's currency
// for transactions linked to one. Call ValidateSeed first; Convert assumes
// the seed is valid.
func Convert(seed *SeedFile, cur money.Currency, now time.Time) (*Generated, error) {
	now = now.UTC()
	out := &Generated{}

	userIDs := make(map[string]string, len(seed.Users))
	for _, u := range seed.Users {
		role := domain.Coalesce(domain.Role(u.Role), domain.RoleMember)
		user := &domain.User{
			ID:        uuid.New().String(),
			Email:     strings.TrimSpace(u.Email),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      role,
			Active:    !u.Inactive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		userIDs[normalizeEmail(u.Email)] = user.ID
		out.Users = append(out.Users, user)
	}
	userID := func(email string) string { return userIDs[normalizeEmail(email)] }

	for _, ps := range seed.Projects {
		status := domain.Coalesce(domain.ProjectStatus(ps.Status), domain.ProjectPlanning)
		p := &domain.Project{
			ID:          uuid.New().String(),
			OwnerID:     userID(ps.Owner),
			Name:        ps.Name,
			Description: ps.Description,
			Status:      status,
			StartDate:   optionalDay(ps.StartDate),
			EndDate:     optionalDay(ps.EndDate),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if loc := ps.Location; loc != nil {
			lat, lng := loc.Latitude, loc.Longitude
			p.Latitude, p.Longitude = &lat, &lng
			p.LocationName = loc.Name
		}
		out.Projects = append(out.Projects, p)

		for _, m := range ps.Members {
			role := domain.Coalesce(domain.MembershipRole(m.Role), domain.MembershipMember)
			out.Memberships = append(out.Memberships, &domain.Membership{
				ID:        uuid.New().String(),
				UserID:    userID(m.Email),
				ProjectID: p.ID,
				Role:      role,
				JoinedAt:  now,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		for _, ts := range ps.Tasks {
			task := &domain.Task{
				ID:             uuid.New().String(),
				ProjectID:      p.ID,
				Title:          ts.Title,
				Description:    ts.Description,
				Status:         domain.TaskTodo,
				Priority:       domain.Coalesce(domain.TaskPriority(ts.Priority), domain.PriorityMedium),
				DueDate:        optionalDay(ts.DueDate),
				EstimatedHours: ts.EstimatedHours,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if ts.Assignee != "" {
				id := userID(ts.Assignee)
				task.AssigneeID = &id
			}
			if ts.Status != "" {
				task.SetStatus(domain.TaskStatus(ts.Status), now)
			}
			out.Tasks = append(out.Tasks, task)
		}

		budgets := make(map[string]*domain.Budget, len(ps.Budgets))
		for _, bs := range ps.Budgets {
			amount, err := parseAmount(bs.Amount, bs.Currency, cur)
			if err != nil {
				return nil, fmt.Errorf("budget %q: %w", bs.Ref, err)
			}
			start, _ := domain.ParseDay(bs.PeriodStart)
			end, _ := domain.ParseDay(bs.PeriodEnd)
			b := &domain.Budget{
				ID:          uuid.New().String(),
				ProjectID:   p.ID,
				Name:        bs.Name,
				Description: bs.Description,
				Amount:      amount,
				Category:    domain.BudgetCategory(bs.Category),
				PeriodStart: start,
				PeriodEnd:   end,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			budgets[bs.Ref] = b
			out.Budgets = append(out.Budgets, b)
		}

		for _, xs := range ps.Transactions {
			txCur := cur
			var budgetID *string
			if b, ok := budgets[xs.Budget]; ok {
				id := b.ID
				budgetID = &id
				txCur = b.Amount.Currency
			}
			amount, err := parseAmount(xs.Amount, xs.Currency, txCur)
			if err != nil {
				return nil, fmt.Errorf("transaction %q: %w", xs.Description, err)
			}
			date := domain.Day(now)
			if d := optionalDay(&xs.Date); d != nil {
				date = *d
			}
			out.Transactions = append(out.Transactions, &domain.Transaction{
				ID:          uuid.New().String(),
				ProjectID:   p.ID,
				BudgetID:    budgetID,
				UserID:      userID(xs.RecordedBy),
				Description: xs.Description,
				Amount:      amount,
				Type:        domain.TransactionType(xs.Type),
				Date:        date,
				Notes:       xs.Notes,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}

	return out, nil
}

func parseAmount(value, code string, fallback money.Currency) (money.Amount, error) {
	cur := fallback
	if code != "" {
		c, err := money.NewCurrency(code)
		if err != nil {
			return money.Amount{}, err
		}
		cur = c
	}
	return money.Parse(value, cur)
}

func optionalDay(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := domain.ParseDay(*s)
	if err != nil {
		return nil
	}
	return &t
}
