package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
)

// ValidateSeed checks the seed for errors before conversion. It returns every
// problem found, not just the first.
func ValidateSeed(seed *SeedFile) []error {
	var errs []error

	emails := make(map[string]bool, len(seed.Users))
	for i, u := range seed.Users {
		prefix := fmt.Sprintf("users[%d]", i)
		key := normalizeEmail(u.Email)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("%s.email is required", prefix))
		case !strings.Contains(key, "@"):
			errs = append(errs, fmt.Errorf("%s.email: invalid value %q", prefix, u.Email))
		case emails[key]:
			errs = append(errs, fmt.Errorf("%s.email: duplicate %q", prefix, u.Email))
		default:
			emails[key] = true
		}
		if u.Role != "" && !domain.ValidRoles[domain.Role(u.Role)] {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, u.Role))
		}
	}

	for i := range seed.Projects {
		errs = append(errs, validateProject(fmt.Sprintf("projects[%d]", i), &seed.Projects[i], emails)...)
	}
	return errs
}

func validateProject(prefix string, p *ProjectSeed, emails map[string]bool) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validateUserRef(prefix+".owner", p.Owner, emails, true)...)
	if p.Status != "" && !domain.ValidProjectStatuses[domain.ProjectStatus(p.Status)] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, p.Status))
	}
	errs = append(errs, validateOptionalDate(prefix+".start_date", p.StartDate)...)
	errs = append(errs, validateOptionalDate(prefix+".end_date", p.EndDate)...)
	if loc := p.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 {
			errs = append(errs, fmt.Errorf("%s.location.latitude: %v out of range", prefix, loc.Latitude))
		}
		if loc.Longitude < -180 || loc.Longitude > 180 {
			errs = append(errs, fmt.Errorf("%s.location.longitude: %v out of range", prefix, loc.Longitude))
		}
	}

	members := make(map[string]bool, len(p.Members))
	for i, m := range p.Members {
		mp := fmt.Sprintf("%s.members[%d]", prefix, i)
		errs = append(errs, validateUserRef(mp+".email", m.Email, emails, true)...)
		key := normalizeEmail(m.Email)
		if key != "" && members[key] {
			errs = append(errs, fmt.Errorf("%s.email: duplicate member %q", mp, m.Email))
		}
		members[key] = true
		if m.Role != "" && m.Role != string(domain.MembershipMember) && m.Role != string(domain.MembershipProjectManager) {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", mp, m.Role))
		}
	}

	for i, t := range p.Tasks {
		tp := fmt.Sprintf("%s.tasks[%d]", prefix, i)
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", tp))
		}
		errs = append(errs, validateUserRef(tp+".assignee", t.Assignee, emails, false)...)
		if t.Status != "" && !domain.ValidTaskStatuses[domain.TaskStatus(t.Status)] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", tp, t.Status))
		}
		if t.Priority != "" && !domain.ValidTaskPriorities[domain.TaskPriority(t.Priority)] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", tp, t.Priority))
		}
		errs = append(errs, validateOptionalDate(tp+".due_date", t.DueDate)...)
		if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.estimated_hours must not be negative", tp))
		}
	}

	budgetRefs := make(map[string]bool, len(p.Budgets))
	budgetCurrency := make(map[string]string, len(p.Budgets))
	for i, b := range p.Budgets {
		bp := fmt.Sprintf("%s.budgets[%d]", prefix, i)
		switch {
		case b.Ref == "":
			errs = append(errs, fmt.Errorf("%s.ref is required", bp))
		case budgetRefs[b.Ref]:
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", bp, b.Ref))
		default:
			budgetRefs[b.Ref] = true
			budgetCurrency[b.Ref] = strings.ToUpper(b.Currency)
		}
		if strings.TrimSpace(b.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", bp))
		}
		errs = append(errs, validateAmount(bp, b.Amount, b.Currency)...)
		if !domain.ValidBudgetCategory(domain.BudgetCategory(b.Category)) {
			errs = append(errs, fmt.Errorf("%s.category: invalid value %q", bp, b.Category))
		}
		start, startErr := parseRequiredDate(bp+".period_start", b.PeriodStart)
		end, endErr := parseRequiredDate(bp+".period_end", b.PeriodEnd)
		if startErr != nil {
			errs = append(errs, startErr)
		}
		if endErr != nil {
			errs = append(errs, endErr)
		}
		if startErr == nil && endErr == nil && !end.After(start) {
			errs = append(errs, fmt.Errorf("%s.period_end %q must be after period_start %q", bp, b.PeriodEnd, b.PeriodStart))
		}
	}

	for i, tx := range p.Transactions {
		xp := fmt.Sprintf("%s.transactions[%d]", prefix, i)
		if strings.TrimSpace(tx.Description) == "" {
			errs = append(errs, fmt.Errorf("%s.description is required", xp))
		}
		errs = append(errs, validateAmount(xp, tx.Amount, tx.Currency)...)
		if tx.Type != string(domain.TransactionIncome) && tx.Type != string(domain.TransactionExpense) {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", xp, tx.Type))
		}
		if tx.Date != "" {
			errs = append(errs, validateOptionalDate(xp+".date", &tx.Date)...)
		}
		if tx.Budget != "" && !budgetRefs[tx.Budget] {
			errs = append(errs, fmt.Errorf("%s.budget: ref %q not found in this project's budgets", xp, tx.Budget))
		}
		if bc := budgetCurrency[tx.Budget]; bc != "" && tx.Currency != "" && !strings.EqualFold(bc, tx.Currency) {
			errs = append(errs, fmt.Errorf("%s.currency: %q differs from budget %q currency %q", xp, tx.Currency, tx.Budget, bc))
		}
		errs = append(errs, validateUserRef(xp+".recorded_by", tx.RecordedBy, emails, true)...)
	}

	return errs
}

func validateUserRef(field, email string, emails map[string]bool, required bool) []error {
	key := normalizeEmail(email)
	if key == "" {
		if required {
			return []error{fmt.Errorf("%s is required", field)}
		}
		return nil
	}
	if !emails[key] {
		return []error{fmt.Errorf("%s: user %q not found in users", field, email)}
	}
	return nil
}

func validateAmount(prefix, amount, cur string) []error {
	var errs []error
	c := money.USD
	if cur != "" {
		parsed, err := money.NewCurrency(cur)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.currency: invalid value %q", prefix, cur))
		} else {
			c = parsed
		}
	}
	if amount == "" {
		return append(errs, fmt.Errorf("%s.amount is required", prefix))
	}
	a, err := money.Parse(amount, c)
	if err != nil {
		return append(errs, fmt.Errorf("%s.amount: invalid value %q", prefix, amount))
	}
	if !a.IsPositive() {
		errs = append(errs, fmt.Errorf("%s.amount must be greater than zero", prefix))
	}
	return errs
}

func validateOptionalDate(field string, value *string) []error {
	if value == nil || *value == "" {
		return nil
	}
	if _, err := domain.ParseDay(*value); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *value)}
	}
	return nil
}

func parseRequiredDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)
	}
	return t, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
