package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
)

// userID resolves an email to a user ID. Values without "@" are taken as IDs.
func (a *App) userID(ctx context.Context, ref string) (string, error) {
	if !strings.Contains(ref, "@") {
		return ref, nil
	}
	u, err := a.Users.ByEmail(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("user %s: %w", ref, err)
	}
	return u.ID, nil
}

// resolveProjectID accepts a full project ID or a unique prefix of one the
// actor can list.
func (a *App) resolveProjectID(ctx context.Context, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}
	projects, err := a.Projects.List(ctx, a.actor)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		// Let the service decide between not found and forbidden.
		return input, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func parseDay(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDay(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", flag, s)
	}
	return &d, nil
}

func parseAmount(s, currency string) (money.Amount, error) {
	var cur money.Currency
	if currency != "" {
		c, err := money.NewCurrency(currency)
		if err != nil {
			return money.Amount{}, err
		}
		cur = c
	}
	a, err := money.Parse(s, cur)
	if err != nil {
		return money.Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func outln(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}
