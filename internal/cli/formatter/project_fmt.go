package formatter

import (
	"fmt"
	"strings"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/domain"
)

func FormatProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			ProjectStatusPill(p.Status),
			Day(p.StartDate),
			Day(p.EndDate),
		})
	}
	return RenderBox("Projects", RenderTable([]string{"ID", "NAME", "STATUS", "START", "END"}, rows))
}

// ProjectDetail is everything the project show view renders.
type ProjectDetail struct {
	Project    *domain.Project
	Owner      *domain.User
	Progress   float64
	Financials *budget.Financials // nil hides the money section
	Members    int
}

func FormatProjectDetail(d ProjectDetail) string {
	p := d.Project
	owner := p.OwnerID
	if d.Owner != nil {
		owner = d.Owner.DisplayName()
	}
	pairs := [][2]string{
		{"id", p.ID},
		{"status", ProjectStatusPill(p.Status)},
		{"owner", owner},
		{"members", fmt.Sprintf("%d", d.Members)},
		{"dates", Day(p.StartDate) + " → " + Day(p.EndDate)},
	}
	if p.HasLocation() {
		c := p.Coordinates()
		loc := fmt.Sprintf("%.4f, %.4f", c[1], c[0])
		if p.LocationName != "" {
			loc = p.LocationName + " " + Dim("("+loc+")")
		}
		pairs = append(pairs, [2]string{"location", loc})
	}
	pairs = append(pairs, [2]string{"progress", RenderProgress(d.Progress, 20)})

	var b strings.Builder
	if p.Description != "" {
		b.WriteString(p.Description + "\n\n")
	}
	b.WriteString(KeyValues(pairs))
	if d.Financials != nil {
		b.WriteString("\n")
		b.WriteString(FormatFinancials(*d.Financials))
	}
	return RenderBox(p.Name, b.String())
}

func FormatFinancials(f budget.Financials) string {
	return KeyValues([][2]string{
		{"budgeted", Money(f.TotalBudget)},
		{"spent", Money(f.TotalSpent)},
		{"remaining", Money(f.Remaining)},
		{"income", StyleGreen.Render(f.TotalIncome.String())},
		{"expense", f.TotalExpense.String()},
	})
}
