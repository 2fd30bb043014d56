package formatter

import (
	"github.com/lani-platform/lani/internal/domain"
)

func FormatUserList(users []*domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		name := u.FullName()
		if name == "" {
			name = Dim("--")
		}
		rows = append(rows, []string{TruncID(u.ID), u.Email, name, string(u.Role)})
	}
	return RenderBox("Users", RenderTable([]string{"ID", "EMAIL", "NAME", "ROLE"}, rows))
}

// FormatMemberList renders memberships; users maps IDs to display names.
func FormatMemberList(members []*domain.Membership, users map[string]*domain.User) string {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		who := m.UserID
		if u, ok := users[m.UserID]; ok {
			who = u.DisplayName()
		}
		role := string(m.Role)
		if m.IsManager() {
			role = StyleOrange.Render(role)
		}
		rows = append(rows, []string{who, role, m.JoinedAt.Format("2006-01-02")})
	}
	return RenderBox("Members", RenderTable([]string{"USER", "ROLE", "JOINED"}, rows))
}
