package formatter

import (
	"strconv"

	"github.com/alexanderramin/loadboard/internal/domain"
)

// RoleRow is one line of the role list.
type RoleRow struct {
	ID   string
	Role domain.Role
	Load domain.Load
	Hint string
}

// FormatRoleList renders roles with their load in one period.
func FormatRoleList(period string, rows []RoleRow) string {
	headers := []string{"ID", "TYPE", "NAME", "GROUP", "TARGET", "USED", "LOAD", "DEV", "HINT"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.Role.Name
		if nick := domain.StrValue(r.Role.Nickname); nick != "" {
			name += Dim(" (" + nick + ")")
		}
		cells = append(cells, []string{
			TruncID(r.ID),
			r.Role.Type,
			name,
			OrDash(r.Role.GroupName()),
			domain.FormatValue(r.Load.Target),
			domain.FormatValue(r.Load.Used),
			RenderLoad(r.Load, 10),
			Deviation(r.Load),
			OrDash(r.Hint),
		})
	}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft, AlignRight}
	return Header("Roles · "+period) + "\n" + RenderTableAligned(headers, cells, align)
}

// TaskRow is one line of the task list.
type TaskRow struct {
	ID    int
	Task  domain.Task
	Roles string
}

// FormatTaskList renders tasks with the roles they span.
func FormatTaskList(period string, rows []TaskRow) string {
	headers := []string{"ID", "VALUE", "ROLES", "COMMENTS"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(r.ID),
			domain.FormatValue(r.Task.Value),
			r.Roles,
			OrDash(Truncate(domain.StrValue(r.Task.Comments), 40)),
		})
	}
	align := []Align{AlignRight, AlignRight}
	return Header("Tasks · "+period) + "\n" + RenderTableAligned(headers, cells, align)
}

// PeriodRow is one line of the period list.
type PeriodRow struct {
	Name  string
	Roles int
	Tasks int
}

// FormatPeriodList renders periods newest first.
func FormatPeriodList(rows []PeriodRow) string {
	headers := []string{"PERIOD", "ROLES", "TASKS"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.Name, strconv.Itoa(r.Roles), strconv.Itoa(r.Tasks)})
	}
	return Header("Periods") + "\n" + RenderTableAligned(headers, cells, []Align{AlignLeft, AlignRight, AlignRight})
}
