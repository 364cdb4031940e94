// Package report renders a dashboard summary and task list as plain text.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/tablero/pkg/aggregate"
	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/harrisonrobin/tablero/pkg/overdue"
)

// NoDataMessage is printed instead of the dashboard when there are no tasks.
const NoDataMessage = "No hay tareas para mostrar."

const titleWidth = 90

// Write renders the summary followed by the task table. total is the
// upstream count (0 when unknown); it is mentioned when it exceeds what was
// received.
func Write(w io.Writer, s aggregate.Summary, tasks []model.Task, total int, today civil.Date) error {
	if s.TotalCount == 0 {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reporte de tareas (%s)\n\n", today)
	fmt.Fprintf(&b, "Total de tareas:       %d", s.TotalCount)
	if total > s.TotalCount {
		fmt.Fprintf(&b, " (de %d)", total)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Completadas:           %d\n", s.CompletedCount)
	fmt.Fprintf(&b, "Vencidas:              %d\n", s.OverdueCount)
	fmt.Fprintf(&b, "Prom. duración (días): %.1f\n", s.AverageDurationDays)

	b.WriteString("\nAlertas:\n")
	if s.Alerts.Empty() {
		b.WriteString("• No hay alertas en este momento\n")
	}
	if s.Alerts.Unassigned > 0 {
		fmt.Fprintf(&b, "• %d tareas sin colaborador asignado\n", s.Alerts.Unassigned)
	}
	if s.Alerts.Overdue > 0 {
		fmt.Fprintf(&b, "• %d tareas vencidas sin completar\n", s.Alerts.Overdue)
	}
	if s.Alerts.LongRunning > 0 {
		fmt.Fprintf(&b, "• %d tareas de larga duración\n", s.Alerts.LongRunning)
	}

	b.WriteString("\nPor prioridad:\n")
	for _, pc := range s.PriorityDistribution {
		fmt.Fprintf(&b, "• %s: %d\n", pc.Priority, pc.Count)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if err := writeCollaborators(w, s.CollaboratorDistribution); err != nil {
		return err
	}
	if err := writeEvolution(w, s.MonthlyStatusEvolution); err != nil {
		return err
	}
	return writeTasks(w, tasks, today)
}

func writeCollaborators(w io.Writer, dist []aggregate.CollaboratorCount) error {
	fmt.Fprintln(w, "\nPor colaborador:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "COLABORADOR\tTOTAL%s\n", statusHeader())
	for _, cc := range dist {
		fmt.Fprintf(tw, "%s\t%d%s\n", cc.Name, cc.Total, statusCells(cc.ByStatus))
	}
	return tw.Flush()
}

func writeEvolution(w io.Writer, months []aggregate.MonthBucket) error {
	fmt.Fprintln(w, "\nEvolución por estado:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "MES\tTOTAL%s\n", statusHeader())
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%d%s\n", m.Month, m.Total, statusCells(m.ByStatus))
	}
	return tw.Flush()
}

func writeTasks(w io.Writer, tasks []model.Task, today civil.Date) error {
	fmt.Fprintln(w, "\nTareas:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TÍTULO\tCOLABORADOR\tESTADO\tPRIORIDAD\tVENCIMIENTO")
	for _, t := range tasks {
		collaborator := t.Collaborator
		if collaborator == "" {
			collaborator = "—"
		}
		due := "—"
		if t.DueDate != nil {
			due = fmt.Sprintf("%s (%s)", t.DueDate, relativeDays(*t.DueDate, today))
		}
		flag := ""
		if late := overdue.DaysLate(t, today); late > 0 {
			flag = fmt.Sprintf(" ! +%d", late)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%s\n", Truncate(t.Title, titleWidth), collaborator, t.Status, t.Priority, due, flag)
	}
	return tw.Flush()
}

func statusHeader() string {
	var b strings.Builder
	for _, s := range model.Statuses {
		b.WriteString("\t")
		b.WriteString(strings.ToUpper(string(s)))
	}
	return b.String()
}

func statusCells(sc aggregate.StatusCounts) string {
	var b strings.Builder
	for _, s := range model.Statuses {
		fmt.Fprintf(&b, "\t%d", sc[s])
	}
	return b.String()
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// relativeDays describes d relative to today: "hoy", "en 3 días", "hace 1 día".
func relativeDays(d, today civil.Date) string {
	diff := d.DaysSince(today)
	switch {
	case diff == 0:
		return "hoy"
	case diff > 0:
		return fmt.Sprintf("en %d %s", diff, plural(diff))
	default:
		return fmt.Sprintf("hace %d %s", -diff, plural(-diff))
	}
}

func plural(n int) string {
	if n == 1 {
		return "día"
	}
	return "días"
}
