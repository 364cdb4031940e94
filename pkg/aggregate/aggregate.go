// Package aggregate computes the dashboard summary of a task collection:
// headline counts, priority and collaborator distributions, and the monthly
// status series.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/harrisonrobin/tablero/pkg/overdue"
)

const (
	// UnassignedLabel groups tasks with no collaborator.
	UnassignedLabel = "Sin asignar"
	// OtherLabel collects the collaborators beyond the top-N cut.
	OtherLabel = "Otros"

	DefaultTopCollaborators = 10
	DefaultLongTaskDays     = 30
)

// StatusCounts holds one count per canonical status; every status is present.
type StatusCounts map[model.Status]int

func newStatusCounts() StatusCounts {
	sc := make(StatusCounts, len(model.Statuses))
	for _, s := range model.Statuses {
		sc[s] = 0
	}
	return sc
}

// Total sums the counts over every status.
func (sc StatusCounts) Total() int {
	n := 0
	for _, c := range sc {
		n += c
	}
	return n
}

type PriorityCount struct {
	Priority model.Priority `json:"priority"`
	Count    int            `json:"count"`
}

type CollaboratorCount struct {
	Name     string       `json:"name"`
	Total    int          `json:"total"`
	ByStatus StatusCounts `json:"by_status"`
}

// MonthBucket counts the tasks whose reference date falls in Month
// (formatted YYYY-MM).
type MonthBucket struct {
	Month    string       `json:"month"`
	Total    int          `json:"total"`
	ByStatus StatusCounts `json:"by_status"`
}

// Alerts are the conditions a dashboard should call out.
type Alerts struct {
	Unassigned  int `json:"unassigned"`
	Overdue     int `json:"overdue"`
	LongRunning int `json:"long_running"`
}

// Empty reports whether there is nothing to call out.
func (a Alerts) Empty() bool {
	return a.Unassigned == 0 && a.Overdue == 0 && a.LongRunning == 0
}

type Summary struct {
	TotalCount               int                 `json:"total_count"`
	CompletedCount           int                 `json:"completed_count"`
	OverdueCount             int                 `json:"overdue_count"`
	AverageDurationDays      float64             `json:"average_duration_days"`
	PriorityDistribution     []PriorityCount     `json:"priority_distribution"`
	CollaboratorDistribution []CollaboratorCount `json:"collaborator_distribution"`
	MonthlyStatusEvolution   []MonthBucket       `json:"monthly_status_evolution"`
	Alerts                   Alerts              `json:"alerts"`
}

// PriorityCount returns the count for p, 0 for an unknown priority.
func (s Summary) PriorityCount(p model.Priority) int {
	for _, pc := range s.PriorityDistribution {
		if pc.Priority == p {
			return pc.Count
		}
	}
	return 0
}

type options struct {
	today        *civil.Date
	top          int
	longTaskDays int
}

// Option tunes Aggregate.
type Option func(*options)

// WithReferenceDate recomputes the overdue flag of every task against today
// instead of trusting the flag set at adaptation time.
func WithReferenceDate(today civil.Date) Option {
	return func(o *options) { o.today = &today }
}

// WithTopCollaborators sets how many collaborators are listed before the rest
// are merged into OtherLabel. Values below 1 keep the default.
func WithTopCollaborators(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.top = n
		}
	}
}

// WithLongTaskDays sets the duration above which a task counts as long
// running. Values below 1 keep the default.
func WithLongTaskDays(days int) Option {
	return func(o *options) {
		if days > 0 {
			o.longTaskDays = days
		}
	}
}

// Aggregate summarizes tasks. It never fails: an empty collection yields zero
// counts and zero-filled distributions.
func Aggregate(tasks []model.Task, opts ...Option) Summary {
	o := options{top: DefaultTopCollaborators, longTaskDays: DefaultLongTaskDays}
	for _, opt := range opts {
		opt(&o)
	}

	s := Summary{
		TotalCount:               len(tasks),
		PriorityDistribution:     priorityDistribution(tasks),
		CollaboratorDistribution: collaboratorDistribution(tasks, o.top),
		MonthlyStatusEvolution:   monthlyStatusEvolution(tasks),
	}

	var durationSum, durationN int
	for _, t := range tasks {
		if t.Status.IsCompleted() {
			s.CompletedCount++
		}
		if isOverdue(t, o.today) {
			s.OverdueCount++
		}
		if strings.TrimSpace(t.Collaborator) == "" {
			s.Alerts.Unassigned++
		}
		if days, ok := duration(t); ok {
			durationSum += days
			durationN++
			if days > o.longTaskDays {
				s.Alerts.LongRunning++
			}
		}
	}
	s.Alerts.Overdue = s.OverdueCount
	if durationN > 0 {
		s.AverageDurationDays = float64(durationSum) / float64(durationN)
	}
	return s
}

func isOverdue(t model.Task, today *civil.Date) bool {
	if today == nil {
		return t.IsOverdue
	}
	return overdue.Check(t.DueDate, t.Status, *today)
}

// duration is the number of days from creation to completion.
func duration(t model.Task) (int, bool) {
	if t.CreatedDate == nil || t.CompletedDate == nil {
		return 0, false
	}
	return t.CompletedDate.DaysSince(*t.CreatedDate), true
}

func priorityDistribution(tasks []model.Task) []PriorityCount {
	counts := make(map[model.Priority]int, len(model.Priorities))
	for _, t := range tasks {
		counts[t.Priority]++
	}
	out := make([]PriorityCount, 0, len(model.Priorities))
	for _, p := range model.Priorities {
		out = append(out, PriorityCount{Priority: p, Count: counts[p]})
	}
	return out
}

func collaboratorDistribution(tasks []model.Task, top int) []CollaboratorCount {
	var order []string
	byName := make(map[string]*CollaboratorCount)
	for _, t := range tasks {
		name := strings.TrimSpace(t.Collaborator)
		if name == "" {
			name = UnassignedLabel
		}
		cc, ok := byName[name]
		if !ok {
			cc = &CollaboratorCount{Name: name, ByStatus: newStatusCounts()}
			byName[name] = cc
			order = append(order, name)
		}
		cc.Total++
		cc.ByStatus[t.Status]++
	}

	out := make([]CollaboratorCount, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	// Stable sort keeps first-encounter order among equal totals.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })

	if len(out) <= top {
		return out
	}
	other := CollaboratorCount{Name: OtherLabel, ByStatus: newStatusCounts()}
	for _, cc := range out[top:] {
		other.Total += cc.Total
		for status, n := range cc.ByStatus {
			other.ByStatus[status] += n
		}
	}
	kept := out[:top:top]
	// A collaborator literally named OtherLabel absorbs the overflow so the
	// label appears once.
	for i := range kept {
		if kept[i].Name == OtherLabel {
			kept[i].Total += other.Total
			for status, n := range other.ByStatus {
				kept[i].ByStatus[status] += n
			}
			return kept
		}
	}
	return append(kept, other)
}

// referenceDate picks the date a task is charted under: due date, then
// creation date, then completion date.
func referenceDate(t model.Task) *civil.Date {
	switch {
	case t.DueDate != nil:
		return t.DueDate
	case t.CreatedDate != nil:
		return t.CreatedDate
	default:
		return t.CompletedDate
	}
}

func monthlyStatusEvolution(tasks []model.Task) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for _, t := range tasks {
		d := referenceDate(t)
		if d == nil {
			continue
		}
		key := monthKey(*d)
		b, ok := byMonth[key]
		if !ok {
			b = &MonthBucket{Month: key, ByStatus: newStatusCounts()}
			byMonth[key] = b
		}
		b.Total++
		b.ByStatus[t.Status]++
	}

	out := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	// YYYY-MM keys sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func monthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}
