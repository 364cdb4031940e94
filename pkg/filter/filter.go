// Package filter selects the tasks matching a user's filter choices.
package filter

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/tablero/pkg/model"
	"golang.org/x/text/cases"
)

// Spec holds the optional filter criteria. A zero field imposes no
// constraint; every set field must match (logical AND).
type Spec struct {
	Status       model.Status
	Priority     model.Priority
	Collaborator string      // exact match on the canonical collaborator
	DateFrom     *civil.Date // inclusive, against CreatedDate
	DateTo       *civil.Date // inclusive, against CreatedDate
	Board        string
	Query        string // case-insensitive substring of title or description
	Overdue      *bool
}

// IsZero reports whether s has no criteria set.
func (s Spec) IsZero() bool {
	return s.Status == "" && s.Priority == "" && s.Collaborator == "" &&
		s.DateFrom == nil && s.DateTo == nil && s.Board == "" &&
		s.Query == "" && s.Overdue == nil
}

// Apply returns the tasks matching spec in their original order. The result
// is always a new slice; tasks is left untouched.
func Apply(tasks []model.Task, spec Spec) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	query := ""
	if spec.Query != "" {
		query = cases.Fold().String(strings.TrimSpace(spec.Query))
	}
	for _, t := range tasks {
		if spec.match(t, query) {
			out = append(out, t)
		}
	}
	return out
}

// match reports whether t satisfies s. foldedQuery is s.Query already
// case-folded; Apply computes it once per call.
func (s Spec) match(t model.Task, foldedQuery string) bool {
	if s.Status != "" && t.Status != s.Status {
		return false
	}
	if s.Priority != "" && t.Priority != s.Priority {
		return false
	}
	if s.Collaborator != "" && t.Collaborator != s.Collaborator {
		return false
	}
	if s.Board != "" && t.Board != s.Board {
		return false
	}
	if s.DateFrom != nil || s.DateTo != nil {
		// A task without a creation date cannot be placed in a range.
		if t.CreatedDate == nil {
			return false
		}
		if s.DateFrom != nil && t.CreatedDate.Before(*s.DateFrom) {
			return false
		}
		if s.DateTo != nil && t.CreatedDate.After(*s.DateTo) {
			return false
		}
	}
	if s.Overdue != nil && t.IsOverdue != *s.Overdue {
		return false
	}
	if foldedQuery != "" {
		fold := cases.Fold()
		if !strings.Contains(fold.String(t.Title), foldedQuery) &&
			!strings.Contains(fold.String(t.Description), foldedQuery) {
			return false
		}
	}
	return true
}

// Collaborators lists the distinct non-blank collaborators in the order they
// first appear. It feeds the collaborator choices of a filter form.
func Collaborators(tasks []model.Task) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, t := range tasks {
		c := strings.TrimSpace(t.Collaborator)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
