// Package adapter turns loosely-shaped task records into canonical tasks.
package adapter

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/harrisonrobin/tablero/pkg/normalize"
	"github.com/harrisonrobin/tablero/pkg/overdue"
	"github.com/harrisonrobin/tablero/pkg/unwrap"
)

// UnnamedTitle is the title of a task with no usable name, description or id.
const UnnamedTitle = "Sin nombre"

// Adapt converts one raw record into a canonical task. today is the
// reference date for the overdue flag; any overdue flag carried by the record
// itself is ignored.
func Adapt(rec model.Record, today civil.Date) model.Task {
	status, ok := normalize.Status(normalize.Text(rec, normalize.FieldStatus))
	if !ok {
		status = model.StatusNotStarted
	}
	priority, ok := normalize.Priority(normalize.Text(rec, normalize.FieldPriority))
	if !ok {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:            normalize.Text(rec, normalize.FieldID),
		ExternalID:    normalize.Text(rec, normalize.FieldExternalID),
		Description:   normalize.Text(rec, normalize.FieldDescription),
		Status:        status,
		Priority:      priority,
		Collaborator:  normalize.Text(rec, normalize.FieldCollaborator),
		CreatedBy:     normalize.Text(rec, normalize.FieldCreatedBy),
		CompletedBy:   normalize.Text(rec, normalize.FieldCompletedBy),
		Board:         normalize.Text(rec, normalize.FieldBoard),
		CreatedDate:   dateField(rec, normalize.FieldCreatedDate),
		DueDate:       dateField(rec, normalize.FieldDueDate),
		CompletedDate: dateField(rec, normalize.FieldCompletedDate),
		Tags:          tags(rec),
		Checklist:     checklist(rec),
		Effort:        effort(rec),
	}
	task.Title = title(rec, task.ExternalID, task.ID)
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.IsOverdue = overdue.Check(task.DueDate, task.Status, today)
	return task
}

// AdaptAll adapts every record, preserving order.
func AdaptAll(recs []model.Record, today civil.Date) []model.Task {
	tasks := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, Adapt(rec, today))
	}
	return tasks
}

// AdaptResponse unwraps a raw response body and adapts the records found in it.
func AdaptResponse(body []byte, today civil.Date) []model.Task {
	return AdaptAll(unwrap.Unwrap(body), today)
}

// title walks the name spellings, then the description, then the ids. The
// first non-blank string wins.
func title(rec model.Record, externalID, rawID string) string {
	for _, v := range normalize.Candidates(rec, normalize.FieldTitle) {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if desc := normalize.Text(rec, normalize.FieldDescription); desc != "" {
		return desc
	}
	if externalID != "" {
		return "ID " + externalID
	}
	if rawID != "" {
		return "ID " + rawID
	}
	return UnnamedTitle
}

func dateField(rec model.Record, f normalize.Field) *civil.Date {
	v, _ := normalize.Lookup(rec, f)
	return normalize.Date(v)
}

func tags(rec model.Record) []string {
	out := []string{}
	v, _ := normalize.Lookup(rec, normalize.FieldTags)
	items, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return append(out, ss...)
		}
		return out
	}
	for _, item := range items {
		if s := normalize.String(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func checklist(rec model.Record) model.Checklist {
	cl := model.Checklist{Items: []string{}}
	v, _ := normalize.Lookup(rec, normalize.FieldChecklist)
	var items any
	switch obj := v.(type) {
	case map[string]any:
		items = obj["items"]
	case model.Record:
		items = obj["items"]
	case model.Checklist:
		return model.Checklist{Items: append([]string{}, obj.Items...)}
	default:
		return cl
	}
	list, _ := items.([]any)
	for _, item := range list {
		if s := normalize.String(item); s != "" {
			cl.Items = append(cl.Items, s)
		}
	}
	return cl
}

func effort(rec model.Record) float64 {
	v, _ := normalize.Lookup(rec, normalize.FieldEffort)
	return normalize.Number(v)
}
