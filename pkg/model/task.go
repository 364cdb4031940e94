package model

import "cloud.google.com/go/civil"

// Status is the canonical task state. Values are the labels used by the
// upstream planner export.
type Status string

const (
	StatusNotStarted            Status = "No iniciado"
	StatusInProgress            Status = "En curso"
	StatusImplemented           Status = "Implementado"
	StatusEffectivenessVerified Status = "Efectividad verificada"
	StatusNotEffective          Status = "No efectivo"
	StatusCompleted             Status = "Completado"
)

// Statuses lists every canonical status in display order.
var Statuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusImplemented,
	StatusEffectivenessVerified,
	StatusNotEffective,
	StatusCompleted,
}

// IsCompleted reports whether s belongs to the completed-equivalent set,
// the statuses that suppress the overdue flag.
func (s Status) IsCompleted() bool {
	switch s {
	case StatusImplemented, StatusEffectivenessVerified, StatusCompleted:
		return true
	}
	return false
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	for _, c := range Statuses {
		if s == c {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityUrgent    Priority = "Urgente"
	PriorityImportant Priority = "Importante"
	PriorityMedium    Priority = "Media"
	PriorityLow       Priority = "Baja"
)

// Priorities lists every canonical priority, most urgent first.
var Priorities = []Priority{
	PriorityUrgent,
	PriorityImportant,
	PriorityMedium,
	PriorityLow,
}

func (p Priority) Valid() bool {
	for _, c := range Priorities {
		if p == c {
			return true
		}
	}
	return false
}

// Record is one loosely-structured task object as delivered by a source,
// typically a decoded JSON object.
type Record map[string]any

type Checklist struct {
	Items []string `json:"items"`
}

// Task is the canonical task. It is built fresh by the adapter on every pass
// and treated as an immutable value afterwards.
type Task struct {
	ID            string      `json:"id"`
	ExternalID    string      `json:"external_id,omitempty"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Status        Status      `json:"status"`
	Priority      Priority    `json:"priority"`
	Collaborator  string      `json:"collaborator,omitempty"`
	CreatedBy     string      `json:"created_by,omitempty"`
	CompletedBy   string      `json:"completed_by,omitempty"`
	Board         string      `json:"board,omitempty"`
	CreatedDate   *civil.Date `json:"created_date,omitempty"`
	DueDate       *civil.Date `json:"due_date,omitempty"`
	CompletedDate *civil.Date `json:"completed_date,omitempty"`
	Tags          []string    `json:"tags"`
	Checklist     Checklist   `json:"checklist"`
	IsOverdue     bool        `json:"is_overdue"`
	Effort        float64     `json:"effort"`
}

// Record projects the task back into the upstream record shape. Adapting the
// result yields the same task again.
func (t Task) Record() Record {
	rec := Record{
		"id":           t.ID,
		"nombre_tarea": t.Title,
		"descripcion":  t.Description,
		"estado":       string(t.Status),
		"prioridad":    string(t.Priority),
		"etiquetas":    toAnySlice(t.Tags),
		"checklist":    map[string]any{"items": toAnySlice(t.Checklist.Items)},
		"esfuerzo":     t.Effort,
	}
	setString(rec, "id_tarea_planner", t.ExternalID)
	setString(rec, "colaborador", t.Collaborator)
	setString(rec, "creado_por", t.CreatedBy)
	setString(rec, "completado_por", t.CompletedBy)
	setString(rec, "nombre_tablero", t.Board)
	setDate(rec, "fecha_creacion", t.CreatedDate)
	setDate(rec, "fecha_vencimiento", t.DueDate)
	setDate(rec, "fecha_finalizacion", t.CompletedDate)
	return rec
}

func setString(rec Record, key, v string) {
	if v != "" {
		rec[key] = v
	}
}

func setDate(rec Record, key string, d *civil.Date) {
	if d != nil {
		rec[key] = d.String()
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
