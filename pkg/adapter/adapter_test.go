package adapter

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = civil.Date{Year: 2025, Month: time.June, Day: 1}

func date(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func TestAdaptFullRecord(t *testing.T) {
	rec := model.Record{
		"id":                 "t-1",
		"id_tarea_planner":   "PL-9",
		"nombre_tarea":       "Revisar informe",
		"descripcion":        "Informe trimestral",
		"estado":             "en proceso",
		"prioridad":          "alta",
		"colaborador":        "Juan",
		"creado_por":         "Ana",
		"nombre_tablero":     "Operaciones",
		"fecha_creacion":     "2025-01-10",
		"fecha_vencimiento":  "20/05/2025",
		"fecha_finalizacion": nil,
		"etiquetas":          []any{"calidad", "", "q2"},
		"checklist":          map[string]any{"items": []any{"leer", "firmar"}},
		"esfuerzo":           float64(3.5),
	}

	task := Adapt(rec, today)

	assert.Equal(t, "t-1", task.ID)
	assert.Equal(t, "PL-9", task.ExternalID)
	assert.Equal(t, "Revisar informe", task.Title)
	assert.Equal(t, "Informe trimestral", task.Description)
	assert.Equal(t, model.StatusInProgress, task.Status)
	assert.Equal(t, model.PriorityUrgent, task.Priority)
	assert.Equal(t, "Juan", task.Collaborator)
	assert.Equal(t, "Ana", task.CreatedBy)
	assert.Equal(t, "Operaciones", task.Board)
	assert.Equal(t, date(2025, time.January, 10), task.CreatedDate)
	assert.Equal(t, date(2025, time.May, 20), task.DueDate)
	assert.Nil(t, task.CompletedDate)
	assert.Equal(t, []string{"calidad", "q2"}, task.Tags)
	assert.Equal(t, []string{"leer", "firmar"}, task.Checklist.Items)
	assert.Equal(t, 3.5, task.Effort)
	assert.True(t, task.IsOverdue)
}

func TestAdaptDefaults(t *testing.T) {
	task := Adapt(model.Record{}, today)

	assert.Equal(t, model.StatusNotStarted, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, UnnamedTitle, task.Title)
	assert.Equal(t, "", task.Description)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.NotNil(t, task.Checklist.Items)
	assert.Empty(t, task.Checklist.Items)
	assert.Equal(t, 0.0, task.Effort)
	assert.False(t, task.IsOverdue)

	_, err := uuid.Parse(task.ID)
	assert.NoError(t, err, "a missing id is replaced by a generated one")
}

func TestAdaptUnknownValuesFallBack(t *testing.T) {
	task := Adapt(model.Record{"estado": "pendiente", "prioridad": "critica", "esfuerzo": "mucho"}, today)
	assert.Equal(t, model.StatusNotStarted, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, 0.0, task.Effort)
}

func TestAdaptGeneratedIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := Adapt(model.Record{}, today).ID
		require.False(t, seen[id], "duplicate generated id %s", id)
		seen[id] = true
	}
}

func TestAdaptNumericID(t *testing.T) {
	task := Adapt(model.Record{"id": float64(1234567)}, today)
	assert.Equal(t, "1234567", task.ID)
	assert.Equal(t, "ID 1234567", task.Title)
}

func TestTitleFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
		want string
	}{
		{"planner name first", model.Record{"nombre_tarea": "A", "title": "B"}, "A"},
		{"blank name skipped", model.Record{"nombre_tarea": "  ", "nombre": "C"}, "C"},
		{"non-string name skipped", model.Record{"nombre_tarea": 5, "name": "D"}, "D"},
		{"description", model.Record{"descripcion": "Desc"}, "Desc"},
		{"external id", model.Record{"id_tarea_planner": "X1", "id": "r1"}, "ID X1"},
		{"raw id", model.Record{"id": "r1"}, "ID r1"},
		{"nothing", model.Record{"estado": "Completado"}, UnnamedTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Adapt(tt.rec, today).Title)
		})
	}
}

func TestAdaptOverdueUsesReferenceDate(t *testing.T) {
	rec := model.Record{"fecha_vencimiento": "2025-05-31", "estado": "En curso", "retrasada": false}

	assert.True(t, Adapt(rec, today).IsOverdue)
	assert.False(t, Adapt(rec, civil.Date{Year: 2025, Month: time.May, Day: 31}).IsOverdue, "due today is not overdue")

	rec["estado"] = "Implementado"
	assert.False(t, Adapt(rec, today).IsOverdue, "completed-equivalent tasks are never overdue")

	assert.False(t, Adapt(model.Record{"retrasada": true}, today).IsOverdue, "upstream flag is ignored")
}

func TestAdaptTagsAndChecklistShapes(t *testing.T) {
	task := Adapt(model.Record{
		"tags":      []string{"a", "b"},
		"checklist": model.Checklist{Items: []string{"x"}},
	}, today)
	assert.Equal(t, []string{"a", "b"}, task.Tags)
	assert.Equal(t, []string{"x"}, task.Checklist.Items)

	task = Adapt(model.Record{"etiquetas": "not-a-list", "checklist": []any{"x"}}, today)
	assert.Empty(t, task.Tags)
	assert.Empty(t, task.Checklist.Items)
}

func TestAdaptIsIdempotent(t *testing.T) {
	rec := model.Record{
		"id":                "t-7",
		"name":              "Actualizar manual",
		"status":            "completo",
		"priority":          "low",
		"collaborator":      "Luisa",
		"created_date":      "01/02/2025",
		"due_date":          "2025/02/15",
		"completed_date":    "2025-02-14",
		"tags":              []any{"docs"},
		"effort":            "2",
		"id_tarea_planner":  "EXT",
		"completado_por":    "Luisa",
		"fecha_vencimiento": nil,
	}
	first := Adapt(rec, today)
	second := Adapt(first.Record(), today)
	assert.Equal(t, first, second)
}

func TestAdaptAllPreservesOrder(t *testing.T) {
	recs := []model.Record{{"id": "1"}, {"id": "2"}, {"id": "3"}}
	tasks := AdaptAll(recs, today)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, recs[i]["id"], task.ID)
	}
	assert.Empty(t, AdaptAll(nil, today))
}

func TestAdaptResponse(t *testing.T) {
	body := []byte(`{"total": 2, "data": [{"id": "a", "estado": "Completado"}, {"id": "b"}]}`)
	tasks := AdaptResponse(body, today)
	require.Len(t, tasks, 2)
	assert.Equal(t, model.StatusCompleted, tasks[0].Status)
	assert.Equal(t, model.StatusNotStarted, tasks[1].Status)

	assert.Empty(t, AdaptResponse([]byte(`not json`), today))
}
