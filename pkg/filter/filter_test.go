package filter

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/tablero/pkg/adapter"
	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func boolPtr(b bool) *bool { return &b }

func sample() []model.Task {
	return []model.Task{
		{
			ID: "1", Title: "Revisar informe", Description: "Trimestral",
			Status: model.StatusInProgress, Priority: model.PriorityUrgent,
			Collaborator: "Juan", Board: "Operaciones",
			CreatedDate: date(2025, time.January, 10), IsOverdue: true,
		},
		{
			ID: "2", Title: "Actualizar manual", Description: "Sección de calidad",
			Status: model.StatusCompleted, Priority: model.PriorityLow,
			Collaborator: "Ana", Board: "Calidad",
			CreatedDate: date(2025, time.February, 3),
		},
		{
			ID: "3", Title: "Preparar auditoría", Description: "",
			Status: model.StatusNotStarted, Priority: model.PriorityMedium,
			Collaborator: "Juan", Board: "Calidad",
		},
	}
}

func ids(tasks []model.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyEmptySpecCopies(t *testing.T) {
	tasks := sample()
	got := Apply(tasks, Spec{})
	assert.Equal(t, tasks, got)

	got[0].Title = "changed"
	assert.Equal(t, "Revisar informe", tasks[0].Title, "result must not alias the input")
}

func TestApplyCollaborator(t *testing.T) {
	got := Apply(sample(), Spec{Collaborator: "Juan"})
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApplyIsConjunctive(t *testing.T) {
	got := Apply(sample(), Spec{Collaborator: "Juan", Status: model.StatusNotStarted})
	assert.Equal(t, []string{"3"}, ids(got))

	got = Apply(sample(), Spec{Collaborator: "Ana", Priority: model.PriorityUrgent})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApplyEachCriterion(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"status", Spec{Status: model.StatusCompleted}, []string{"2"}},
		{"priority", Spec{Priority: model.PriorityMedium}, []string{"3"}},
		{"board", Spec{Board: "Calidad"}, []string{"2", "3"}},
		{"overdue", Spec{Overdue: boolPtr(true)}, []string{"1"}},
		{"not overdue", Spec{Overdue: boolPtr(false)}, []string{"2", "3"}},
		{"query title", Spec{Query: "MANUAL"}, []string{"2"}},
		{"query description", Spec{Query: "calidad"}, []string{"2"}},
		{"query accents kept", Spec{Query: "auditoría"}, []string{"3"}},
		{"query trimmed", Spec{Query: "  revisar "}, []string{"1"}},
		{"query no match", Spec{Query: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sample(), tt.spec)))
		})
	}
}

func TestApplyDateRange(t *testing.T) {
	tasks := sample()

	got := Apply(tasks, Spec{DateFrom: date(2025, time.January, 10)})
	assert.Equal(t, []string{"1", "2"}, ids(got), "from is inclusive; undated tasks are excluded")

	got = Apply(tasks, Spec{DateTo: date(2025, time.January, 10)})
	assert.Equal(t, []string{"1"}, ids(got), "to is inclusive")

	got = Apply(tasks, Spec{DateFrom: date(2025, time.January, 11), DateTo: date(2025, time.February, 3)})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tasks := sample()
	before := sample()
	_ = Apply(tasks, Spec{Collaborator: "Juan", Query: "x"})
	assert.Equal(t, before, tasks)
}

func TestApplyIsIdempotent(t *testing.T) {
	spec := Spec{Board: "Calidad"}
	once := Apply(sample(), spec)
	assert.Equal(t, once, Apply(once, spec))
}

func TestSpecIsZero(t *testing.T) {
	assert.True(t, Spec{}.IsZero())
	assert.False(t, Spec{Query: "x"}.IsZero())
	assert.False(t, Spec{Overdue: boolPtr(false)}.IsZero())
}

func TestCollaborators(t *testing.T) {
	tasks := append(sample(), model.Task{ID: "4", Collaborator: " "}, model.Task{ID: "5", Collaborator: "Ana"})
	assert.Equal(t, []string{"Juan", "Ana"}, Collaborators(tasks))

	got := Collaborators(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyAdaptedScenario(t *testing.T) {
	body := []byte(`[
		{"estado": "completado", "prioridad": "alta", "colaborador": "Juan", "fecha_creacion": "2025-01-01"},
		{"estado": "en proceso", "prioridad": "media", "colaborador": "Pedro", "fecha_creacion": "2025-02-01"},
		{"estado": "no iniciado", "prioridad": "baja", "colaborador": "Juan", "fecha_creacion": "2025-03-15"}
	]`)
	tasks := adapter.AdaptResponse(body, civil.Date{Year: 2025, Month: time.April, Day: 1})

	got := Apply(tasks, Spec{Collaborator: "Juan"})
	require.Len(t, got, 2)
	assert.Equal(t, model.StatusCompleted, got[0].Status)
	assert.Equal(t, model.StatusNotStarted, got[1].Status)

	// Adding a criterion never grows the result.
	narrower := Apply(tasks, Spec{Collaborator: "Juan", Priority: model.PriorityLow})
	assert.LessOrEqual(t, len(narrower), len(got))
	assert.Len(t, narrower, 1)
}
