package normalize

import "github.com/harrisonrobin/tablero/pkg/model"

// Field names a canonical task attribute.
type Field int

const (
	FieldID Field = iota
	FieldExternalID
	FieldTitle
	FieldDescription
	FieldStatus
	FieldPriority
	FieldCollaborator
	FieldCreatedBy
	FieldCompletedBy
	FieldBoard
	FieldCreatedDate
	FieldDueDate
	FieldCompletedDate
	FieldTags
	FieldChecklist
	FieldEffort
)

// Fields is the bounded table of key spellings accepted for each canonical
// field, in lookup order. The upstream planner export spelling comes first.
var Fields = map[Field][]string{
	FieldID:            {"id"},
	FieldExternalID:    {"id_tarea_planner", "external_id", "externalId"},
	FieldTitle:         {"nombre_tarea", "name_task", "nombre", "titulo", "title", "name"},
	FieldDescription:   {"descripcion", "description"},
	FieldStatus:        {"estado", "status"},
	FieldPriority:      {"prioridad", "priority"},
	FieldCollaborator:  {"colaborador", "collaborator", "assignee"},
	FieldCreatedBy:     {"creado_por", "created_by", "createdBy"},
	FieldCompletedBy:   {"completado_por", "completed_by", "completedBy"},
	FieldBoard:         {"nombre_tablero", "tablero", "board"},
	FieldCreatedDate:   {"fecha_creacion", "created_date", "createdDate"},
	FieldDueDate:       {"fecha_vencimiento", "due_date", "dueDate"},
	FieldCompletedDate: {"fecha_finalizacion", "completed_date", "completedDate"},
	FieldTags:          {"etiquetas", "tags"},
	FieldChecklist:     {"checklist"},
	FieldEffort:        {"esfuerzo", "effort"},
}

// Lookup returns the value of the first spelling of f present in rec with a
// non-nil value.
func Lookup(rec model.Record, f Field) (any, bool) {
	for _, k := range Fields[f] {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Candidates returns every non-nil value for f in lookup order.
func Candidates(rec model.Record, f Field) []any {
	var out []any
	for _, k := range Fields[f] {
		if v, ok := rec[k]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Text is Lookup followed by String.
func Text(rec model.Record, f Field) string {
	v, _ := Lookup(rec, f)
	return String(v)
}
