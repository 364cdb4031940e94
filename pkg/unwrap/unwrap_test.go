package unwrap

import (
	"encoding/json"
	"testing"

	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(recs []model.Record) []any {
	out := []any{}
	for _, r := range recs {
		out = append(out, r["id"])
	}
	return out
}

func TestUnwrapTopLevelArray(t *testing.T) {
	recs := Unwrap([]byte(`[{"id": "a"}, {"id": "b"}]`))
	assert.Equal(t, []any{"a", "b"}, ids(recs))
}

func TestUnwrapContainerKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []any
	}{
		{"data", `{"total": 1, "data": [{"id": "d"}]}`, []any{"d"}},
		{"items", `{"items": [{"id": "i"}]}`, []any{"i"}},
		{"results", `{"results": [{"id": "r"}]}`, []any{"r"}},
		{"value", `{"value": [{"id": "v"}]}`, []any{"v"}},
		{"tareas", `{"tareas": [{"id": "t"}]}`, []any{"t"}},
		{"tasks", `{"tasks": [{"id": "k"}]}`, []any{"k"}},
		{"payload", `{"payload": [{"id": "p"}]}`, []any{"p"}},
		{"nested data.tareas", `{"data": {"tareas": [{"id": "n"}]}}`, []any{"n"}},
		{"first key wins", `{"tasks": [{"id": "late"}], "data": [{"id": "early"}]}`, []any{"early"}},
		{"empty container", `{"data": []}`, []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Unwrap([]byte(tt.body))))
		})
	}
}

func TestUnwrapFlattensUnknownArrays(t *testing.T) {
	body := `{"meta": {"page": 1}, "zeta": [{"id": "z"}], "alpha": [{"id": "a1"}, {"id": "a2"}]}`
	assert.Equal(t, []any{"z", "a1", "a2"}, ids(Unwrap([]byte(body))), "arrays are concatenated in document order")
}

func TestUnwrapSingleObject(t *testing.T) {
	recs := Unwrap([]byte(`{"id": "solo", "nombre_tarea": "Una"}`))
	require.Len(t, recs, 1)
	assert.Equal(t, "Una", recs[0]["nombre_tarea"])
}

func TestUnwrapSkipsNonObjects(t *testing.T) {
	recs := Unwrap([]byte(`[{"id": "a"}, 3, "x", null, [1], {"id": "b"}]`))
	assert.Equal(t, []any{"a", "b"}, ids(recs))
}

func TestUnwrapInvalidInput(t *testing.T) {
	for _, body := range []string{``, `not json`, `{"data": [`, `42`, `"text"`, `null`, `true`} {
		recs := Unwrap([]byte(body))
		assert.NotNil(t, recs, body)
		assert.Empty(t, recs, body)
	}
}

func TestUnwrapNumbersDecodeAsFloat(t *testing.T) {
	recs := Unwrap([]byte(`[{"id": 7, "esfuerzo": 1.5}]`))
	require.Len(t, recs, 1)
	assert.Equal(t, float64(7), recs[0]["id"])
	assert.Equal(t, 1.5, recs[0]["esfuerzo"])
}

func TestValue(t *testing.T) {
	var decoded any
	require.NoError(t, json.Unmarshal([]byte(`{"items": [{"id": "x"}]}`), &decoded))
	assert.Equal(t, []any{"x"}, ids(Value(decoded)))

	assert.Equal(t, []any{"y"}, ids(Value([]map[string]any{{"id": "y"}})))
	assert.Empty(t, Value(nil))
	assert.Empty(t, Value(func() {}))
}
