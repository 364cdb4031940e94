package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/harrisonrobin/tablero/pkg/source"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"google.golang.org/api/sheets/v4"
)

// ErrMissingColumns is returned when the header row lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// RequiredColumns must be present in every task sheet.
var RequiredColumns = []string{"id_tarea_planner", "estado", "fecha_vencimiento"}

// headerSynonyms maps each canonical column to the header spellings it is
// recognized by, compared after HeaderKey.
var headerSynonyms = []struct {
	column   string
	synonyms []string
}{
	{"id_tarea_planner", []string{"id_tarea_planner", "id", "id tarea", "id planner", "id_tarea", "task id", "id de tarea", "id de planner"}},
	{"estado", []string{"estado", "status", "progreso", "avance", "situacion", "situación"}},
	{"fecha_vencimiento", []string{"fecha_vencimiento", "fecha de vencimiento", "vencimiento", "fecha limite", "fecha límite", "due date"}},
	{"nombre_tarea", []string{"nombre_tarea", "nombre de tarea", "nombre de la tarea", "tarea", "task name"}},
	{"prioridad", []string{"prioridad", "priority"}},
	{"colaborador", []string{"colaborador", "asignado a", "asignado", "assigned to"}},
	{"fecha_creacion", []string{"fecha_creacion", "fecha de creacion", "creado el", "created date"}},
	{"fecha_finalizacion", []string{"fecha_finalizacion", "fecha de finalizacion", "finalizado el", "completed date"}},
	{"creado_por", []string{"creado_por", "creado por", "created by"}},
	{"completado_por", []string{"completado_por", "completado por", "completed by"}},
	{"etiquetas", []string{"etiquetas", "labels", "tags"}},
	{"nombre_tablero", []string{"nombre_tablero", "nombre del plan", "tablero", "plan name"}},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// HeaderKey folds a spreadsheet header into a comparable key: lower case,
// accents stripped, runs of other characters collapsed to "_".
func HeaderKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(s))
	}
	return strings.Trim(nonAlnum.ReplaceAllString(folded, "_"), "_")
}

// DetectHeaders maps each column index of the header row to a record key.
// Recognized headers get their canonical column name; any other non-blank
// header keeps its folded form. missing lists the required columns that were
// not found.
func DetectHeaders(headers []string) (keys map[int]string, missing []string) {
	keys = make(map[int]string, len(headers))
	byKey := make(map[string]int, len(headers))
	for i, h := range headers {
		k := HeaderKey(h)
		if k == "" {
			continue
		}
		keys[i] = k
		if _, dup := byKey[k]; !dup {
			byKey[k] = i
		}
	}

	claimed := make(map[int]bool)
	for _, hs := range headerSynonyms {
		for _, syn := range hs.synonyms {
			if i, ok := byKey[HeaderKey(syn)]; ok && !claimed[i] {
				keys[i] = hs.column
				claimed[i] = true
				break
			}
		}
	}

	found := make(map[string]bool, len(keys))
	for _, k := range keys {
		found[k] = true
	}
	for _, c := range RequiredColumns {
		if !found[c] {
			missing = append(missing, c)
		}
	}
	return keys, missing
}

// RowsToRecords turns a sheet (header row first) into one record per
// non-blank data row.
func RowsToRecords(rows [][]interface{}) ([]model.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}
	headers := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		headers[i] = fmt.Sprint(c)
	}
	keys, missing := DetectHeaders(headers)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	records := []model.Record{}
	for _, row := range rows[1:] {
		rec := model.Record{}
		for i, cell := range row {
			k, ok := keys[i]
			if !ok {
				continue
			}
			s, isString := cell.(string)
			if isString && strings.TrimSpace(s) == "" {
				continue
			}
			if k == "etiquetas" && isString {
				rec[k] = splitTags(s)
				continue
			}
			rec[k] = cell
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

func splitTags(s string) []any {
	out := []any{}
	for _, tag := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// SheetClient reads task rows from one range of a spreadsheet.
type SheetClient struct {
	srv           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewSheetClient wraps an existing Sheets service.
func NewSheetClient(srv *sheets.Service, spreadsheetID, readRange string) *SheetClient {
	if readRange == "" {
		readRange = "A1:Z"
	}
	return &SheetClient{srv: srv, spreadsheetID: spreadsheetID, readRange: readRange}
}

// Fetch reads the whole range and returns it as a JSON array of records. The
// query is not applied: a sheet is always read in full and filtered locally.
func (c *SheetClient) Fetch(ctx context.Context, _ source.Query) (*source.Response, error) {
	vr, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read range %s: %w", c.readRange, err)
	}
	records, err := RowsToRecords(vr.Values)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sheet rows: %w", err)
	}
	return &source.Response{Body: body, Total: len(records)}, nil
}
