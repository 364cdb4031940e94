package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/harrisonrobin/tablero/pkg/normalize"
)

// ErrInvalidSpec is wrapped by every error ParseSpec returns.
var ErrInvalidSpec = errors.New("invalid filter")

// paramKeys maps each accepted parameter spelling to the Spec field it sets.
var paramKeys = map[string]string{
	"estado":       "status",
	"status":       "status",
	"prioridad":    "priority",
	"priority":     "priority",
	"colaborador":  "collaborator",
	"collaborator": "collaborator",
	"fechaDesde":   "from",
	"desde":        "from",
	"dateFrom":     "from",
	"fechaHasta":   "to",
	"hasta":        "to",
	"dateTo":       "to",
	"tablero":      "board",
	"board":        "board",
	"q":            "query",
	"vencida":      "overdue",
	"overdue":      "overdue",
}

// ParseSpec builds a Spec from loosely-keyed parameters such as a query
// string or form values. Blank values are ignored. Unknown keys and values
// that cannot be normalized are rejected rather than silently dropped.
func ParseSpec(params map[string]string) (Spec, error) {
	var spec Spec

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		field, ok := paramKeys[k]
		if !ok {
			return Spec{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, k)
		}
		v := strings.TrimSpace(params[k])
		if v == "" {
			continue
		}
		switch field {
		case "status":
			s, ok := normalize.Status(v)
			if !ok {
				return Spec{}, fmt.Errorf("%w: unknown status %q", ErrInvalidSpec, v)
			}
			spec.Status = s
		case "priority":
			p, ok := normalize.Priority(v)
			if !ok {
				return Spec{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidSpec, v)
			}
			spec.Priority = p
		case "collaborator":
			spec.Collaborator = v
		case "from":
			d := normalize.Date(v)
			if d == nil {
				return Spec{}, fmt.Errorf("%w: unreadable date %q for %s", ErrInvalidSpec, v, k)
			}
			spec.DateFrom = d
		case "to":
			d := normalize.Date(v)
			if d == nil {
				return Spec{}, fmt.Errorf("%w: unreadable date %q for %s", ErrInvalidSpec, v, k)
			}
			spec.DateTo = d
		case "board":
			spec.Board = v
		case "query":
			spec.Query = v
		case "overdue":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Spec{}, fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidSpec, k, v)
			}
			spec.Overdue = &b
		}
	}

	if spec.DateFrom != nil && spec.DateTo != nil && spec.DateTo.Before(*spec.DateFrom) {
		return Spec{}, fmt.Errorf("%w: date range ends (%s) before it starts (%s)", ErrInvalidSpec, spec.DateTo, spec.DateFrom)
	}
	return spec, nil
}
