// Package normalize maps loosely-spelled upstream values onto the canonical
// vocabulary: statuses, priorities, calendar dates and field names.
//
// Nothing in this package fails on bad data. Unrecognized input comes back
// as "not found" and the caller picks the default.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
	"github.com/harrisonrobin/tablero/pkg/model"
	"golang.org/x/text/cases"
)

var statusSynonyms = map[string]model.Status{
	"no iniciado":            model.StatusNotStarted,
	"not started":            model.StatusNotStarted,
	"informado":              model.StatusInProgress,
	"en curso":               model.StatusInProgress,
	"en proceso":             model.StatusInProgress,
	"proceso":                model.StatusInProgress,
	"en_proceso":             model.StatusInProgress,
	"en-proceso":             model.StatusInProgress,
	"in progress":            model.StatusInProgress,
	"implementado":           model.StatusImplemented,
	"efectividad verificada": model.StatusEffectivenessVerified,
	"no efectivo":            model.StatusNotEffective,
	"completado":             model.StatusCompleted,
	"completo":               model.StatusCompleted,
	"completada":             model.StatusCompleted,
	"completed":              model.StatusCompleted,
}

var prioritySynonyms = map[string]model.Priority{
	"urgente":    model.PriorityUrgent,
	"alta":       model.PriorityUrgent,
	"urgent":     model.PriorityUrgent,
	"high":       model.PriorityUrgent,
	"importante": model.PriorityImportant,
	"important":  model.PriorityImportant,
	"media":      model.PriorityMedium,
	"normal":     model.PriorityMedium,
	"medium":     model.PriorityMedium,
	"baja":       model.PriorityLow,
	"low":        model.PriorityLow,
}

// key trims and case-folds s. A Caser is stateful, so each call gets its own.
func key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Status resolves a raw status spelling. The second result is false when the
// spelling is not in the synonym table.
func Status(raw string) (model.Status, bool) {
	s, ok := statusSynonyms[key(raw)]
	return s, ok
}

// Priority resolves a raw priority spelling.
func Priority(raw string) (model.Priority, bool) {
	p, ok := prioritySynonyms[key(raw)]
	return p, ok
}

var (
	yearFirst = regexp.MustCompile(`^(\d{4})[-/](\d{2})[-/](\d{2})$`)
	dayFirst  = regexp.MustCompile(`^(\d{2})[-/](\d{2})[-/](\d{4})$`)
)

// Date converts a date-like value into a calendar date, or nil when the value
// is empty or cannot be read as a date.
//
// Strings are matched in a fixed order: YYYY-MM-DD (or with slashes) first,
// then DD-MM-YYYY (or with slashes), then a general parser. A string that
// matches one of the two fixed layouts but names an impossible day is nil;
// it does not fall through to the general parser. Timestamps with an offset
// are dated in UTC; typed time.Time values keep their own location.
func Date(raw any) *civil.Date {
	switch v := raw.(type) {
	case nil:
		return nil
	case civil.Date:
		if !v.IsValid() {
			return nil
		}
		return &v
	case *civil.Date:
		if v == nil {
			return nil
		}
		return Date(*v)
	case time.Time:
		if v.IsZero() {
			return nil
		}
		d := civil.DateOf(v)
		return &d
	case *time.Time:
		if v == nil {
			return nil
		}
		return Date(*v)
	case string:
		return parseDate(v)
	}
	return nil
}

func parseDate(raw string) *civil.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if m := yearFirst.FindStringSubmatch(s); m != nil {
		return ymd(m[1], m[2], m[3])
	}
	if m := dayFirst.FindStringSubmatch(s); m != nil {
		return ymd(m[3], m[2], m[1])
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	// Timestamps carrying an offset are dated in UTC.
	d := civil.DateOf(t.UTC())
	return &d
}

func ymd(year, month, day string) *civil.Date {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	dd, _ := strconv.Atoi(day)
	d := civil.Date{Year: y, Month: time.Month(m), Day: dd}
	if !d.IsValid() {
		return nil
	}
	return &d
}

// String renders a scalar record value as trimmed text. Numbers are printed
// without exponent or trailing zeros so numeric ids survive the trip.
// Anything else, including nil, is "".
func String(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// Number coerces a record value into a finite float. Non-numeric, missing
// and non-finite values are 0.
func Number(raw any) float64 {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, _ = v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
