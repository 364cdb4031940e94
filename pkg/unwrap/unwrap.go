// Package unwrap extracts the list of task records from a response envelope
// whose shape is not known in advance.
package unwrap

import (
	"encoding/json"

	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/tidwall/gjson"
)

// ContainerKeys are the envelope properties checked for a record array, in
// priority order. The first one holding an array wins even when later keys
// hold arrays too.
var ContainerKeys = []string{
	"data",
	"items",
	"results",
	"value",
	"tareas",
	"tasks",
	"payload",
	"data.tareas",
}

// Unwrap returns the task records held in a JSON document:
//
//   - a top-level array is the record list;
//   - otherwise the first ContainerKeys entry holding an array is used;
//   - otherwise every array-valued property is concatenated in document order;
//   - otherwise a lone object is treated as a single record.
//
// Anything else, including malformed JSON, yields an empty list. Array
// elements that are not objects are skipped.
func Unwrap(body []byte) []model.Record {
	if !gjson.ValidBytes(body) {
		return []model.Record{}
	}
	doc := gjson.ParseBytes(body)
	if doc.IsArray() {
		return records(doc)
	}
	if !doc.IsObject() {
		return []model.Record{}
	}

	for _, k := range ContainerKeys {
		if v := doc.Get(k); v.IsArray() {
			return records(v)
		}
	}

	var arrays []gjson.Result
	doc.ForEach(func(_, value gjson.Result) bool {
		if value.IsArray() {
			arrays = append(arrays, value)
		}
		return true
	})
	if len(arrays) > 0 {
		out := []model.Record{}
		for _, a := range arrays {
			out = append(out, records(a)...)
		}
		return out
	}

	if rec, ok := record(doc); ok {
		return []model.Record{rec}
	}
	return []model.Record{}
}

// Value unwraps an already-decoded value, such as the result of
// json.Unmarshal into an interface. Map keys are visited in sorted order
// because Go maps carry no document order.
func Value(v any) []model.Record {
	if v == nil {
		return []model.Record{}
	}
	body, err := json.Marshal(v)
	if err != nil {
		return []model.Record{}
	}
	return Unwrap(body)
}

func records(arr gjson.Result) []model.Record {
	out := []model.Record{}
	arr.ForEach(func(_, value gjson.Result) bool {
		if rec, ok := record(value); ok {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func record(v gjson.Result) (model.Record, bool) {
	if !v.IsObject() {
		return nil, false
	}
	m, ok := v.Value().(map[string]interface{})
	if !ok {
		return nil, false
	}
	return model.Record(m), true
}
