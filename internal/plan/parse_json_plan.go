package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// ErrMalformedInput wraps every failure to turn input bytes into a plan.
var ErrMalformedInput = errors.New("malformed EXPLAIN input")

// ErrPlanTooDeep reports resource exhaustion, as opposed to malformed input.
var ErrPlanTooDeep = errors.New("plan nesting exceeds depth limit")

// encoding/json refuses documents nested deeper than 10000 values and says
// so only in the error text.
const jsonDepthError = "exceeded max depth"

// ParseJSONPlan decodes EXPLAIN (FORMAT JSON) output. Keys are matched
// regardless of case, spacing and punctuation; absent keys leave the zero
// value in place.
func ParseJSONPlan(data []byte) ([]Explain, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) && strings.Contains(syntaxErr.Error(), jsonDepthError) {
			return nil, fmt.Errorf("%w: JSON nesting is deeper than the decoder accepts", ErrPlanTooDeep)
		}
		return nil, fmt.Errorf("%w: invalid EXPLAIN JSON: %w", ErrMalformedInput, err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("%w: invalid EXPLAIN JSON after the document: %w", ErrMalformedInput, err)
		}
		return nil, fmt.Errorf("%w: unexpected %v after the document", ErrMalformedInput, tok)
	}

	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", ErrMalformedInput, kindOf(raw))
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty EXPLAIN output", ErrMalformedInput)
	}

	explainType := reflect.TypeOf(Explain{})
	plans := make([]Explain, 0, len(entries))
	for i, entry := range entries {
		if _, ok := entry.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: entry %d is %s, not an object", ErrMalformedInput, i, kindOf(entry))
		}

		value, err := normalize(entry, explainType)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformedInput, i, err)
		}

		normalized, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformedInput, i, err)
		}

		var e Explain
		if err := json.Unmarshal(normalized, &e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformedInput, i, err)
		}
		plans = append(plans, e)
	}
	return plans, nil
}

type fieldInfo struct {
	name string
	typ  reflect.Type
}

var fieldCache sync.Map // reflect.Type -> map[string]fieldInfo

// normalize rewrites the keys of decoded JSON to the canonical tag names of
// t and drops keys t does not know about. When several keys fold to the same
// field, the exact tag name wins, then the first key in sorted order.
func normalize(v any, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		keys := make([]string, 0, len(obj))
		for key := range obj {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fields := fieldsOf(t)
		out := make(map[string]any, len(obj))
		exact := make(map[string]bool, len(obj))
		for _, key := range keys {
			f, ok := fields[canonicalKey(key)]
			if !ok {
				continue
			}
			if _, seen := out[f.name]; seen && (exact[f.name] || key != f.name) {
				continue
			}
			val, err := normalize(obj[key], f.typ)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[f.name] = val
			exact[f.name] = key == f.name
		}
		return out, nil
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return v, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			val, err := normalize(item, t.Elem())
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// PostgreSQL 18 reports averaged row counts with a fractional part.
		n, ok := v.(json.Number)
		if !ok {
			return v, nil
		}
		if _, err := n.Int64(); err == nil {
			return n, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s out of range", n)
		}
		rounded := math.Round(f)
		// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds.
		if rounded >= math.MaxInt64 || rounded < math.MinInt64 {
			return nil, fmt.Errorf("number %s out of range", n)
		}
		return json.Number(strconv.FormatInt(int64(rounded), 10)), nil
	default:
		return v, nil
	}
}

func fieldsOf(t reflect.Type) map[string]fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]fieldInfo)
	}

	fields := make(map[string]fieldInfo, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[canonicalKey(name)] = fieldInfo{name: name, typ: sf.Type}
	}

	fieldCache.Store(t, fields)
	return fields
}

// canonicalKey folds "Node Type", "node_type" and "NodeType" to "nodetype".
func canonicalKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
