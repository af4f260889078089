package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"iamkit/internal/invoke"
)

// Args is the bound parameter map of one invocation. Absent keys read as nil so
// omitted optional parameters never override service defaults.
type Args map[string]any

func (a Args) Has(key string) bool {
	if a == nil {
		return false
	}
	value, ok := a[key]
	return ok && value != nil
}

func (a Args) String(key string) *string {
	if !a.Has(key) {
		return nil
	}
	var s string
	switch v := a[key].(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		s = fmt.Sprintf("%v", v)
	}
	return &s
}

// Required returns the trimmed value of key, or a validation fault when it is absent or blank.
func (a Args) Required(key string) (string, error) {
	value := a.String(key)
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", invoke.Required(key)
	}
	return strings.TrimSpace(*value), nil
}

func (a Args) Int(key string) (*int, error) {
	if !a.Has(key) {
		return nil, nil
	}
	var n int64
	switch v := a[key].(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) {
			return nil, invoke.Invalid(key, fmt.Errorf("expected an integer, got %v", v))
		}
		n = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil, invoke.Invalid(key, err)
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, invoke.Invalid(key, err)
		}
		n = parsed
	default:
		return nil, invoke.Invalid(key, fmt.Errorf("expected an integer, got %T", v))
	}
	out := int(n)
	return &out, nil
}

func (a Args) Int32(key string) (*int32, error) {
	n, err := a.Int(key)
	if err != nil || n == nil {
		return nil, err
	}
	if *n > math.MaxInt32 || *n < math.MinInt32 {
		return nil, invoke.Invalid(key, fmt.Errorf("%d out of range", *n))
	}
	out := int32(*n)
	return &out, nil
}

func (a Args) Bool(key string) (*bool, error) {
	if !a.Has(key) {
		return nil, nil
	}
	switch v := a[key].(type) {
	case bool:
		return &v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, invoke.Invalid(key, err)
		}
		return &parsed, nil
	default:
		return nil, invoke.Invalid(key, fmt.Errorf("expected a boolean, got %T", v))
	}
}

// Flag reads an optional boolean, treating absent or malformed values as false.
func (a Args) Flag(key string) bool {
	value, err := a.Bool(key)
	return err == nil && value != nil && *value
}

func (a Args) List(key string) ([]any, error) {
	if !a.Has(key) {
		return nil, nil
	}
	switch v := a[key].(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out, nil
	case []map[string]any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out, nil
	case string, map[string]any:
		return []any{v}, nil
	default:
		return nil, invoke.Invalid(key, fmt.Errorf("expected a list, got %T", v))
	}
}

func (a Args) Strings(key string) ([]string, error) {
	items, err := a.List(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invoke.Invalid(key, fmt.Errorf("expected strings, got %T", item))
		}
		out = append(out, s)
	}
	return out, nil
}

// Objects reads a list of objects. String elements are decoded as JSON objects.
func (a Args) Objects(key string) ([]map[string]any, error) {
	items, err := a.List(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, v)
		case string:
			var obj map[string]any
			if err := json.Unmarshal([]byte(v), &obj); err != nil {
				return nil, invoke.Invalid(key, fmt.Errorf("decode %q: %w", v, err))
			}
			out = append(out, obj)
		default:
			return nil, invoke.Invalid(key, fmt.Errorf("expected objects, got %T", v))
		}
	}
	return out, nil
}

// Override reports whether the caller bypassed the confirmation gate.
func (a Args) Override() bool {
	return a.Flag("force") || a.Flag("confirm")
}

func (a Args) PageOptions() (invoke.PageOptions, error) {
	var opts invoke.PageOptions
	if a.Has("marker") {
		opts.Marker = a.String("marker")
	}
	size, err := a.Int32("pageSize")
	if err != nil {
		return opts, err
	}
	if size != nil && (*size < 1 || *size > 1000) {
		return opts, invoke.Invalid("pageSize", fmt.Errorf("must be between 1 and 1000, got %d", *size))
	}
	opts.PageSize = size
	maxItems, err := a.Int("maxItems")
	if err != nil {
		return opts, err
	}
	if maxItems != nil {
		if *maxItems < 0 {
			return opts, invoke.Invalid("maxItems", fmt.Errorf("must not be negative"))
		}
		opts.MaxItems = *maxItems
	}
	opts.NoAutoIteration = a.Flag("noAutoIteration")
	return opts, nil
}
