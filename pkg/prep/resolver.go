package prep

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wdm0006/synthprep/pkg/processor"
)

// NoMethod is the resolved method of a column with no processing.
const NoMethod = ""

var specKeys = map[string]bool{
	"method": true, "all": true,
	"include": true, "incl": true,
	"exclude": true, "excl": true,
}

// Resolve flattens one stage's loosely typed config into column -> method
// over columns. raw is nil, a single spec
//
//	{method: string, all: bool} | {method, include: string|[string]} | {method, exclude: ...}
//
// or a list of such specs. Every column is present in the result; columns
// not assigned by raw map to NoMethod. columns is never modified.
func Resolve(stage processor.Stage, columns []string, raw any) (map[string]string, error) {
	out := make(map[string]string, len(columns))
	for _, c := range columns {
		out[c] = NoMethod
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	var specs []any
	switch v := raw.(type) {
	case nil:
		return out, nil
	case map[string]any:
		specs = []any{v}
	case []any:
		specs = v
	case []map[string]any:
		for _, s := range v {
			specs = append(specs, s)
		}
	default:
		return nil, fmt.Errorf("%w: resolve %s: expected a mapping or a list of mappings, got %T", processor.ErrConfiguration, stage, raw)
	}

	assigned := make(map[string]bool)
	for i, s := range specs {
		spec, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: resolve %s: entry %d is %T, not a mapping", processor.ErrConfiguration, stage, i, s)
		}
		got, err := resolveSpec(columns, known, spec)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", stage, err)
		}
		for _, c := range columns {
			m, ok := got[c]
			if !ok {
				continue
			}
			if assigned[c] {
				return nil, fmt.Errorf("%w: resolve %s: column %s is assigned more than once", processor.ErrConfiguration, stage, c)
			}
			assigned[c] = true
			out[c] = m
		}
	}
	return out, nil
}

func resolveSpec(columns []string, known map[string]bool, spec map[string]any) (map[string]string, error) {
	var unknown []string
	for k := range spec {
		if !specKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown keys %s", processor.ErrConfiguration, strings.Join(unknown, ", "))
	}

	if has(spec, "include", "incl") && has(spec, "exclude", "excl") {
		return nil, fmt.Errorf("%w: include and exclude cannot be combined", processor.ErrConfiguration)
	}
	include, err := names(spec, "include", "incl")
	if err != nil {
		return nil, err
	}
	exclude, err := names(spec, "exclude", "excl")
	if err != nil {
		return nil, err
	}

	method, ok := spec["method"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: method must be a string, got %T", processor.ErrConfiguration, spec["method"])
	}
	all := false
	if v, present := spec["all"]; present {
		if all, ok = v.(bool); !ok {
			return nil, fmt.Errorf("%w: all must be a bool, got %T", processor.ErrConfiguration, v)
		}
	}

	for _, c := range append(append([]string(nil), include...), exclude...) {
		if !known[c] {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown columns %s", processor.ErrConfiguration, strings.Join(unknown, ", "))
	}

	out := make(map[string]string)
	switch {
	case all:
		for _, c := range columns {
			out[c] = method
		}
	case len(include) > 0:
		for _, c := range include {
			out[c] = method
		}
	case len(exclude) > 0:
		skip := make(map[string]bool, len(exclude))
		for _, c := range exclude {
			skip[c] = true
		}
		for _, c := range columns {
			if !skip[c] {
				out[c] = method
			}
		}
	default:
		return nil, fmt.Errorf("%w: method %q needs one of all, include or exclude", processor.ErrConfiguration, method)
	}
	return out, nil
}

func has(spec map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := spec[k]; ok {
			return true
		}
	}
	return false
}

// names reads a string-or-list field under key or its alias.
func names(spec map[string]any, key, alias string) ([]string, error) {
	v, ok := spec[key]
	if a, aok := spec[alias]; aok {
		if ok {
			return nil, fmt.Errorf("%w: both %s and %s given", processor.ErrConfiguration, key, alias)
		}
		v = a
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{x}, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s entries must be strings, got %T", processor.ErrConfiguration, key, e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s must be a string or a list, got %T", processor.ErrConfiguration, key, v)
}
