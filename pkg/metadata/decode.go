package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/synthprep/pkg/processor"
)

const (
	colSection    = "metadata_col"
	globalSection = "metadata_global"
)

// FromMap builds metadata from the loosely typed shape
//
//	{metadata_col: {name: {dtype, na_percentage?}}, metadata_global: {na_percentage?}}
//
// Go maps carry no order, so columns are sorted by name.
func FromMap(raw map[string]any) (*Metadata, error) {
	colsRaw, ok := raw[colSection]
	if !ok {
		return nil, fmt.Errorf("%w: metadata: missing %s", processor.ErrConfiguration, colSection)
	}
	globalRaw, ok := raw[globalSection]
	if !ok {
		return nil, fmt.Errorf("%w: metadata: missing %s", processor.ErrConfiguration, globalSection)
	}
	colsMap, ok := colsRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: metadata: %s must be a mapping, got %T", processor.ErrTypeMismatch, colSection, colsRaw)
	}
	global, ok := globalRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: metadata: %s must be a mapping, got %T", processor.ErrTypeMismatch, globalSection, globalRaw)
	}
	names := make([]string, 0, len(colsMap))
	for name := range colsMap {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]Column, 0, len(names))
	for _, name := range names {
		entry, ok := colsMap[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: metadata: column %s must be a mapping, got %T", processor.ErrTypeMismatch, name, colsMap[name])
		}
		c, err := columnFromMap(name, entry)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	na, err := fraction(globalSection, global["na_percentage"])
	if err != nil {
		return nil, err
	}
	return New(cols, na)
}

func columnFromMap(name string, entry map[string]any) (Column, error) {
	dtype, ok := entry["dtype"].(string)
	if !ok {
		return Column{}, fmt.Errorf("%w: metadata: column %s dtype must be a string, got %T", processor.ErrTypeMismatch, name, entry["dtype"])
	}
	na, err := fraction(name, entry["na_percentage"])
	if err != nil {
		return Column{}, err
	}
	return Column{Name: name, DType: dtype, NAPercentage: na}, nil
}

// fraction reads an optional number; absent means 0.
func fraction(where string, v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: metadata: %s na_percentage must be a number, got %T", processor.ErrTypeMismatch, where, v)
}

// Decode parses metadata in the given format: yaml, yml, json or toml.
// YAML and JSON keep the document's column order.
func Decode(data []byte, format string) (*Metadata, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml", "json":
		return decodeYAML(data)
	case "toml":
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: metadata: %v", processor.ErrConfiguration, err)
		}
		return FromMap(raw)
	}
	return nil, fmt.Errorf("%w: metadata: unsupported format %q", processor.ErrConfiguration, format)
}

// Load reads a metadata file, picking the format from its extension.
func Load(path string) (*Metadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b, filepath.Ext(path))
}

type yamlColumn struct {
	DType        string   `yaml:"dtype"`
	NAPercentage *float64 `yaml:"na_percentage"`
}

type yamlGlobal struct {
	NAPercentage *float64 `yaml:"na_percentage"`
}

func decodeYAML(data []byte) (*Metadata, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", processor.ErrConfiguration, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: metadata: document must be a mapping", processor.ErrTypeMismatch)
	}
	sections := map[string]*yaml.Node{}
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		sections[root.Content[i].Value] = root.Content[i+1]
	}
	for _, s := range []string{colSection, globalSection} {
		n, ok := sections[s]
		if !ok {
			return nil, fmt.Errorf("%w: metadata: missing %s", processor.ErrConfiguration, s)
		}
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: metadata: %s must be a mapping", processor.ErrTypeMismatch, s)
		}
	}

	colsNode := sections[colSection]
	cols := make([]Column, 0, len(colsNode.Content)/2)
	for i := 0; i+1 < len(colsNode.Content); i += 2 {
		name, entry := colsNode.Content[i].Value, colsNode.Content[i+1]
		if entry.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: metadata: column %s must be a mapping", processor.ErrTypeMismatch, name)
		}
		var yc yamlColumn
		if err := entry.Decode(&yc); err != nil {
			return nil, fmt.Errorf("%w: metadata: column %s: %v", processor.ErrTypeMismatch, name, err)
		}
		c := Column{Name: name, DType: yc.DType}
		if yc.NAPercentage != nil {
			c.NAPercentage = *yc.NAPercentage
		}
		cols = append(cols, c)
	}
	var g yamlGlobal
	if err := sections[globalSection].Decode(&g); err != nil {
		return nil, fmt.Errorf("%w: metadata: %s: %v", processor.ErrTypeMismatch, globalSection, err)
	}
	var na float64
	if g.NAPercentage != nil {
		na = *g.NAPercentage
	}
	return New(cols, na)
}
