package core

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/huangsam/metacount/schema"
	"gopkg.in/yaml.v3"
)

//go:embed typemap.yaml
var defaultTypeMapYAML []byte

// TypeMap holds the classification tables. It is plain data so that new
// component types can be added without touching the dispatch code.
type TypeMap struct {
	Types          map[string]string `yaml:"types"`
	Units          []string          `yaml:"units"`
	Bundles        map[string]string `yaml:"bundles"`
	ObjectChildren map[string]string `yaml:"object_children"`
}

var loadDefaultTypeMap = sync.OnceValues(func() (*TypeMap, error) {
	return ParseTypeMap(defaultTypeMapYAML)
})

// DefaultTypeMap returns the built-in tables. Callers must not mutate the result; use Merge.
func DefaultTypeMap() (*TypeMap, error) {
	return loadDefaultTypeMap()
}

// ParseTypeMap decodes a YAML type table.
func ParseTypeMap(data []byte) (*TypeMap, error) {
	var tm TypeMap
	if err := yaml.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("failed to parse type map: %w", err)
	}
	if tm.Types == nil {
		tm.Types = map[string]string{}
	}
	if tm.Bundles == nil {
		tm.Bundles = map[string]string{}
	}
	if tm.ObjectChildren == nil {
		tm.ObjectChildren = map[string]string{}
	}
	return &tm, nil
}

// Merge returns a copy of the map with the given suffix and object-child entries layered on top.
func (tm *TypeMap) Merge(types, objectChildren map[string]string) *TypeMap {
	merged := &TypeMap{
		Types:          maps.Clone(tm.Types),
		Units:          slices.Clone(tm.Units),
		Bundles:        maps.Clone(tm.Bundles),
		ObjectChildren: maps.Clone(tm.ObjectChildren),
	}
	maps.Copy(merged.Types, types)
	maps.Copy(merged.ObjectChildren, objectChildren)
	return merged
}

// Lookup maps a suffix token to its component type.
func (tm *TypeMap) Lookup(token string) (string, bool) {
	t, ok := tm.Types[token]
	return t, ok
}

// IsUnit reports whether files with this extension are source units.
func (tm *TypeMap) IsUnit(ext string) bool {
	return ext != "" && slices.Contains(tm.Units, ext)
}

// BundleType returns the component type for a bundle folder name such as "lwc".
func (tm *TypeMap) BundleType(folder string) (string, bool) {
	t, ok := tm.Bundles[folder]
	return t, ok
}

// ObjectChildType returns the component type for a folder below objects/<Object>/.
func (tm *TypeMap) ObjectChildType(folder string) (string, bool) {
	t, ok := tm.ObjectChildren[folder]
	return t, ok
}

// Rules flattens the tables into sorted rows for display.
func (tm *TypeMap) Rules() []schema.TypeRule {
	rules := make([]schema.TypeRule, 0, len(tm.Types)+len(tm.Bundles)+len(tm.ObjectChildren)+len(tm.Units))
	for _, u := range tm.Units {
		t, ok := tm.Lookup(u)
		if !ok {
			t = u
		}
		rules = append(rules, schema.TypeRule{Kind: schema.UnitRule, Key: u, Type: t})
	}
	for k, t := range tm.Bundles {
		rules = append(rules, schema.TypeRule{Kind: schema.BundleRule, Key: k, Type: t})
	}
	for k, t := range tm.ObjectChildren {
		rules = append(rules, schema.TypeRule{Kind: schema.ObjectChildRule, Key: k, Type: t})
	}
	for k, t := range tm.Types {
		rules = append(rules, schema.TypeRule{Kind: schema.SuffixRule, Key: k, Type: t})
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Kind != rules[j].Kind {
			return rules[i].Kind < rules[j].Kind
		}
		return rules[i].Key < rules[j].Key
	})
	return rules
}
