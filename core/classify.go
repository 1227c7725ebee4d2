package core

import (
	"strings"

	"github.com/huangsam/metacount/schema"
)

const (
	metaSuffix   = "-meta.xml"
	xmlSuffix    = ".xml"
	objectsDir   = "objects"
	objectMeta   = ".object-meta.xml"
	unitKeyPfx   = "unit:"
	bundleKeyPfx = "bundle:"
	fileKeyPfx   = "file:"
)

// parsedPath is a relative path broken into the parts every rule looks at.
// Each path is parsed exactly once per scan.
type parsedPath struct {
	rel      string   // forward-slash path relative to the source root
	dirs     []string // folder segments, outermost first
	base     string   // file name
	ext      string   // extension of base without the dot
	isXML    bool
	isMeta   bool   // ends in -meta.xml
	stripped string // rel without -meta.xml, only set when isMeta
}

func parsePath(rel string) parsedPath {
	p := parsedPath{rel: rel}
	segs := strings.Split(rel, "/")
	p.base = segs[len(segs)-1]
	p.dirs = segs[:len(segs)-1]
	if i := strings.LastIndex(p.base, "."); i >= 0 {
		p.ext = p.base[i+1:]
	}
	p.isXML = strings.HasSuffix(p.base, xmlSuffix)
	if strings.HasSuffix(p.base, metaSuffix) && len(p.base) > len(metaSuffix) {
		p.isMeta = true
		p.stripped = strings.TrimSuffix(rel, metaSuffix)
	}
	return p
}

// token returns the suffix token of a descriptor, e.g. "layout" for
// Foo.layout-meta.xml or "flow" for Bar.flow.xml. A plain Foo.xml yields "xml".
func (p parsedPath) token() string {
	if p.isMeta {
		name := strings.TrimSuffix(p.base, metaSuffix)
		if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
			return name[i+1:]
		}
		return name
	}
	name := strings.TrimSuffix(p.base, xmlSuffix)
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return "xml"
}

// decision is the outcome of classifying one file.
type decision struct {
	Type string
	Key  schema.ComponentKey
}

// rule is one entry of the ordered dispatch list.
type rule struct {
	name  string
	apply func(c *classifier, p parsedPath) (decision, bool)
}

// rules run in order and the first match wins: folder shapes before suffixes before fallback.
var rules = []rule{
	{name: "paired-descriptor", apply: (*classifier).pairedDescriptor},
	{name: "bundle", apply: (*classifier).bundle},
	{name: "object-child", apply: (*classifier).objectChild},
	{name: "suffix", apply: (*classifier).suffix},
	{name: "fallback", apply: (*classifier).fallback},
	{name: "unit", apply: (*classifier).unit},
}

// classifier resolves paths against one type map and the set of unit files present in a scan.
type classifier struct {
	types *TypeMap
	units map[string]struct{}
}

func newClassifier(types *TypeMap, parsed []parsedPath) *classifier {
	c := &classifier{types: types, units: make(map[string]struct{})}
	for _, p := range parsed {
		if types.IsUnit(p.ext) {
			c.units[p.rel] = struct{}{}
		}
	}
	return c
}

// isCandidate reports whether the file takes part in counting at all.
func (c *classifier) isCandidate(p parsedPath) bool {
	if p.isXML || c.types.IsUnit(p.ext) {
		return true
	}
	_, _, ok := c.bundleDir(p)
	return ok
}

// classify walks the rule list. ok is false for files no rule accepts.
func (c *classifier) classify(p parsedPath) (decision, string, bool) {
	for _, r := range rules {
		if d, ok := r.apply(c, p); ok {
			return d, r.name, true
		}
	}
	return decision{}, "", false
}

func (c *classifier) unitType(ext string) string {
	if t, ok := c.types.Lookup(ext); ok {
		return t
	}
	return ext
}

func (c *classifier) pairedDescriptor(p parsedPath) (decision, bool) {
	if !p.isMeta {
		return decision{}, false
	}
	if _, ok := c.units[p.stripped]; !ok {
		return decision{}, false
	}
	unit := parsePath(p.stripped)
	return decision{Type: c.unitType(unit.ext), Key: schema.ComponentKey(unitKeyPfx + p.stripped)}, true
}

// bundleDir finds the first aura/<x> or lwc/<x> folder enclosing the file.
func (c *classifier) bundleDir(p parsedPath) (string, string, bool) {
	for i := 0; i < len(p.dirs)-1; i++ {
		if t, ok := c.types.BundleType(p.dirs[i]); ok && p.dirs[i+1] != "" {
			return strings.Join(p.dirs[:i+2], "/"), t, true
		}
	}
	return "", "", false
}

func (c *classifier) bundle(p parsedPath) (decision, bool) {
	dir, t, ok := c.bundleDir(p)
	if !ok {
		return decision{}, false
	}
	return decision{Type: t, Key: schema.ComponentKey(bundleKeyPfx + dir)}, true
}

func (c *classifier) objectChild(p parsedPath) (decision, bool) {
	if !p.isXML {
		return decision{}, false
	}
	idx := -1
	for i, d := range p.dirs {
		if d == objectsDir {
			idx = i
		}
	}
	// Files sitting directly in objects/ are left to the suffix map.
	if idx < 0 || idx == len(p.dirs)-1 {
		return decision{}, false
	}
	key := schema.ComponentKey(fileKeyPfx + p.rel)
	below := p.dirs[idx+1:]

	if len(below) == 1 && p.base == below[0]+objectMeta {
		return decision{Type: schema.CustomObjectType, Key: key}, true
	}
	// below[0] is the object name, never a child folder.
	for i := len(below) - 1; i >= 1; i-- {
		if t, ok := c.types.ObjectChildType(below[i]); ok {
			return decision{Type: t, Key: key}, true
		}
	}
	return decision{Type: below[len(below)-1], Key: key}, true
}

func (c *classifier) suffix(p parsedPath) (decision, bool) {
	if !p.isXML {
		return decision{}, false
	}
	t, ok := c.types.Lookup(p.token())
	if !ok {
		return decision{}, false
	}
	return decision{Type: t, Key: schema.ComponentKey(fileKeyPfx + p.rel)}, true
}

func (c *classifier) fallback(p parsedPath) (decision, bool) {
	if !p.isXML {
		return decision{}, false
	}
	return decision{Type: p.token(), Key: schema.ComponentKey(fileKeyPfx + p.rel)}, true
}

func (c *classifier) unit(p parsedPath) (decision, bool) {
	if !c.types.IsUnit(p.ext) {
		return decision{}, false
	}
	return decision{Type: c.unitType(p.ext), Key: schema.ComponentKey(unitKeyPfx + p.rel)}, true
}
