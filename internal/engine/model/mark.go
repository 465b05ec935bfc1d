package model

import (
	"fmt"
	"sort"
	"strings"
)

// MarkType describes a kind of inline annotation such as bold or link.
type MarkType struct {
	Name string

	rank   int
	attrs  map[string]AttributeSpec
	schema *Schema
}

// Schema returns the schema the mark type belongs to.
func (t *MarkType) Schema() *Schema {
	return t.schema
}

// Create builds a mark of this type, filling in attribute defaults.
func (t *MarkType) Create(attrs Attrs) Mark {
	computed, _ := computeAttrs(t.attrs, attrs, false)
	return Mark{typ: t, attrs: computed}
}

// Mark is an inline annotation attached to a text node.
type Mark struct {
	typ   *MarkType
	attrs Attrs
}

// Type returns the mark's type.
func (m Mark) Type() *MarkType {
	return m.typ
}

// Attr returns a single attribute value.
func (m Mark) Attr(key string) any {
	return m.attrs[key]
}

// Attrs returns a copy of the mark's attributes.
func (m Mark) Attrs() Attrs {
	return m.attrs.Clone()
}

// Eq reports whether two marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	return m.typ == other.typ && m.attrs.Eq(other.attrs)
}

// String returns the mark name with any attributes.
func (m Mark) String() string {
	if len(m.attrs) == 0 {
		return m.typ.Name
	}
	return m.typ.Name + m.attrs.String()
}

// SameMarkSet reports whether two mark sets are equal.
func SameMarkSet(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// normalizeMarks sorts marks by schema rank and removes duplicates of the
// same type, keeping the last one given.
func normalizeMarks(marks []Mark) []Mark {
	if len(marks) == 0 {
		return nil
	}
	byType := make(map[*MarkType]Mark, len(marks))
	for _, m := range marks {
		byType[m.typ] = m
	}
	out := make([]Mark, 0, len(byType))
	for _, m := range byType {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].typ.rank < out[j].typ.rank })
	return out
}

func formatMarks(marks []Mark) string {
	names := make([]string, len(marks))
	for i, m := range marks {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

// Attrs holds node or mark attributes. Values are treated as immutable.
type Attrs map[string]any

// Clone returns a shallow copy.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Eq reports whether two attribute sets hold the same keys and values.
func (a Attrs) Eq(other Attrs) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || !attrValueEq(v, ov) {
			return false
		}
	}
	return true
}

func attrValueEq(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

// String formats attributes as [k=v,...] in key order.
func (a Attrs) String() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		v := a[k]
		if v == nil {
			parts[i] = k + "=null"
			continue
		}
		parts[i] = fmt.Sprintf("%s=%v", k, v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// AttributeSpec describes one attribute of a node or mark type.
type AttributeSpec struct {
	Default    any
	HasDefault bool
}

// Optional returns an attribute spec with the given default value.
func Optional(def any) AttributeSpec {
	return AttributeSpec{Default: def, HasDefault: true}
}

// Required returns an attribute spec without a default.
func Required() AttributeSpec {
	return AttributeSpec{}
}

// computeAttrs fills defaults for every declared attribute and drops unknown
// keys. With strict set, a missing required attribute is an error.
func computeAttrs(specs map[string]AttributeSpec, given Attrs, strict bool) (Attrs, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(Attrs, len(specs))
	for name, spec := range specs {
		if v, ok := given[name]; ok {
			out[name] = v
			continue
		}
		if !spec.HasDefault && strict {
			return nil, fmt.Errorf("%w: %s", ErrMissingAttr, name)
		}
		out[name] = spec.Default
	}
	return out, nil
}
