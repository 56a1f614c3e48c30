// Package types implements Aura's type registry: named Klass values each
// able to derive a draft-07 JSON schema and to construct a validated,
// normalized Go value from raw JSON-shaped data (the generative-cast
// target). It is intentionally decoupled from the VM's runtime Obj
// representation — the VM lifts a constructed value into an Obj once
// Construct succeeds, using the originating Klass for field typing.
package types

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Klass is a type: every variant in Aura's Klass sum (primitive, record,
// union, constant, reference, generic) satisfies this.
type Klass interface {
	Name() string
	JSONSchema() map[string]interface{}
	Construct(raw interface{}) (interface{}, error)
}

// Primitive is one of Int, Float, Str, Bool, Nihil.
type Primitive struct {
	NameStr string
}

func (p Primitive) Name() string { return p.NameStr }

func (p Primitive) JSONSchema() map[string]interface{} {
	switch p.NameStr {
	case "Int":
		return map[string]interface{}{"type": "integer"}
	case "Float":
		return map[string]interface{}{"type": "number"}
	case "Str":
		return map[string]interface{}{"type": "string"}
	case "Bool":
		return map[string]interface{}{"type": "boolean"}
	default:
		return map[string]interface{}{"type": "null"}
	}
}

func (p Primitive) Construct(raw interface{}) (interface{}, error) {
	switch p.NameStr {
	case "Int":
		v, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot construct Int from %v: %w", raw, err)
		}
		return v, nil
	case "Float":
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot construct Float from %v: %w", raw, err)
		}
		return v, nil
	case "Str":
		return cast.ToString(raw), nil
	case "Bool":
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot construct Bool from %v: %w", raw, err)
		}
		return v, nil
	default:
		return nil, nil
	}
}

// Field is one member of a RecordType.
type Field struct {
	Name     string
	Type     Klass
	Optional bool
}

// RecordType is a named collection of typed fields, in declaration
// order.
type RecordType struct {
	NameStr string
	Fields  []Field
}

func (r RecordType) Name() string { return r.NameStr }

func (r RecordType) JSONSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(r.Fields))
	for _, f := range r.Fields {
		props[f.Name] = f.Type.JSONSchema()
	}
	required := lo.FilterMap(r.Fields, func(f Field, _ int) (string, bool) {
		return f.Name, !f.Optional
	})
	schema := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (r RecordType) Construct(raw interface{}) (interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("cannot construct %s: expected an object, got %T", r.NameStr, raw)
	}
	out := make(map[string]interface{}, len(r.Fields))
	for _, f := range r.Fields {
		fieldRaw, present := m[f.Name]
		if !present {
			if f.Optional {
				out[f.Name] = nil
				continue
			}
			return nil, fmt.Errorf("cannot construct %s: missing required field %q", r.NameStr, f.Name)
		}
		val, err := f.Type.Construct(fieldRaw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[f.Name] = val
	}
	return out, nil
}

// UnionType's extension is the union of its variants (type references or
// literal constants).
type UnionType struct {
	NameStr  string
	Variants []Klass
}

func (u UnionType) Name() string { return u.NameStr }

func (u UnionType) JSONSchema() map[string]interface{} {
	if allStringConstants(u.Variants) {
		enum := make([]interface{}, len(u.Variants))
		for i, v := range u.Variants {
			enum[i] = v.(ConstantType).Literal
		}
		return map[string]interface{}{"type": "string", "enum": enum}
	}
	anyOf := make([]interface{}, len(u.Variants))
	for i, v := range u.Variants {
		anyOf[i] = v.JSONSchema()
	}
	return map[string]interface{}{"anyOf": anyOf}
}

func allStringConstants(variants []Klass) bool {
	for _, v := range variants {
		c, ok := v.(ConstantType)
		if !ok {
			return false
		}
		if _, isStr := c.Literal.(string); !isStr {
			return false
		}
	}
	return len(variants) > 0
}

func (u UnionType) Construct(raw interface{}) (interface{}, error) {
	var lastErr error
	for _, v := range u.Variants {
		val, err := v.Construct(raw)
		if err == nil {
			return val, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("cannot construct %s from %v: no variant matched (%v)", u.NameStr, raw, lastErr)
}

// ConstantType is a single literal value used as a type, e.g. the
// 'active' in `'active' | 'inactive'`.
type ConstantType struct {
	NameStr string
	Literal interface{}
}

func (c ConstantType) Name() string { return c.NameStr }

func (c ConstantType) JSONSchema() map[string]interface{} {
	return map[string]interface{}{"const": c.Literal}
}

func (c ConstantType) Construct(raw interface{}) (interface{}, error) {
	if fmt.Sprint(raw) != fmt.Sprint(c.Literal) {
		return nil, fmt.Errorf("expected constant %v, got %v", c.Literal, raw)
	}
	return c.Literal, nil
}

// ReferenceType is a named pointer to another registered Klass, resolved
// lazily through the owning Registry (so forward references and mutual
// recursion both work).
type ReferenceType struct {
	NameStr  string
	Target   string
	Registry *Registry
}

func (r ReferenceType) Name() string { return r.NameStr }

func (r ReferenceType) JSONSchema() map[string]interface{} {
	return r.resolveSchema(map[string]bool{})
}

// resolveSchema expands the referenced type's schema; a self-reference
// cycle (directly or transitively) becomes a bare object schema rather
// than recursing forever.
func (r ReferenceType) resolveSchema(seen map[string]bool) map[string]interface{} {
	if seen[r.Target] {
		return map[string]interface{}{"type": "object"}
	}
	target, err := r.Registry.Lookup(r.Target)
	if err != nil {
		return map[string]interface{}{"type": "object"}
	}
	if nested, ok := target.(ReferenceType); ok {
		seen[r.Target] = true
		return nested.resolveSchema(seen)
	}
	if rec, ok := target.(RecordType); ok {
		seen[r.Target] = true
		return recordSchemaWithSeen(rec, seen)
	}
	return target.JSONSchema()
}

func recordSchemaWithSeen(r RecordType, seen map[string]bool) map[string]interface{} {
	props := make(map[string]interface{}, len(r.Fields))
	var required []string
	for _, f := range r.Fields {
		if ref, ok := f.Type.(ReferenceType); ok {
			props[f.Name] = ref.resolveSchema(seen)
		} else {
			props[f.Name] = f.Type.JSONSchema()
		}
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	schema := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (r ReferenceType) Construct(raw interface{}) (interface{}, error) {
	target, err := r.Registry.Lookup(r.Target)
	if err != nil {
		return nil, err
	}
	return target.Construct(raw)
}

// GenericType is a parameterized base like List<T> or Dict<K,V>/Map<K,V>.
type GenericType struct {
	NameStr string
	Base    string
	Params  []Klass
}

func (g GenericType) Name() string { return g.NameStr }

func (g GenericType) JSONSchema() map[string]interface{} {
	switch g.Base {
	case "List":
		var items map[string]interface{}
		if len(g.Params) > 0 {
			items = g.Params[0].JSONSchema()
		}
		return map[string]interface{}{"type": "array", "items": items}
	case "Dict", "Map":
		var additional map[string]interface{}
		if len(g.Params) > 1 {
			additional = g.Params[1].JSONSchema()
		} else if len(g.Params) == 1 {
			additional = g.Params[0].JSONSchema()
		}
		return map[string]interface{}{"type": "object", "additionalProperties": additional}
	default:
		return map[string]interface{}{"type": "object"}
	}
}

func (g GenericType) Construct(raw interface{}) (interface{}, error) {
	switch g.Base {
	case "List":
		items, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("cannot construct %s: expected an array, got %T", g.NameStr, raw)
		}
		if len(g.Params) == 0 {
			return items, nil
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			v, err := g.Params[0].Construct(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case "Dict", "Map":
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("cannot construct %s: expected an object, got %T", g.NameStr, raw)
		}
		valueType := g.valueType()
		if valueType == nil {
			return m, nil
		}
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			cv, err := valueType.Construct(v)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = cv
		}
		return out, nil
	default:
		return raw, nil
	}
}

func (g GenericType) valueType() Klass {
	if len(g.Params) > 1 {
		return g.Params[1]
	}
	if len(g.Params) == 1 {
		return g.Params[0]
	}
	return nil
}
