// Package vm is the tree-walking evaluator for Aura's lowered Statement
// tree: it owns the runtime value representation (Obj), the
// global/local environment chain, the type registry, and the LLM client
// used for GEN and generative CAST.
package vm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jweissman/aua-sub001/internal/translator"
	"github.com/jweissman/aua-sub001/internal/types"
)

// Kind tags an Obj's runtime variant.
type Kind string

const (
	KindNihil         Kind = "Nihil"
	KindInt           Kind = "Int"
	KindFloat         Kind = "Float"
	KindBool          Kind = "Bool"
	KindStr           Kind = "Str"
	KindTime          Kind = "Time"
	KindList          Kind = "List"
	KindObjectLiteral Kind = "ObjectLiteral"
	KindRecordObject  Kind = "RecordObject"
	KindFunction      Kind = "Function"
	KindKlass         Kind = "Klass"
)

// Obj is any Aura runtime value.
type Obj interface {
	Kind() Kind
	// Pretty is the value's display projection — used by say/CONCATENATE.
	Pretty() string
	// Introspect is a more verbose, type-tagged debug projection.
	Introspect() string
}

// Nihil is Aura's null value.
type Nihil struct{}

func (Nihil) Kind() Kind         { return KindNihil }
func (Nihil) Pretty() string     { return "nihil" }
func (Nihil) Introspect() string { return "Nihil" }

// Int wraps a 64-bit signed integer.
type Int struct{ Value int64 }

func (Int) Kind() Kind             { return KindInt }
func (i Int) Pretty() string       { return strconv.FormatInt(i.Value, 10) }
func (i Int) Introspect() string   { return fmt.Sprintf("Int(%d)", i.Value) }

// Float wraps a 64-bit float.
type Float struct{ Value float64 }

func (Float) Kind() Kind       { return KindFloat }
func (f Float) Pretty() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (f Float) Introspect() string {
	return fmt.Sprintf("Float(%s)", strconv.FormatFloat(f.Value, 'g', -1, 64))
}

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) Pretty() string { return strconv.FormatBool(b.Value) }
func (b Bool) Introspect() string {
	return fmt.Sprintf("Bool(%t)", b.Value)
}

// Str wraps a string.
type Str struct{ Value string }

func (Str) Kind() Kind       { return KindStr }
func (s Str) Pretty() string { return s.Value }
func (s Str) Introspect() string {
	return fmt.Sprintf("Str(%q)", s.Value)
}

// Time wraps a point in time.
type Time struct{ Value time.Time }

func (Time) Kind() Kind       { return KindTime }
func (t Time) Pretty() string { return t.Value.Format(time.RFC3339) }
func (t Time) Introspect() string {
	return fmt.Sprintf("Time(%s)", t.Value.Format(time.RFC3339))
}

// List is an ordered sequence of values. Klass carries the originating
// GenericType when the list came from a generic-typed construction (a
// generative cast against List<T>, a declared field, ...) so typeof can
// report the element parameterization; it is nil for a bare `[...]`
// literal.
type List struct {
	Elems []Obj
	Klass types.Klass
}

func (List) Kind() Kind { return KindList }
func (l List) Pretty() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Pretty()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l List) Introspect() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Introspect()
	}
	return "List[" + strings.Join(parts, ", ") + "]"
}

// ObjectLiteral is an untyped ad-hoc record produced by `{ ... }`
// construction, before (or without) any type association.
type ObjectLiteral struct {
	Fields map[string]Obj
	Order  []string
}

func NewObjectLiteral() *ObjectLiteral {
	return &ObjectLiteral{Fields: make(map[string]Obj)}
}

func (o *ObjectLiteral) Set(name string, val Obj) {
	if _, exists := o.Fields[name]; !exists {
		o.Order = append(o.Order, name)
	}
	o.Fields[name] = val
}

func (*ObjectLiteral) Kind() Kind { return KindObjectLiteral }
func (o *ObjectLiteral) Pretty() string {
	return formatFields(o.Order, o.Fields, func(v Obj) string { return v.Pretty() })
}
func (o *ObjectLiteral) Introspect() string {
	return "ObjectLiteral" + formatFields(o.Order, o.Fields, func(v Obj) string { return v.Introspect() })
}

// RecordObject is a value constructed against a declared RecordType,
// typically the result of a generative cast.
type RecordObject struct {
	KlassName string
	Klass     types.Klass
	Fields    map[string]Obj
	Order     []string
}

func (*RecordObject) Kind() Kind { return KindRecordObject }
func (r *RecordObject) Pretty() string {
	return formatFields(r.Order, r.Fields, func(v Obj) string { return v.Pretty() })
}
func (r *RecordObject) Introspect() string {
	return r.KlassName + formatFields(r.Order, r.Fields, func(v Obj) string { return v.Introspect() })
}

func formatFields(order []string, fields map[string]Obj, project func(Obj) string) string {
	names := order
	if len(names) == 0 {
		names = lo.Keys(fields)
		sort.Strings(names)
	}
	parts := lo.Map(names, func(name string, _ int) string {
		v := fields[name]
		if v == nil {
			v = Nihil{}
		}
		return fmt.Sprintf("%s: %s", name, project(v))
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// Function is a user-defined callable: parameters, its lowered body, and
// the environment captured at definition time.
type Function struct {
	Name   string
	Params []string
	Body   translator.Stmt
	Env    *Environment
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) Pretty() string {
	return fmt.Sprintf("<function %s/%d>", f.Name, len(f.Params))
}
func (f *Function) Introspect() string { return f.Pretty() }

// KlassObj carries a Klass as a first-class value — the result of
// evaluating a type declaration.
type KlassObj struct {
	Name  string
	Klass types.Klass
}

func (*KlassObj) Kind() Kind         { return KindKlass }
func (k *KlassObj) Pretty() string   { return k.Name }
func (k *KlassObj) Introspect() string { return fmt.Sprintf("Klass(%s)", k.Name) }

// Truthy implements Aura's falsy rule: only Bool(false) and Nihil are
// falsy, everything else (including Int(0) and "") is truthy.
func Truthy(o Obj) bool {
	switch v := o.(type) {
	case Nihil:
		return false
	case Bool:
		return v.Value
	default:
		return true
	}
}
