package vm

import (
	"fmt"

	aerrors "github.com/jweissman/aua-sub001/internal/errors"
	"github.com/jweissman/aua-sub001/internal/translator"
	"github.com/jweissman/aua-sub001/internal/types"
)

// resolveTypeSpec turns the translator's syntax-level TypeSpec into a
// concrete types.Klass, resolving named references against the VM's
// registry. selfName (if non-empty) is the name currently being
// registered, so a self-reference inside its own definition resolves
// through ReferenceType rather than failing a premature lookup.
func (v *VM) resolveTypeSpec(spec *translator.TypeSpec, selfName string) (types.Klass, error) {
	if spec == nil {
		return types.Primitive{NameStr: "Nihil"}, nil
	}

	switch spec.Kind {
	case "reference":
		if spec.Name == selfName {
			return v.Registry.Reference(spec.Name), nil
		}
		if k, err := v.Registry.Lookup(spec.Name); err == nil {
			return k, nil
		}
		if types.IsGenericBase(spec.Name) {
			return types.GenericType{NameStr: spec.Name, Base: spec.Name}, nil
		}
		// Forward reference: not yet registered, resolved lazily.
		return v.Registry.Reference(spec.Name), nil

	case "generic":
		params := make([]types.Klass, len(spec.Params))
		for i, p := range spec.Params {
			k, err := v.resolveTypeSpec(p, selfName)
			if err != nil {
				return nil, err
			}
			params[i] = k
		}
		return types.GenericType{NameStr: genericDisplayName(spec.Name, params), Base: spec.Name, Params: params}, nil

	case "record":
		fields := make([]types.Field, len(spec.Fields))
		for i, f := range spec.Fields {
			ft, err := v.resolveTypeSpec(f.Type, selfName)
			if err != nil {
				return nil, err
			}
			fields[i] = types.Field{Name: f.Name, Type: ft, Optional: false}
		}
		return types.RecordType{NameStr: selfName, Fields: fields}, nil

	case "union":
		members := make([]types.Klass, len(spec.Members))
		for i, m := range spec.Members {
			k, err := v.resolveTypeSpec(m, selfName)
			if err != nil {
				return nil, err
			}
			members[i] = k
		}
		return types.UnionType{NameStr: selfName, Variants: members}, nil

	case "constant":
		literal, err := v.Eval(spec.Literal, v.Global)
		if err != nil {
			return nil, err
		}
		return types.ConstantType{NameStr: literal.Pretty(), Literal: literalValue(literal)}, nil

	default:
		return nil, aerrors.Name(aerrors.CodeUnknownType, fmt.Sprintf("unknown type expression kind %q", spec.Kind), nil)
	}
}

func literalValue(o Obj) interface{} {
	switch v := o.(type) {
	case Str:
		return v.Value
	case Int:
		return v.Value
	case Float:
		return v.Value
	case Bool:
		return v.Value
	default:
		return v.Pretty()
	}
}

func genericDisplayName(base string, params []types.Klass) string {
	name := base + "<"
	for i, p := range params {
		if i > 0 {
			name += ","
		}
		name += p.Name()
	}
	return name + ">"
}
