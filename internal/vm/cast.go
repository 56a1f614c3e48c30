package vm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/sethvargo/go-retry"

	aerrors "github.com/jweissman/aua-sub001/internal/errors"
	"github.com/jweissman/aua-sub001/internal/translator"
	"github.com/jweissman/aua-sub001/internal/types"
)

// evalCast performs "value as Type": a direct primitive coercion when
// possible, otherwise a generative cast through the LLM client.
func (v *VM) evalCast(n *translator.Cast, env *Environment) (Obj, error) {
	val, err := v.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}

	klass, err := v.resolveTypeSpec(n.Type, "")
	if err != nil {
		return nil, err
	}

	if coerced, ok := coercePrimitive(val, klass); ok {
		return coerced, nil
	}

	return v.generativeCast(val, klass, n)
}

// coercePrimitive implements the direct Int/Float/Str/Bool coercion
// table; it never touches the LLM.
func coercePrimitive(val Obj, klass types.Klass) (Obj, bool) {
	prim, ok := klass.(types.Primitive)
	if !ok {
		return nil, false
	}
	switch prim.NameStr {
	case "Int":
		switch x := val.(type) {
		case Int:
			return x, true
		case Float:
			return Int{Value: int64(x.Value)}, true
		case Str:
			if i, err := strconv.ParseInt(strings.TrimSpace(x.Value), 10, 64); err == nil {
				return Int{Value: i}, true
			}
		}
	case "Float":
		switch x := val.(type) {
		case Float:
			return x, true
		case Int:
			return Float{Value: float64(x.Value)}, true
		case Str:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x.Value), 64); err == nil {
				return Float{Value: f}, true
			}
		}
	case "Str":
		switch val.(type) {
		case Str:
			return val, true
		case Int, Float, Bool, Nihil:
			return Str{Value: val.Pretty()}, true
		}
	case "Bool":
		switch x := val.(type) {
		case Bool:
			return x, true
		case Str:
			switch strings.ToLower(strings.TrimSpace(x.Value)) {
			case "true":
				return Bool{Value: true}, true
			case "false":
				return Bool{Value: false}, true
			}
		}
	case "Nihil":
		if _, ok := val.(Nihil); ok {
			return val, true
		}
	}
	return nil, false
}

// generativeCast implements the six-step algorithm: derive a schema,
// build a prompt, call the LLM in JSON mode, parse (retrying once on
// malformed JSON), then construct and lift the result.
func (v *VM) generativeCast(val Obj, klass types.Klass, n *translator.Cast) (Obj, error) {
	schema := klass.JSONSchema()
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, aerrors.GenerativeCast(fmt.Sprintf("cannot marshal schema: %v", err))
	}

	compiled, err := compileSchema(schemaJSON)
	if err != nil {
		return nil, aerrors.GenerativeCast(fmt.Sprintf("cannot compile schema: %v", err))
	}

	// spec.md pins generative-cast retries at "retry once" on malformed
	// JSON: go-retry's zero-backoff, 1-retry policy expresses that
	// directly instead of a hand-written two-call if/else.
	base, err := retry.NewConstant(0)
	if err != nil {
		return nil, aerrors.GenerativeCast(fmt.Sprintf("invalid retry backoff: %v", err))
	}
	backoff := retry.WithMaxRetries(1, base)

	if ierr := v.interrupted(); ierr != nil {
		return nil, ierr
	}

	var parsed interface{}
	attempt := 0
	retryErr := retry.Do(v.requestContext(), backoff, func(ctx context.Context) error {
		reinforced := attempt > 0
		attempt++
		prompt := castPrompt(val, klass, schemaJSON, reinforced)
		p, err := v.generateAndParse(ctx, prompt, compiled)
		if err != nil {
			return retry.RetryableError(err)
		}
		parsed = p
		return nil
	})
	if ierr := v.interrupted(); ierr != nil {
		return nil, ierr
	}
	if retryErr != nil {
		return nil, aerrors.GenerativeCast(fmt.Sprintf("could not produce valid JSON for %s: %v", klass.Name(), retryErr))
	}

	constructed, err := klass.Construct(parsed)
	if err != nil {
		return nil, aerrors.Cast(aerrors.CodeConstructFailed, err.Error())
	}
	return v.lift(constructed, klass), nil
}

func (v *VM) generateAndParse(ctx context.Context, prompt string, compiled *jsonschema.Schema) (interface{}, error) {
	text, _, err := v.Client.Generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("response does not match schema: %w", err)
	}
	return parsed, nil
}

func compileSchema(schemaJSON []byte) (*jsonschema.Schema, error) {
	var schemaData interface{}
	if err := json.Unmarshal(schemaJSON, &schemaData); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("aura://cast-schema.json", schemaData); err != nil {
		return nil, err
	}
	return c.Compile("aura://cast-schema.json")
}

func castPrompt(val Obj, klass types.Klass, schemaJSON []byte, reinforced bool) string {
	var b strings.Builder
	b.WriteString("Convert the following value to the target type, responding with JSON only.\n")
	fmt.Fprintf(&b, "Value: %s\n", val.Introspect())
	fmt.Fprintf(&b, "Target type: %s\n", klass.Name())
	fmt.Fprintf(&b, "JSON schema: %s\n", string(schemaJSON))
	if reinforced {
		b.WriteString("Your previous response was not valid JSON conforming to the schema. Respond with ONLY the JSON value, no surrounding prose or markdown fences.\n")
	}
	return b.String()
}

// lift wraps a Construct-validated generic value into an Obj, using
// klass to recover nested field/element types that the generic value
// alone doesn't carry.
func (v *VM) lift(raw interface{}, klass types.Klass) Obj {
	switch k := klass.(type) {
	case types.Primitive:
		return liftPrimitive(raw, k)
	case types.RecordType:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return liftUntyped(raw)
		}
		rec := &RecordObject{KlassName: k.NameStr, Klass: k, Fields: make(map[string]Obj, len(k.Fields))}
		for _, f := range k.Fields {
			fv, present := m[f.Name]
			rec.Order = append(rec.Order, f.Name)
			if !present || fv == nil {
				rec.Fields[f.Name] = Nihil{}
				continue
			}
			rec.Fields[f.Name] = v.lift(fv, f.Type)
		}
		return rec
	case types.UnionType:
		for _, variant := range k.Variants {
			if _, err := variant.Construct(raw); err == nil {
				return v.lift(raw, variant)
			}
		}
		return liftUntyped(raw)
	case types.ConstantType:
		return liftUntyped(k.Literal)
	case types.ReferenceType:
		target, err := k.Registry.Lookup(k.Target)
		if err != nil {
			return liftUntyped(raw)
		}
		return v.lift(raw, target)
	case types.GenericType:
		return v.liftGeneric(raw, k)
	default:
		return liftUntyped(raw)
	}
}

func liftPrimitive(raw interface{}, prim types.Primitive) Obj {
	switch prim.NameStr {
	case "Int":
		if i, ok := raw.(int64); ok {
			return Int{Value: i}
		}
		return liftUntyped(raw)
	case "Float":
		if f, ok := raw.(float64); ok {
			return Float{Value: f}
		}
		return liftUntyped(raw)
	case "Str":
		if s, ok := raw.(string); ok {
			return Str{Value: s}
		}
		return liftUntyped(raw)
	case "Bool":
		if b, ok := raw.(bool); ok {
			return Bool{Value: b}
		}
		return liftUntyped(raw)
	default:
		return Nihil{}
	}
}

func (v *VM) liftGeneric(raw interface{}, k types.GenericType) Obj {
	switch k.Base {
	case "List":
		arr, ok := raw.([]interface{})
		if !ok {
			return liftUntyped(raw)
		}
		var elemType types.Klass
		if len(k.Params) > 0 {
			elemType = k.Params[0]
		}
		elems := make([]Obj, len(arr))
		for i, e := range arr {
			if elemType != nil {
				elems[i] = v.lift(e, elemType)
			} else {
				elems[i] = liftUntyped(e)
			}
		}
		return List{Elems: elems, Klass: k}
	case "Dict", "Map":
		m, ok := raw.(map[string]interface{})
		if !ok {
			return liftUntyped(raw)
		}
		var valType types.Klass
		if len(k.Params) > 1 {
			valType = k.Params[1]
		} else if len(k.Params) == 1 {
			valType = k.Params[0]
		}
		obj := NewObjectLiteral()
		for key, val := range m {
			if valType != nil {
				obj.Set(key, v.lift(val, valType))
			} else {
				obj.Set(key, liftUntyped(val))
			}
		}
		return obj
	default:
		return liftUntyped(raw)
	}
}

// liftUntyped wraps a generic Go value (from JSON/YAML decoding) into an
// Obj without any declared type to guide nested elements.
func liftUntyped(raw interface{}) Obj {
	switch val := raw.(type) {
	case map[string]interface{}:
		obj := NewObjectLiteral()
		for k, v := range val {
			obj.Set(k, liftUntyped(v))
		}
		return obj
	case map[interface{}]interface{}:
		obj := NewObjectLiteral()
		for k, v := range val {
			obj.Set(fmt.Sprint(k), liftUntyped(v))
		}
		return obj
	case []interface{}:
		elems := make([]Obj, len(val))
		for i, e := range val {
			elems[i] = liftUntyped(e)
		}
		return List{Elems: elems}
	case string:
		return Str{Value: val}
	case int:
		return Int{Value: int64(val)}
	case int64:
		return Int{Value: val}
	case float64:
		return Float{Value: val}
	case bool:
		return Bool{Value: val}
	case nil:
		return Nihil{}
	default:
		return Str{Value: fmt.Sprint(val)}
	}
}
