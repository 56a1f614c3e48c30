package vm

import (
	"fmt"
	"strconv"

	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
	aerrors "github.com/jweissman/aua-sub001/internal/errors"
	"github.com/jweissman/aua-sub001/internal/translator"
)

// Eval evaluates a lowered Stmt tree against env.
func (v *VM) Eval(stmt translator.Stmt, env *Environment) (Obj, error) {
	if stmt == nil {
		return Nihil{}, nil
	}

	switch n := stmt.(type) {
	case *translator.LitInt:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("invalid integer literal %q", n.Value), ptr(n.At()))
		}
		return Int{Value: i}, nil

	case *translator.LitFloat:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("invalid float literal %q", n.Value), ptr(n.At()))
		}
		return Float{Value: f}, nil

	case *translator.LitBool:
		return Bool{Value: n.Value}, nil

	case *translator.LitNihil:
		return Nihil{}, nil

	case *translator.LitStr:
		return Str{Value: n.Value}, nil

	case *translator.Let:
		val, err := v.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		env.Let(n.Name, val)
		return val, nil

	case *translator.Recall, *translator.LocalGet:
		name := identName(n)
		if val, ok := env.Get(name); ok {
			return val, nil
		}
		return nil, aerrors.Name(aerrors.CodeUndefinedIdentifier, fmt.Sprintf("undefined identifier %q", name), ptr(stmt.At()))

	case *translator.Negate:
		return v.evalNegate(n, env)

	case *translator.BinOp:
		return v.evalBinOp(n, env)

	case *translator.Cast:
		return v.evalCast(n, env)

	case *translator.Concatenate:
		var out string
		for _, part := range n.Parts {
			val, err := v.Eval(part, env)
			if err != nil {
				return nil, err
			}
			out += val.Pretty()
		}
		return Str{Value: out}, nil

	case *translator.Gen:
		text, err := v.Eval(n.Text, env)
		if err != nil {
			return nil, err
		}
		if ierr := v.interrupted(); ierr != nil {
			return nil, ierr
		}
		resp, _, err := v.Client.Generate(v.requestContext(), text.Pretty(), false)
		if ierr := v.interrupted(); ierr != nil {
			return nil, ierr
		}
		if err != nil {
			return nil, aerrors.Provider(err.Error())
		}
		return Str{Value: resp}, nil

	case *translator.Cons:
		return v.evalCons(n, env)

	case *translator.Send:
		return v.evalSend(n, env)

	case *translator.If:
		cond, err := v.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return v.Eval(n.Then, env)
		}
		if n.Else != nil {
			return v.Eval(n.Else, env)
		}
		return Nihil{}, nil

	case *translator.While:
		var result Obj = Nihil{}
		for {
			if err := v.interrupted(); err != nil {
				return result, err
			}
			cond, err := v.Eval(n.Cond, env)
			if err != nil {
				return nil, err
			}
			if !Truthy(cond) {
				break
			}
			result, err = v.Eval(n.Body, env)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case *translator.FunDecl:
		fn := &Function{Name: n.Name, Params: n.Params, Body: n.Body, Env: env}
		if n.Name != "" {
			env.Let(n.Name, fn)
		}
		return fn, nil

	case *translator.Seq:
		var result Obj = Nihil{}
		var err error
		for _, s := range n.Stmts {
			if ierr := v.interrupted(); ierr != nil {
				return result, ierr
			}
			result, err = v.Eval(s, env)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case *translator.Register:
		klass, err := v.resolveTypeSpec(n.Type, n.Name)
		if err != nil {
			return nil, err
		}
		v.Registry.Register(n.Name, klass)
		klassObj := &KlassObj{Name: n.Name, Klass: klass}
		env.Let(n.Name, klassObj)
		return klassObj, nil

	default:
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("unhandled statement %T", stmt), ptr(stmt.At()))
	}
}

func identName(stmt translator.Stmt) string {
	switch n := stmt.(type) {
	case *translator.Recall:
		return n.Name
	case *translator.LocalGet:
		return n.Name
	default:
		return ""
	}
}

func (v *VM) evalNegate(n *translator.Negate, env *Environment) (Obj, error) {
	val, err := v.Eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "not":
		return Bool{Value: !Truthy(val)}, nil
	case "-":
		switch x := val.(type) {
		case Int:
			return Int{Value: -x.Value}, nil
		case Float:
			return Float{Value: -x.Value}, nil
		}
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "unary - requires a number", ptr(n.At()))
	default:
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("unknown unary operator %q", n.Op), ptr(n.At()))
	}
}

func (v *VM) evalCons(n *translator.Cons, env *Environment) (Obj, error) {
	switch n.Kind {
	case "object":
		obj := NewObjectLiteral()
		for _, f := range n.Fields {
			val, err := v.Eval(f.Value, env)
			if err != nil {
				return nil, err
			}
			obj.Set(f.Name, val)
		}
		return obj, nil
	case "array":
		elems := make([]Obj, len(n.Elems))
		for i, e := range n.Elems {
			val, err := v.Eval(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = val
		}
		return List{Elems: elems}, nil
	default:
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("unknown construction kind %q", n.Kind), ptr(n.At()))
	}
}

func ptr(c lexer.Cursor) *lexer.Cursor { return &c }
