package vm

import (
	"fmt"
	"math"

	aerrors "github.com/jweissman/aua-sub001/internal/errors"
	"github.com/jweissman/aua-sub001/internal/translator"
)

func (v *VM) evalBinOp(n *translator.BinOp, env *Environment) (Obj, error) {
	switch n.Op {
	case "and":
		lhs, err := v.Eval(n.Lhs, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(lhs) {
			return lhs, nil
		}
		return v.Eval(n.Rhs, env)
	case "or":
		lhs, err := v.Eval(n.Lhs, env)
		if err != nil {
			return nil, err
		}
		if Truthy(lhs) {
			return lhs, nil
		}
		return v.Eval(n.Rhs, env)
	case "dot":
		return v.evalDot(n, env)
	}

	lhs, err := v.Eval(n.Lhs, env)
	if err != nil {
		return nil, err
	}
	rhs, err := v.Eval(n.Rhs, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return Bool{Value: equal(lhs, rhs)}, nil
	case "!=":
		return Bool{Value: !equal(lhs, rhs)}, nil
	case "+":
		if ls, ok := lhs.(Str); ok {
			return Str{Value: ls.Value + valueAsStr(rhs)}, nil
		}
		if rs, ok := rhs.(Str); ok {
			return Str{Value: valueAsStr(lhs) + rs.Value}, nil
		}
		return numericBinOp(lhs, rhs, n, func(a, b int64) (int64, error) { return a + b, nil }, func(a, b float64) float64 { return a + b })
	case "-":
		return numericBinOp(lhs, rhs, n, func(a, b int64) (int64, error) { return a - b, nil }, func(a, b float64) float64 { return a - b })
	case "*":
		return numericBinOp(lhs, rhs, n, func(a, b int64) (int64, error) { return a * b, nil }, func(a, b float64) float64 { return a * b })
	case "/":
		return numericBinOp(lhs, rhs, n, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, aerrors.Type(aerrors.CodeDivisionByZero, "division by zero", ptr(n.At()))
			}
			return floorDiv(a, b), nil
		}, func(a, b float64) float64 { return a / b })
	case "**":
		return numericBinOp(lhs, rhs, n, func(a, b int64) (int64, error) { return int64(math.Pow(float64(a), float64(b))), nil }, func(a, b float64) float64 { return math.Pow(a, b) })
	case "<", "<=", ">", ">=":
		return compareNumbers(lhs, rhs, n)
	default:
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("unknown operator %q", n.Op), ptr(n.At()))
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func valueAsStr(o Obj) string { return o.Pretty() }

func equal(a, b Obj) bool {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x.Value == y.Value
		case Float:
			return float64(x.Value) == y.Value
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return x.Value == float64(y.Value)
		case Float:
			return x.Value == y.Value
		}
		return false
	case Str:
		y, ok := b.(Str)
		return ok && x.Value == y.Value
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case Nihil:
		_, ok := b.(Nihil)
		return ok
	default:
		return a.Pretty() == b.Pretty() && a.Kind() == b.Kind()
	}
}

func numericBinOp(lhs, rhs Obj, n *translator.BinOp, intOp func(a, b int64) (int64, error), floatOp func(a, b float64) float64) (Obj, error) {
	li, lIsInt := lhs.(Int)
	ri, rIsInt := rhs.(Int)
	if lIsInt && rIsInt {
		result, err := intOp(li.Value, ri.Value)
		if err != nil {
			return nil, err
		}
		return Int{Value: result}, nil
	}

	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("operator %q requires numeric operands, got %s and %s", n.Op, lhs.Kind(), rhs.Kind()), ptr(n.At()))
	}
	if rf == 0 && n.Op == "/" {
		return nil, aerrors.Type(aerrors.CodeDivisionByZero, "division by zero", ptr(n.At()))
	}
	return Float{Value: floatOp(lf, rf)}, nil
}

func asFloat(o Obj) (float64, bool) {
	switch x := o.(type) {
	case Int:
		return float64(x.Value), true
	case Float:
		return x.Value, true
	default:
		return 0, false
	}
}

func compareNumbers(lhs, rhs Obj, n *translator.BinOp) (Obj, error) {
	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("operator %q requires numeric operands", n.Op), ptr(n.At()))
	}
	switch n.Op {
	case "<":
		return Bool{Value: lf < rf}, nil
	case "<=":
		return Bool{Value: lf <= rf}, nil
	case ">":
		return Bool{Value: lf > rf}, nil
	case ">=":
		return Bool{Value: lf >= rf}, nil
	default:
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("unknown comparison %q", n.Op), ptr(n.At()))
	}
}

// evalDot resolves member access: obj.field where obj is an
// ObjectLiteral/RecordObject, looking the field name up from the RHS
// StrLit that the parser encodes member access as.
func (v *VM) evalDot(n *translator.BinOp, env *Environment) (Obj, error) {
	receiver, err := v.Eval(n.Lhs, env)
	if err != nil {
		return nil, err
	}
	fieldStmt, ok := n.Rhs.(*translator.LitStr)
	if !ok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "member access requires a field name", ptr(n.At()))
	}
	field := fieldStmt.Value

	switch obj := receiver.(type) {
	case *ObjectLiteral:
		if val, ok := obj.Fields[field]; ok {
			return val, nil
		}
		return nil, aerrors.Name(aerrors.CodeUnknownField, fmt.Sprintf("Key %q not found", field), ptr(n.At()))
	case *RecordObject:
		if val, ok := obj.Fields[field]; ok {
			return val, nil
		}
		return nil, aerrors.Name(aerrors.CodeUnknownField, fmt.Sprintf("Key %q not found", field), ptr(n.At()))
	default:
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, fmt.Sprintf("%s has no fields", receiver.Kind()), ptr(n.At()))
	}
}
