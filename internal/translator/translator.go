package translator

import (
	"github.com/jweissman/aua-sub001/internal/compiler/ast"
)

// Translator walks an AST and lowers it into a Stmt tree. It tracks the
// parameter/local-binding set of the innermost enclosing function so it
// can choose LocalGet over Recall for identifier reads.
type Translator struct {
	scopes []map[string]bool
}

// New creates a Translator.
func New() *Translator {
	return &Translator{}
}

// Translate lowers a parsed Program into its root Stmt.
func Translate(prog *ast.Program) Stmt {
	t := New()
	if prog.Body == nil {
		return nil
	}
	return t.translate(prog.Body)
}

func (t *Translator) pushScope(names []string) {
	scope := make(map[string]bool, len(names))
	for _, n := range names {
		scope[n] = true
	}
	t.scopes = append(t.scopes, scope)
}

func (t *Translator) popScope() {
	t.scopes = t.scopes[:len(t.scopes)-1]
}

func (t *Translator) bindLocal(name string) {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes[len(t.scopes)-1][name] = true
}

func (t *Translator) isLocal(name string) bool {
	if len(t.scopes) == 0 {
		return false
	}
	return t.scopes[len(t.scopes)-1][name]
}

func (t *Translator) translate(e ast.Expr) Stmt {
	switch n := e.(type) {
	case *ast.IntLit:
		return &LitInt{base: newBase(n.At()), Value: n.Value}
	case *ast.FloatLit:
		return &LitFloat{base: newBase(n.At()), Value: n.Value}
	case *ast.BoolLit:
		return &LitBool{base: newBase(n.At()), Value: n.Value}
	case *ast.NihilLit:
		return &LitNihil{base: newBase(n.At())}
	case *ast.StrLit:
		return &LitStr{base: newBase(n.At()), Value: n.Value}
	case *ast.GenLit:
		return &Gen{base: newBase(n.At()), Text: &LitStr{base: newBase(n.At()), Value: n.Text}}
	case *ast.StrPart:
		return &LitStr{base: newBase(n.At()), Value: n.Value}
	case *ast.StructuredStr:
		return &Concatenate{base: newBase(n.At()), Parts: t.translateAll(n.Parts)}
	case *ast.StructuredGenLit:
		return &Gen{base: newBase(n.At()), Text: &Concatenate{base: newBase(n.At()), Parts: t.translateAll(n.Parts)}}
	case *ast.Identifier:
		if t.isLocal(n.Name) {
			return &LocalGet{base: newBase(n.At()), Name: n.Name}
		}
		return &Recall{base: newBase(n.At()), Name: n.Name}
	case *ast.Negate:
		return &Negate{base: newBase(n.At()), Op: n.Op, Operand: t.translate(n.Operand)}
	case *ast.BinOp:
		return &BinOp{base: newBase(n.At()), Op: n.Op, Lhs: t.translate(n.Lhs), Rhs: t.translate(n.Rhs)}
	case *ast.Cast:
		return &Cast{base: newBase(n.At()), Value: t.translate(n.Value), Type: t.translateType(n.Type)}
	case *ast.Assign:
		if len(t.scopes) > 0 {
			t.bindLocal(n.Name)
		}
		return &Let{base: newBase(n.At()), Name: n.Name, Value: t.translate(n.Value)}
	case *ast.If:
		var elseStmt Stmt
		if n.Else != nil {
			elseStmt = t.translate(n.Else)
		}
		return &If{base: newBase(n.At()), Cond: t.translate(n.Cond), Then: t.translate(n.Then), Else: elseStmt}
	case *ast.While:
		return &While{base: newBase(n.At()), Cond: t.translate(n.Cond), Body: t.translate(n.Body)}
	case *ast.FunDecl:
		t.pushScope(n.Params)
		body := t.translate(n.Body)
		t.popScope()
		return &FunDecl{base: newBase(n.At()), Name: n.Name, Params: n.Params, Body: body}
	case *ast.Call:
		return &Send{base: newBase(n.At()), Method: n.Name, Args: t.translateAll(n.Args)}
	case *ast.Seq:
		return &Seq{base: newBase(n.At()), Stmts: t.translateAll(n.Stmts)}
	case *ast.ObjectLiteral:
		fields := make([]ConsField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = ConsField{Name: f.Name, Value: t.translate(f.Value)}
		}
		return &Cons{base: newBase(n.At()), Kind: "object", Fields: fields}
	case *ast.ArrayLiteral:
		return &Cons{base: newBase(n.At()), Kind: "array", Elems: t.translateAll(n.Elems)}
	case *ast.TypeDeclaration:
		return &Register{base: newBase(n.At()), Name: n.Name, Type: t.translateType(n.Def)}
	default:
		return nil
	}
}

func (t *Translator) translateAll(exprs []ast.Expr) []Stmt {
	out := make([]Stmt, len(exprs))
	for i, e := range exprs {
		out[i] = t.translate(e)
	}
	return out
}

func (t *Translator) translateType(te ast.TypeExpr) *TypeSpec {
	switch n := te.(type) {
	case *ast.TypeReference:
		return &TypeSpec{Kind: "reference", Name: n.Name}
	case *ast.GenericType:
		params := make([]*TypeSpec, len(n.Params))
		for i, p := range n.Params {
			params[i] = t.translateType(p)
		}
		return &TypeSpec{Kind: "generic", Name: n.BaseName, Params: params}
	case *ast.RecordType:
		fields := make([]FieldSpec, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = FieldSpec{Name: f.Name, Type: t.translateType(f.TypeValue)}
		}
		return &TypeSpec{Kind: "record", Fields: fields}
	case *ast.UnionType:
		members := make([]*TypeSpec, len(n.Members))
		for i, m := range n.Members {
			members[i] = t.translateType(m)
		}
		return &TypeSpec{Kind: "union", Members: members}
	case *ast.TypeConstant:
		return &TypeSpec{Kind: "constant", Literal: t.translate(n.Literal)}
	default:
		return &TypeSpec{Kind: "reference", Name: "Nihil"}
	}
}
