package parser

import (
	"testing"

	"github.com/jweissman/aua-sub001/internal/compiler/ast"
	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
)

// parseSource is a small test helper mirroring the teacher's
// lex-then-parse-and-assert pattern.
func parseSource(t *testing.T, source string) (*ast.Program, []ParseError) {
	t.Helper()

	lex := lexer.New(source)
	tokens := lex.ScanTokens()
	if errs := lex.Errors(); len(errs) > 0 {
		t.Fatalf("lexer errors: %v", errs)
	}

	p := New(tokens)
	return p.Parse()
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog, errs := parseSource(t, "(1 + 2) * 3 - 4")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	top, ok := prog.Body.(*ast.BinOp)
	if !ok {
		t.Fatalf("expected top-level BinOp, got %T", prog.Body)
	}
	if top.Op != "-" {
		t.Fatalf("expected top-level '-', got %q", top.Op)
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	prog, errs := parseSource(t, "2 ** 3 ** 2")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	top, ok := prog.Body.(*ast.BinOp)
	if !ok || top.Op != "**" {
		t.Fatalf("expected top-level **, got %#v", prog.Body)
	}
	rhs, ok := top.Rhs.(*ast.BinOp)
	if !ok || rhs.Op != "**" {
		t.Fatalf("expected right-associated ** on rhs, got %#v", top.Rhs)
	}
}

func TestParseAssignment(t *testing.T) {
	prog, errs := parseSource(t, "x = 5")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	assign, ok := prog.Body.(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", prog.Body)
	}
	if assign.Name != "x" {
		t.Fatalf("expected assignment to 'x', got %q", assign.Name)
	}
}

func TestParseCommandCall(t *testing.T) {
	prog, errs := parseSource(t, `say "hello"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	call, ok := prog.Body.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call, got %T", prog.Body)
	}
	if call.Name != "say" || len(call.Args) != 1 {
		t.Fatalf("expected say/1 call, got %+v", call)
	}
}

func TestParseMemberAccessIsDotBinop(t *testing.T) {
	prog, errs := parseSource(t, "obj.x")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	binop, ok := prog.Body.(*ast.BinOp)
	if !ok || binop.Op != "dot" {
		t.Fatalf("expected dot BinOp, got %#v", prog.Body)
	}
	field, ok := binop.Rhs.(*ast.StrLit)
	if !ok || field.Value != "x" {
		t.Fatalf("expected field name 'x', got %#v", binop.Rhs)
	}
}

func TestParseIfThenElse(t *testing.T) {
	prog, errs := parseSource(t, "if x > 0 then say 'positive' else say 'non-positive' end")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	ifExpr, ok := prog.Body.(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", prog.Body)
	}
	if ifExpr.Else == nil {
		t.Fatal("expected else branch to be present")
	}
}

func TestParseElifChain(t *testing.T) {
	prog, errs := parseSource(t, "if a then 1 elif b then 2 else 3 end")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	outer, ok := prog.Body.(*ast.If)
	if !ok {
		t.Fatalf("expected outer If, got %T", prog.Body)
	}
	inner, ok := outer.Else.(*ast.If)
	if !ok {
		t.Fatalf("expected elif desugared to nested If, got %T", outer.Else)
	}
	if inner.Else == nil {
		t.Fatal("expected nested If to carry the final else branch")
	}
}

func TestParseWhile(t *testing.T) {
	prog, errs := parseSource(t, "while x < 10 x = x + 1 end")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if _, ok := prog.Body.(*ast.While); !ok {
		t.Fatalf("expected While, got %T", prog.Body)
	}
}

func TestParseFunDecl(t *testing.T) {
	prog, errs := parseSource(t, "fun add(a, b) a + b end")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	fn, ok := prog.Body.(*ast.FunDecl)
	if !ok {
		t.Fatalf("expected FunDecl, got %T", prog.Body)
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("expected add/2, got %+v", fn)
	}
}

func TestParseObjectLiteral(t *testing.T) {
	prog, errs := parseSource(t, "{ x: 3, y: 4 }")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	obj, ok := prog.Body.(*ast.ObjectLiteral)
	if !ok || len(obj.Fields) != 2 {
		t.Fatalf("expected 2-field ObjectLiteral, got %#v", prog.Body)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	prog, errs := parseSource(t, "[1, 2, 3]")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	arr, ok := prog.Body.(*ast.ArrayLiteral)
	if !ok || len(arr.Elems) != 3 {
		t.Fatalf("expected 3-elem ArrayLiteral, got %#v", prog.Body)
	}
}

func TestParseUnionTypeDeclaration(t *testing.T) {
	prog, errs := parseSource(t, "type Status = 'active' | 'inactive'")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	decl, ok := prog.Body.(*ast.TypeDeclaration)
	if !ok {
		t.Fatalf("expected TypeDeclaration, got %T", prog.Body)
	}
	union, ok := decl.Def.(*ast.UnionType)
	if !ok || len(union.Members) != 2 {
		t.Fatalf("expected 2-member UnionType, got %#v", decl.Def)
	}
}

func TestParseRecordTypeDeclaration(t *testing.T) {
	prog, errs := parseSource(t, "type Point = { x: Int, y: Int }")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	decl, ok := prog.Body.(*ast.TypeDeclaration)
	if !ok {
		t.Fatalf("expected TypeDeclaration, got %T", prog.Body)
	}
	rec, ok := decl.Def.(*ast.RecordType)
	if !ok || len(rec.Fields) != 2 {
		t.Fatalf("expected 2-field RecordType, got %#v", decl.Def)
	}
}

func TestParseGenericType(t *testing.T) {
	prog, errs := parseSource(t, "type Items = List<Int>")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	decl, ok := prog.Body.(*ast.TypeDeclaration)
	if !ok {
		t.Fatalf("expected TypeDeclaration, got %T", prog.Body)
	}
	gen, ok := decl.Def.(*ast.GenericType)
	if !ok || gen.BaseName != "List" || len(gen.Params) != 1 {
		t.Fatalf("expected List<Int> GenericType, got %#v", decl.Def)
	}
}

func TestParseCast(t *testing.T) {
	prog, errs := parseSource(t, "x as Int")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	cast, ok := prog.Body.(*ast.Cast)
	if !ok {
		t.Fatalf("expected Cast, got %T", prog.Body)
	}
	ref, ok := cast.Type.(*ast.TypeReference)
	if !ok || ref.Name != "Int" {
		t.Fatalf("expected Int type reference, got %#v", cast.Type)
	}
}

func TestParseStructuredString(t *testing.T) {
	prog, errs := parseSource(t, `"hello ${name}!"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	str, ok := prog.Body.(*ast.StructuredStr)
	if !ok {
		t.Fatalf("expected StructuredStr, got %T", prog.Body)
	}
	if len(str.Parts) != 3 {
		t.Fatalf("expected 3 parts (part, id, part), got %d", len(str.Parts))
	}
	if _, ok := str.Parts[1].(*ast.Identifier); !ok {
		t.Fatalf("expected middle part to be an Identifier, got %#v", str.Parts[1])
	}
}

func TestParseMultipleStatements(t *testing.T) {
	prog, errs := parseSource(t, "x = 5\ny = x + 2")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	seq, ok := prog.Body.(*ast.Seq)
	if !ok || len(seq.Stmts) != 2 {
		t.Fatalf("expected 2-statement Seq, got %#v", prog.Body)
	}
}

func TestParseUnexpectedTokenProducesErrorNotCrash(t *testing.T) {
	_, errs := parseSource(t, "x = )")
	if len(errs) == 0 {
		t.Fatal("expected at least one parse error")
	}
}
