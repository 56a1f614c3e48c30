// Package translator lowers Aura's AST into a linear sequence of
// Statement records — the VM's instruction vocabulary. Binary operations
// are not specialized by operand type at translate time (Aura has no
// static type inference): the VM's evaluator dispatches int_plus /
// float_plus / str_plus / binop_equals / binop_dot etc. at runtime, once
// the operands' actual runtime types are known.
package translator

import "github.com/jweissman/aua-sub001/internal/compiler/lexer"

// Stmt is satisfied by every lowered instruction node.
type Stmt interface {
	At() lexer.Cursor
}

type base struct {
	Cursor lexer.Cursor
}

func (b base) At() lexer.Cursor { return b.Cursor }

func newBase(at lexer.Cursor) base { return base{Cursor: at} }

// LitInt, LitFloat, LitBool, LitNihil, LitStr are primitive literals,
// carried in-line rather than as a dedicated opcode.
type LitInt struct {
	base
	Value string
}

type LitFloat struct {
	base
	Value string
}

type LitBool struct {
	base
	Value bool
}

type LitNihil struct {
	base
}

type LitStr struct {
	base
	Value string
}

// Let binds Name to the evaluated Value in the current scope.
type Let struct {
	base
	Name  string
	Value Stmt
}

// Recall reads Name from the innermost scope that defines it; emitted
// when the translator cannot prove Name is a known local (function
// parameter or let-binding within the enclosing function body).
type Recall struct {
	base
	Name string
}

// LocalGet reads Name from the innermost scope; emitted when the
// translator knows Name is a parameter or local of the enclosing
// function. Identical runtime behavior to Recall — the distinction is a
// translate-time hint preserved for instruction-vocabulary fidelity.
type LocalGet struct {
	base
	Name string
}

// BinOp is a binary operation; the VM resolves which type-specific
// primitive (int_plus, float_plus, str_plus, int_slash, float_slash,
// binop_equals, binop_dot, ...) applies once it has evaluated Lhs/Rhs.
type BinOp struct {
	base
	Op  string
	Lhs Stmt
	Rhs Stmt
}

// Negate is unary "-" or "not".
type Negate struct {
	base
	Op      string
	Operand Stmt
}

// Cast performs "value as Type" — primitive coercion when possible,
// otherwise a generative cast through the LLM client.
type Cast struct {
	base
	Value Stmt
	Type  *TypeSpec
}

// Concatenate joins Parts (each converted to its string projection) into
// a single Str.
type Concatenate struct {
	base
	Parts []Stmt
}

// Gen sends the evaluated Text to the LLM client as a prompt and returns
// the response as a Str.
type Gen struct {
	base
	Text Stmt
}

// ConsField is one field of a CONS object construction.
type ConsField struct {
	Name  string
	Value Stmt
}

// Cons constructs a composite value: an ObjectLiteral (Kind "object",
// Fields populated) or a List (Kind "array", Elems populated).
type Cons struct {
	base
	Kind   string
	Fields []ConsField
	Elems  []Stmt
}

// Send dispatches a call: Receiver is nil for a bare builtin/function
// call (e.g. "say x"), or an evaluated receiver expression for a method
// call. Member field access is not modeled here — it lowers via BinOp
// with Op "dot", resolved by the VM directly against the receiver value.
type Send struct {
	base
	Receiver Stmt
	Method   string
	Args     []Stmt
}

// If is a conditional; Else may be nil.
type If struct {
	base
	Cond Stmt
	Then Stmt
	Else Stmt
}

// While is a pre-tested loop.
type While struct {
	base
	Cond Stmt
	Body Stmt
}

// FunDecl defines Name as a Function value bound in the current scope,
// capturing the environment at definition time.
type FunDecl struct {
	base
	Name   string
	Params []string
	Body   Stmt
}

// Seq executes Stmts in order; its value is the last one's.
type Seq struct {
	base
	Stmts []Stmt
}

// Register lowers a type declaration: the VM resolves Type against its
// registry (expanding any ReferenceType members) and stores the result
// under Name, replacing any prior registration.
type Register struct {
	base
	Name string
	Type *TypeSpec
}
