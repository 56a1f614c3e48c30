package ast

// Program is the root of a parsed source file: its Body is the top-level
// sequence of expressions (the parser unwraps a single statement rather
// than wrapping it in a one-element Seq).
type Program struct {
	Body Expr
}

// IsEmpty reports whether the program has no body at all (an empty or
// all-comment source file).
func (p *Program) IsEmpty() bool {
	return p.Body == nil
}
