// Package errors defines the closed set of error kinds Aura surfaces to
// callers of Run. Every kind carries an error code, a human-readable
// message, and an optional source cursor so the caller can render a
// caret-marked excerpt the way the lexer and parser do internally.
package errors

import (
	"fmt"

	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
)

// Kind identifies which branch of the error sum type a value belongs to.
type Kind string

const (
	KindLex            Kind = "LexError"
	KindParse          Kind = "ParseError"
	KindType           Kind = "TypeError"
	KindName           Kind = "NameError"
	KindArity          Kind = "ArityError"
	KindCast           Kind = "CastError"
	KindGenerativeCast Kind = "GenerativeCastError"
	KindImport         Kind = "ImportError"
	KindProvider       Kind = "ProviderError"
	KindInterrupted    Kind = "InterruptedError"
)

// Error codes, grouped by kind. Mirrors the teacher's GEN6xx-style
// per-category numbering.
const (
	CodeUnterminatedString  = "LEX001"
	CodeMultipleDots        = "LEX002"
	CodeNumberThenIdent     = "LEX003"
	CodeUnexpectedChar      = "LEX004"
	CodeUnbalancedContext   = "LEX005"
	CodeBodyTooLong         = "LEX006"
	CodeUnexpectedToken     = "PARSE001"
	CodeUnmatchedDelimiter  = "PARSE002"
	CodeMissingThen         = "PARSE003"
	CodeMissingEnd          = "PARSE004"
	CodeInvalidTypeLiteral  = "PARSE005"
	CodeOperandMismatch     = "TYPE001"
	CodeDivisionByZero      = "TYPE002"
	CodeUndefinedIdentifier = "NAME001"
	CodeUnknownType         = "NAME002"
	CodeUnknownField        = "NAME003"
	CodeArityMismatch       = "ARITY001"
	CodeCoercionImpossible  = "CAST001"
	CodeConstructFailed     = "CAST002"
	CodeGenerativeParse     = "CAST003"
	CodeMissingFile         = "IMPORT001"
	CodeCircularImport      = "IMPORT002"
	CodeTransport           = "PROVIDER001"
	CodeInterrupted         = "RUN001"
)

// Error is the concrete type every Aura error value satisfies.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	At      *lexer.Cursor
	doc     *lexer.Document
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.At == nil {
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Code, e.Message)
	}
	base := fmt.Sprintf("%s %s: %s at %d:%d", e.Kind, e.Code, e.Message, e.At.Line, e.At.Column)
	if e.doc == nil {
		return base
	}
	excerpt := e.doc.Indicate(*e.At)
	if len(excerpt) == 0 {
		return base
	}
	out := base
	for _, line := range excerpt {
		out += "\n" + line
	}
	return out
}

// WithDocument attaches the source document so Error() can render a
// caret-marked excerpt. Returns the receiver for chaining.
func (e *Error) WithDocument(doc *lexer.Document) *Error {
	e.doc = doc
	return e
}

func newAt(kind Kind, code, message string, at *lexer.Cursor) *Error {
	return &Error{Kind: kind, Code: code, Message: message, At: at}
}

// Lex builds a LexError at the given cursor.
func Lex(code, message string, at lexer.Cursor) *Error {
	return newAt(KindLex, code, message, &at)
}

// Parse builds a ParseError at the given cursor.
func Parse(code, message string, at lexer.Cursor) *Error {
	return newAt(KindParse, code, message, &at)
}

// Type builds a TypeError, optionally positioned.
func Type(code, message string, at *lexer.Cursor) *Error {
	return newAt(KindType, code, message, at)
}

// Name builds a NameError, optionally positioned.
func Name(code, message string, at *lexer.Cursor) *Error {
	return newAt(KindName, code, message, at)
}

// Arity builds an ArityError.
func Arity(message string, at *lexer.Cursor) *Error {
	return newAt(KindArity, CodeArityMismatch, message, at)
}

// Cast builds a CastError (non-generative).
func Cast(code, message string) *Error {
	return newAt(KindCast, code, message, nil)
}

// GenerativeCast builds the GenerativeCastError sub-case of CastError.
func GenerativeCast(message string) *Error {
	return newAt(KindGenerativeCast, CodeGenerativeParse, message, nil)
}

// Import builds an ImportError. Import errors carry no cursor: they
// originate from file-system resolution, not a position in the importing
// source.
func Import(code, message string) *Error {
	return newAt(KindImport, code, message, nil)
}

// Provider builds a ProviderError from the LLM transport.
func Provider(message string) *Error {
	return newAt(KindProvider, CodeTransport, message, nil)
}

// Interrupted builds an InterruptedError for a host-requested cancellation
// observed at a statement boundary or around a network call. It carries no
// cursor: the environment is left in its last consistent, post-statement
// state, not pinned to the interrupted statement's position.
func Interrupted(message string) *Error {
	return newAt(KindInterrupted, CodeInterrupted, message, nil)
}

// Is reports whether err is an Aura error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
