// Package parser implements Aura's recursive-descent, Pratt-precedence
// parser: token stream in, AST out.
package parser

import (
	"fmt"

	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
)

// ParseError represents an error encountered during parsing.
type ParseError struct {
	Message string
	At      lexer.Cursor
	Token   lexer.Token
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("Parse error at %d:%d: %s (near '%s')",
		e.At.Line, e.At.Column, e.Message, e.Token.Lexeme)
}

// NewParseError creates a new parse error positioned at token.
func NewParseError(message string, token lexer.Token) ParseError {
	return ParseError{Message: message, At: token.At, Token: token}
}
