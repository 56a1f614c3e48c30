package lexer

import "fmt"

// TokenType identifies the lexical category of a Token.
type TokenType int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF TokenType = iota
	// TOKEN_ERROR represents a lexical error already recorded on the Lexer.
	TOKEN_ERROR

	// Identifiers and keywords
	TOKEN_ID
	TOKEN_KEYWORD

	// Literals
	TOKEN_INT
	TOKEN_FLOAT
	TOKEN_BOOL
	TOKEN_NIHIL
	TOKEN_SIMPLE_STR // 'raw string', no interpolation

	// Interpolated / generative string parts
	TOKEN_STR_PART            // literal chunk inside "..." or """..."""
	TOKEN_STR_END             // closing " of an interpolated string
	TOKEN_GEN_LIT             // a """generative""" literal with no interpolation
	TOKEN_GEN_END             // closing """ of a generative string with interpolation
	TOKEN_INTERPOLATION_START // ${
	TOKEN_INTERPOLATION_END   // } closing an interpolation

	// Operators
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_POW // **
	TOKEN_PIPE
	TOKEN_TILDE
	TOKEN_DOT
	TOKEN_EQ
	TOKEN_LT
	TOKEN_GT
	TOKEN_LTE
	TOKEN_GTE
	TOKEN_NEQ
	TOKEN_AND
	TOKEN_OR
	TOKEN_NOT
	TOKEN_AS

	// Delimiters
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_COLON
	TOKEN_COMMA
	TOKEN_EQUALS // assignment =

	// End of statement
	TOKEN_EOS
)

var tokenTypeNames = map[TokenType]string{
	TOKEN_EOF:                 "EOF",
	TOKEN_ERROR:               "ERROR",
	TOKEN_ID:                  "ID",
	TOKEN_KEYWORD:             "KEYWORD",
	TOKEN_INT:                 "INT",
	TOKEN_FLOAT:               "FLOAT",
	TOKEN_BOOL:                "BOOL",
	TOKEN_NIHIL:               "NIHIL",
	TOKEN_SIMPLE_STR:          "SIMPLE_STR",
	TOKEN_STR_PART:            "STR_PART",
	TOKEN_STR_END:             "STR_END",
	TOKEN_GEN_LIT:             "GEN_LIT",
	TOKEN_GEN_END:             "GEN_END",
	TOKEN_INTERPOLATION_START: "INTERPOLATION_START",
	TOKEN_INTERPOLATION_END:   "INTERPOLATION_END",
	TOKEN_PLUS:                "PLUS",
	TOKEN_MINUS:               "MINUS",
	TOKEN_STAR:                "STAR",
	TOKEN_SLASH:               "SLASH",
	TOKEN_POW:                 "POW",
	TOKEN_PIPE:                "PIPE",
	TOKEN_TILDE:               "TILDE",
	TOKEN_DOT:                 "DOT",
	TOKEN_EQ:                  "EQ",
	TOKEN_LT:                  "LT",
	TOKEN_GT:                  "GT",
	TOKEN_LTE:                 "LTE",
	TOKEN_GTE:                 "GTE",
	TOKEN_NEQ:                 "NEQ",
	TOKEN_AND:                 "AND",
	TOKEN_OR:                  "OR",
	TOKEN_NOT:                 "NOT",
	TOKEN_AS:                  "AS",
	TOKEN_LPAREN:              "LPAREN",
	TOKEN_RPAREN:              "RPAREN",
	TOKEN_LBRACE:              "LBRACE",
	TOKEN_RBRACE:              "RBRACE",
	TOKEN_LBRACKET:            "LBRACKET",
	TOKEN_RBRACKET:            "RBRACKET",
	TOKEN_COLON:               "COLON",
	TOKEN_COMMA:               "COMMA",
	TOKEN_EQUALS:              "EQUALS",
	TOKEN_EOS:                 "EOS",
}

// String returns the human-readable name of a TokenType.
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// Token is a single lexical unit: its kind, optional literal value, and
// the cursor position where it begins.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	At      Cursor
}

// String renders a Token for debugging/error messages.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s '%s' (%v) at %d:%d", t.Type, t.Lexeme, t.Literal, t.At.Line, t.At.Column)
	}
	return fmt.Sprintf("%s '%s' at %d:%d", t.Type, t.Lexeme, t.At.Line, t.At.Column)
}

// Keywords are reserved words; identifiers matching one of these lex as
// TOKEN_KEYWORD (with the word itself in Lexeme) rather than TOKEN_ID,
// except for true/false/nihil which get their own literal token kinds,
// and and/or/not/as which get their own operator token kinds (see
// OperatorKeywords).
var Keywords = map[string]bool{
	"if": true, "then": true, "else": true, "elif": true, "end": true,
	"while": true, "type": true, "fun": true, "as": true,
	"and": true, "or": true, "not": true,
	"true": true, "false": true, "nihil": true,
}

// LiteralKeywords maps the three literal-producing keywords to the token
// type they lex as instead of TOKEN_KEYWORD.
var LiteralKeywords = map[string]TokenType{
	"true":  TOKEN_BOOL,
	"false": TOKEN_BOOL,
	"nihil": TOKEN_NIHIL,
}

// OperatorKeywords maps keyword-spelled operators (and/or/not/as) to their
// operator token type rather than a generic TOKEN_KEYWORD.
var OperatorKeywords = map[string]TokenType{
	"and": TOKEN_AND,
	"or":  TOKEN_OR,
	"not": TOKEN_NOT,
	"as":  TOKEN_AS,
}

// LexError is recorded by the lexer when it cannot make sense of the
// input. The lexer's caller renders it via internal/errors.
type LexError struct {
	Message string
	At      Cursor
	Lexeme  string
}

func (e LexError) Error() string {
	return fmt.Sprintf("Lexical error at %d:%d: %s (near '%s')", e.At.Line, e.At.Column, e.Message, e.Lexeme)
}
