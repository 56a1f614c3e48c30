package parser

import (
	"github.com/jweissman/aua-sub001/internal/compiler/ast"
	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
)

// Parser transforms a stream of tokens into an Abstract Syntax Tree.
// Recursive descent with a one-slot lookahead and Pratt-style precedence
// climbing for binary operators.
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError
}

// New creates a new parser for the given token stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the entire token stream and returns the resulting
// Program, plus any parse errors encountered (each failed expectation is
// recorded and parsing carries on — it does not stop at the first error).
func (p *Parser) Parse() (*ast.Program, []ParseError) {
	body := p.parseStatementList(nil)
	return &ast.Program{Body: body}, p.errors
}

// --- token stream helpers ---

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.current + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TOKEN_EOF
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt lexer.TokenType) bool {
	if p.isAtEnd() {
		return tt == lexer.TOKEN_EOF
	}
	return p.peek().Type == tt
}

func (p *Parser) checkKeyword(word string) bool {
	return p.check(lexer.TOKEN_KEYWORD) && p.peek().Lexeme == word
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt lexer.TokenType, message string) lexer.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errors = append(p.errors, NewParseError(message, p.peek()))
	return p.peek()
}

func (p *Parser) consumeKeyword(word, message string) lexer.Token {
	if p.checkKeyword(word) {
		return p.advance()
	}
	p.errors = append(p.errors, NewParseError(message, p.peek()))
	return p.peek()
}

func (p *Parser) errorAt(message string) {
	p.errors = append(p.errors, NewParseError(message, p.peek()))
}

// synchronize skips tokens until the next statement boundary (EOS) or
// EOF, so a malformed statement doesn't cascade into bogus errors for
// every following token.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TOKEN_EOS {
			return
		}
		if p.checkKeyword("end") || p.checkKeyword("if") || p.checkKeyword("while") ||
			p.checkKeyword("fun") || p.checkKeyword("type") {
			return
		}
		p.advance()
	}
}

func (p *Parser) skipEOS() {
	for p.check(lexer.TOKEN_EOS) {
		p.advance()
	}
}

// --- statements ---

// parseStatementList parses statements separated by EOS until EOF or
// until the current token is a keyword matching one of stop (used for
// if/while/fun bodies). A single statement is returned unwrapped; more
// than one is wrapped in a Seq.
func (p *Parser) parseStatementList(stop []string) ast.Expr {
	var stmts []ast.Expr
	p.skipEOS()
	for !p.isAtEnd() && !p.atStopKeyword(stop) {
		before := p.current
		stmt := p.parseStatement()
		stmts = append(stmts, stmt)
		p.skipEOS()
		if p.current == before {
			// parseStatement failed to consume anything; avoid an infinite loop.
			p.errorAt("unexpected token")
			p.advance()
		}
	}
	if len(stmts) == 0 {
		return nil
	}
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &ast.Seq{Base: ast.NewBase(stmts[0].At()), Stmts: stmts}
}

func (p *Parser) atStopKeyword(stop []string) bool {
	if !p.check(lexer.TOKEN_KEYWORD) {
		return false
	}
	for _, word := range stop {
		if p.peek().Lexeme == word {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() ast.Expr {
	if p.checkKeyword("if") {
		return p.parseIf()
	}
	if p.checkKeyword("while") {
		return p.parseWhile()
	}
	if p.checkKeyword("type") {
		return p.parseTypeDeclaration()
	}
	if p.checkKeyword("fun") {
		return p.parseFunDecl()
	}

	if p.check(lexer.TOKEN_ID) && p.peekAt(1).Type == lexer.TOKEN_EQUALS {
		at := p.peek().At
		name := p.advance().Lexeme
		p.advance() // '='
		value := p.parseExpression()
		return &ast.Assign{Base: ast.NewBase(at), Name: name, Value: value}
	}

	return p.parseExpression()
}

func (p *Parser) parseIf() ast.Expr {
	at := p.advance().At // 'if'
	cond := p.parseExpression()
	p.consumeKeyword("then", "expected 'then' after if condition")
	then := p.parseStatementList([]string{"elif", "else", "end"})

	var elseBranch ast.Expr
	if p.checkKeyword("elif") {
		elseBranch = p.parseElif()
		return &ast.If{Base: ast.NewBase(at), Cond: cond, Then: then, Else: elseBranch}
	}
	if p.checkKeyword("else") {
		p.advance()
		elseBranch = p.parseStatementList([]string{"end"})
	}
	p.consumeKeyword("end", "expected 'end' to close if")
	return &ast.If{Base: ast.NewBase(at), Cond: cond, Then: then, Else: elseBranch}
}

// parseElif desugars "elif cond then body" into a nested If. The last
// elif of the chain consumes the final 'end'; the outer parseIf does not.
func (p *Parser) parseElif() ast.Expr {
	at := p.advance().At // 'elif'
	cond := p.parseExpression()
	p.consumeKeyword("then", "expected 'then' after elif condition")
	then := p.parseStatementList([]string{"elif", "else", "end"})

	var elseBranch ast.Expr
	if p.checkKeyword("elif") {
		elseBranch = p.parseElif()
		inner := &ast.If{Base: ast.NewBase(at), Cond: cond, Then: then, Else: elseBranch}
		return inner
	}
	if p.checkKeyword("else") {
		p.advance()
		elseBranch = p.parseStatementList([]string{"end"})
	}
	p.consumeKeyword("end", "expected 'end' to close if")
	return &ast.If{Base: ast.NewBase(at), Cond: cond, Then: then, Else: elseBranch}
}

func (p *Parser) parseWhile() ast.Expr {
	at := p.advance().At // 'while'
	cond := p.parseExpression()
	body := p.parseStatementList([]string{"end"})
	p.consumeKeyword("end", "expected 'end' to close while")
	return &ast.While{Base: ast.NewBase(at), Cond: cond, Body: body}
}

func (p *Parser) parseFunDecl() ast.Expr {
	at := p.advance().At // 'fun'
	name := p.consume(lexer.TOKEN_ID, "expected function name").Lexeme
	p.consume(lexer.TOKEN_LPAREN, "expected '(' after function name")
	var params []string
	if !p.check(lexer.TOKEN_RPAREN) {
		for {
			params = append(params, p.consume(lexer.TOKEN_ID, "expected parameter name").Lexeme)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	p.consume(lexer.TOKEN_RPAREN, "expected ')' after parameters")
	body := p.parseStatementList([]string{"end"})
	p.consumeKeyword("end", "expected 'end' to close function")
	return &ast.FunDecl{Base: ast.NewBase(at), Name: name, Params: params, Body: body}
}

func (p *Parser) parseTypeDeclaration() ast.Expr {
	at := p.advance().At // 'type'
	name := p.consume(lexer.TOKEN_ID, "expected type name").Lexeme
	p.consume(lexer.TOKEN_EQUALS, "expected '=' in type declaration")
	def := p.parseTypeExpr()
	return &ast.TypeDeclaration{Base: ast.NewBase(at), Name: name, Def: def}
}
