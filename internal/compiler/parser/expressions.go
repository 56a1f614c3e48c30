package parser

import (
	"github.com/jweissman/aua-sub001/internal/compiler/ast"
	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
)

// Expression grammar (lowest to highest precedence); assignment and
// parens-less command calls are recognized one level up in
// parseStatement/parsePrimary:
//
//	expression  → pipe
//	pipe        → cast ( ("|-" | "~|-") cast )*
//	cast        → or ( "as" typeExpr )*
//	or          → and ( "or" and )*
//	and         → equality ( "and" equality )*
//	equality    → relational ( ("==" | "!=") relational )*
//	relational  → additive ( ("<" | "<=" | ">" | ">=") additive )*
//	additive    → multiplicative ( ("+" | "-") multiplicative )*
//	multiplicative → power ( ("*" | "/") power )*
//	power       → unary ( "**" power )?        (right-associative)
//	unary       → ("-" | "not") unary | postfix
//	postfix     → primary ( "." IDENTIFIER )*
//	primary     → literal | identifier-or-call | "(" expression ")"
//	            | arrayLiteral | objectLiteral | structuredString
func (p *Parser) parseExpression() ast.Expr {
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Expr {
	left := p.parseCast()
	for p.check(lexer.TOKEN_PIPE) || p.check(lexer.TOKEN_TILDE) {
		op := p.advance()
		right := p.parseCast()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: op.Lexeme, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseCast() ast.Expr {
	left := p.parseOr()
	for p.check(lexer.TOKEN_AS) {
		at := p.advance().At
		t := p.parseTypeExpr()
		left = &ast.Cast{Base: ast.NewBase(at), Value: left, Type: t}
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.TOKEN_OR) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: "or", Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(lexer.TOKEN_AND) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: "and", Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.check(lexer.TOKEN_EQ) || p.check(lexer.TOKEN_NEQ) {
		op := p.advance()
		right := p.parseRelational()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: op.Lexeme, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.check(lexer.TOKEN_LT) || p.check(lexer.TOKEN_LTE) || p.check(lexer.TOKEN_GT) || p.check(lexer.TOKEN_GTE) {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: op.Lexeme, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(lexer.TOKEN_PLUS) || p.check(lexer.TOKEN_MINUS) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: op.Lexeme, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePower()
	for p.check(lexer.TOKEN_STAR) || p.check(lexer.TOKEN_SLASH) {
		op := p.advance()
		right := p.parsePower()
		left = &ast.BinOp{Base: ast.NewBase(op.At), Op: op.Lexeme, Lhs: left, Rhs: right}
	}
	return left
}

// parsePower is right-associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
func (p *Parser) parsePower() ast.Expr {
	left := p.parseUnary()
	if p.check(lexer.TOKEN_POW) {
		op := p.advance()
		right := p.parsePower()
		return &ast.BinOp{Base: ast.NewBase(op.At), Op: "**", Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.TOKEN_MINUS) {
		at := p.advance().At
		operand := p.parseUnary()
		return &ast.Negate{Base: ast.NewBase(at), Op: "-", Operand: operand}
	}
	if p.check(lexer.TOKEN_NOT) {
		at := p.advance().At
		operand := p.parseUnary()
		return &ast.Negate{Base: ast.NewBase(at), Op: "not", Operand: operand}
	}
	return p.parsePostfix()
}

// parsePostfix handles left-associative member access: "expr.id" becomes
// BinOp{Op:"dot"} with the field name carried as a StrLit on the RHS.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for p.check(lexer.TOKEN_DOT) {
		at := p.advance().At
		field := p.consume(lexer.TOKEN_ID, "expected field name after '.'")
		rhs := &ast.StrLit{Base: ast.NewBase(field.At), Value: field.Lexeme}
		expr = &ast.BinOp{Base: ast.NewBase(at), Op: "dot", Lhs: expr, Rhs: rhs}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()

	switch tok.Type {
	case lexer.TOKEN_INT:
		p.advance()
		return &ast.IntLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme}
	case lexer.TOKEN_FLOAT:
		p.advance()
		return &ast.FloatLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme}
	case lexer.TOKEN_BOOL:
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme == "true"}
	case lexer.TOKEN_NIHIL:
		p.advance()
		return &ast.NihilLit{Base: ast.NewBase(tok.At)}
	case lexer.TOKEN_SIMPLE_STR:
		p.advance()
		return &ast.StrLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme}
	case lexer.TOKEN_GEN_LIT:
		p.advance()
		return &ast.GenLit{Base: ast.NewBase(tok.At), Text: tok.Lexeme}
	case lexer.TOKEN_STR_PART, lexer.TOKEN_INTERPOLATION_START:
		return p.parseStructuredString()
	case lexer.TOKEN_ID:
		return p.parseIdentifierOrCall()
	case lexer.TOKEN_LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.consume(lexer.TOKEN_RPAREN, "expected ')' after expression")
		return expr
	case lexer.TOKEN_LBRACKET:
		return p.parseArrayLiteral()
	case lexer.TOKEN_LBRACE:
		return p.parseObjectLiteral()
	default:
		p.errorAt("unexpected token in expression")
		p.advance()
		return &ast.NihilLit{Base: ast.NewBase(tok.At)}
	}
}

// parseIdentifierOrCall recognizes Aura's parens-less command calls: an
// identifier immediately followed by another primary (not an infix
// operator) is parsed as a call collecting args until the next token
// can't start another one.
func (p *Parser) parseIdentifierOrCall() ast.Expr {
	tok := p.advance()
	if !p.startsCommandArg() {
		return &ast.Identifier{Base: ast.NewBase(tok.At), Name: tok.Lexeme}
	}

	var args []ast.Expr
	for p.startsCommandArg() {
		args = append(args, p.parseExpression())
		if p.match(lexer.TOKEN_COMMA) {
			continue
		}
	}
	return &ast.Call{Base: ast.NewBase(tok.At), Name: tok.Lexeme, Args: args}
}

// startsCommandArg reports whether the current token can begin an
// argument of a parens-less call.
func (p *Parser) startsCommandArg() bool {
	switch p.peek().Type {
	case lexer.TOKEN_INT, lexer.TOKEN_FLOAT, lexer.TOKEN_BOOL, lexer.TOKEN_NIHIL,
		lexer.TOKEN_SIMPLE_STR, lexer.TOKEN_STR_PART, lexer.TOKEN_GEN_LIT,
		lexer.TOKEN_INTERPOLATION_START, lexer.TOKEN_ID, lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET:
		return true
	default:
		return false
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	at := p.advance().At // '['
	var elems []ast.Expr
	if !p.check(lexer.TOKEN_RBRACKET) {
		for {
			elems = append(elems, p.parseExpression())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	p.consume(lexer.TOKEN_RBRACKET, "expected ']' to close array literal")
	return &ast.ArrayLiteral{Base: ast.NewBase(at), Elems: elems}
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	at := p.advance().At // '{'
	var fields []*ast.Field
	if !p.check(lexer.TOKEN_RBRACE) {
		for {
			name := p.consume(lexer.TOKEN_ID, "expected field name")
			p.consume(lexer.TOKEN_COLON, "expected ':' after field name")
			value := p.parseExpression()
			fields = append(fields, &ast.Field{Base: ast.NewBase(name.At), Name: name.Lexeme, Value: value})
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	p.consume(lexer.TOKEN_RBRACE, "expected '}' to close object literal")
	return &ast.ObjectLiteral{Base: ast.NewBase(at), Fields: fields}
}

// parseStructuredString parses the token sequence a string literal with
// interpolation produces: STR_PART and INTERPOLATION_START/END pairs,
// terminated by STR_END (interpolated) or GEN_END (generative).
func (p *Parser) parseStructuredString() ast.Expr {
	at := p.peek().At
	var parts []ast.Expr

	for {
		switch {
		case p.check(lexer.TOKEN_STR_PART):
			tok := p.advance()
			parts = append(parts, &ast.StrPart{Base: ast.NewBase(tok.At), Value: tok.Lexeme})
		case p.check(lexer.TOKEN_INTERPOLATION_START):
			p.advance()
			parts = append(parts, p.parseExpression())
			p.consume(lexer.TOKEN_INTERPOLATION_END, "expected '}' to close interpolation")
		case p.check(lexer.TOKEN_STR_END):
			p.advance()
			return &ast.StructuredStr{Base: ast.NewBase(at), Parts: parts}
		case p.check(lexer.TOKEN_GEN_END):
			p.advance()
			return &ast.StructuredGenLit{Base: ast.NewBase(at), Parts: parts}
		default:
			p.errorAt("unterminated structured string")
			return &ast.StructuredStr{Base: ast.NewBase(at), Parts: parts}
		}
	}
}

// --- type expressions ---

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	left := p.parseTypePrimary()
	if !p.check(lexer.TOKEN_PIPE) {
		return left
	}
	members := []ast.TypeExpr{left}
	for p.check(lexer.TOKEN_PIPE) && p.peek().Lexeme == "|" {
		p.advance()
		members = append(members, p.parseTypePrimary())
	}
	return &ast.UnionType{Base: ast.NewBase(left.At()), Members: members}
}

func (p *Parser) parseTypePrimary() ast.TypeExpr {
	tok := p.peek()
	switch tok.Type {
	case lexer.TOKEN_ID:
		p.advance()
		if p.check(lexer.TOKEN_LT) {
			p.advance()
			var params []ast.TypeExpr
			for {
				params = append(params, p.parseTypeExpr())
				if !p.match(lexer.TOKEN_COMMA) {
					break
				}
			}
			p.consume(lexer.TOKEN_GT, "expected '>' to close generic type parameters")
			return &ast.GenericType{Base: ast.NewBase(tok.At), BaseName: tok.Lexeme, Params: params}
		}
		return &ast.TypeReference{Base: ast.NewBase(tok.At), Name: tok.Lexeme}
	case lexer.TOKEN_LBRACE:
		return p.parseRecordType()
	case lexer.TOKEN_SIMPLE_STR:
		p.advance()
		return &ast.TypeConstant{Base: ast.NewBase(tok.At), Literal: &ast.StrLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme}}
	case lexer.TOKEN_INT:
		p.advance()
		return &ast.TypeConstant{Base: ast.NewBase(tok.At), Literal: &ast.IntLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme}}
	case lexer.TOKEN_FLOAT:
		p.advance()
		return &ast.TypeConstant{Base: ast.NewBase(tok.At), Literal: &ast.FloatLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme}}
	case lexer.TOKEN_BOOL:
		p.advance()
		return &ast.TypeConstant{Base: ast.NewBase(tok.At), Literal: &ast.BoolLit{Base: ast.NewBase(tok.At), Value: tok.Lexeme == "true"}}
	case lexer.TOKEN_STR_PART, lexer.TOKEN_INTERPOLATION_START, lexer.TOKEN_GEN_LIT:
		p.errorAt("interpolation is not allowed in type position")
		p.advance()
		return &ast.TypeReference{Base: ast.NewBase(tok.At), Name: "Nihil"}
	default:
		p.errorAt("expected type expression")
		p.advance()
		return &ast.TypeReference{Base: ast.NewBase(tok.At), Name: "Nihil"}
	}
}

func (p *Parser) parseRecordType() ast.TypeExpr {
	at := p.advance().At // '{'
	var fields []*ast.Field
	if !p.check(lexer.TOKEN_RBRACE) {
		for {
			name := p.consume(lexer.TOKEN_ID, "expected field name in record type")
			p.consume(lexer.TOKEN_COLON, "expected ':' after field name")
			t := p.parseTypeExpr()
			fields = append(fields, &ast.Field{Base: ast.NewBase(name.At), Name: name.Lexeme, TypeValue: t})
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	p.consume(lexer.TOKEN_RBRACE, "expected '}' to close record type")
	return &ast.RecordType{Base: ast.NewBase(at), Fields: fields}
}
