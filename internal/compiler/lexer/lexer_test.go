package lexer

import "testing"

// scanSource is a small test helper mirroring the teacher's pattern of a
// scan-and-compare helper at the top of the lexer test file.
func scanSource(source string) ([]Token, []LexError) {
	l := New(source)
	tokens := l.ScanTokens()
	return tokens, l.Errors()
}

func checkTokenTypes(t *testing.T, tokens []Token, expected []TokenType) {
	t.Helper()

	actual := tokens
	if len(actual) > 0 && actual[len(actual)-1].Type == TOKEN_EOF {
		actual = actual[:len(actual)-1]
	}

	if len(actual) != len(expected) {
		t.Errorf("expected %d tokens, got %d", len(expected), len(actual))
		t.Logf("expected: %v", expected)
		t.Logf("got: %v", tokensToTypes(actual))
		return
	}

	for i, token := range actual {
		if token.Type != expected[i] {
			t.Errorf("token %d: expected %s, got %s", i, expected[i], token.Type)
		}
	}
}

func tokensToTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanIntAndFloat(t *testing.T) {
	tokens, errs := scanSource("42 3.14")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_INT, TOKEN_FLOAT})
}

func TestNumberWithMultipleDotsIsError(t *testing.T) {
	_, errs := scanSource("1.2.3")
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 lex error, got %d", len(errs))
	}
}

func TestNumberFollowedByIdentifierIsError(t *testing.T) {
	_, errs := scanSource("3x")
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 lex error, got %d", len(errs))
	}
}

func TestSimpleStringIsRaw(t *testing.T) {
	tokens, errs := scanSource(`'hello ${not interpolated}'`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_SIMPLE_STR})
	if tokens[0].Literal != `hello ${not interpolated}` {
		t.Errorf("expected raw body preserved, got %q", tokens[0].Literal)
	}
}

func TestInterpolatedStringWithoutInterpolation(t *testing.T) {
	tokens, errs := scanSource(`"plain text"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_STR_PART, TOKEN_STR_END})
}

func TestInterpolatedStringWithInterpolation(t *testing.T) {
	tokens, errs := scanSource(`"hello ${name}!"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_STR_PART, TOKEN_INTERPOLATION_START, TOKEN_ID, TOKEN_INTERPOLATION_END, TOKEN_STR_PART, TOKEN_STR_END,
	})
}

func TestGenerativeLiteralWithoutInterpolationIsSingleToken(t *testing.T) {
	tokens, errs := scanSource(`"""Describe a cat."""`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_GEN_LIT})
	if tokens[0].Literal != "Describe a cat." {
		t.Errorf("unexpected gen_lit body: %q", tokens[0].Literal)
	}
}

func TestGenerativeLiteralWithInterpolation(t *testing.T) {
	tokens, errs := scanSource(`"""Describe a ${animal}."""`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_STR_PART, TOKEN_INTERPOLATION_START, TOKEN_ID, TOKEN_INTERPOLATION_END, TOKEN_STR_PART, TOKEN_GEN_END,
	})
}

func TestNestedInterpolation(t *testing.T) {
	tokens, errs := scanSource(`"outer ${"inner ${x}"}"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_STR_PART, TOKEN_INTERPOLATION_START,
		TOKEN_STR_PART, TOKEN_INTERPOLATION_START, TOKEN_ID, TOKEN_INTERPOLATION_END, TOKEN_STR_END,
		TOKEN_INTERPOLATION_END, TOKEN_STR_END,
	})
}

func TestObjectLiteralBraceNotMistakenForInterpolationEnd(t *testing.T) {
	tokens, errs := scanSource(`{x: 1}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_LBRACE, TOKEN_ID, TOKEN_COLON, TOKEN_INT, TOKEN_RBRACE})
}

func TestObjectLiteralInsideInterpolation(t *testing.T) {
	tokens, errs := scanSource(`"value: ${ {x: 1}.x }"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_STR_PART, TOKEN_INTERPOLATION_START,
		TOKEN_LBRACE, TOKEN_ID, TOKEN_COLON, TOKEN_INT, TOKEN_RBRACE, TOKEN_DOT, TOKEN_ID,
		TOKEN_INTERPOLATION_END, TOKEN_STR_END,
	})
}

func TestUnterminatedStringIsError(t *testing.T) {
	_, errs := scanSource(`"never closed`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 lex error, got %d", len(errs))
	}
}

func TestKeywordsAndOperatorKeywords(t *testing.T) {
	tokens, errs := scanSource("if x and not y then end")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_KEYWORD, TOKEN_ID, TOKEN_AND, TOKEN_NOT, TOKEN_ID, TOKEN_KEYWORD, TOKEN_KEYWORD,
	})
}

func TestOperators(t *testing.T) {
	tokens, errs := scanSource("a + b - c * d / e ** f == g != h <= i >= j < k > l")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_ID, TOKEN_PLUS, TOKEN_ID, TOKEN_MINUS, TOKEN_ID, TOKEN_STAR, TOKEN_ID, TOKEN_SLASH, TOKEN_ID,
		TOKEN_POW, TOKEN_ID, TOKEN_EQ, TOKEN_ID, TOKEN_NEQ, TOKEN_ID, TOKEN_LTE, TOKEN_ID, TOKEN_GTE, TOKEN_ID,
		TOKEN_LT, TOKEN_ID, TOKEN_GT, TOKEN_ID,
	})
}

func TestCommentsAreSkipped(t *testing.T) {
	tokens, errs := scanSource("x = 1 # this is a comment\ny = 2")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{
		TOKEN_ID, TOKEN_EQUALS, TOKEN_INT, TOKEN_EOS, TOKEN_ID, TOKEN_EQUALS, TOKEN_INT,
	})
}

func TestShebangIsSkippedAsComment(t *testing.T) {
	tokens, errs := scanSource("#!/usr/bin/env aura\nx = 1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_EOS, TOKEN_ID, TOKEN_EQUALS, TOKEN_INT})
}

func TestPipeOperatorsReserved(t *testing.T) {
	tokens, errs := scanSource("a |- b ~|- c")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	checkTokenTypes(t, tokens, []TokenType{TOKEN_ID, TOKEN_PIPE, TOKEN_ID, TOKEN_TILDE, TOKEN_ID})
}
