package lexer

import (
	"strings"
	"testing"
)

func generateProgram(statements int) string {
	var sb strings.Builder
	for i := 0; i < statements; i++ {
		sb.WriteString(`count = count + 1
if count > 10 then
  say "over ${count}"
end
`)
	}
	return sb.String()
}

func BenchmarkLexer_Simple(b *testing.B) {
	source := `name = "world"
say "hello ${name}!"`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_1000Statements(b *testing.B) {
	source := generateProgram(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_Keywords(b *testing.B) {
	source := strings.Repeat("if then elif else end while type fun and or not as ", 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_Identifiers(b *testing.B) {
	source := strings.Repeat("user_name post_title author_id created_at ", 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_SimpleStrings(b *testing.B) {
	source := `'hello' 'world' 'a raw string' 'another raw string with spaces'`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_InterpolatedStrings(b *testing.B) {
	source := `"hello ${name}, you are ${age} years old today"`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_GenerativeLiterals(b *testing.B) {
	source := `"""Describe ${animal} in ${count} words, focusing on its habitat."""`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_LongGenerativeLiteral(b *testing.B) {
	body := strings.Repeat("a ", 500)
	source := `"""` + body + `"""`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_Numbers(b *testing.B) {
	source := `42 3.14 100 0.001 7 9.5`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_Operators(b *testing.B) {
	source := `== != <= >= + - * / ** and or not as |- ~|-`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_Comments(b *testing.B) {
	source := strings.Repeat("# this is a comment\n", 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}

func BenchmarkLexer_Memory(b *testing.B) {
	source := generateProgram(200)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l := New(source)
		l.ScanTokens()
	}
}
