package vm

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/jweissman/aua-sub001/internal/compiler/ast"
	"github.com/jweissman/aua-sub001/internal/compiler/lexer"
	"github.com/jweissman/aua-sub001/internal/compiler/parser"
	aerrors "github.com/jweissman/aua-sub001/internal/errors"
	"github.com/jweissman/aua-sub001/internal/llm"
	"github.com/jweissman/aua-sub001/internal/translator"
	"github.com/jweissman/aua-sub001/internal/types"
)

// Configuration configures a VM instance: the LLM provider, the cache
// location, and the host I/O streams used by say/ask.
type Configuration struct {
	LLM       llm.Configuration
	CachePath string
	Out       io.Writer
	In        io.Reader
	ImportDir string
}

// VM is a persistent, reusable Aura evaluator.
type VM struct {
	Registry *types.Registry
	Global   *Environment
	Client   llm.Client
	Out      io.Writer
	In       io.Reader

	// Context governs cancellation: Run honors it at statement boundaries
	// (between each top-level/Seq statement and each While iteration) and
	// immediately before/after every LLM call (GEN, chat, generative CAST).
	// Defaults to context.Background(); a host wires in a cancelable or
	// timeout context to interrupt a running script. An interrupted Run
	// leaves Global holding whatever the last completed statement bound —
	// evaluation simply stops, nothing is rolled back.
	Context context.Context

	cache     *llm.Cache
	importing map[string]bool
	importDir string
	rng       *rand.Rand
}

// requestContext is the context passed to outbound LLM calls: the VM's
// configured Context, or a background context if none was set.
func (v *VM) requestContext() context.Context {
	if v.Context == nil {
		return context.Background()
	}
	return v.Context
}

// interrupted reports (as an Aura error) whether the VM's Context has been
// canceled or has exceeded its deadline, or nil if evaluation may proceed.
func (v *VM) interrupted() error {
	ctx := v.Context
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return aerrors.Interrupted(ctx.Err().Error())
	default:
		return nil
	}
}

// New constructs a VM: opens the LLM cache, wires a cached client around
// the configured provider, and seeds the type registry with primitives.
func New(config Configuration) (*VM, error) {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.In == nil {
		config.In = os.Stdin
	}
	cachePath := config.CachePath
	if cachePath == "" {
		cachePath = llm.CachePath
	}

	cache, err := llm.OpenCache(cachePath)
	if err != nil {
		return nil, err
	}

	base := llm.NewClient(config.LLM)
	client := llm.NewCachedClient(base, cache, config.LLM)
	client.SetOutput(config.Out)

	return &VM{
		Registry:  types.NewRegistry(),
		Global:    NewEnvironment(nil),
		Client:    client,
		Out:       config.Out,
		In:        config.In,
		Context:   context.Background(),
		cache:     cache,
		importing: make(map[string]bool),
		importDir: config.ImportDir,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Close releases resources the VM owns (the cache file handle).
func (v *VM) Close() error {
	return v.cache.Close()
}

// Run lexes, parses, translates, and evaluates source against this VM's
// persistent global environment, returning the value of its final
// expression.
func (v *VM) Run(source string) (Obj, error) {
	lex := lexer.New(source)
	tokens := lex.ScanTokens()
	if errs := lex.Errors(); len(errs) > 0 {
		return nil, lexErrorToAura(errs[0], lex).WithDocument(lexer.NewDocument(source))
	}

	p := parser.New(tokens)
	prog, errs := p.Parse()
	if len(errs) > 0 {
		return nil, parseErrorToAura(errs[0]).WithDocument(lexer.NewDocument(source))
	}

	return v.RunProgram(prog, v.Global)
}

// RunProgram evaluates an already-parsed program against env. Run calls
// it after parsing; import() goes through Run.
func (v *VM) RunProgram(prog *ast.Program, env *Environment) (Obj, error) {
	if prog.IsEmpty() {
		return Nihil{}, nil
	}
	stmt := translator.Translate(prog)
	return v.Eval(stmt, env)
}

func lexErrorToAura(e lexer.LexError, lex *lexer.Lexer) *aerrors.Error {
	return aerrors.Lex(classifyLexError(e.Message), e.Message, e.At)
}

func classifyLexError(message string) string {
	switch {
	case contains(message, "unterminated"):
		return aerrors.CodeUnterminatedString
	case contains(message, "multiple dots"), contains(message, "more than one"):
		return aerrors.CodeMultipleDots
	case contains(message, "immediately followed by identifier"):
		return aerrors.CodeNumberThenIdent
	case contains(message, "context"):
		return aerrors.CodeUnbalancedContext
	case contains(message, "too long"):
		return aerrors.CodeBodyTooLong
	default:
		return aerrors.CodeUnexpectedChar
	}
}

func parseErrorToAura(e parser.ParseError) *aerrors.Error {
	return aerrors.Parse(aerrors.CodeUnexpectedToken, e.Message, e.At)
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
