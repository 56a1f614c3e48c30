package vm

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	aerrors "github.com/jweissman/aua-sub001/internal/errors"
	"github.com/jweissman/aua-sub001/internal/translator"
	"gopkg.in/yaml.v3"
)

// evalSend dispatches a call: a user-defined function bound in env takes
// precedence over a same-named builtin.
func (v *VM) evalSend(n *translator.Send, env *Environment) (Obj, error) {
	args := make([]Obj, len(n.Args))
	for i, a := range n.Args {
		val, err := v.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	if fnVal, ok := env.Get(n.Method); ok {
		if fn, isFn := fnVal.(*Function); isFn {
			return v.callFunction(fn, args, n)
		}
	}

	return v.callBuiltin(n.Method, args, n, env)
}

func (v *VM) callFunction(fn *Function, args []Obj, n *translator.Send) (Obj, error) {
	if len(args) != len(fn.Params) {
		return nil, aerrors.Arity(fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args)), ptr(n.At()))
	}
	callEnv := NewEnvironment(fn.Env)
	for i, param := range fn.Params {
		callEnv.Let(param, args[i])
	}
	return v.Eval(fn.Body, callEnv)
}

// BuiltinFunc is the signature every entry in the builtin registry
// implements: the call site has already evaluated arguments and resolved
// env, so a builtin only needs its arguments and the call node (for
// arity-error positions).
type BuiltinFunc func(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error)

// builtins is the name -> implementation table for Aura's ten built-in
// functions, in the spirit of the teacher's StdlibFunctions signature
// table rather than a switch statement.
var builtins = map[string]BuiltinFunc{
	"say":       builtinSay,
	"ask":       builtinAsk,
	"chat":      builtinChat,
	"inspect":   builtinInspect,
	"typeof":    builtinTypeof,
	"rand":      builtinRand,
	"time":      builtinTime,
	"see_url":   builtinSeeURL,
	"import":    builtinImport,
	"load_yaml": builtinLoadYAML,
}

func (v *VM) callBuiltin(name string, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, aerrors.Name(aerrors.CodeUndefinedIdentifier, fmt.Sprintf("undefined identifier %q", name), ptr(n.At()))
	}
	return fn(v, args, n, env)
}

func builtinSay(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("say", args, 1, n); err != nil {
		return nil, err
	}
	fmt.Fprintln(v.Out, args[0].Pretty())
	return Nihil{}, nil
}

func builtinAsk(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("ask", args, 1, n); err != nil {
		return nil, err
	}
	fmt.Fprint(v.Out, args[0].Pretty())
	reader := bufio.NewReader(v.In)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, aerrors.Provider(fmt.Sprintf("ask: %v", err))
	}
	return Str{Value: trimNewline(line)}, nil
}

func builtinChat(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("chat", args, 1, n); err != nil {
		return nil, err
	}
	if ierr := v.interrupted(); ierr != nil {
		return nil, ierr
	}
	resp, _, err := v.Client.Generate(v.requestContext(), args[0].Pretty(), false)
	if ierr := v.interrupted(); ierr != nil {
		return nil, ierr
	}
	if err != nil {
		return nil, aerrors.Provider(err.Error())
	}
	return Str{Value: resp}, nil
}

func builtinInspect(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("inspect", args, 1, n); err != nil {
		return nil, err
	}
	return Str{Value: args[0].Introspect()}, nil
}

func builtinTypeof(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("typeof", args, 1, n); err != nil {
		return nil, err
	}
	return Str{Value: typeName(args[0])}, nil
}

func builtinRand(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("rand", args, 1, n); err != nil {
		return nil, err
	}
	limit, ok := args[0].(Int)
	if !ok || limit.Value <= 0 {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "rand(n) requires a positive Int", ptr(n.At()))
	}
	return Int{Value: v.rng.Int63n(limit.Value)}, nil
}

func builtinTime(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("time", args, 1, n); err != nil {
		return nil, err
	}
	spec, ok := args[0].(Str)
	if !ok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "time(spec) requires a Str", ptr(n.At()))
	}
	if spec.Value == "now" {
		return Time{Value: time.Now()}, nil
	}
	parsed, err := time.Parse(time.RFC3339, spec.Value)
	if err != nil {
		return nil, aerrors.Cast(aerrors.CodeCoercionImpossible, fmt.Sprintf("cannot parse %q as a time", spec.Value))
	}
	return Time{Value: parsed}, nil
}

func builtinSeeURL(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("see_url", args, 1, n); err != nil {
		return nil, err
	}
	url, ok := args[0].(Str)
	if !ok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "see_url(u) requires a Str", ptr(n.At()))
	}
	resp, err := http.Get(url.Value)
	if err != nil {
		return nil, aerrors.Provider(fmt.Sprintf("NetworkError: %v", err))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, aerrors.Provider(fmt.Sprintf("NetworkError: %v", err))
	}
	return Str{Value: string(body)}, nil
}

func builtinImport(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("import", args, 1, n); err != nil {
		return nil, err
	}
	path, ok := args[0].(Str)
	if !ok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "import(path) requires a Str", ptr(n.At()))
	}
	return v.importFile(path.Value)
}

func builtinLoadYAML(v *VM, args []Obj, n *translator.Send, env *Environment) (Obj, error) {
	if err := requireArity("load_yaml", args, 1, n); err != nil {
		return nil, err
	}
	path, ok := args[0].(Str)
	if !ok {
		return nil, aerrors.Type(aerrors.CodeOperandMismatch, "load_yaml(path) requires a Str", ptr(n.At()))
	}
	return v.loadYAML(path.Value)
}

func requireArity(name string, args []Obj, want int, n *translator.Send) error {
	if len(args) != want {
		return aerrors.Arity(fmt.Sprintf("%s expects %d argument(s), got %d", name, want, len(args)), ptr(n.At()))
	}
	return nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func typeName(o Obj) string {
	switch v := o.(type) {
	case *RecordObject:
		return v.KlassName
	case List:
		if v.Klass != nil {
			return v.Klass.Name()
		}
		return string(o.Kind())
	default:
		return string(o.Kind())
	}
}

func (v *VM) resolvePath(path string) string {
	if filepath.IsAbs(path) || v.importDir == "" {
		return path
	}
	return filepath.Join(v.importDir, path)
}

func (v *VM) importFile(path string) (Obj, error) {
	resolved := v.resolvePath(path)
	if v.importing[resolved] {
		return nil, aerrors.Import(aerrors.CodeCircularImport, fmt.Sprintf("circular import of %q", path))
	}

	source, err := os.ReadFile(resolved)
	if err != nil {
		return nil, aerrors.Import(aerrors.CodeMissingFile, fmt.Sprintf("cannot import %q: %v", path, err))
	}

	v.importing[resolved] = true
	defer delete(v.importing, resolved)

	previousDir := v.importDir
	v.importDir = filepath.Dir(resolved)
	defer func() { v.importDir = previousDir }()

	return v.Run(string(source))
}

func (v *VM) loadYAML(path string) (Obj, error) {
	resolved := v.resolvePath(path)
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, aerrors.Import(aerrors.CodeMissingFile, fmt.Sprintf("cannot load %q: %v", path, err))
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, aerrors.Cast(aerrors.CodeCoercionImpossible, fmt.Sprintf("cannot parse %q as YAML: %v", path, err))
	}

	return liftUntyped(raw), nil
}
