// Package aura is the public embedding surface for the Aura interpreter:
// construct a VM with New, then feed it source with Run. Everything else
// (lexer, parser, translator, type registry, LLM client) lives under
// internal/ and is reached only through this package.
package aura

import (
	"github.com/jweissman/aua-sub001/internal/vm"
)

// Configuration configures a VM instance: the LLM provider, the cache
// location, and the host I/O streams used by say/ask.
type Configuration = vm.Configuration

// VM is a persistent, reusable Aura evaluator.
type VM = vm.VM

// Obj is any Aura runtime value produced by Run.
type Obj = vm.Obj

// New constructs a VM: opens the LLM cache, wires a cached client around
// the configured provider, and seeds the type registry with primitives.
func New(config Configuration) (*VM, error) {
	return vm.New(config)
}
