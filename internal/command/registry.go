package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keel/internal/mode"
	"github.com/dshills/keel/internal/state"
)

// Parse errors.
var (
	ErrUnknownCommand = errors.New("command: unknown command")
	ErrBadArguments   = errors.New("command: bad arguments")
)

// EscapeToken at the front of an input suppresses mode-prefix rewriting
// for that call; it is stripped before lookup.
const EscapeToken = ":"

// ParseFunc builds a command from its tokens. The slice includes the
// command name at index 0.
type ParseFunc func(tokens []string) (Command, error)

// entry is one registered command parser.
type entry struct {
	names []string
	parse ParseFunc
	desc  string
}

// Registry maps command names to parsers. Plugins register additional
// parsers at init; lookup order does not matter because names are
// unique.
type Registry struct {
	entries []entry
	byName  map[string]int
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register installs a parser under one or more names. Re-registering a
// name is an error.
func (r *Registry) Register(parse ParseFunc, desc string, names ...string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: no names", ErrBadArguments)
	}
	for _, n := range names {
		if _, dup := r.byName[n]; dup {
			return fmt.Errorf("command: name %q already registered", n)
		}
	}
	r.entries = append(r.entries, entry{names: names, parse: parse, desc: desc})
	for _, n := range names {
		r.byName[n] = len(r.entries) - 1
	}
	return nil
}

// Names returns every registered name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	return out
}

// SplitTokens splits a raw command line on whitespace.
func SplitTokens(line string) []string {
	return strings.Fields(line)
}

// CommandPrefix prepends tokens when a mode is on the stack.
type CommandPrefix struct {
	Mode    rune
	Prepend []string
}

// PrefixRegistry is the registry-held list of command prefixes.
type PrefixRegistry struct {
	prefixes []CommandPrefix
}

// NewPrefixRegistry returns an empty prefix registry.
func NewPrefixRegistry() *PrefixRegistry {
	return &PrefixRegistry{}
}

// Register adds a prefix configuration.
func (p *PrefixRegistry) Register(prefix CommandPrefix) {
	p.prefixes = append(p.prefixes, prefix)
}

// Rewrite applies mode-prefix rewriting to tokens. Modes are consulted
// top-down; each registered prefix fires at most once per call. A
// leading escape token suppresses rewriting and is stripped.
func (p *PrefixRegistry) Rewrite(tokens []string, modes *mode.Stack) []string {
	if len(tokens) == 0 {
		return tokens
	}
	if tokens[0] == EscapeToken {
		return tokens[1:]
	}

	applied := make(map[int]bool)
	for _, m := range modes.TopDown() {
		for i, pre := range p.prefixes {
			if applied[i] || pre.Mode != m {
				continue
			}
			tokens = append(append([]string(nil), pre.Prepend...), tokens...)
			applied[i] = true
		}
	}
	return tokens
}

// Parse resolves tokens into a command. When prefixes and modes are
// given, mode-prefix rewriting runs first.
func (r *Registry) Parse(tokens []string, prefixes *PrefixRegistry, modes *mode.Stack) (Command, error) {
	if prefixes != nil && modes != nil {
		tokens = prefixes.Rewrite(tokens, modes)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	idx, ok := r.byName[tokens[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, tokens[0])
	}
	cmd, err := r.entries[idx].parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", tokens[0], err)
	}
	return cmd, nil
}

// ParseLine is Parse over a raw whitespace-separated line.
func (r *Registry) ParseLine(line string, prefixes *PrefixRegistry, modes *mode.Stack) (Command, error) {
	return r.Parse(SplitTokens(line), prefixes, modes)
}

// ParseFromState parses tokens using the registries held in the shared
// state, applying mode-prefix rewriting.
func ParseFromState(reg *state.Registry, tokens []string) (Command, error) {
	cr, releaseCR := state.RLock[Registry](reg)
	defer releaseCR()
	pr, releasePR := state.RLock[PrefixRegistry](reg)
	defer releasePR()
	ms, releaseMS := state.RLock[mode.Stack](reg)
	defer releaseMS()
	return cr.Parse(tokens, pr, ms)
}

// CallCommand parses tokens from shared state and applies the result
// immediately, bypassing the queue. Parse failures are logged and report
// false.
func CallCommand(ctx context.Context, reg *state.Registry, tokens []string) bool {
	cmd, err := ParseFromState(reg, tokens)
	if err != nil {
		logFrom(reg).Warn("%v", err)
		return false
	}
	return cmd.Apply(ctx, reg)
}
