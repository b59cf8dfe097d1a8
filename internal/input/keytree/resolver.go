// Package keytree implements the key-sequence trie that turns keystrokes
// into command strings, with template expansion at registration time and
// a step/reset protocol at input time.
package keytree

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ExecFunc expands an unknown template by invoking an external command
// and returning its stdout lines as literal tokens.
type ExecFunc func(cmd string, args []string) ([]string, error)

// Resolver expands template references in key sequences and actions. A
// reference is a step of the form "{name}"; known names expand from the
// template map, unknown names fall back to the exec hook.
type Resolver struct {
	templates map[string][]string
	exec      ExecFunc
}

// NewResolver builds a resolver over a template map. A nil exec hook
// falls back to running the template name as a shell-less command.
func NewResolver(templates map[string][]string, exec ExecFunc) *Resolver {
	if templates == nil {
		templates = make(map[string][]string)
	}
	if exec == nil {
		exec = runCommand
	}
	return &Resolver{templates: templates, exec: exec}
}

// SetTemplate installs or replaces a template.
func (r *Resolver) SetTemplate(name string, values []string) {
	r.templates[name] = values
}

// DropTemplate removes a template.
func (r *Resolver) DropTemplate(name string) {
	delete(r.templates, name)
}

// Expand resolves one template reference to its literal tokens.
func (r *Resolver) Expand(ref string) ([]string, error) {
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return nil, fmt.Errorf("keytree: empty template reference")
	}
	if vals, ok := r.templates[fields[0]]; ok && len(fields) == 1 {
		return vals, nil
	}
	out, err := r.exec(fields[0], fields[1:])
	if err != nil {
		return nil, fmt.Errorf("keytree: expanding {%s}: %w", ref, err)
	}
	return out, nil
}

// templateRef extracts the reference from a "{name}" step.
func templateRef(step string) (string, bool) {
	if len(step) > 2 && strings.HasPrefix(step, "{") && strings.HasSuffix(step, "}") {
		return step[1 : len(step)-1], true
	}
	return "", false
}

// runCommand is the default exec hook: run the command and split stdout
// into lines.
func runCommand(cmd string, args []string) ([]string, error) {
	out, err := exec.Command(cmd, args...).Output()
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
