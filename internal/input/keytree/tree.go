package keytree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/keel/internal/input/key"
)

// Registration errors.
var (
	ErrPrefixConflict = errors.New("keytree: sequence is a prefix of an existing binding")
	ErrEmptySequence  = errors.New("keytree: empty key sequence")
)

// Meta is optional documentation attached to a binding or group, used by
// which-key style displays.
type Meta struct {
	Desc string
}

// StepKind classifies the outcome of feeding one stroke.
type StepKind int

const (
	// Step advanced to an internal node; more input is needed.
	Step StepKind = iota

	// Success reached a leaf; the action fires and the pointer resets.
	Success

	// Reset found no matching edge; the pointer resets and the stroke
	// is not re-fed.
	Reset
)

// Result is the outcome of one Step call.
type Result struct {
	Kind     StepKind
	Sequence []key.Stroke
	Action   string
	Meta     *Meta
}

// LayerEntry describes one edge out of the current node.
type LayerEntry struct {
	Stroke key.Stroke
	Action string
	Meta   *Meta
}

type node struct {
	edges  map[key.Stroke]*node
	action string
	isLeaf bool
	meta   *Meta
}

func newNode() *node {
	return &node{edges: make(map[key.Stroke]*node)}
}

// Tree is the keystroke trie plus its stepping state.
type Tree struct {
	root *node
	cur  *node
	seq  []key.Stroke
}

// New returns an empty tree.
func New() *Tree {
	root := newNode()
	return &Tree{root: root, cur: root}
}

// Register adds a binding. Steps are literal key-strings or "{template}"
// references, which expand eagerly through the resolver; every expansion
// registers its own path, and occurrences of the reference in the action
// are substituted with the chosen literal. A sequence that is a strict
// prefix of an existing one (or extends through an existing leaf) is
// rejected.
func (t *Tree) Register(res *Resolver, steps []string, action string, meta *Meta) error {
	if len(steps) == 0 {
		return ErrEmptySequence
	}
	return t.register(res, steps, action, meta, nil)
}

func (t *Tree) register(res *Resolver, steps []string, action string, meta *Meta, prefix []key.Stroke) error {
	if len(steps) == 0 {
		return t.insert(prefix, action, meta)
	}

	step := steps[0]
	if ref, ok := templateRef(step); ok {
		literals, err := res.Expand(ref)
		if err != nil {
			return err
		}
		for _, lit := range literals {
			s, err := key.Parse(lit)
			if err != nil {
				return fmt.Errorf("keytree: template {%s} produced %q: %w", ref, lit, err)
			}
			sub := strings.ReplaceAll(action, "{"+ref+"}", lit)
			if err := t.register(res, steps[1:], sub, meta, append(prefix[:len(prefix):len(prefix)], s)); err != nil {
				return err
			}
		}
		return nil
	}

	s, err := key.Parse(step)
	if err != nil {
		return err
	}
	return t.register(res, steps[1:], action, meta, append(prefix[:len(prefix):len(prefix)], s))
}

func (t *Tree) insert(seq []key.Stroke, action string, meta *Meta) error {
	n := t.root
	for i, s := range seq {
		next, ok := n.edges[s]
		if !ok {
			next = newNode()
			n.edges[s] = next
		}
		if next.isLeaf && i < len(seq)-1 {
			return fmt.Errorf("%w: %s extends through %s", ErrPrefixConflict,
				seqString(seq), seqString(seq[:i+1]))
		}
		n = next
	}
	if n.isLeaf {
		return fmt.Errorf("keytree: duplicate binding %s", seqString(seq))
	}
	if len(n.edges) > 0 {
		return fmt.Errorf("%w: %s is a prefix of a longer binding", ErrPrefixConflict, seqString(seq))
	}
	n.isLeaf = true
	n.action = action
	n.meta = meta
	return nil
}

// Annotate attaches documentation to the node reached by a literal
// sequence without binding an action. Used for group records.
func (t *Tree) Annotate(steps []string, meta *Meta) error {
	if len(steps) == 0 {
		return ErrEmptySequence
	}
	n := t.root
	for _, step := range steps {
		s, err := key.Parse(step)
		if err != nil {
			return err
		}
		next, ok := n.edges[s]
		if !ok {
			next = newNode()
			n.edges[s] = next
		}
		n = next
	}
	n.meta = meta
	return nil
}

// Step feeds one stroke. On Success the full matched sequence and its
// action are returned and the pointer resets to the root. On Reset the
// pointer resets and the stroke is not re-fed; callers wanting to retry
// from the root must do so explicitly.
func (t *Tree) Step(s key.Stroke) Result {
	next, ok := t.cur.edges[s]
	if !ok {
		t.ResetPointer()
		return Result{Kind: Reset}
	}

	t.seq = append(t.seq, s)
	if next.isLeaf {
		res := Result{
			Kind:     Success,
			Sequence: append([]key.Stroke(nil), t.seq...),
			Action:   next.action,
			Meta:     next.meta,
		}
		t.ResetPointer()
		return res
	}

	t.cur = next
	return Result{Kind: Step, Sequence: append([]key.Stroke(nil), t.seq...)}
}

// ResetPointer returns the stepping state to the root.
func (t *Tree) ResetPointer() {
	t.cur = t.root
	t.seq = t.seq[:0]
}

// AtRoot reports whether the pointer sits at the root (no partial
// sequence pending).
func (t *Tree) AtRoot() bool {
	return t.cur == t.root
}

// PendingSequence returns the strokes consumed since the last reset.
func (t *Tree) PendingSequence() []key.Stroke {
	return append([]key.Stroke(nil), t.seq...)
}

// CollectLayerMetadata returns the edges out of the current node with
// their actions and metadata, sorted by key-string for stable display.
func (t *Tree) CollectLayerMetadata() []LayerEntry {
	out := make([]LayerEntry, 0, len(t.cur.edges))
	for s, n := range t.cur.edges {
		out = append(out, LayerEntry{Stroke: s, Action: n.action, Meta: n.meta})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stroke.String() < out[j].Stroke.String()
	})
	return out
}

func seqString(seq []key.Stroke) string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
