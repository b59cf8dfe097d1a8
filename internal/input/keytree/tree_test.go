package keytree

import (
	"errors"
	"testing"

	"github.com/dshills/keel/internal/input/key"
)

func testResolver() *Resolver {
	return NewResolver(map[string][]string{
		"digits": {"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"},
	}, func(cmd string, args []string) ([]string, error) {
		return nil, errors.New("no external commands in tests")
	})
}

func mustStroke(t *testing.T, spec string) key.Stroke {
	t.Helper()
	s, err := key.Parse(spec)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStepToLeaf(t *testing.T) {
	tr := New()
	res := testResolver()
	if err := tr.Register(res, []string{"g", "g"}, "move top", &Meta{Desc: "go to top"}); err != nil {
		t.Fatal(err)
	}

	r := tr.Step(mustStroke(t, "g"))
	if r.Kind != Step {
		t.Fatalf("first g: kind = %v", r.Kind)
	}
	r = tr.Step(mustStroke(t, "g"))
	if r.Kind != Success || r.Action != "move top" {
		t.Fatalf("second g: %+v", r)
	}
	if len(r.Sequence) != 2 {
		t.Errorf("sequence len = %d", len(r.Sequence))
	}
	if !tr.AtRoot() {
		t.Error("pointer should reset after success")
	}
}

func TestStepReset(t *testing.T) {
	tr := New()
	res := testResolver()
	if err := tr.Register(res, []string{"g", "g"}, "move top", nil); err != nil {
		t.Fatal(err)
	}

	tr.Step(mustStroke(t, "g"))
	r := tr.Step(mustStroke(t, "x"))
	if r.Kind != Reset {
		t.Fatalf("kind = %v, want Reset", r.Kind)
	}
	if !tr.AtRoot() {
		t.Error("pointer should reset")
	}
	// The unmatched key is not re-fed: "x" bound at the root would need
	// an explicit retry by the caller.
}

func TestPrefixConflictRejected(t *testing.T) {
	tr := New()
	res := testResolver()
	if err := tr.Register(res, []string{"g", "g"}, "move top", nil); err != nil {
		t.Fatal(err)
	}
	if err := tr.Register(res, []string{"g"}, "oops", nil); !errors.Is(err, ErrPrefixConflict) {
		t.Errorf("shorter prefix: err = %v", err)
	}
	if err := tr.Register(res, []string{"g", "g", "h"}, "oops", nil); !errors.Is(err, ErrPrefixConflict) {
		t.Errorf("extension through leaf: err = %v", err)
	}
	if err := tr.Register(res, []string{"g", "g"}, "dup", nil); err == nil {
		t.Error("duplicate binding should fail")
	}
}

func TestTemplateExpansion(t *testing.T) {
	tr := New()
	res := testResolver()
	if err := tr.Register(res, []string{"{digits}"}, "push_repeat_number {digits}", nil); err != nil {
		t.Fatal(err)
	}

	r := tr.Step(mustStroke(t, "7"))
	if r.Kind != Success || r.Action != "push_repeat_number 7" {
		t.Fatalf("step 7: %+v", r)
	}
	r = tr.Step(mustStroke(t, "0"))
	if r.Kind != Success || r.Action != "push_repeat_number 0" {
		t.Fatalf("step 0: %+v", r)
	}
}

func TestUnknownTemplateFails(t *testing.T) {
	tr := New()
	res := testResolver()
	err := tr.Register(res, []string{"{nope}"}, "x", nil)
	if err == nil {
		t.Error("unknown template with failing exec hook should error")
	}
}

func TestExecFallback(t *testing.T) {
	tr := New()
	res := NewResolver(nil, func(cmd string, args []string) ([]string, error) {
		if cmd != "emit" || len(args) != 1 || args[0] != "keys" {
			t.Errorf("exec got %q %v", cmd, args)
		}
		return []string{"x", "y"}, nil
	})
	if err := tr.Register(res, []string{"{emit keys}"}, "pick {emit keys}", nil); err != nil {
		t.Fatal(err)
	}
	r := tr.Step(mustStroke(t, "y"))
	if r.Kind != Success || r.Action != "pick y" {
		t.Fatalf("step y: %+v", r)
	}
}

func TestCollectLayerMetadata(t *testing.T) {
	tr := New()
	res := testResolver()
	if err := tr.Annotate([]string{"g"}, &Meta{Desc: "goto"}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Register(res, []string{"g", "g"}, "move top", &Meta{Desc: "top"}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Register(res, []string{"g", "e"}, "move bottom", &Meta{Desc: "bottom"}); err != nil {
		t.Fatal(err)
	}

	tr.Step(mustStroke(t, "g"))
	entries := tr.CollectLayerMetadata()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Stroke.String() != "e" || entries[0].Meta.Desc != "bottom" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Stroke.String() != "g" || entries[1].Action != "move top" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}
