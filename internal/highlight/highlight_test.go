package highlight

import (
	"context"
	"testing"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/state"
)

type fakeParser struct {
	edits []buffer.ByteChange
}

func (p *fakeParser) NotifyEdit(_ string, c buffer.ByteChange) {
	p.edits = append(p.edits, c)
}

func (p *fakeParser) QueryStyles(_ string, _, _ int) []StyleSpan {
	return nil
}

func TestFeedDrainsIntoParser(t *testing.T) {
	reg := state.NewRegistry()
	parser := &fakeParser{}
	state.Set(reg, &Host{Parser: parser})

	bufs := buffer.NewBuffers()
	bufs.Cur().Insert(0, 0, "ab")
	bufs.Cur().Delete(0, 0, 1)
	state.Set(reg, bufs)

	sched := state.NewScheduler()
	sched.MustOnHook(state.HookUpdate, "feed", FeedSystem)

	sched.RunHook(context.Background(), state.HookUpdate, reg)
	if len(parser.edits) != 2 {
		t.Fatalf("edits = %d, want 2", len(parser.edits))
	}
	if parser.edits[0] != (buffer.ByteChange{Start: 0, OldEnd: 0, NewEnd: 2}) {
		t.Errorf("first edit = %+v", parser.edits[0])
	}

	// Draining is destructive; a quiet frame forwards nothing.
	sched.RunHook(context.Background(), state.HookUpdate, reg)
	if len(parser.edits) != 2 {
		t.Errorf("edits after quiet frame = %d, want 2", len(parser.edits))
	}
}

func TestNilParserLeavesChangesPending(t *testing.T) {
	reg := state.NewRegistry()
	state.Set(reg, &Host{})
	bufs := buffer.NewBuffers()
	bufs.Cur().Insert(0, 0, "x")
	state.Set(reg, bufs)

	sched := state.NewScheduler()
	sched.MustOnHook(state.HookUpdate, "feed", FeedSystem)
	sched.RunHook(context.Background(), state.HookUpdate, reg)

	if n := bufs.Cur().PendingByteChanges(); n != 1 {
		t.Errorf("pending = %d, want 1 (nil parser must not drain)", n)
	}
}
