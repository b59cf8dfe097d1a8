package langserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/event"
	"github.com/dshills/keel/internal/state"
)

type recorder struct {
	opens   []string
	changes []int
	saves   []string
	closes  []string
}

func (r *recorder) OnFileOpen(path, lang string)           { r.opens = append(r.opens, path) }
func (r *recorder) OnFileChange(path string, v int, _ string) { r.changes = append(r.changes, v) }
func (r *recorder) OnFileSave(path string)                 { r.saves = append(r.saves, path) }
func (r *recorder) OnFileClose(path string)                { r.closes = append(r.closes, path) }

func lsWorld(t *testing.T, rec *recorder) (*state.Registry, *state.Scheduler, *event.Bus) {
	t.Helper()
	reg := state.NewRegistry()
	bus := event.NewBus()
	state.Set(reg, bus)
	state.Set(reg, &Host{Notifier: rec})
	state.Set(reg, buffer.NewBuffers())

	sched := state.NewScheduler()
	sched.MustOnHook(state.HookUpdate, "ls-open", OpenSystem)
	sched.MustOnHook(state.HookUpdate, "ls-change", ChangeSystem)
	if err := Subscribe(bus); err != nil {
		t.Fatal(err)
	}
	return reg, sched, bus
}

func tempFileBuffer(t *testing.T, content string) *buffer.TextBuffer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.go")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := buffer.FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func frame(reg *state.Registry, sched *state.Scheduler, bus *event.Bus) {
	ctx := context.Background()
	bus.BeginFrame()
	sched.RunHook(ctx, state.HookUpdate, reg)
	bus.Dispatch(ctx, reg)
}

func TestOpenOncePerBuffer(t *testing.T) {
	rec := &recorder{}
	reg, sched, bus := lsWorld(t, rec)
	b := tempFileBuffer(t, "x")
	state.Set(reg, buffer.BuffersOf(b))

	frame(reg, sched, bus)
	frame(reg, sched, bus)

	if len(rec.opens) != 1 {
		t.Errorf("opens = %v, want one", rec.opens)
	}
	if !b.HasFlag(OpenedFlag) {
		t.Error("opened flag not set")
	}
}

func TestScratchBufferNeverOpens(t *testing.T) {
	rec := &recorder{}
	reg, sched, bus := lsWorld(t, rec)
	frame(reg, sched, bus)
	if len(rec.opens) != 0 {
		t.Errorf("opens = %v, want none", rec.opens)
	}
}

func TestChangeDebounces(t *testing.T) {
	rec := &recorder{}
	reg, sched, bus := lsWorld(t, rec)
	host, release := state.Lock[Host](reg)
	host.DebounceMin = 10 * time.Millisecond
	release()

	b := tempFileBuffer(t, "x")
	state.Set(reg, buffer.BuffersOf(b))
	frame(reg, sched, bus) // open

	b.Insert(0, 0, "a")
	frame(reg, sched, bus) // edit observed; still inside window
	if len(rec.changes) != 0 {
		t.Fatalf("change sent too early: %v", rec.changes)
	}

	time.Sleep(20 * time.Millisecond)
	frame(reg, sched, bus)
	if len(rec.changes) != 1 {
		t.Fatalf("changes = %v, want one", rec.changes)
	}

	// No further edits: no further notifications.
	frame(reg, sched, bus)
	if len(rec.changes) != 1 {
		t.Errorf("changes = %v, want still one", rec.changes)
	}
}

func TestSaveAndCloseEvents(t *testing.T) {
	rec := &recorder{}
	reg, sched, bus := lsWorld(t, rec)
	b := tempFileBuffer(t, "x")
	state.Set(reg, buffer.BuffersOf(b))
	frame(reg, sched, bus) // open

	event.Publish(bus, buffer.SaveEvent{Path: b.Path()})
	frame(reg, sched, bus) // delivered
	frame(reg, sched, bus) // nothing further
	if len(rec.saves) != 1 || rec.saves[0] != b.Path() {
		t.Errorf("saves = %v", rec.saves)
	}

	event.Publish(bus, buffer.CloseEvent{Buffer: b.Snapshot()})
	frame(reg, sched, bus)
	frame(reg, sched, bus)
	if len(rec.closes) != 1 || rec.closes[0] != b.Path() {
		t.Errorf("closes = %v", rec.closes)
	}
}
