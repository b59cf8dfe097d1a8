package state

import (
	"context"
	"fmt"
	"sync"
)

// Hook names a scheduling anchor. The core defines three; plugins may
// register systems under their own hooks (for example a per-filetype
// update hook).
type Hook string

// Core hooks, in frame order.
const (
	HookPostInit Hook = "post_init"
	HookUpdate   Hook = "update"
	HookRender   Hook = "render"
)

// UpdateHookFor returns the per-filetype update hook for an extension tag.
func UpdateHookFor(ext string) Hook {
	return Hook("update:" + ext)
}

// Scheduler owns the ordered system lists per hook. Within one hook run,
// consecutive systems whose descriptors do not conflict execute in
// parallel; a conflicting system forms a barrier and runs after the batch
// before it completes.
type Scheduler struct {
	mu    sync.Mutex
	hooks map[Hook][]*System
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{hooks: make(map[Hook][]*System)}
}

// OnHook registers fn under the hook. The function is validated eagerly;
// a self-conflicting signature is a registration error.
func (sc *Scheduler) OnHook(h Hook, name string, fn any) error {
	sys, err := NewSystem(name, fn)
	if err != nil {
		return err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.hooks[h] = append(sc.hooks[h], sys)
	return nil
}

// MustOnHook is OnHook for wiring code where a failure is a bug.
func (sc *Scheduler) MustOnHook(h Hook, name string, fn any) {
	if err := sc.OnHook(h, name, fn); err != nil {
		panic(fmt.Sprintf("state: registering %s on %s: %v", name, h, err))
	}
}

// Systems returns the registered systems for a hook in order.
func (sc *Scheduler) Systems(h Hook) []*System {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := make([]*System, len(sc.hooks[h]))
	copy(out, sc.hooks[h])
	return out
}

// RunHook runs every system registered under h. The call returns when all
// of them have completed; hooks are barriers.
func (sc *Scheduler) RunHook(ctx context.Context, h Hook, r *Registry) {
	systems := sc.Systems(h)
	if len(systems) == 0 {
		return
	}

	var batch []*System
	for _, sys := range systems {
		conflicts := false
		for _, member := range batch {
			if sys.ConflictsWith(member) {
				conflicts = true
				break
			}
		}
		if conflicts {
			runBatch(ctx, batch, r)
			batch = batch[:0]
		}
		batch = append(batch, sys)
	}
	runBatch(ctx, batch, r)
}

// runBatch runs non-conflicting systems concurrently and waits for all of
// them. A panic inside any system is re-raised on the caller's goroutine
// after the batch drains, so deferred cleanup up the stack still runs.
func runBatch(ctx context.Context, batch []*System, r *Registry) {
	if len(batch) == 0 {
		return
	}
	if len(batch) == 1 {
		batch[0].Run(ctx, r)
		return
	}

	var wg sync.WaitGroup
	var once sync.Once
	var failure any
	for _, sys := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					once.Do(func() { failure = fmt.Sprintf("system %s: %v", sys.Name(), rec) })
				}
			}()
			sys.Run(ctx, r)
		}()
	}
	wg.Wait()
	if failure != nil {
		panic(failure)
	}
}
