package let

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// evalCtx tracks one accessor call tree. Every top-level read starts a
// fresh context, so concurrent reads under the thread-safe cache never
// mistake each other's in-flight slots for self-reference.
type evalCtx struct {
	inFlight map[string]bool
	trail    []string
}

func newEvalCtx() *evalCtx {
	return &evalCtx{inFlight: make(map[string]bool)}
}

func (ec *evalCtx) enter(key string) error {
	if ec.inFlight[key] {
		trail := strings.Join(append(ec.trail, key), " -> ")
		return fmt.Errorf("evaluating %q (%s): %w", key, trail, ErrSelfReference)
	}

	ec.inFlight[key] = true
	ec.trail = append(ec.trail, key)

	return nil
}

func (ec *evalCtx) exit(key string) {
	delete(ec.inFlight, key)

	if n := len(ec.trail); n > 0 && ec.trail[n-1] == key {
		ec.trail = ec.trail[:n-1]
	}
}

// Example is one execution of a test case instantiated from a group. It
// owns exactly one memoization cache; two examples never share one, even
// when created from the same group.
type Example struct {
	id    string
	group *Group
	world *World
	ctx   context.Context
	memo  memoStore

	mu    sync.Mutex
	fault error
	done  bool
}

// ID returns the example's unique identifier.
func (e *Example) ID() string {
	return e.id
}

// Group returns the group the example was instantiated from.
func (e *Example) Group() *Group {
	return e.group
}

// Context returns the context the example was created with.
func (e *Example) Context() context.Context {
	return e.ctx
}

// Err returns the fault that poisoned the example, or nil.
func (e *Example) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fault
}

// Value resolves name against the example's group and returns the
// memoized result, computing it on first access. Any fault marks the
// example failed and discards the cache; every later read returns the
// recorded fault instead of recomputing.
func (e *Example) Value(name string) (any, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}

	if err := e.ctx.Err(); err != nil {
		return nil, err
	}

	def, err := e.group.resolve(name)
	if err != nil {
		return nil, e.fail(err)
	}

	value, err := e.eval(newEvalCtx(), def)
	if err != nil {
		return nil, e.fail(err)
	}

	return value, nil
}

// MustValue is Value but panics on fault.
func (e *Example) MustValue(name string) any {
	value, err := e.Value(name)
	if err != nil {
		panic(err)
	}

	return value
}

// Subject returns the group's default value.
func (e *Example) Subject() (any, error) {
	return e.Value(SubjectName)
}

// MustSubject is Subject but panics on fault.
func (e *Example) MustSubject() any {
	return e.MustValue(SubjectName)
}

// Finish ends the example and discards its cache. Reads after Finish
// return ErrExampleFinished.
func (e *Example) Finish() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return
	}

	e.done = true
	e.memo.flush()

	e.world.logger.Debug("finished example", "example", e.id, "group", e.group.desc)
}

func (e *Example) gate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return fmt.Errorf("example %s: %w", e.id, ErrExampleFinished)
	}

	if e.fault != nil {
		return e.fault
	}

	return nil
}

// fail records the first fault, discards the cache, and returns the
// recorded fault so racing readers all observe one failure.
func (e *Example) fail(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fault == nil {
		e.fault = err
		e.memo.flush()

		e.world.logger.Error("example failed", "example", e.id, "group", e.group.desc, "error", err)
	}

	return e.fault
}

// eval is the get-or-compute step: cache hit wins, otherwise the
// definition's computation runs exactly once and the result is stored
// under the definition's cache key.
func (e *Example) eval(ec *evalCtx, def *Definition) (any, error) {
	key := def.cacheKey

	if value, ok := e.memo.get(key); ok {
		return value, nil
	}

	if err := ec.enter(key); err != nil {
		return nil, err
	}
	defer ec.exit(key)

	value, err := e.run(ec, def.effective())
	if err != nil {
		return nil, err
	}

	stored := e.memo.store(key, value)

	e.world.logger.Debug("memoized value", "example", e.id, "key", key)

	return stored, nil
}

// run invokes the definition's computation directly, bypassing the
// cache. Super evaluation uses it so only the outermost computation's
// result is stored.
func (e *Example) run(ec *evalCtx, def *Definition) (any, error) {
	env := &Env{example: e, def: def, ec: ec}

	value, err := def.comp(env)
	if err != nil {
		return nil, fmt.Errorf("computing %q in group %q: %w", def.name, def.site.desc, err)
	}

	return value, nil
}
