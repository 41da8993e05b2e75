// Package let provides scoped, inheritable, lazily computed named values
// for spec-style test groups: let-style definitions with
// override-with-super resolution, per-example memoization, subject
// aliasing, eager variants, and attribute projection of the subject.
package let

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// BeforeHook runs ahead of an example body. Eager definitions register
// one to force evaluation before the body observes anything.
type BeforeHook func(ex *Example) error

// HookRegistrar receives before-each registrations. An external runner
// installs its own to interleave eager forcing with its other hooks; the
// default registrar records hooks on the world for replay via HooksFor.
type HookRegistrar interface {
	RegisterBeforeEach(g *Group, hook BeforeHook)
}

// SubjectProvider derives an implicit default value from group metadata
// when no explicit subject definition exists anywhere in the chain.
type SubjectProvider interface {
	DeriveSubject(g *Group) (any, error)
}

// SubjectProviderFunc adapts a plain function to a SubjectProvider.
type SubjectProviderFunc func(g *Group) (any, error)

// DeriveSubject implements SubjectProvider.
func (f SubjectProviderFunc) DeriveSubject(g *Group) (any, error) {
	return f(g)
}

// World wires groups, examples, and the collaborator surface together.
type World struct {
	logger     *slog.Logger
	registrar  HookRegistrar
	provider   SubjectProvider
	threadSafe bool

	mu    sync.Mutex
	hooks map[*Group][]BeforeHook
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the trace logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithHookRegistrar routes eager before-each registrations to an
// external runner instead of the world's own recorder.
func WithHookRegistrar(r HookRegistrar) Option {
	return func(w *World) {
		w.registrar = r
	}
}

// WithSubjectProvider installs the implicit default value fallback. The
// provider is bound as the subject definition of every root group, so
// overriding, super, and memoization behave exactly as for an explicit
// subject.
func WithSubjectProvider(p SubjectProvider) Option {
	return func(w *World) {
		w.provider = p
	}
}

// WithThreadSafeMemo swaps every example's cache for one with atomic
// first-writer-wins population, allowing test bodies to read values from
// multiple goroutines.
func WithThreadSafeMemo() Option {
	return func(w *World) {
		w.threadSafe = true
	}
}

// NewWorld creates a World with the given options applied.
func NewWorld(options ...Option) *World {
	w := &World{
		logger: slog.New(slog.DiscardHandler),
		hooks:  make(map[*Group][]BeforeHook),
	}

	for _, option := range options {
		option(w)
	}

	if w.registrar == nil {
		w.registrar = w
	}

	return w
}

// NewGroup creates a root group. With a subject provider configured the
// root receives an implicit subject definition that calls the provider
// with the example's own group, so derived subjects flow through the
// same resolution and memoization machinery as explicit ones.
func (w *World) NewGroup(desc string) *Group {
	g := newGroup(w, nil, desc)

	w.logger.Debug("created group", "description", desc)

	if w.provider != nil {
		comp := func(env *Env) (any, error) {
			return w.provider.DeriveSubject(env.Example().Group())
		}
		g.defs.Set(SubjectName, &Definition{
			name:     SubjectName,
			kind:     KindSubject,
			comp:     comp,
			site:     g,
			cacheKey: SubjectName,
		})
	}

	return g
}

// NewExample creates a fresh example instance of g with its own empty
// cache.
func (w *World) NewExample(ctx context.Context, g *Group) (*Example, error) {
	if g == nil {
		return nil, fmt.Errorf("new example: %w", ErrNilGroup)
	}

	if g.world != w {
		return nil, fmt.Errorf("new example for group %q: %w", g.desc, ErrForeignGroup)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var memo memoStore
	if w.threadSafe {
		memo = newSafeStore()
	} else {
		memo = newMapStore()
	}

	ex := &Example{
		id:    uuid.New().String(),
		group: g,
		world: w,
		ctx:   ctx,
		memo:  memo,
	}

	w.logger.Debug("created example", "example", ex.id, "group", g.desc)

	return ex, nil
}

// RegisterBeforeEach implements HookRegistrar by recording the hook on
// the world, keyed by group, in registration order.
func (w *World) RegisterBeforeEach(g *Group, hook BeforeHook) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.hooks[g] = append(w.hooks[g], hook)

	w.logger.Debug("registered before-each hook", "group", g.desc)
}

// HooksFor returns the recorded hooks an example created from g must run
// before its body: outermost group first, registration order within each
// group.
func (w *World) HooksFor(g *Group) []BeforeHook {
	w.mu.Lock()
	defer w.mu.Unlock()

	var chain []*Group
	for cur := g; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	var hooks []BeforeHook
	for i := len(chain) - 1; i >= 0; i-- {
		hooks = append(hooks, w.hooks[chain[i]]...)
	}

	return hooks
}

// forceValue returns the before-each hook an eager definition registers.
// Evaluating the name caches it, so its side effects land before the
// example body runs.
func forceValue(name string) BeforeHook {
	return func(ex *Example) error {
		if _, err := ex.Value(name); err != nil {
			return err
		}

		return nil
	}
}
