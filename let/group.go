package let

import (
	"fmt"

	"lazyspec.dev/pkg/lazyspec/pkg"
)

// Group is a node in the test-group hierarchy. It owns its local
// definition table and its child groups; the parent pointer is never
// owned. A name defined on a child shadows the parent's definition of
// the same name without removing it, and the parent's computation stays
// reachable through super.
type Group struct {
	world    *World
	parent   *Group
	children []*Group
	defs     pkg.OrderedMap[string, *Definition]
	desc     string
	meta     map[string]any
}

func newGroup(w *World, parent *Group, desc string) *Group {
	return &Group{
		world:  w,
		parent: parent,
		defs:   pkg.NewOrderedMap[string, *Definition](),
		desc:   desc,
		meta:   make(map[string]any),
	}
}

// NewChild creates a child group scoped under g.
func (g *Group) NewChild(desc string) *Group {
	child := newGroup(g.world, g, desc)
	g.children = append(g.children, child)

	g.world.logger.Debug("created group", "description", desc, "parent", g.desc)

	return child
}

// Parent returns the enclosing group, or nil for a root group.
func (g *Group) Parent() *Group {
	return g.parent
}

// Children returns the child groups in creation order.
func (g *Group) Children() []*Group {
	children := make([]*Group, len(g.children))
	copy(children, g.children)

	return children
}

// Description returns the free-form description the group was created with.
func (g *Group) Description() string {
	return g.desc
}

// World returns the world the group belongs to.
func (g *Group) World() *World {
	return g.world
}

// SetMeta attaches metadata to g under key. Metadata is visible to g and
// its descendants through Meta.
func (g *Group) SetMeta(key string, value any) {
	g.meta[key] = value
}

// Meta looks up metadata by key on g and then outward through its
// ancestors, mirroring definition resolution.
func (g *Group) Meta(key string) (any, bool) {
	for cur := g; cur != nil; cur = cur.parent {
		if v, ok := cur.meta[key]; ok {
			return v, true
		}
	}

	return nil, false
}

// Let installs comp as the definition for name local to g. Redefining a
// name already present on g replaces the computation at that scope; an
// ancestor definition of the same name is shadowed, not removed, and
// remains invocable from comp through env.Super.
func (g *Group) Let(name string, comp Computation) error {
	return g.define(name, KindLet, comp, false)
}

// LetEager is Let plus a before-each hook that forces evaluation, so the
// value is computed and cached before the example body runs.
func (g *Group) LetEager(name string, comp Computation) error {
	return g.define(name, KindLet, comp, true)
}

// Subject installs comp as the group's default value definition.
func (g *Group) Subject(comp Computation) error {
	return g.define(SubjectName, KindSubject, comp, false)
}

// SubjectEager is Subject plus a before-each hook that forces evaluation.
func (g *Group) SubjectEager(comp Computation) error {
	return g.define(SubjectName, KindSubject, comp, true)
}

// NamedSubject installs comp under name and aliases the reserved subject
// name to it, so both names resolve to one cache entry.
func (g *Group) NamedSubject(name string, comp Computation) error {
	if err := g.define(name, KindSubject, comp, false); err != nil {
		return err
	}

	return g.Alias(SubjectName, name)
}

// NamedSubjectEager is NamedSubject plus a before-each hook that forces
// evaluation.
func (g *Group) NamedSubjectEager(name string, comp Computation) error {
	if err := g.define(name, KindSubject, comp, true); err != nil {
		return err
	}

	return g.Alias(SubjectName, name)
}

// Alias makes alias resolve to whatever target resolves to at the point
// of aliasing. The bind is static: redefining target afterwards does not
// redirect the alias. Both names share the target's cache entry.
func (g *Group) Alias(alias, target string) error {
	if alias == "" {
		return fmt.Errorf("alias in group %q: %w", g.desc, ErrEmptyName)
	}

	bound, err := g.resolve(target)
	if err != nil {
		return fmt.Errorf("alias %q in group %q: %w", alias, g.desc, err)
	}

	def := &Definition{
		name:     alias,
		kind:     KindAlias,
		comp:     bound.comp,
		site:     g,
		cacheKey: bound.cacheKey,
		target:   bound,
	}
	g.defs.Set(alias, def)

	g.world.logger.Debug("registered alias", "name", alias, "target", bound.name, "group", g.desc)

	return nil
}

// Names returns every name visible from g: the root group's names first,
// then each level's newly introduced names down to g. A shadowing
// redefinition keeps the position of the name it shadows.
func (g *Group) Names() []string {
	var chain []*Group
	for cur := g; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	seen := make(map[string]bool)

	var names []string

	for i := len(chain) - 1; i >= 0; i-- {
		for _, name := range chain[i].defs.Keys() {
			if !seen[name] {
				seen[name] = true

				names = append(names, name)
			}
		}
	}

	return names
}

func (g *Group) define(name string, kind Kind, comp Computation, eager bool) error {
	if name == "" {
		return fmt.Errorf("define in group %q: %w", g.desc, ErrEmptyName)
	}

	if comp == nil {
		return fmt.Errorf("define %q in group %q: %w", name, g.desc, ErrNilComputation)
	}

	if name == SubjectName && kind == KindLet {
		kind = KindSubject
	}

	def := &Definition{
		name:     name,
		kind:     kind,
		comp:     comp,
		site:     g,
		cacheKey: name,
		eager:    eager,
	}
	g.defs.Set(name, def)

	g.world.logger.Debug("registered definition", "name", name, "kind", string(kind), "group", g.desc, "eager", eager)

	if eager {
		g.world.registrar.RegisterBeforeEach(g, forceValue(name))
	}

	return nil
}

// resolve returns the nearest definition of name, searching g first and
// then outward to the root.
func (g *Group) resolve(name string) (*Definition, error) {
	for cur := g; cur != nil; cur = cur.parent {
		if def, ok := cur.defs.Get(name); ok {
			return def, nil
		}
	}

	return nil, fmt.Errorf("resolve %q from group %q: %w", name, g.desc, ErrUndefinedName)
}

// superOf returns the next-outer definition of d's name, starting the
// search one level past d's own defining group so the lookup never
// rediscovers d itself. Aliases delegate to their bound target.
func superOf(d *Definition) (*Definition, error) {
	base := d.effective()
	if base.site == nil || base.site.parent == nil {
		return nil, fmt.Errorf("super of %q: %w", base.name, ErrNoSuperDefinition)
	}

	sd, err := base.site.parent.resolve(base.name)
	if err != nil {
		return nil, fmt.Errorf("super of %q: %w", base.name, ErrNoSuperDefinition)
	}

	return sd, nil
}
