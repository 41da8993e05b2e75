package let

import (
	"errors"
	"fmt"
	"strings"

	"lazyspec.dev/pkg/lazyspec/internal/pathwalk"
)

// Its creates a child group whose subject projects the enclosing subject
// through path: a single accessor name or a dot-delimited chain of them.
func (g *Group) Its(path string) (*Group, error) {
	if path == "" {
		return nil, fmt.Errorf("its on group %q: %w", g.desc, ErrEmptyPath)
	}

	parts := strings.Split(path, ".")
	steps := make([]pathwalk.Step, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("its %q on group %q has an empty step: %w", path, g.desc, ErrEmptyPath)
		}

		steps = append(steps, pathwalk.Attr(part))
	}

	return g.project(path, steps)
}

// ItsAt creates a child group whose subject projects the enclosing
// subject by applying each key in order: maps are indexed by key, slices
// and arrays by integer position.
func (g *Group) ItsAt(keys ...any) (*Group, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("its-at on group %q: %w", g.desc, ErrEmptyPath)
	}

	steps := make([]pathwalk.Step, 0, len(keys))
	for _, key := range keys {
		steps = append(steps, pathwalk.Key(key))
	}

	return g.project(fmt.Sprintf("%v", keys), steps)
}

// project installs the projection as the subject definition of a fresh
// child group. The computation evaluates the enclosing subject through
// super and walks the steps; the projector itself performs no
// memoization, the child's ordinary subject machinery does.
func (g *Group) project(desc string, steps []pathwalk.Step) (*Group, error) {
	child := g.NewChild(desc)

	comp := func(env *Env) (any, error) {
		base, err := env.Super()
		if err != nil {
			return nil, err
		}

		value, err := pathwalk.Walk(base, steps)
		if err != nil {
			if errors.Is(err, pathwalk.ErrNotApplicable) {
				return nil, fmt.Errorf("projection %q: %w: %v", desc, ErrMissingAccessor, err)
			}

			return nil, fmt.Errorf("projection %q: %w", desc, err)
		}

		return value, nil
	}

	if err := child.define(SubjectName, KindProjection, comp, false); err != nil {
		return nil, err
	}

	return child, nil
}
