package let

// SubjectName is the reserved definition name for a group's primary
// test target.
const SubjectName = "subject"

// Kind represents the category of a definition.
type Kind string

const (
	// KindLet represents a plain named value definition.
	KindLet Kind = "let"
	// KindSubject represents the reserved default value definition.
	KindSubject Kind = "subject"
	// KindAlias represents a definition bound to another definition.
	KindAlias Kind = "alias"
	// KindProjection represents a subject derived by projecting the
	// enclosing subject through an accessor path.
	KindProjection Kind = "projection"
)

// Computation produces the value for a definition. It runs at most once
// per example and may read other definitions through env.
type Computation func(env *Env) (any, error)

// Definition is a named computation registered on a group. Once
// registered it is immutable; redefining the same name in the same group
// installs a fresh definition in its place.
type Definition struct {
	name     string
	kind     Kind
	comp     Computation
	site     *Group
	cacheKey string
	eager    bool
	target   *Definition // set for aliases only
}

// Name returns the name the definition was registered under.
func (d *Definition) Name() string { return d.name }

// Kind returns the definition category.
func (d *Definition) Kind() Kind { return d.kind }

// Eager reports whether the definition forces evaluation before the
// example body runs.
func (d *Definition) Eager() bool { return d.eager }

// Site returns the group the definition was registered on.
func (d *Definition) Site() *Group { return d.site }

// effective returns the definition whose computation actually runs.
// Aliases are bound statically to the definition their target resolved
// to at registration time, so evaluation and super both follow the
// target, not the alias.
func (d *Definition) effective() *Definition {
	if d.kind == KindAlias && d.target != nil {
		return d.target.effective()
	}

	return d
}
