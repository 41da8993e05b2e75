package let

import "context"

// Env is the evaluation environment handed to computations. It exposes
// the accessor surface a computation may use: other named values, the
// shadowed enclosing definition via Super, and the owning example.
type Env struct {
	example *Example
	def     *Definition
	ec      *evalCtx
}

// Get reads another named value through the same resolve-then-memoize
// path the example's accessors use. Resolution starts from the example's
// group, so a computation declared in an outer group sees overrides from
// the group the example was created on.
func (env *Env) Get(name string) (any, error) {
	def, err := env.example.group.resolve(name)
	if err != nil {
		return nil, err
	}

	return env.example.eval(env.ec, def)
}

// Super invokes the next-outer definition of the current name. The
// search starts from the defining group of the running computation, not
// from the example's group, so each level of an override chain reaches
// its immediate parent's version. The result is not cached on its own;
// the outermost computation's value is the one memoized.
func (env *Env) Super() (any, error) {
	sd, err := superOf(env.def)
	if err != nil {
		return nil, err
	}

	return env.example.run(env.ec, sd)
}

// Subject reads the group's default value.
func (env *Env) Subject() (any, error) {
	return env.Get(SubjectName)
}

// Example returns the example instance owning the evaluation.
func (env *Env) Example() *Example {
	return env.example
}

// Context returns the example's context.
func (env *Env) Context() context.Context {
	return env.example.ctx
}
