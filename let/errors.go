package let

import "errors"

// Evaluation faults. When one surfaces through an example accessor it is
// terminal for that example: the example is marked failed and its cache
// is discarded.
var (
	// ErrUndefinedName is returned when a name has no definition in the
	// group or any of its ancestors.
	ErrUndefinedName = errors.New("undefined name")

	// ErrNoSuperDefinition is returned when a computation calls super but
	// no ancestor group defines the name.
	ErrNoSuperDefinition = errors.New("no ancestor definition")

	// ErrSelfReference is returned when a computation reads its own name
	// before its first evaluation has completed.
	ErrSelfReference = errors.New("definition refers to itself")

	// ErrMissingAccessor is returned when a projection step cannot be
	// applied to the value produced by the previous step.
	ErrMissingAccessor = errors.New("missing accessor")
)

// Usage errors reported by registration and example lifecycle calls.
var (
	// ErrEmptyName is returned when a definition or alias name is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNilComputation is returned when a definition is registered
	// without a computation.
	ErrNilComputation = errors.New("computation cannot be nil")

	// ErrEmptyPath is returned when a projection is requested with no steps.
	ErrEmptyPath = errors.New("projection path cannot be empty")

	// ErrNilGroup is returned when an example is requested for a nil group.
	ErrNilGroup = errors.New("group cannot be nil")

	// ErrForeignGroup is returned when an example is requested for a group
	// that belongs to a different world.
	ErrForeignGroup = errors.New("group belongs to a different world")

	// ErrExampleFinished is returned when a value is requested from an
	// example whose run has already finished.
	ErrExampleFinished = errors.New("example already finished")
)
