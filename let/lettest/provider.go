package lettest

import (
	"errors"
	"fmt"
	"reflect"

	"lazyspec.dev/pkg/lazyspec/let"
)

// DescribedTypeKey is the group metadata key TypeSubjectProvider reads.
const DescribedTypeKey = "described_type"

// ErrNoDescribedType is returned when a group chain carries no described
// type metadata to derive a subject from.
var ErrNoDescribedType = errors.New("no described type")

// TypeSubjectProvider derives the implicit subject from the nearest
// DescribedTypeKey metadata entry on the example's group chain. A
// reflect.Type entry yields a fresh zero value of that type; any other
// entry stands in for its own type. Pointer types yield a pointer to a
// fresh zero element.
type TypeSubjectProvider struct{}

// DeriveSubject implements let.SubjectProvider.
func (TypeSubjectProvider) DeriveSubject(g *let.Group) (any, error) {
	v, ok := g.Meta(DescribedTypeKey)
	if !ok {
		return nil, fmt.Errorf("group %q: %w", g.Description(), ErrNoDescribedType)
	}

	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}

	if t == nil {
		return nil, fmt.Errorf("group %q: %w", g.Description(), ErrNoDescribedType)
	}

	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface(), nil
	}

	return reflect.New(t).Elem().Interface(), nil
}
