package let

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestValue_ComputesOnceAndCaches(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	calls := 0
	require.NoError(t, g.Let("value", counted(&calls, intValue(11))))

	ex := newTestExample(t, g)

	first, err := ex.Value("value")
	require.NoError(t, err)

	second, err := ex.Value("value")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestValue_NilResultIsCached(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	calls := 0
	require.NoError(t, g.Let("nothing", counted(&calls, func(_ *Env) (any, error) {
		return nil, nil
	})))

	ex := newTestExample(t, g)

	v, err := ex.Value("nothing")
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = ex.Value("nothing")
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestValue_InstancesNeverShareCaches(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("items", func(_ *Env) (any, error) {
		return []string{"seed"}, nil
	}))

	exA := newTestExample(t, g)
	exB := newTestExample(t, g)

	itemsA, err := exA.Value("items")
	require.NoError(t, err)

	itemsB, err := exB.Value("items")
	require.NoError(t, err)

	sliceA := itemsA.([]string)
	sliceA[0] = "mutated"

	again, err := exB.Value("items")
	require.NoError(t, err)
	require.Equal(t, []string{"seed"}, again.([]string))
	require.Equal(t, []string{"seed"}, itemsB.([]string))
}

func TestValue_OverrideChainAcrossThreeGenerations(t *testing.T) {
	w := NewWorld()
	grand := w.NewGroup("grand")
	parent := grand.NewChild("parent")
	child := parent.NewChild("child")

	require.NoError(t, grand.Let("depth", intValue(1)))

	addOne := func(env *Env) (any, error) {
		base, err := env.Super()
		if err != nil {
			return nil, err
		}

		return base.(int) + 1, nil
	}

	require.NoError(t, parent.Let("depth", addOne))
	require.NoError(t, child.Let("depth", addOne))

	tests := []struct {
		group *Group
		want  int
	}{
		{group: grand, want: 1},
		{group: parent, want: 2},
		{group: child, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.group.Description(), func(t *testing.T) {
			ex := newTestExample(t, tt.group)

			v, err := ex.Value("depth")
			require.NoError(t, err)
			require.Equal(t, tt.want, v)
		})
	}
}

func TestValue_SuperRunsEachLevelOnce(t *testing.T) {
	w := NewWorld()
	grand := w.NewGroup("grand")
	parent := grand.NewChild("parent")
	child := parent.NewChild("child")

	grandCalls, parentCalls, childCalls := 0, 0, 0

	require.NoError(t, grand.Let("depth", counted(&grandCalls, intValue(1))))

	addOne := func(env *Env) (any, error) {
		base, err := env.Super()
		if err != nil {
			return nil, err
		}

		return base.(int) + 1, nil
	}

	require.NoError(t, parent.Let("depth", counted(&parentCalls, addOne)))
	require.NoError(t, child.Let("depth", counted(&childCalls, addOne)))

	ex := newTestExample(t, child)

	v, err := ex.Value("depth")
	require.NoError(t, err)
	require.Equal(t, 3, v)

	_, err = ex.Value("depth")
	require.NoError(t, err)

	require.Equal(t, 1, grandCalls)
	require.Equal(t, 1, parentCalls)
	require.Equal(t, 1, childCalls)
}

func TestValue_DefinitionsReadEachOther(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("base", intValue(10)))
	require.NoError(t, g.Let("doubled", func(env *Env) (any, error) {
		base, err := env.Get("base")
		if err != nil {
			return nil, err
		}

		return base.(int) * 2, nil
	}))

	ex := newTestExample(t, g)

	v, err := ex.Value("doubled")
	require.NoError(t, err)
	require.Equal(t, 20, v)
}

func TestValue_OuterDefinitionSeesInnerOverride(t *testing.T) {
	w := NewWorld()
	parent := w.NewGroup("parent")
	child := parent.NewChild("child")

	require.NoError(t, parent.Let("base", intValue(1)))
	require.NoError(t, parent.Let("derived", func(env *Env) (any, error) {
		base, err := env.Get("base")
		if err != nil {
			return nil, err
		}

		return base.(int) * 100, nil
	}))
	require.NoError(t, child.Let("base", intValue(3)))

	ex := newTestExample(t, child)

	v, err := ex.Value("derived")
	require.NoError(t, err)
	require.Equal(t, 300, v)
}

func TestValue_UndefinedNameFaults(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	ex := newTestExample(t, g)

	_, err := ex.Value("ghost")
	require.ErrorIs(t, err, ErrUndefinedName)
	require.ErrorIs(t, ex.Err(), ErrUndefinedName)
}

func TestValue_SuperWithoutAncestorFaults(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("lonely", func(env *Env) (any, error) {
		return env.Super()
	}))

	ex := newTestExample(t, g)

	_, err := ex.Value("lonely")
	require.ErrorIs(t, err, ErrNoSuperDefinition)
}

func TestValue_SelfReferenceFaults(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("ouroboros", func(env *Env) (any, error) {
		return env.Get("ouroboros")
	}))

	ex := newTestExample(t, g)

	_, err := ex.Value("ouroboros")
	require.ErrorIs(t, err, ErrSelfReference)
}

func TestValue_MutualCycleFaults(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("ping", func(env *Env) (any, error) {
		return env.Get("pong")
	}))
	require.NoError(t, g.Let("pong", func(env *Env) (any, error) {
		return env.Get("ping")
	}))

	ex := newTestExample(t, g)

	_, err := ex.Value("ping")
	require.ErrorIs(t, err, ErrSelfReference)
}

func TestValue_ChainedReadsAcrossNamesAllowed(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("a", func(env *Env) (any, error) {
		v, err := env.Get("b")
		if err != nil {
			return nil, err
		}

		return v.(int) + 1, nil
	}))
	require.NoError(t, g.Let("b", func(env *Env) (any, error) {
		v, err := env.Get("c")
		if err != nil {
			return nil, err
		}

		return v.(int) + 1, nil
	}))
	require.NoError(t, g.Let("c", intValue(1)))

	ex := newTestExample(t, g)

	v, err := ex.Value("a")
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

func TestValue_FaultPoisonsExampleAndDiscardsCache(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	boom := errors.New("boom")

	require.NoError(t, g.Let("good", intValue(1)))
	require.NoError(t, g.Let("bad", func(_ *Env) (any, error) {
		return nil, boom
	}))

	ex := newTestExample(t, g)

	_, err := ex.Value("good")
	require.NoError(t, err)

	_, err = ex.Value("bad")
	require.ErrorIs(t, err, boom)

	_, err = ex.Value("good")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, ex.Err(), boom)
}

func TestValue_AfterFinishReturnsExampleFinished(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("value", intValue(1)))

	ex, err := w.NewExample(context.Background(), g)
	require.NoError(t, err)

	_, err = ex.Value("value")
	require.NoError(t, err)

	ex.Finish()
	ex.Finish()

	_, err = ex.Value("value")
	require.ErrorIs(t, err, ErrExampleFinished)
}

func TestValue_CanceledContextStopsReadsWithoutPoisoning(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Let("value", intValue(1)))

	ctx, cancel := context.WithCancel(context.Background())
	ex, err := w.NewExample(ctx, g)
	require.NoError(t, err)
	defer ex.Finish()

	cancel()

	_, err = ex.Value("value")
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, ex.Err())
}

func TestMustValue_PanicsOnFault(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	ex := newTestExample(t, g)

	require.Panics(t, func() {
		ex.MustValue("ghost")
	})
}

func TestMustSubject_ReturnsValue(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	require.NoError(t, g.Subject(intValue(9)))

	ex := newTestExample(t, g)
	require.Equal(t, 9, ex.MustSubject())
}

func TestNewExample_Validation(t *testing.T) {
	w := NewWorld()
	other := NewWorld()
	g := w.NewGroup("root")

	_, err := w.NewExample(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilGroup)

	_, err = other.NewExample(context.Background(), g)
	require.ErrorIs(t, err, ErrForeignGroup)
}

func TestNewExample_UniqueIDs(t *testing.T) {
	w := NewWorld()
	g := w.NewGroup("root")

	exA := newTestExample(t, g)
	exB := newTestExample(t, g)

	require.NotEmpty(t, exA.ID())
	require.NotEqual(t, exA.ID(), exB.ID())
	require.Same(t, g, exA.Group())
}

func TestThreadSafeMemo_ConcurrentReadsObserveOneValue(t *testing.T) {
	w := NewWorld(WithThreadSafeMemo())
	g := w.NewGroup("root")

	var next atomic.Int64

	require.NoError(t, g.Let("token", func(_ *Env) (any, error) {
		return fmt.Sprintf("token-%d", next.Add(1)), nil
	}))

	ex := newTestExample(t, g)

	const readers = 16

	values := make([]any, readers)

	var eg errgroup.Group
	for i := 0; i < readers; i++ {
		eg.Go(func() error {
			v, err := ex.Value("token")
			if err != nil {
				return err
			}

			values[i] = v

			return nil
		})
	}

	require.NoError(t, eg.Wait())

	for i := 1; i < readers; i++ {
		require.Equal(t, values[0], values[i])
	}
}

func TestThreadSafeMemo_ConcurrentDistinctNames(t *testing.T) {
	w := NewWorld(WithThreadSafeMemo())
	g := w.NewGroup("root")

	const names = 8

	for i := 0; i < names; i++ {
		require.NoError(t, g.Let(fmt.Sprintf("value-%d", i), intValue(i)))
	}

	ex := newTestExample(t, g)

	var eg errgroup.Group
	for i := 0; i < names; i++ {
		eg.Go(func() error {
			v, err := ex.Value(fmt.Sprintf("value-%d", i))
			if err != nil {
				return err
			}

			if v.(int) != i {
				return fmt.Errorf("value-%d resolved to %v", i, v)
			}

			return nil
		})
	}

	require.NoError(t, eg.Wait())
}
