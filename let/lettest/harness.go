// Package lettest is a minimal example driver for the let package: it
// stands in for an external test runner by creating examples, replaying
// recorded before-each hooks, and finishing instances. The module's own
// tests use it, and consumers without a runner integration can too.
package lettest

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"lazyspec.dev/pkg/lazyspec/let"
)

// Run drives one example of g: fresh instance, before-each hooks
// outermost group first, then body, then Finish. A hook fault fails the
// test without running the body.
func Run(tb testing.TB, g *let.Group, body func(ex *let.Example)) {
	tb.Helper()

	ex, err := g.World().NewExample(tb.Context(), g)
	if err != nil {
		tb.Fatalf("create example: %v", err)
	}
	defer ex.Finish()

	if err := runHooks(ex); err != nil {
		tb.Fatalf("before-each hook: %v", err)
	}

	body(ex)
}

// RunParallel drives n examples of g concurrently, one instance per
// goroutine. Each body receives its own example and index and reports
// failures by returning an error, since test assertions must not fail
// the test from foreign goroutines.
func RunParallel(tb testing.TB, g *let.Group, n int, body func(ex *let.Example, i int) error) {
	tb.Helper()

	var group errgroup.Group

	for i := 0; i < n; i++ {
		group.Go(func() error {
			ex, err := g.World().NewExample(tb.Context(), g)
			if err != nil {
				return fmt.Errorf("create example %d: %w", i, err)
			}
			defer ex.Finish()

			if err := runHooks(ex); err != nil {
				return fmt.Errorf("example %d before-each hook: %w", i, err)
			}

			return body(ex, i)
		})
	}

	if err := group.Wait(); err != nil {
		tb.Fatalf("parallel examples: %v", err)
	}
}

func runHooks(ex *let.Example) error {
	for _, hook := range ex.Group().World().HooksFor(ex.Group()) {
		if err := hook(ex); err != nil {
			return err
		}
	}

	return nil
}
