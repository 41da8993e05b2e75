package lettest

import (
	"fmt"
	"os"
	"sort"
	"testing"

	"gopkg.in/yaml.v3"

	"lazyspec.dev/pkg/lazyspec/let"
)

// LoadFixture reads a YAML document of named fixture values.
func LoadFixture(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	values := make(map[string]any)
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}

	return values, nil
}

// Fixture is LoadFixture but fails the test on error.
func Fixture(tb testing.TB, path string) map[string]any {
	tb.Helper()

	values, err := LoadFixture(path)
	if err != nil {
		tb.Fatalf("fixture: %v", err)
	}

	return values
}

// BindFixture installs one definition per top-level fixture key on g, in
// key order, so fixture values resolve, shadow, and memoize exactly like
// hand-written definitions.
func BindFixture(g *let.Group, path string) error {
	values, err := LoadFixture(path)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]

		if err := g.Let(key, func(*let.Env) (any, error) {
			return value, nil
		}); err != nil {
			return fmt.Errorf("bind fixture key %q: %w", key, err)
		}
	}

	return nil
}
