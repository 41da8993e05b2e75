package let

import (
	"io"

	"lazyspec.dev/pkg/lazyspec/internal/chainview"
)

// ChainEntry describes one definition visible from a group's viewpoint.
type ChainEntry struct {
	Name     string
	Kind     Kind
	Eager    bool
	Origin   string
	Shadowed int
}

// ChainEntries lists the definitions visible from g in Names order, each
// annotated with its defining group's description and the number of
// ancestor definitions it shadows.
func ChainEntries(g *Group) []ChainEntry {
	names := g.Names()
	entries := make([]ChainEntry, 0, len(names))

	for _, name := range names {
		def, err := g.resolve(name)
		if err != nil {
			continue
		}

		shadowed := 0

		if def.site != nil {
			for cur := def.site.parent; cur != nil; cur = cur.parent {
				if _, ok := cur.defs.Get(name); ok {
					shadowed++
				}
			}
		}

		entries = append(entries, ChainEntry{
			Name:     name,
			Kind:     def.kind,
			Eager:    def.eager,
			Origin:   def.site.desc,
			Shadowed: shadowed,
		})
	}

	return entries
}

// FprintChains renders the definitions visible from g as a table, a
// debugging aid for untangling override chains.
func FprintChains(w io.Writer, g *Group) error {
	entries := ChainEntries(g)
	rows := make([]chainview.Entry, 0, len(entries))

	for _, entry := range entries {
		rows = append(rows, chainview.Entry{
			Name:     entry.Name,
			Kind:     string(entry.Kind),
			Eager:    entry.Eager,
			Origin:   entry.Origin,
			Shadowed: entry.Shadowed,
		})
	}

	return chainview.Render(w, g.desc, rows)
}
