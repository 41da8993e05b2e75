// Package chainview renders definition chain tables for debugging.
package chainview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
)

// Entry is one row of the chain table: a visible definition with its
// origin group and how many ancestor definitions it shadows.
type Entry struct {
	Name     string
	Kind     string
	Eager    bool
	Origin   string
	Shadowed int
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#3a3a3a", Dark: "#d0d0d0"})

// Render writes a styled title line followed by the chain table.
func Render(w io.Writer, title string, entries []Entry) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Kind", "Eager", "Origin", "Shadowed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
	})

	for _, entry := range entries {
		eager := ""
		if entry.Eager {
			eager = "yes"
		}

		table.Append([]string{
			entry.Name,
			entry.Kind,
			eager,
			entry.Origin,
			fmt.Sprintf("%d", entry.Shadowed),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(entries)),
		"", "", "", "",
	})

	table.Render()

	return nil
}
