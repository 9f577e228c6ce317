package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gogpu/mathscroll/internal/scenes"
	"github.com/gogpu/mathscroll/recording"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58C4DD"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#83C167"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenes and recording backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), listing(a.cfg.Output.Backends))
			return err
		},
	}
}

// listing renders the scene table and the backend list. Enabled backends
// are marked with an asterisk.
func listing(enabled []string) string {
	all := scenes.All()
	width := 0
	for _, s := range all {
		width = max(width, lipgloss.Width(s.Name))
	}
	name := nameStyle.Width(width + 2)

	var b strings.Builder
	b.WriteString(headingStyle.Render("Scenes"))
	b.WriteByte('\n')
	for _, s := range all {
		b.WriteString("  ")
		b.WriteString(name.Render(s.Name))
		b.WriteString(mutedStyle.Render(s.Description))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(headingStyle.Render("Backends"))
	b.WriteByte('\n')
	for _, n := range recording.Backends() {
		mark := " "
		if slices.Contains(enabled, n) {
			mark = "*"
		}
		b.WriteString("  ")
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(name.Render(n))
		if reg, err := recording.Lookup(n); err == nil {
			b.WriteString(mutedStyle.Render("*" + reg.Extension))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
