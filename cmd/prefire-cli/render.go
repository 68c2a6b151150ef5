package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrSnakeDoc/prefire/internal/catalog"
	"github.com/MrSnakeDoc/prefire/internal/pagination"
	"github.com/MrSnakeDoc/prefire/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	nameStyle = lipgloss.NewStyle().Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true)

	queryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func renderResult(w io.Writer, res search.Result) {
	fmt.Fprintln(w, queryStyle.Render(res.Compiled))

	if res.TotalCount == 0 {
		fmt.Fprintln(w, metaStyle.Render("No cards found"))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d cards, page %d of %d", res.TotalCount, res.Page, res.TotalPages)))
	for _, warning := range res.Warnings {
		fmt.Fprintln(w, warnStyle.Render("! "+warning))
	}
	if res.Partial {
		fmt.Fprintln(w, warnStyle.Render("! page incomplete, Scryfall did not return the rest"))
	}

	for _, c := range res.Cards {
		line := nameStyle.Render(c.Name)
		if c.ManaCost != "" {
			line += " " + c.ManaCost
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, "  "+metaStyle.Render(fmt.Sprintf("%s · %s · %s", c.TypeLine, strings.ToUpper(c.SetCode), c.Rarity)))
	}
	fmt.Fprintln(w, renderPages(res.Pages, res.Page))
}

func renderEditions(w io.Writer, groups []catalog.Group) {
	for _, g := range groups {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", g.Category, len(g.Editions))))
		for _, e := range g.Editions {
			fmt.Fprintf(w, "  %-5s %s %s\n", e.Code, e.Name, metaStyle.Render(e.Released.Format("2006-01-02")))
		}
	}
}

func renderMatches(w io.Writer, q string, matches []catalog.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, metaStyle.Render("No edition matches "+q))
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%-5s %s %s\n", m.Edition.Code, nameStyle.Render(m.Edition.Name), metaStyle.Render(fmt.Sprintf("%.0f", m.Score)))
	}
}

func renderPages(pages []pagination.Indicator, current int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		s := p.String()
		if !p.Ellipsis && p.Page == current {
			s = currentPageStyle.Render(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
