package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	countStyle   = lipgloss.NewStyle().Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func header(w io.Writer, cols ...string) {
	styled := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		styled[i] = headerStyle.Render(c)
		rules[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(w, strings.Join(styled, "\t"))
	fmt.Fprintln(w, strings.Join(rules, "\t"))
}

func renderItems(out io.Writer, items []models.Item) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	header(w, "ID", "Name", "Count", "Category", "Updated")
	for _, it := range items {
		count := countStyle.Render(fmt.Sprint(it.Count))
		if it.Count == 0 {
			count = mutedStyle.Render("0")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(it.ID), it.Name, count, it.Category,
			mutedStyle.Render(it.UpdatedAt.Local().Format(time.DateTime)))
	}
}

func renderCategories(out io.Writer, cats []models.Category, counts []int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	header(w, "ID", "Name", "Items", "Default")
	for i, c := range cats {
		def := ""
		if c.IsDefault {
			def = mutedStyle.Render("yes")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", shortID(c.ID), c.Name, counts[i], def)
	}
}

func renderSummary(out io.Writer, sum appsvcs.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	header(w, "Category", "Items")
	for _, c := range sum.Categories {
		fmt.Fprintf(w, "%s\t%d\n", c.Category, c.Count)
	}
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("All"), countStyle.Render(fmt.Sprint(sum.Total)))
}
