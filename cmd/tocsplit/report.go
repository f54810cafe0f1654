package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for the report header
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted label text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// okStyle for clean results
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// warnStyle for missed headings and warnings
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// boxStyle for the summary box
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

type splitReport struct {
	title        string
	out          string
	segmentsOut  string
	chapters     int
	sections     int
	subsections  int
	searched     int
	matched      int
	segmentCount int // -1 when segments were not exported
	warnings     []string
}

func renderReport(w io.Writer, rep splitReport) {
	missed := rep.searched - rep.matched
	matchLine := okStyle.Render(fmt.Sprintf("%d of %d headings", rep.matched, rep.searched))
	if missed > 0 {
		matchLine = warnStyle.Render(fmt.Sprintf("%d of %d headings (%d missed)", rep.matched, rep.searched, missed))
	}

	wroteLine := rep.out
	if rep.segmentCount >= 0 {
		wroteLine = fmt.Sprintf("%s, %s (%d segments)", rep.out, rep.segmentsOut, rep.segmentCount)
	}

	content := fmt.Sprintf("%s\n%s %d chapters, %d sections, %d subsections\n%s %s\n%s %s",
		titleStyle.Render(rep.title),
		dimStyle.Render("Tree:"), rep.chapters, rep.sections, rep.subsections,
		dimStyle.Render("Matched:"), matchLine,
		dimStyle.Render("Wrote:"), wroteLine,
	)
	fmt.Fprintln(w, boxStyle.Render(content))

	for _, warning := range rep.warnings {
		fmt.Fprintln(w, warnStyle.Render("warning:")+" "+warning)
	}
}
