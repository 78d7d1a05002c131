package stats

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// RenderSummary prints overall dataset counts.
func RenderSummary(w io.Writer, summary Summary) error {
	if _, err := fmt.Fprintln(w, headingStyle.Render("Combined Dataset")); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("Participants: %d", summary.Participants),
		fmt.Sprintf("Responses: %d", summary.Rows),
		fmt.Sprintf("Word responses: %d", summary.WordRows),
		fmt.Sprintf("Pseudoword responses: %d", summary.PseudowordRows),
	}
	if summary.UnmatchedRows > 0 {
		lines = append(lines, fmt.Sprintf("Responses without stimulus match: %d", summary.UnmatchedRows))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTypeSummaries prints the per-word-type stimulus aggregates.
func RenderTypeSummaries(w io.Writer, summaries []TypeSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No stimuli found.")
		return err
	}
	if _, err := fmt.Fprintln(w, headingStyle.Render("Stimuli by Word Type")); err != nil {
		return err
	}
	headers := []string{"Type", "Items", "Complex", "Simple", "Morph (mean/min/max)", "Length (mean/min/max)", "Zipf (mean/min/max)"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			string(s.WordType),
			fmt.Sprintf("%d", s.Items),
			fmt.Sprintf("%d", s.Complex),
			fmt.Sprintf("%d", s.Simple),
			formatDistribution(s.MorphemeCount, "%.2f/%.0f/%.0f"),
			formatDistribution(s.Length, "%.2f/%.0f/%.0f"),
			formatDistribution(s.Zipf, "%.3f/%.3f/%.3f"),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatDistribution(d Distribution, format string) string {
	return fmt.Sprintf(format, d.Mean, d.Min, d.Max)
}
