package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	defaultHistogramBins = 12
	defaultPlotHeight    = 12
	minPlotWidth         = 20
	terminalWidthBackup  = 80
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// TerminalPlotWidth returns the current terminal width, or a fallback when
// stdout is not a terminal.
func TerminalPlotWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Histogram renders an ASCII histogram of the values.
func Histogram(w io.Writer, title string, values []float64, bins, width int) error {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = defaultHistogramBins
	}
	if width < minPlotWidth {
		width = terminalWidthBackup
	}

	minVal, maxVal := minMax(values)
	if maxVal-minVal < 1e-12 {
		maxVal = minVal + 1
	}
	counts := make([]int, bins)
	span := maxVal - minVal
	for _, v := range values {
		idx := int((v - minVal) / span * float64(bins))
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	if _, err := fmt.Fprintln(w, headingStyle.Render(title)); err != nil {
		return err
	}
	// Leave room for the bin label and the trailing count.
	barWidth := width - 28
	if barWidth < 10 {
		barWidth = 10
	}
	for i, count := range counts {
		lo := minVal + span*float64(i)/float64(bins)
		hi := minVal + span*float64(i+1)/float64(bins)
		bar := 0
		if maxCount > 0 {
			bar = int(math.Round(float64(count) / float64(maxCount) * float64(barWidth)))
		}
		if _, err := fmt.Fprintf(w, "%10.1f..%-10.1f %s %d\n", lo, hi, strings.Repeat("#", bar), count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// QQPlot renders a normal quantile-quantile plot of the residuals. Points on
// the dotted identity line indicate normally distributed residuals.
func QQPlot(w io.Writer, title string, residuals []float64, width, height int) error {
	if len(residuals) < 3 {
		return nil
	}
	if width < minPlotWidth {
		width = terminalWidthBackup
	}
	if height <= 0 {
		height = defaultPlotHeight
	}

	sample := standardize(residuals)
	sort.Float64s(sample)
	theoretical := make([]float64, len(sample))
	for i := range sample {
		theoretical[i] = stdNormal.Quantile((float64(i) + 0.5) / float64(len(sample)))
	}

	lo := math.Min(minOf(sample), minOf(theoretical))
	hi := math.Max(maxOf(sample), maxOf(theoretical))
	if hi-lo < 1e-12 {
		hi = lo + 1
	}
	plotWidth := width - 12
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}

	grid := make([][]byte, height)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", plotWidth))
	}
	scaleX := func(v float64) int { return clampIndex((v-lo)/(hi-lo)*float64(plotWidth-1), plotWidth) }
	scaleY := func(v float64) int { return clampIndex((hi-v)/(hi-lo)*float64(height-1), height) }
	for x := 0; x < plotWidth; x++ {
		v := lo + (hi-lo)*float64(x)/float64(plotWidth-1)
		grid[scaleY(v)][x] = '.'
	}
	for i := range sample {
		grid[scaleY(sample[i])][scaleX(theoretical[i])] = 'x'
	}

	if _, err := fmt.Fprintln(w, headingStyle.Render(title)); err != nil {
		return err
	}
	for r, row := range grid {
		label := "          "
		if r == 0 {
			label = fmt.Sprintf("%9.2f ", hi)
		} else if r == height-1 {
			label = fmt.Sprintf("%9.2f ", lo)
		}
		if _, err := fmt.Fprintf(w, "%s|%s\n", label, string(row)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%10s+%s\n", "", strings.Repeat("-", plotWidth)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%10s%-8.2f%*s\n", "", lo, plotWidth-8, fmt.Sprintf("%.2f", hi)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "theoretical quantiles (x) vs standardized residuals (y)")
	return err
}

// RandomInterceptPlot renders one line per participant with the intercept
// estimate marked relative to zero.
func RandomInterceptPlot(w io.Writer, title string, labels []string, values []float64, width int) error {
	if len(labels) == 0 || len(labels) != len(values) {
		return nil
	}
	if width < minPlotWidth {
		width = terminalWidthBackup
	}
	limit := 0.0
	for _, v := range values {
		if math.Abs(v) > limit {
			limit = math.Abs(v)
		}
	}
	if limit < 1e-12 {
		limit = 1
	}
	plotWidth := width - 24
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	if plotWidth%2 == 0 {
		plotWidth++
	}
	center := plotWidth / 2

	if _, err := fmt.Fprintln(w, headingStyle.Render(title)); err != nil {
		return err
	}
	for i, label := range labels {
		line := []byte(strings.Repeat(" ", plotWidth))
		line[center] = '|'
		pos := center + int(math.Round(values[i]/limit*float64(center)))
		if pos < 0 {
			pos = 0
		}
		if pos >= plotWidth {
			pos = plotWidth - 1
		}
		line[pos] = '*'
		if _, err := fmt.Fprintf(w, "%-6s %9.2f %s\n", label, values[i], string(line)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func standardize(values []float64) []float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values) - 1)
	sd := math.Sqrt(variance)
	if sd < 1e-12 {
		sd = 1
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	return minOf(values), maxOf(values)
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func clampIndex(v float64, size int) int {
	idx := int(math.Round(v))
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}
