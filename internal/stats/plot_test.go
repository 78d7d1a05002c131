package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogram(t *testing.T) {
	var buf bytes.Buffer
	values := []float64{-3, -1, -1, 0, 0, 0, 1, 1, 3}
	if err := Histogram(&buf, "Residuals", values, 4, 60); err != nil {
		t.Fatalf("histogram: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Residuals") {
		t.Fatalf("expected title in output:\n%s", out)
	}
	if !strings.Contains(out, "#") {
		t.Fatalf("expected bars in output:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Title plus one line per bin.
	if len(lines) != 1+4 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
}

func TestQQPlot(t *testing.T) {
	var buf bytes.Buffer
	values := make([]float64, 50)
	for i := range values {
		v := float64(i%10) - 4.5
		values[i] = v * v * signOf(i)
	}
	if err := QQPlot(&buf, "Normal Q-Q", values, 70, 10); err != nil {
		t.Fatalf("qq plot: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Normal Q-Q") {
		t.Fatalf("expected title in output:\n%s", out)
	}
	if !strings.Contains(out, "x") {
		t.Fatalf("expected plotted points in output:\n%s", out)
	}
	if !strings.Contains(out, "theoretical quantiles") {
		t.Fatalf("expected axis note in output:\n%s", out)
	}
}

func TestQQPlotSkipsTinySamples(t *testing.T) {
	var buf bytes.Buffer
	if err := QQPlot(&buf, "Normal Q-Q", []float64{1, 2}, 70, 10); err != nil {
		t.Fatalf("qq plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for fewer than 3 residuals")
	}
}

func TestRandomInterceptPlot(t *testing.T) {
	var buf bytes.Buffer
	labels := []string{"P01", "P02", "P03"}
	values := []float64{-24.1, 3.5, 20.6}
	if err := RandomInterceptPlot(&buf, "Random Intercepts", labels, values, 70); err != nil {
		t.Fatalf("intercept plot: %v", err)
	}
	out := buf.String()
	for _, label := range labels {
		if !strings.Contains(out, label) {
			t.Fatalf("expected label %q in output:\n%s", label, out)
		}
	}
	if strings.Count(out, "*") != len(labels) {
		t.Fatalf("expected one marker per participant:\n%s", out)
	}
}

func signOf(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}
