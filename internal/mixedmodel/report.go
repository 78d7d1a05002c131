package mixedmodel

import (
	"fmt"
	"io"
	"strings"
)

// Formula renders the model formula in the conventional notation.
func (s Spec) Formula() string {
	terms := []string{"1"}
	for _, p := range s.Predictors {
		terms = append(terms, string(p))
	}
	return fmt.Sprintf("rt ~ %s + (1 | participant)", strings.Join(terms, " + "))
}

// Render prints the fitted model in a text summary.
func (m *Model) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Formula: %s\n", m.Spec.Formula()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Subset: %s  Rows: %d  Participants: %d\n", m.Spec.Subset, m.Rows, m.Groups); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Variance: intercept %.3f  residual %.3f  (REML %.3f)\n", m.InterceptVariance, m.ResidualVariance, m.REML); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-16s %12s %10s %8s %10s\n", "Term", "Estimate", "Std.Err", "t", "p"); err != nil {
		return err
	}
	for _, c := range m.Coefficients {
		if _, err := fmt.Fprintf(w, "%-16s %12.4f %10.4f %8.3f %10.4g\n", c.Name, c.Estimate, c.StdErr, c.TValue, c.PValue); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
