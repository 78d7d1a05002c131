// Package mixedmodel fits linear mixed-effects models of response time with
// per-participant random intercepts.
package mixedmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

// Predictor names a fixed-effect column drawn from the combined dataset.
type Predictor string

const (
	// ZipfFrequency uses the Zipf-scale lexical frequency.
	ZipfFrequency Predictor = "zipf_frequency"
	// Length uses the stimulus letter count.
	Length Predictor = "length"
	// IsWordBinary uses the word/pseudoword indicator.
	IsWordBinary Predictor = "is_word_binary"
	// IsComplex uses the morphological complexity indicator.
	IsComplex Predictor = "is_complex"
)

// ParsePredictor parses a predictor name as given on the command line.
func ParsePredictor(value string) (Predictor, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "zipf", "zipf_frequency", "frequency":
		return ZipfFrequency, nil
	case "length":
		return Length, nil
	case "is_word", "is_word_binary", "wordness":
		return IsWordBinary, nil
	case "is_complex", "complexity":
		return IsComplex, nil
	default:
		return "", fmt.Errorf("unknown predictor %q", value)
	}
}

// Subset selects which combined records enter a fit.
type Subset string

const (
	// All fits over every record.
	All Subset = "all"
	// WordsOnly fits over real-word trials.
	WordsOnly Subset = "words"
	// PseudowordsOnly fits over pseudoword trials.
	PseudowordsOnly Subset = "pseudowords"
)

// ParseSubset parses a subset name as given on the command line.
func ParseSubset(value string) (Subset, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return All, nil
	case "words", "word":
		return WordsOnly, nil
	case "pseudowords", "pseudoword", "pseudo":
		return PseudowordsOnly, nil
	default:
		return "", fmt.Errorf("unknown subset %q", value)
	}
}

// Spec configures one model fit: the fixed-effect predictors and the record
// subset. The random-intercept grouping is always the participant.
type Spec struct {
	Predictors []Predictor
	Subset     Subset
}

// design holds the complete-case rows prepared for fitting. Column 0 of x is
// the intercept.
type design struct {
	y        []float64
	x        [][]float64
	group    []int
	groupIDs []string
	p        int
}

func inSubset(rec model.CombinedRecord, subset Subset) bool {
	switch subset {
	case WordsOnly:
		return rec.IsWordBinary != nil && *rec.IsWordBinary == 1
	case PseudowordsOnly:
		return rec.IsWordBinary != nil && *rec.IsWordBinary == 0
	default:
		return true
	}
}

func predictorValue(rec model.CombinedRecord, p Predictor) (float64, bool) {
	switch p {
	case ZipfFrequency:
		if rec.ZipfFrequency == nil {
			return 0, false
		}
		return *rec.ZipfFrequency, true
	case Length:
		if rec.Length == nil {
			return 0, false
		}
		return float64(*rec.Length), true
	case IsWordBinary:
		if rec.IsWordBinary == nil {
			return 0, false
		}
		return float64(*rec.IsWordBinary), true
	case IsComplex:
		if rec.IsComplex == nil {
			return 0, false
		}
		return float64(*rec.IsComplex), true
	default:
		return 0, false
	}
}

// buildDesign filters to the requested subset, drops rows missing any
// requested predictor (complete-case analysis), and assembles the design
// matrix with participants indexed in sorted ID order.
func buildDesign(records []model.CombinedRecord, spec Spec) (*design, error) {
	p := len(spec.Predictors) + 1
	d := &design{p: p}

	var rows []designRow
	wordTypes := map[int]struct{}{}
	for _, rec := range records {
		if !inSubset(rec, spec.Subset) {
			continue
		}
		x := make([]float64, p)
		x[0] = 1
		complete := true
		for i, pred := range spec.Predictors {
			v, ok := predictorValue(rec, pred)
			if !ok {
				complete = false
				break
			}
			x[i+1] = v
		}
		if !complete {
			continue
		}
		if rec.IsWordBinary != nil {
			wordTypes[*rec.IsWordBinary] = struct{}{}
		}
		rows = append(rows, designRow{y: rec.ResponseTime, x: x, group: rec.ParticipantID})
	}

	if len(wordTypes) < 2 && hasBoth(spec.Predictors, ZipfFrequency, IsWordBinary) {
		return nil, fmt.Errorf("predictors %s and %s are collinear when the subset contains a single word type", ZipfFrequency, IsWordBinary)
	}
	for i, pred := range spec.Predictors {
		if isConstantColumn(rows, i+1) {
			return nil, fmt.Errorf("predictor %s is constant in the selected subset", pred)
		}
	}

	groupSet := map[string]struct{}{}
	for _, r := range rows {
		groupSet[r.group] = struct{}{}
	}
	d.groupIDs = make([]string, 0, len(groupSet))
	for id := range groupSet {
		d.groupIDs = append(d.groupIDs, id)
	}
	sort.Strings(d.groupIDs)
	groupIndex := make(map[string]int, len(d.groupIDs))
	for i, id := range d.groupIDs {
		groupIndex[id] = i
	}

	d.y = make([]float64, len(rows))
	d.x = make([][]float64, len(rows))
	d.group = make([]int, len(rows))
	for i, r := range rows {
		d.y[i] = r.y
		d.x[i] = r.x
		d.group[i] = groupIndex[r.group]
	}
	return d, nil
}

func hasBoth(predictors []Predictor, a, b Predictor) bool {
	var hasA, hasB bool
	for _, p := range predictors {
		if p == a {
			hasA = true
		}
		if p == b {
			hasB = true
		}
	}
	return hasA && hasB
}

type designRow struct {
	y     float64
	x     []float64
	group string
}

func isConstantColumn(rows []designRow, col int) bool {
	if len(rows) < 2 {
		return false
	}
	first := rows[0].x[col]
	for _, r := range rows[1:] {
		if r.x[col] != first {
			return false
		}
	}
	return true
}
