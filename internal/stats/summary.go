// Package stats contains descriptive aggregates and report rendering.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

// Summary holds overall counts over the combined dataset.
type Summary struct {
	Participants   int
	Rows           int
	WordRows       int
	PseudowordRows int
	UnmatchedRows  int
}

// Distribution holds mean/min/max for one numeric stimulus column.
type Distribution struct {
	Mean float64
	Min  float64
	Max  float64
}

// TypeSummary aggregates the annotated stimulus table for one word type.
type TypeSummary struct {
	WordType      model.WordType
	Items         int
	Complex       int
	Simple        int
	MorphemeCount Distribution
	Length        Distribution
	Zipf          Distribution
}

// Summarize computes overall counts over the combined dataset. Read-only.
func Summarize(records []model.CombinedRecord) Summary {
	participants := make(map[string]struct{})
	summary := Summary{Rows: len(records)}
	for _, rec := range records {
		participants[rec.ParticipantID] = struct{}{}
		switch {
		case rec.IsWordBinary == nil:
			summary.UnmatchedRows++
		case *rec.IsWordBinary == 1:
			summary.WordRows++
		default:
			summary.PseudowordRows++
		}
	}
	summary.Participants = len(participants)
	return summary
}

// SummarizeStimuli aggregates the annotated stimulus table by word type,
// real words first. Read-only.
func SummarizeStimuli(stimuli []model.StimulusEntry) []TypeSummary {
	byType := map[model.WordType][]model.StimulusEntry{}
	for _, s := range stimuli {
		byType[s.IsWord] = append(byType[s.IsWord], s)
	}

	var out []TypeSummary
	for _, wt := range []model.WordType{model.Word, model.Pseudoword} {
		group := byType[wt]
		if len(group) == 0 {
			continue
		}
		summary := TypeSummary{WordType: wt, Items: len(group)}
		morphs := make([]float64, 0, len(group))
		lengths := make([]float64, 0, len(group))
		zipfs := make([]float64, 0, len(group))
		for _, s := range group {
			if s.IsComplex == 1 {
				summary.Complex++
			} else {
				summary.Simple++
			}
			morphs = append(morphs, float64(s.MorphemeCount))
			lengths = append(lengths, float64(s.Length))
			zipfs = append(zipfs, s.ZipfFrequency)
		}
		summary.MorphemeCount = describe(morphs)
		summary.Length = describe(lengths)
		summary.Zipf = describe(zipfs)
		out = append(out, summary)
	}
	return out
}

func describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	return Distribution{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
}
