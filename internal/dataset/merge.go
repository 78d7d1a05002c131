// Package dataset reads tabular source files and merges the pipeline tables.
package dataset

import "github.com/LauraLarens/Thesis-project/internal/model"

// Merge left-joins participant responses against the annotated stimulus table
// on spelling. Every response row is preserved in input order; responses
// without a stimulus match keep nil linguistic fields. A spelling with
// multiple stimulus rows yields one output row per match.
func Merge(responses []model.ParticipantResponse, stimuli []model.StimulusEntry) []model.CombinedRecord {
	bySpelling := make(map[string][]model.StimulusEntry, len(stimuli))
	for _, s := range stimuli {
		bySpelling[s.Spelling] = append(bySpelling[s.Spelling], s)
	}

	out := make([]model.CombinedRecord, 0, len(responses))
	for _, resp := range responses {
		matches := bySpelling[resp.Spelling]
		if len(matches) == 0 {
			out = append(out, model.CombinedRecord{
				ParticipantID: resp.ParticipantID,
				Spelling:      resp.Spelling,
				ResponseTime:  resp.ResponseTime,
			})
			continue
		}
		for _, s := range matches {
			s := s
			out = append(out, model.CombinedRecord{
				ParticipantID: resp.ParticipantID,
				Spelling:      resp.Spelling,
				ResponseTime:  resp.ResponseTime,
				Length:        &s.Length,
				MorphemeCount: &s.MorphemeCount,
				IsWord:        &s.IsWord,
				ZipfFrequency: &s.ZipfFrequency,
				IsWordBinary:  &s.IsWordBinary,
				IsComplex:     &s.IsComplex,
			})
		}
	}
	return out
}
