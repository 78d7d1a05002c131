package norms

import "github.com/LauraLarens/Thesis-project/internal/model"

// Annotate derives the binary classification fields: IsWordBinary is 1 for
// real words, IsComplex is 1 for morpheme counts above one. Counts of zero or
// below are treated as morphologically simple. Pure, total transform.
func Annotate(stimuli []model.StimulusEntry) []model.StimulusEntry {
	out := make([]model.StimulusEntry, len(stimuli))
	for i, s := range stimuli {
		if s.IsWord == model.Word {
			s.IsWordBinary = 1
		} else {
			s.IsWordBinary = 0
		}
		if s.MorphemeCount > 1 {
			s.IsComplex = 1
		} else {
			s.IsComplex = 0
		}
		out[i] = s
	}
	return out
}
