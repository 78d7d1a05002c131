// Package norms loads the stimulus list and lexical frequency norms and
// derives stimulus annotations.
package norms

import (
	"fmt"

	"github.com/LauraLarens/Thesis-project/internal/dataset"
	"github.com/LauraLarens/Thesis-project/internal/model"
)

// FallbackZipf is the conventional Zipf-scale floor assigned to items absent
// from the frequency norms (zero-frequency items, including pseudowords).
const FallbackZipf = 1.3555

// LoadStimuli reads the stimulus list. Required columns: spelling, length,
// morph (or morpheme_count), is_word.
func LoadStimuli(path string) ([]model.StimulusEntry, error) {
	table, err := dataset.ReadFile(path, "stimuli")
	if err != nil {
		return nil, err
	}
	if err := table.Require("spelling", "length", "is_word"); err != nil {
		return nil, err
	}
	morphCol := "morph"
	if !table.HasColumn(morphCol) {
		morphCol = "morpheme_count"
	}
	if err := table.Require(morphCol); err != nil {
		return nil, err
	}

	stimuli := make([]model.StimulusEntry, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		spelling, ok := table.String(i, "spelling")
		if !ok {
			return nil, fmt.Errorf("stimuli row %d: spelling is null", i+1)
		}
		length, ok, err := table.Int(i, "length")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("stimuli row %d: length is null", i+1)
		}
		morph, ok, err := table.Int(i, morphCol)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("stimuli row %d: %s is null", i+1, morphCol)
		}
		rawType, ok := table.String(i, "is_word")
		if !ok {
			return nil, fmt.Errorf("stimuli row %d: is_word is null", i+1)
		}
		wordType, err := model.ParseWordType(rawType)
		if err != nil {
			return nil, fmt.Errorf("stimuli row %d: %w", i+1, err)
		}
		stimuli = append(stimuli, model.StimulusEntry{
			Spelling:      spelling,
			Length:        length,
			MorphemeCount: morph,
			IsWord:        wordType,
		})
	}
	return stimuli, nil
}

// LoadNorms reads the frequency norm table. Required columns: Word, Zipf.
// Rows with a null frequency are skipped; the join fallback covers them.
func LoadNorms(path string) ([]model.NormEntry, error) {
	table, err := dataset.ReadFile(path, "norms")
	if err != nil {
		return nil, err
	}
	if err := table.Require("Word", "Zipf"); err != nil {
		return nil, err
	}

	norms := make([]model.NormEntry, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		word, ok := table.String(i, "Word")
		if !ok {
			continue
		}
		zipf, ok, err := table.Float(i, "Zipf")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		norms = append(norms, model.NormEntry{Spelling: word, ZipfFrequency: zipf})
	}
	return norms, nil
}

// AttachFrequencies left-joins the stimulus list against the norms on
// spelling (exact match) and coalesces missing frequencies to FallbackZipf.
// Afterwards every entry carries a Zipf frequency. Pure transform.
func AttachFrequencies(stimuli []model.StimulusEntry, norms []model.NormEntry) []model.StimulusEntry {
	zipfBySpelling := make(map[string]float64, len(norms))
	for _, n := range norms {
		if _, ok := zipfBySpelling[n.Spelling]; ok {
			continue
		}
		zipfBySpelling[n.Spelling] = n.ZipfFrequency
	}

	out := make([]model.StimulusEntry, len(stimuli))
	for i, s := range stimuli {
		if zipf, ok := zipfBySpelling[s.Spelling]; ok {
			s.ZipfFrequency = zipf
		} else {
			s.ZipfFrequency = FallbackZipf
		}
		out[i] = s
	}
	return out
}
