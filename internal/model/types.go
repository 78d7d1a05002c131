// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
)

// WordType classifies a stimulus as a real word or a pseudoword.
type WordType string

const (
	// Word marks a real-word stimulus.
	Word WordType = "word"
	// Pseudoword marks a pronounceable non-word control stimulus.
	Pseudoword WordType = "pseudoword"
)

// ParseWordType parses the is_word column values used by the stimulus list.
func ParseWordType(value string) (WordType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "w", "word":
		return Word, nil
	case "p", "pw", "pseudo", "pseudoword":
		return Pseudoword, nil
	default:
		return "", fmt.Errorf("unknown is_word value %q", value)
	}
}

// StimulusEntry is one row of the stimulus list, enriched with frequency
// norms and derived annotations.
type StimulusEntry struct {
	Spelling      string
	Length        int
	MorphemeCount int
	IsWord        WordType
	// ZipfFrequency is set by norms.AttachFrequencies; unmatched spellings
	// receive the fallback floor, so it is never missing afterwards.
	ZipfFrequency float64
	// IsWordBinary and IsComplex are set by norms.Annotate.
	IsWordBinary int
	IsComplex    int
}

// NormEntry is one row of the lexical frequency norm table.
type NormEntry struct {
	Spelling      string
	ZipfFrequency float64
}

// ParticipantResponse is one valid trial from a participant file. The
// participant ID is synthetic, derived from file position rather than any
// identifier inside the file.
type ParticipantResponse struct {
	ParticipantID string
	Spelling      string
	ResponseTime  float64
}

// CombinedRecord joins a participant response with its stimulus annotation.
// Linguistic fields are nil when the spelling has no stimulus match.
type CombinedRecord struct {
	ParticipantID string
	Spelling      string
	ResponseTime  float64
	Length        *int
	MorphemeCount *int
	IsWord        *WordType
	ZipfFrequency *float64
	IsWordBinary  *int
	IsComplex     *int
}

// DataConfig locates the input tables for a pipeline run.
type DataConfig struct {
	StimulusPath   string
	NormsPath      string
	ParticipantDir string
	Workers        int
}
