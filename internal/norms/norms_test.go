package norms

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadStimuli(t *testing.T) {
	path := writeFixture(t, "stimuli.csv", "spelling,length,morph,is_word\nkat,3,1,W\nzorp,4,1,P\n")
	stimuli, err := LoadStimuli(path)
	if err != nil {
		t.Fatalf("load stimuli: %v", err)
	}
	if len(stimuli) != 2 {
		t.Fatalf("expected 2 stimuli, got %d", len(stimuli))
	}
	if stimuli[0].IsWord != model.Word || stimuli[1].IsWord != model.Pseudoword {
		t.Fatalf("unexpected word types: %+v", stimuli)
	}
	if stimuli[0].Length != 3 || stimuli[0].MorphemeCount != 1 {
		t.Fatalf("unexpected first stimulus: %+v", stimuli[0])
	}
}

func TestLoadStimuliMissingColumn(t *testing.T) {
	path := writeFixture(t, "stimuli.csv", "spelling,length,morph\nkat,3,1\n")
	_, err := LoadStimuli(path)
	var missing *model.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "is_word" {
		t.Fatalf("unexpected column: %q", missing.Column)
	}
}

func TestLoadNormsSkipsNullFrequencies(t *testing.T) {
	path := writeFixture(t, "norms.csv", "Word,Zipf\nkat,5.2\nhond,NA\n")
	norms, err := LoadNorms(path)
	if err != nil {
		t.Fatalf("load norms: %v", err)
	}
	if len(norms) != 1 || norms[0].Spelling != "kat" || norms[0].ZipfFrequency != 5.2 {
		t.Fatalf("unexpected norms: %+v", norms)
	}
}

func TestAttachFrequenciesCoalesces(t *testing.T) {
	stimuli := []model.StimulusEntry{
		{Spelling: "kat", Length: 3, MorphemeCount: 1, IsWord: model.Word},
		{Spelling: "zorp", Length: 4, MorphemeCount: 1, IsWord: model.Pseudoword},
	}
	norms := []model.NormEntry{{Spelling: "kat", ZipfFrequency: 5.2}}

	out := AttachFrequencies(stimuli, norms)
	if out[0].ZipfFrequency != 5.2 {
		t.Fatalf("expected matched zipf 5.2, got %v", out[0].ZipfFrequency)
	}
	if out[1].ZipfFrequency != FallbackZipf {
		t.Fatalf("expected fallback %v for unmatched item, got %v", FallbackZipf, out[1].ZipfFrequency)
	}
	// Inputs stay untouched.
	if stimuli[0].ZipfFrequency != 0 {
		t.Fatalf("AttachFrequencies must not mutate its input")
	}
}

func TestAttachFrequenciesNeverLeavesZipfUnset(t *testing.T) {
	stimuli := []model.StimulusEntry{
		{Spelling: "a", IsWord: model.Word, MorphemeCount: 1},
		{Spelling: "b", IsWord: model.Pseudoword, MorphemeCount: 1},
		{Spelling: "c", IsWord: model.Word, MorphemeCount: 2},
	}
	out := AttachFrequencies(stimuli, nil)
	for _, s := range out {
		if s.ZipfFrequency == 0 {
			t.Fatalf("zipf frequency unset for %q", s.Spelling)
		}
	}
}

func TestAnnotate(t *testing.T) {
	stimuli := []model.StimulusEntry{
		{Spelling: "kat", MorphemeCount: 1, IsWord: model.Word},
		{Spelling: "boekenkast", MorphemeCount: 2, IsWord: model.Word},
		{Spelling: "zorp", MorphemeCount: 1, IsWord: model.Pseudoword},
		{Spelling: "odd", MorphemeCount: 0, IsWord: model.Word},
	}
	out := Annotate(stimuli)
	for _, s := range out {
		if s.IsWordBinary != 0 && s.IsWordBinary != 1 {
			t.Fatalf("is_word_binary out of range: %+v", s)
		}
		if s.IsComplex != 0 && s.IsComplex != 1 {
			t.Fatalf("is_complex out of range: %+v", s)
		}
		wantWord := 0
		if s.IsWord == model.Word {
			wantWord = 1
		}
		if s.IsWordBinary != wantWord {
			t.Fatalf("is_word_binary mismatch: %+v", s)
		}
		wantComplex := 0
		if s.MorphemeCount > 1 {
			wantComplex = 1
		}
		if s.IsComplex != wantComplex {
			t.Fatalf("is_complex mismatch: %+v", s)
		}
	}
	// A non-positive morpheme count counts as simple, not as an error.
	if out[3].IsComplex != 0 {
		t.Fatalf("expected morpheme count 0 to be simple")
	}
}

func TestParseWordType(t *testing.T) {
	cases := []struct {
		in   string
		want model.WordType
	}{
		{"W", model.Word},
		{"word", model.Word},
		{"P", model.Pseudoword},
		{"pseudoword", model.Pseudoword},
	}
	for _, tc := range cases {
		got, err := model.ParseWordType(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseWordType(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := model.ParseWordType("x"); err == nil {
		t.Fatalf("expected error for unknown word type")
	}
}
