package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/LauraLarens/Thesis-project/internal/mixedmodel"
	"github.com/LauraLarens/Thesis-project/internal/model"
	"github.com/LauraLarens/Thesis-project/internal/stats"
)

func intPtr(v int) *int                      { return &v }
func floatPtr(v float64) *float64            { return &v }
func wtPtr(v model.WordType) *model.WordType { return &v }

func TestExportRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lexdec.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	records := []model.CombinedRecord{
		{
			ParticipantID: "P01", Spelling: "kat", ResponseTime: 455,
			Length: intPtr(3), MorphemeCount: intPtr(1), IsWord: wtPtr(model.Word),
			ZipfFrequency: floatPtr(5.2), IsWordBinary: intPtr(1), IsComplex: intPtr(0),
		},
		// Unmatched spelling: linguistic fields stored as NULLs.
		{ParticipantID: "P02", Spelling: "zzz", ResponseTime: 610},
	}
	if err := st.ExportCombined(ctx, records); err != nil {
		t.Fatalf("export combined: %v", err)
	}
	count, err := st.CountCombined(ctx)
	if err != nil {
		t.Fatalf("count combined: %v", err)
	}
	if count != len(records) {
		t.Fatalf("expected %d exported records, got %d", len(records), count)
	}

	// Re-export replaces, never appends.
	if err := st.ExportCombined(ctx, records); err != nil {
		t.Fatalf("re-export combined: %v", err)
	}
	count, err = st.CountCombined(ctx)
	if err != nil {
		t.Fatalf("count combined: %v", err)
	}
	if count != len(records) {
		t.Fatalf("expected replacement export, got %d records", count)
	}

	summaries := []stats.TypeSummary{
		{
			WordType: model.Word, Items: 2, Complex: 1, Simple: 1,
			MorphemeCount: stats.Distribution{Mean: 1.5, Min: 1, Max: 2},
			Length:        stats.Distribution{Mean: 6.5, Min: 3, Max: 10},
			Zipf:          stats.Distribution{Mean: 4.1, Min: 3.0, Max: 5.2},
		},
	}
	if err := st.ExportTypeSummaries(ctx, summaries); err != nil {
		t.Fatalf("export summaries: %v", err)
	}

	m := &mixedmodel.Model{
		Spec: mixedmodel.Spec{Predictors: []mixedmodel.Predictor{mixedmodel.ZipfFrequency}, Subset: mixedmodel.All},
		Coefficients: []mixedmodel.Coefficient{
			{Name: "(intercept)", Estimate: 501.2, StdErr: 10.4, TValue: 48.2, PValue: 0},
			{Name: "zipf_frequency", Estimate: -29.7, StdErr: 1.1, TValue: -27.0, PValue: 0},
		},
		RandomIntercepts: []mixedmodel.RandomIntercept{
			{ParticipantID: "P01", Estimate: -12.4, N: 40},
			{ParticipantID: "P02", Estimate: 12.4, N: 40},
		},
	}
	if err := st.ExportModel(ctx, "all", m); err != nil {
		t.Fatalf("export model: %v", err)
	}
}
