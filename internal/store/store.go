// Package store exports pipeline outputs to SQLite for downstream plotting.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/LauraLarens/Thesis-project/internal/mixedmodel"
	"github.com/LauraLarens/Thesis-project/internal/model"
	"github.com/LauraLarens/Thesis-project/internal/stats"
)

// Store wraps SQLite access for exported pipeline tables.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS combined_records (
			id INTEGER PRIMARY KEY,
			participant_id TEXT NOT NULL,
			spelling TEXT NOT NULL,
			rt REAL NOT NULL,
			length INTEGER,
			morpheme_count INTEGER,
			is_word TEXT,
			zipf_frequency REAL,
			is_word_binary INTEGER,
			is_complex INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS type_summaries (
			word_type TEXT PRIMARY KEY,
			items INTEGER NOT NULL,
			complex INTEGER NOT NULL,
			simple INTEGER NOT NULL,
			morph_mean REAL NOT NULL, morph_min REAL NOT NULL, morph_max REAL NOT NULL,
			length_mean REAL NOT NULL, length_min REAL NOT NULL, length_max REAL NOT NULL,
			zipf_mean REAL NOT NULL, zipf_min REAL NOT NULL, zipf_max REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS model_coefficients (
			model TEXT NOT NULL,
			term TEXT NOT NULL,
			estimate REAL NOT NULL,
			std_err REAL NOT NULL,
			t_value REAL NOT NULL,
			p_value REAL NOT NULL,
			PRIMARY KEY (model, term)
		);`,
		`CREATE TABLE IF NOT EXISTS model_intercepts (
			model TEXT NOT NULL,
			participant_id TEXT NOT NULL,
			estimate REAL NOT NULL,
			n INTEGER NOT NULL,
			PRIMARY KEY (model, participant_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_combined_participant ON combined_records(participant_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExportCombined stores the combined dataset, replacing any previous export.
func (s *Store) ExportCombined(ctx context.Context, records []model.CombinedRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM combined_records`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO combined_records (participant_id, spelling, rt, length, morpheme_count, is_word, zipf_frequency, is_word_binary, is_complex)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range records {
		if _, err = stmt.ExecContext(ctx,
			rec.ParticipantID, rec.Spelling, rec.ResponseTime,
			rec.Length, rec.MorphemeCount, wordTypeOrNil(rec.IsWord),
			rec.ZipfFrequency, rec.IsWordBinary, rec.IsComplex,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ExportTypeSummaries stores the per-word-type stimulus aggregates.
func (s *Store) ExportTypeSummaries(ctx context.Context, summaries []stats.TypeSummary) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, sum := range summaries {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO type_summaries
			 (word_type, items, complex, simple,
			  morph_mean, morph_min, morph_max,
			  length_mean, length_min, length_max,
			  zipf_mean, zipf_min, zipf_max)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(sum.WordType), sum.Items, sum.Complex, sum.Simple,
			sum.MorphemeCount.Mean, sum.MorphemeCount.Min, sum.MorphemeCount.Max,
			sum.Length.Mean, sum.Length.Min, sum.Length.Max,
			sum.Zipf.Mean, sum.Zipf.Min, sum.Zipf.Max,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ExportModel stores fixed-effect coefficients and random intercepts for a
// named fit.
func (s *Store) ExportModel(ctx context.Context, name string, m *mixedmodel.Model) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, c := range m.Coefficients {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO model_coefficients (model, term, estimate, std_err, t_value, p_value)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			name, c.Name, c.Estimate, c.StdErr, c.TValue, c.PValue,
		); err != nil {
			return err
		}
	}
	for _, ri := range m.RandomIntercepts {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO model_intercepts (model, participant_id, estimate, n)
			 VALUES (?, ?, ?, ?)`,
			name, ri.ParticipantID, ri.Estimate, ri.N,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountCombined returns the number of exported combined records.
func (s *Store) CountCombined(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM combined_records`).Scan(&count)
	return count, err
}

func wordTypeOrNil(wt *model.WordType) any {
	if wt == nil {
		return nil
	}
	return string(*wt)
}
