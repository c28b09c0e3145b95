package database

import (
	"database/sql"
	"fmt"
	"time"
)

type RunRepositoryImpl struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepositoryImpl {
	return &RunRepositoryImpl{db: db}
}

// CreateRun persists an immutable run record and returns its ID.
func (r *RunRepositoryImpl) CreateRun(run Run) (int64, error) {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRow(`
		INSERT INTO runs (
			filename, template_name, language, validity_date,
			products_count, requested_items, html_path, pdf_path,
			output_dir, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, run.Filename, run.TemplateName, run.Language, nullString(run.ValidityDate),
		run.ProductsCount, run.RequestedItems, run.HTMLPath, nullString(run.PDFPath),
		run.OutputDir, createdAt).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	return id, nil
}

// GetRun retrieves a run by ID, or nil when absent.
func (r *RunRepositoryImpl) GetRun(id int64) (*Run, error) {
	var run Run
	var validityDate, pdfPath sql.NullString

	err := r.db.QueryRow(`
		SELECT id, filename, template_name, language, validity_date,
		       products_count, requested_items, html_path, pdf_path,
		       output_dir, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID, &run.Filename, &run.TemplateName, &run.Language, &validityDate,
		&run.ProductsCount, &run.RequestedItems, &run.HTMLPath, &pdfPath,
		&run.OutputDir, &run.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}

	run.ValidityDate = validityDate.String
	run.PDFPath = pdfPath.String

	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepositoryImpl) ListRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, filename, template_name, language, validity_date,
		       products_count, requested_items, html_path, pdf_path,
		       output_dir, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var validityDate, pdfPath sql.NullString

		err := rows.Scan(
			&run.ID, &run.Filename, &run.TemplateName, &run.Language, &validityDate,
			&run.ProductsCount, &run.RequestedItems, &run.HTMLPath, &pdfPath,
			&run.OutputDir, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		run.ValidityDate = validityDate.String
		run.PDFPath = pdfPath.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

func (r *RunRepositoryImpl) GetRunCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get run count: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
