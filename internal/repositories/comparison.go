package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/shared"
)

// ComparisonRepository persists the local comparison log.
type ComparisonRepository struct {
	db *sql.DB
}

// NewComparisonRepository creates a new [ComparisonRepository] with the given database connection
func NewComparisonRepository(db *sql.DB) *ComparisonRepository {
	return &ComparisonRepository{db: db}
}

// Create inserts entry, assigning an ID and creation time when unset.
func (r *ComparisonRepository) Create(entry *models.ComparisonLog) error {
	if entry.Destination1 == "" || entry.Destination2 == "" {
		return fmt.Errorf("%w: both destinations are required", shared.ErrInvalidInput)
	}
	if entry.ID == "" {
		entry.ID = shared.GenerateID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO comparisons (id, destination1, destination2, winner, failed, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, entry.ID, entry.Destination1, entry.Destination2, entry.Winner, entry.Failed, entry.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: duplicate comparison id %s", shared.ErrInvalidInput, entry.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert comparison: %w", err)
	}
	return nil
}

// RecordComparison appends a log entry; it is the hook the compare flow calls after each run.
func (r *ComparisonRepository) RecordComparison(entry models.ComparisonLog) error {
	return r.Create(&entry)
}

// Get retrieves one entry by ID.
func (r *ComparisonRepository) Get(id string) (*models.ComparisonLog, error) {
	query := `
		SELECT id, destination1, destination2, winner, failed, created_at
		FROM comparisons
		WHERE id = ?
	`
	entry, err := scanComparison(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit returns everything.
func (r *ComparisonRepository) Recent(limit int) ([]*models.ComparisonLog, error) {
	query := `
		SELECT id, destination1, destination2, winner, failed, created_at
		FROM comparisons
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var entries []*models.ComparisonLog
	for rows.Next() {
		entry, err := scanComparison(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparisons: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (r *ComparisonRepository) Clear() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM comparisons`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear comparisons: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComparison(s scanner) (*models.ComparisonLog, error) {
	var entry models.ComparisonLog
	if err := s.Scan(&entry.ID, &entry.Destination1, &entry.Destination2, &entry.Winner, &entry.Failed, &entry.CreatedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}
