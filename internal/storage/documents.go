package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/model"
)

// Status is the outcome recorded for a document.
type Status string

// Document statuses.
const (
	StatusClassified   Status = "classified"
	StatusUnclassified Status = "unclassified"
	StatusFailed       Status = "failed"
)

// ParseStatus accepts a status name as typed on the command line.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if err := validateStatus(status); err != nil {
		return "", err
	}
	return status, nil
}

const dayLayout = "2006-01-02"

// Record is one ledger row.
type Record struct {
	ProcessedAt    time.Time
	PeriodStart    time.Time
	PeriodEnd      *time.Time
	Path           string
	Hash           string
	Status         Status
	Bank           model.Bank
	Classification model.DocType
	Entity         string
	ExtraInfo      string
	FileName       string
	Error          string
}

// NewRecord builds the ledger row for one classification outcome.
func NewRecord(path, hash string, md model.DocumentMetadata, fileName string, err error) Record {
	if md.Bank == "" {
		md = model.Unclassified()
	}
	rec := Record{
		Path:           path,
		Hash:           hash,
		PeriodStart:    md.PeriodStart,
		PeriodEnd:      md.PeriodEnd,
		Bank:           md.Bank,
		Classification: md.Classification,
		Entity:         md.Entity,
		ExtraInfo:      md.ExtraInfo,
		FileName:       fileName,
	}
	switch {
	case err != nil:
		rec.Status = StatusFailed
		rec.Error = err.Error()
		rec.FileName = ""
	case md.IsUnclassified():
		rec.Status = StatusUnclassified
		rec.FileName = ""
	default:
		rec.Status = StatusClassified
	}
	return rec
}

// Metadata returns the classification stored in the record.
func (r Record) Metadata() model.DocumentMetadata {
	return model.DocumentMetadata{
		PeriodStart:    r.PeriodStart,
		PeriodEnd:      r.PeriodEnd,
		Bank:           r.Bank,
		Classification: r.Classification,
		Entity:         r.Entity,
		ExtraInfo:      r.ExtraInfo,
	}
}

// ListFilter narrows ListRecords. Zero fields match everything.
type ListFilter struct {
	Status Status
	Bank   model.Bank
	Limit  int
}

// SaveRecord inserts or replaces the record for rec.Path.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, rec *Record) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(rec); err != nil {
		return err
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}

	var end sql.NullString
	if rec.PeriodEnd != nil {
		end = sql.NullString{String: rec.PeriodEnd.Format(dayLayout), Valid: true}
	}

	return common.WithRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO documents (
				path, hash, status, bank, classification, period_start, period_end,
				entity, extra_info, file_name, error, processed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				hash = excluded.hash,
				status = excluded.status,
				bank = excluded.bank,
				classification = excluded.classification,
				period_start = excluded.period_start,
				period_end = excluded.period_end,
				entity = excluded.entity,
				extra_info = excluded.extra_info,
				file_name = excluded.file_name,
				error = excluded.error,
				processed_at = excluded.processed_at
		`, rec.Path, rec.Hash, string(rec.Status), string(rec.Bank), string(rec.Classification),
			rec.PeriodStart.Format(dayLayout), end,
			rec.Entity, rec.ExtraInfo, rec.FileName, rec.Error, rec.ProcessedAt)
		if err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
		return nil
	}, common.DefaultRetryOptions())
}

// GetRecordByHash returns the most recently processed record with the given
// content hash.
func (s *SQLiteStorage) GetRecordByHash(ctx context.Context, hash string) (*Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(hash, "hash"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, selectRecords+`
		WHERE hash = ?
		ORDER BY processed_at DESC, path
		LIMIT 1
	`, hash)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record with hash %s: %w", hash, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecord returns the record stored for path.
func (s *SQLiteStorage) GetRecord(ctx context.Context, path string) (*Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecords+` WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", path, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns matching records, newest first.
func (s *SQLiteStorage) ListRecords(ctx context.Context, filter ListFilter) ([]Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		if err := validateStatus(filter.Status); err != nil {
			return nil, err
		}
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Bank != "" {
		where = append(where, "bank = ?")
		args = append(args, string(filter.Bank))
	}

	query := selectRecords
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY processed_at DESC, path"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

const selectRecords = `
	SELECT path, hash, status, bank, classification, period_start, period_end,
		entity, extra_info, file_name, error, processed_at
	FROM documents`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec         Record
		start       string
		end         sql.NullString
		status      string
		bank, class string
	)
	err := row.Scan(
		&rec.Path,
		&rec.Hash,
		&status,
		&bank,
		&class,
		&start,
		&end,
		&rec.Entity,
		&rec.ExtraInfo,
		&rec.FileName,
		&rec.Error,
		&rec.ProcessedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.Status = Status(status)
	rec.Bank = model.Bank(bank)
	rec.Classification = model.DocType(class)

	if rec.PeriodStart, err = time.Parse(dayLayout, start); err != nil {
		return nil, fmt.Errorf("%w: period start %q", common.ErrDatabaseCorrupted, start)
	}
	if end.Valid {
		t, err := time.Parse(dayLayout, end.String)
		if err != nil {
			return nil, fmt.Errorf("%w: period end %q", common.ErrDatabaseCorrupted, end.String)
		}
		rec.PeriodEnd = &t
	}
	return &rec, nil
}
