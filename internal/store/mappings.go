package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rgould/fieldkit/internal/domain"
)

// MappingStore maintains the field-level correspondence table between two
// users' schemas for one object-type pair.
type MappingStore interface {
	Get(ctx context.Context, sourceUserID, targetUserID, sourceObjectID, targetObjectID string) ([]domain.FieldMapping, error)
	Set(ctx context.Context, m domain.FieldMapping) error
	DeletePair(ctx context.Context, sourceUserID, targetUserID, sourceObjectID, targetObjectID string) error
	Status(ctx context.Context, sourceUserID, targetUserID, sourceObjectID, targetObjectID string) (*domain.MappingStatus, error)
}

// SQLiteMappingStore implements MappingStore using SQLite.
type SQLiteMappingStore struct {
	db *sql.DB
}

// NewSQLiteMappingStore creates a new SQLiteMappingStore.
func NewSQLiteMappingStore(db *sql.DB) *SQLiteMappingStore {
	return &SQLiteMappingStore{db: db}
}

// Get returns all mapping rows for one schema pair, ordered by target field
// for stable output. No rows means the pair is unconfigured.
func (s *SQLiteMappingStore) Get(ctx context.Context, sourceUserID, targetUserID, sourceObjectID, targetObjectID string) ([]domain.FieldMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_user_id, target_user_id, source_object_id, target_object_id,
		        source_field_api_name, target_field_api_name
		 FROM user_field_mappings
		 WHERE source_user_id = ? AND target_user_id = ?
		   AND source_object_id = ? AND target_object_id = ?
		 ORDER BY target_field_api_name`,
		sourceUserID, targetUserID, sourceObjectID, targetObjectID)
	if err != nil {
		return nil, fmt.Errorf("get mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []domain.FieldMapping
	for rows.Next() {
		var m domain.FieldMapping
		if err := rows.Scan(
			&m.SourceUserID, &m.TargetUserID, &m.SourceObjectID, &m.TargetObjectID,
			&m.SourceFieldAPIName, &m.TargetFieldAPIName,
		); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if mappings == nil {
		mappings = []domain.FieldMapping{}
	}
	return mappings, rows.Err()
}

// Set upserts one mapping row. The table is keyed by target field within a
// schema pair, so mapping a second source field to an already-mapped target
// field overwrites the earlier row (last write wins).
func (s *SQLiteMappingStore) Set(ctx context.Context, m domain.FieldMapping) error {
	if m.SourceFieldAPIName == "" || m.TargetFieldAPIName == "" {
		return fmt.Errorf("mapping needs both source and target field api names")
	}

	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_field_mappings (source_user_id, target_user_id,
		 source_object_id, target_object_id, source_field_api_name,
		 target_field_api_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_user_id, target_user_id, source_object_id,
		             target_object_id, target_field_api_name)
		 DO UPDATE SET source_field_api_name = excluded.source_field_api_name,
		               updated_at = excluded.updated_at`,
		m.SourceUserID, m.TargetUserID, m.SourceObjectID, m.TargetObjectID,
		m.SourceFieldAPIName, m.TargetFieldAPIName, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("set mapping: %w", err)
	}
	return nil
}

// DeletePair removes every mapping row of one schema pair, used when either
// user revokes sharing.
func (s *SQLiteMappingStore) DeletePair(ctx context.Context, sourceUserID, targetUserID, sourceObjectID, targetObjectID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_field_mappings
		 WHERE source_user_id = ? AND target_user_id = ?
		   AND source_object_id = ? AND target_object_id = ?`,
		sourceUserID, targetUserID, sourceObjectID, targetObjectID)
	if err != nil {
		return fmt.Errorf("delete mappings: %w", err)
	}
	return nil
}

// Status reports mapping completeness for one schema pair: mapped fields
// over total source fields, percent floored. Display only — transforms run
// on whatever mappings exist.
func (s *SQLiteMappingStore) Status(ctx context.Context, sourceUserID, targetUserID, sourceObjectID, targetObjectID string) (*domain.MappingStatus, error) {
	var mapped int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_field_mappings
		 WHERE source_user_id = ? AND target_user_id = ?
		   AND source_object_id = ? AND target_object_id = ?`,
		sourceUserID, targetUserID, sourceObjectID, targetObjectID,
	).Scan(&mapped)
	if err != nil {
		return nil, fmt.Errorf("count mappings: %w", err)
	}

	var total int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM object_fields WHERE object_type_id = ?`, sourceObjectID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count source fields: %w", err)
	}

	status := &domain.MappingStatus{
		MappedFieldCount:  mapped,
		TotalSourceFields: total,
	}
	if total > 0 {
		status.Percent = mapped * 100 / total
	}
	return status, nil
}
