package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rgould/fieldkit/internal/domain"
)

// ShareStore defines operations for record shares and their per-field
// visibility rows.
type ShareStore interface {
	Create(ctx context.Context, share *domain.RecordShare) (*domain.RecordShare, error)
	Get(ctx context.Context, shareID string) (*domain.RecordShare, error)
	ListWith(ctx context.Context, userID string) ([]domain.RecordShare, error)
	Revoke(ctx context.Context, shareID string) error
}

// SQLiteShareStore implements ShareStore using SQLite.
type SQLiteShareStore struct {
	db *sql.DB
}

// NewSQLiteShareStore creates a new SQLiteShareStore.
func NewSQLiteShareStore(db *sql.DB) *SQLiteShareStore {
	return &SQLiteShareStore{db: db}
}

// Create grants a share of one record. The share and its field visibility
// rows are written in one transaction.
func (s *SQLiteShareStore) Create(ctx context.Context, share *domain.RecordShare) (*domain.RecordShare, error) {
	if share.PermissionLevel == "" {
		share.PermissionLevel = domain.PermissionRead
	}
	if share.PermissionLevel != domain.PermissionRead && share.PermissionLevel != domain.PermissionEdit {
		return nil, fmt.Errorf("permission %q: %w", share.PermissionLevel, ErrInvalidPermission)
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM object_records WHERE id = ?`, share.RecordID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", share.RecordID, ErrNotFound)
		}
		return nil, fmt.Errorf("find record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create share: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	ts := now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO record_shares (id, record_id, shared_by_user_id,
		 shared_with_user_id, permission_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, share.RecordID, share.SharedByUserID, share.SharedWithUserID,
		share.PermissionLevel, ts,
	); err != nil {
		return nil, fmt.Errorf("insert share: %w", err)
	}

	for _, f := range share.Fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_share_fields (share_id, field_api_name, is_visible)
			 VALUES (?, ?, ?)`,
			id, f.FieldAPIName, f.IsVisible,
		); err != nil {
			return nil, fmt.Errorf("insert share field %s: %w", f.FieldAPIName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create share: %w", err)
	}
	return s.Get(ctx, id)
}

// Get retrieves one share with its field visibility rows.
func (s *SQLiteShareStore) Get(ctx context.Context, shareID string) (*domain.RecordShare, error) {
	var share domain.RecordShare
	var recordID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, record_id, shared_by_user_id, shared_with_user_id,
		        permission_level, created_at
		 FROM record_shares WHERE id = ?`, shareID,
	).Scan(&share.ID, &recordID, &share.SharedByUserID, &share.SharedWithUserID,
		&share.PermissionLevel, &share.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("share %s: %w", shareID, ErrNotFound)
		}
		return nil, fmt.Errorf("get share: %w", err)
	}
	share.RecordID = fmt.Sprintf("%d", recordID)

	fields, err := s.shareFields(ctx, shareID)
	if err != nil {
		return nil, err
	}
	share.Fields = fields
	return &share, nil
}

func (s *SQLiteShareStore) shareFields(ctx context.Context, shareID string) ([]domain.RecordShareField, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT field_api_name, is_visible FROM record_share_fields
		 WHERE share_id = ? ORDER BY field_api_name`, shareID)
	if err != nil {
		return nil, fmt.Errorf("get share fields: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fields []domain.RecordShareField
	for rows.Next() {
		var f domain.RecordShareField
		if err := rows.Scan(&f.FieldAPIName, &f.IsVisible); err != nil {
			return nil, fmt.Errorf("scan share field: %w", err)
		}
		fields = append(fields, f)
	}
	if fields == nil {
		fields = []domain.RecordShareField{}
	}
	return fields, rows.Err()
}

// ListWith returns all shares granted to one user.
func (s *SQLiteShareStore) ListWith(ctx context.Context, userID string) ([]domain.RecordShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM record_shares WHERE shared_with_user_id = ? ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan share id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shares := make([]domain.RecordShare, 0, len(ids))
	for _, id := range ids {
		share, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *share)
	}
	return shares, nil
}

// Revoke deletes a share, its field rows, and the sharing pair's field
// mappings for the record's object type.
func (s *SQLiteShareStore) Revoke(ctx context.Context, shareID string) error {
	share, err := s.Get(ctx, shareID)
	if err != nil {
		return err
	}

	var typeID string
	if err := s.db.QueryRowContext(ctx,
		`SELECT object_type_id FROM object_records WHERE id = ?`, share.RecordID,
	).Scan(&typeID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find shared record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin revoke share: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM record_share_fields WHERE share_id = ?`, shareID); err != nil {
		return fmt.Errorf("delete share fields: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM record_shares WHERE id = ?`, shareID); err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	if typeID != "" {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_field_mappings
			 WHERE source_user_id = ? AND target_user_id = ? AND source_object_id = ?`,
			share.SharedByUserID, share.SharedWithUserID, typeID); err != nil {
			return fmt.Errorf("delete pair mappings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit revoke share: %w", err)
	}
	return nil
}
