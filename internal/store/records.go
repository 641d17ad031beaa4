package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/events"
)

// RecordStore defines the generic record/value persistence. Records carry no
// typed columns; every populated field is one value row keyed by the field's
// API name. Absence of a row means "unset", distinct from an empty string.
type RecordStore interface {
	Create(ctx context.Context, objectType string, values map[string]string) (*domain.ObjectRecord, error)
	Get(ctx context.Context, recordID string) (*domain.ObjectRecord, error)
	GetValues(ctx context.Context, recordID string) (map[string]string, error)
	SetValues(ctx context.Context, recordID string, values map[string]string) error
	List(ctx context.Context, objectType string, opts domain.ListOpts) (*domain.RecordPage, error)
	Delete(ctx context.Context, recordID string) error
	ResolveDisplayValues(ctx context.Context, objectType string, ids []string) (map[string]string, error)
}

// SQLiteRecordStore implements RecordStore backed by SQLite.
type SQLiteRecordStore struct {
	db  *sql.DB
	bus *events.Bus
}

// NewSQLiteRecordStore creates a new SQLiteRecordStore.
func NewSQLiteRecordStore(db *sql.DB, bus *events.Bus) *SQLiteRecordStore {
	return &SQLiteRecordStore{db: db, bus: bus}
}

func (s *SQLiteRecordStore) recordsChanged(typeID string) {
	if s.bus != nil {
		s.bus.PublishRecords(events.RecordsChanged{ObjectTypeID: typeID})
	}
}

// fieldNames returns the set of API names defined on an object type,
// queried inside the given transaction so a write validates against the
// same snapshot it writes into.
func fieldNames(ctx context.Context, tx *sql.Tx, typeID string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT api_name FROM object_fields WHERE object_type_id = ?`, typeID)
	if err != nil {
		return nil, fmt.Errorf("load field names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan field name: %w", err)
		}
		names[name] = true
	}
	return names, rows.Err()
}

// writeValues validates and upserts all values inside tx. Any unknown field
// fails the whole batch before a single row is touched.
func writeValues(ctx context.Context, tx *sql.Tx, recordID int64, typeID string, values map[string]string, ts string) error {
	if len(values) == 0 {
		return nil
	}

	known, err := fieldNames(ctx, tx, typeID)
	if err != nil {
		return err
	}
	for name := range values {
		if !known[name] {
			return fmt.Errorf("field %q on type %s: %w", name, typeID, ErrUnknownField)
		}
	}

	for name, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO object_field_values (record_id, field_api_name, value, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(record_id, field_api_name) DO UPDATE
			 SET value = excluded.value, updated_at = excluded.updated_at`,
			recordID, name, value, ts,
		)
		if err != nil {
			return fmt.Errorf("set value %s: %w", name, err)
		}
	}
	return nil
}

// Create inserts a new record with the given values. An empty value mapping
// is valid; such records exist with zero populated fields.
func (s *SQLiteRecordStore) Create(ctx context.Context, objectType string, values map[string]string) (*domain.ObjectRecord, error) {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO object_records (object_type_id, created_at, updated_at) VALUES (?, ?, ?)`,
		typeID, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := writeValues(ctx, tx, id, typeID, values, ts); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create record: %w", err)
	}

	s.recordsChanged(typeID)
	return s.Get(ctx, strconv.FormatInt(id, 10))
}

// Get retrieves a record with all its values.
func (s *SQLiteRecordStore) Get(ctx context.Context, recordID string) (*domain.ObjectRecord, error) {
	var rec domain.ObjectRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, object_type_id, owner_id, created_at, updated_at
		 FROM object_records WHERE id = ?`, recordID,
	).Scan(&rec.ID, &rec.ObjectTypeID, &rec.OwnerID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", recordID, ErrNotFound)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	rec.ID = recordID

	rec.Values, err = s.GetValues(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetValues returns the populated field values of a record keyed by API
// name. Unset fields have no entry.
func (s *SQLiteRecordStore) GetValues(ctx context.Context, recordID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT field_api_name, value FROM object_field_values WHERE record_id = ?`,
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("get values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values[name] = value
	}
	return values, rows.Err()
}

// SetValues persists all supplied field values as one atomic unit: either
// every value is written or, on any failure, none are. A failed call leaves
// the record's stored values exactly as they were.
func (s *SQLiteRecordStore) SetValues(ctx context.Context, recordID string, values map[string]string) error {
	var typeID string
	err := s.db.QueryRowContext(ctx,
		`SELECT object_type_id FROM object_records WHERE id = ?`, recordID,
	).Scan(&typeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("record %s: %w", recordID, ErrNotFound)
		}
		return fmt.Errorf("find record: %w", err)
	}

	id, err := strconv.ParseInt(recordID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", recordID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set values: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	if err := writeValues(ctx, tx, id, typeID, values, ts); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE object_records SET updated_at = ? WHERE id = ?`, ts, recordID); err != nil {
		return fmt.Errorf("touch record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set values: %w", err)
	}

	s.recordsChanged(typeID)
	return nil
}

// List returns a paginated record listing for an object type.
func (s *SQLiteRecordStore) List(ctx context.Context, objectType string, opts domain.ListOpts) (*domain.RecordPage, error) {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return nil, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	query := `SELECT id, object_type_id, owner_id, created_at, updated_at
	          FROM object_records WHERE object_type_id = ?`
	args := []any{typeID}
	if opts.After != "" {
		query += ` AND id > ?`
		args = append(args, opts.After)
	}
	// One extra row decides whether there is a next page.
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, opts.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	page := &domain.RecordPage{Results: []*domain.ObjectRecord{}}
	for rows.Next() {
		var rec domain.ObjectRecord
		if err := rows.Scan(&rec.ID, &rec.ObjectTypeID, &rec.OwnerID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		page.Results = append(page.Results, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if len(page.Results) > opts.Limit {
		page.HasMore = true
		page.After = page.Results[opts.Limit-1].ID
		page.Results = page.Results[:opts.Limit]
	}

	for _, rec := range page.Results {
		rec.Values, err = s.GetValues(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
	}
	return page, nil
}

// Delete removes a record, its values, and any shares of it.
func (s *SQLiteRecordStore) Delete(ctx context.Context, recordID string) error {
	var typeID string
	err := s.db.QueryRowContext(ctx,
		`SELECT object_type_id FROM object_records WHERE id = ?`, recordID,
	).Scan(&typeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("record %s: %w", recordID, ErrNotFound)
		}
		return fmt.Errorf("find record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`DELETE FROM record_share_fields WHERE share_id IN
		   (SELECT id FROM record_shares WHERE record_id = ?)`,
		`DELETE FROM record_shares WHERE record_id = ?`,
		`DELETE FROM object_field_values WHERE record_id = ?`,
		`DELETE FROM object_records WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, recordID); err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete record: %w", err)
	}

	s.recordsChanged(typeID)
	return nil
}

// ResolveDisplayValues maps record IDs of one object type to display
// strings in a single query. A record whose display field is unset resolves
// to "Unnamed Record"; IDs with no record are omitted so callers can fall
// back to the raw identifier.
func (s *SQLiteRecordStore) ResolveDisplayValues(ctx context.Context, objectType string, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return nil, err
	}

	var displayField string
	if err := s.db.QueryRowContext(ctx,
		`SELECT display_field_api_name FROM object_types WHERE id = ?`, typeID,
	).Scan(&displayField); err != nil {
		return nil, fmt.Errorf("display field of type %s: %w", typeID, err)
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, displayField, typeID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, COALESCE(v.value, '')
		 FROM object_records r
		 LEFT JOIN object_field_values v
		   ON v.record_id = r.id AND v.field_api_name = ?
		 WHERE r.object_type_id = ? AND r.id IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve display values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("scan display value: %w", err)
		}
		if value == "" {
			value = domain.UnnamedRecord
		}
		result[id] = value
	}
	return result, rows.Err()
}
