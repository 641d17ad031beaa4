package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/events"
	"github.com/rgould/fieldkit/internal/schema"
)

// ObjectTypeStore defines operations on object type metadata.
type ObjectTypeStore interface {
	List(ctx context.Context) ([]domain.ObjectType, error)
	Create(ctx context.Context, t *domain.ObjectType) (*domain.ObjectType, error)
	Get(ctx context.Context, objectType string) (*domain.ObjectType, error)
	Update(ctx context.Context, objectType string, patch *domain.ObjectType) (*domain.ObjectType, error)
	Archive(ctx context.Context, objectType string) error
	Delete(ctx context.Context, objectType string) error
}

// SQLiteObjectTypeStore implements ObjectTypeStore using SQLite.
type SQLiteObjectTypeStore struct {
	db  *sql.DB
	bus *events.Bus
}

// NewSQLiteObjectTypeStore creates a new SQLiteObjectTypeStore.
func NewSQLiteObjectTypeStore(db *sql.DB, bus *events.Bus) *SQLiteObjectTypeStore {
	return &SQLiteObjectTypeStore{db: db, bus: bus}
}

const objectTypeCols = `id, name, api_name, is_system, is_active, is_archived,
	source_object_id, display_field_api_name, created_at, updated_at`

func scanObjectType(row interface{ Scan(dest ...any) error }) (*domain.ObjectType, error) {
	var t domain.ObjectType
	err := row.Scan(
		&t.ID, &t.Name, &t.APIName, &t.IsSystem, &t.IsActive, &t.IsArchived,
		&t.SourceObjectID, &t.DisplayFieldAPIName, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nextTypeID generates the next t-{n} ID for an object type.
func nextTypeID(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}) (string, error) {
	var maxNum int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTR(id, 3) AS INTEGER)), 0)
		 FROM object_types WHERE id LIKE 't-%'`,
	).Scan(&maxNum)
	if err != nil {
		return "", fmt.Errorf("next type id: %w", err)
	}
	return fmt.Sprintf("t-%d", maxNum+1), nil
}

// List returns all active, non-archived object types. Archived types stay
// reachable via Get by direct ID.
func (s *SQLiteObjectTypeStore) List(ctx context.Context) ([]domain.ObjectType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+objectTypeCols+` FROM object_types
		 WHERE is_active = TRUE AND is_archived = FALSE
		 ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list object types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var types []domain.ObjectType
	for rows.Next() {
		t, err := scanObjectType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan object type: %w", err)
		}
		types = append(types, *t)
	}
	if types == nil {
		types = []domain.ObjectType{}
	}
	return types, rows.Err()
}

// Create inserts a new object type. The API name is derived from the name
// when omitted; an explicit API name must be a valid snake_case token.
func (s *SQLiteObjectTypeStore) Create(ctx context.Context, t *domain.ObjectType) (*domain.ObjectType, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("object type name is required")
	}

	apiName := t.APIName
	derived := apiName == ""
	if derived {
		apiName = schema.DeriveAPIName(t.Name)
	} else if !schema.ValidAPIName(apiName) {
		return nil, fmt.Errorf("api name %q: %w", apiName, ErrInvalidAPIName)
	}

	typeID, err := nextTypeID(ctx, s.db)
	if err != nil {
		return nil, err
	}

	displayField := t.DisplayFieldAPIName
	if displayField == "" {
		displayField = "name"
	}

	ts := now()
	insert := func(name string) error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO object_types (id, name, api_name, is_system, is_active, is_archived,
			 source_object_id, display_field_api_name, created_at, updated_at)
			 VALUES (?, ?, ?, ?, TRUE, FALSE, ?, ?, ?, ?)`,
			typeID, t.Name, name, t.IsSystem, t.SourceObjectID, displayField, ts, ts,
		)
		return err
	}

	err = insert(apiName)
	if err != nil && isUniqueViolation(err) && derived {
		// Derived names retry with a numeric suffix until one is free.
		for i := 2; err != nil && isUniqueViolation(err); i++ {
			err = insert(fmt.Sprintf("%s_%d", apiName, i))
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("api name %q: %w", apiName, ErrDuplicateAPIName)
		}
		return nil, fmt.Errorf("create object type: %w", err)
	}

	return s.Get(ctx, typeID)
}

// Get retrieves one object type by ID or API name, archived or not.
func (s *SQLiteObjectTypeStore) Get(ctx context.Context, objectType string) (*domain.ObjectType, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+objectTypeCols+` FROM object_types WHERE id = ? OR api_name = ?`,
		objectType, objectType)

	t, err := scanObjectType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("object type %q: %w", objectType, ErrNotFound)
		}
		return nil, fmt.Errorf("get object type: %w", err)
	}
	return t, nil
}

// Update modifies the mutable attributes of an object type.
func (s *SQLiteObjectTypeStore) Update(ctx context.Context, objectType string, patch *domain.ObjectType) (*domain.ObjectType, error) {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE object_types SET
			name = COALESCE(NULLIF(?, ''), name),
			display_field_api_name = COALESCE(NULLIF(?, ''), display_field_api_name),
			updated_at = ?
		 WHERE id = ? AND is_archived = FALSE`,
		patch.Name, patch.DisplayFieldAPIName, now(), typeID,
	)
	if err != nil {
		return nil, fmt.Errorf("update object type: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("object type %q: %w", objectType, ErrNotFound)
	}

	return s.Get(ctx, typeID)
}

// Archive soft-deletes an object type. Its fields and records stay intact
// and reachable by direct ID; only active listings exclude it.
func (s *SQLiteObjectTypeStore) Archive(ctx context.Context, objectType string) error {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE object_types SET is_archived = TRUE, updated_at = ?
		 WHERE id = ? AND is_archived = FALSE`,
		now(), typeID,
	)
	if err != nil {
		return fmt.Errorf("archive object type: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("object type %q: %w", objectType, ErrNotFound)
	}
	return nil
}

// Delete hard-deletes an object type and its fields. It refuses while any
// records or field mappings still reference the type.
func (s *SQLiteObjectTypeStore) Delete(ctx context.Context, objectType string) error {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return err
	}

	var refs int
	err = s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM object_records WHERE object_type_id = ?)
		      + (SELECT COUNT(*) FROM user_field_mappings
		         WHERE source_object_id = ? OR target_object_id = ?)`,
		typeID, typeID, typeID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count type references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("object type %q: %w", objectType, ErrTypeInUse)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete object type: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM object_fields WHERE object_type_id = ?`, typeID); err != nil {
		return fmt.Errorf("delete fields of type: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM object_types WHERE id = ?`, typeID)
	if err != nil {
		return fmt.Errorf("delete object type: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("object type %q: %w", objectType, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete object type: %w", err)
	}

	if s.bus != nil {
		s.bus.PublishSchema(events.SchemaChanged{ObjectTypeID: typeID})
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
