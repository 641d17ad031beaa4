package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/events"
	"github.com/rgould/fieldkit/internal/schema"
)

// FieldStore defines operations for field definitions. Every structural
// mutation publishes a SchemaChanged event so cached field lists and
// compiled validators re-fetch before next use.
type FieldStore interface {
	List(ctx context.Context, objectType string) ([]domain.ObjectField, error)
	Create(ctx context.Context, objectType string, f *domain.ObjectField) (*domain.ObjectField, error)
	Get(ctx context.Context, fieldID string) (*domain.ObjectField, error)
	Update(ctx context.Context, fieldID string, patch *domain.ObjectField) (*domain.ObjectField, error)
	Delete(ctx context.Context, fieldID string) error
}

// SQLiteFieldStore implements FieldStore using SQLite.
type SQLiteFieldStore struct {
	db  *sql.DB
	bus *events.Bus
}

// NewSQLiteFieldStore creates a new SQLiteFieldStore.
func NewSQLiteFieldStore(db *sql.DB, bus *events.Bus) *SQLiteFieldStore {
	return &SQLiteFieldStore{db: db, bus: bus}
}

func (s *SQLiteFieldStore) schemaChanged(typeID string) {
	if s.bus != nil {
		s.bus.PublishSchema(events.SchemaChanged{ObjectTypeID: typeID})
	}
}

func encodeOptions(opts []domain.Option) (string, error) {
	if opts == nil {
		opts = []domain.Option{}
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return string(b), nil
}

func decodeOptions(raw string) ([]domain.Option, error) {
	if raw == "" {
		return []domain.Option{}, nil
	}
	var opts []domain.Option
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return opts, nil
}

const fieldCols = `id, object_type_id, name, api_name, data_type, is_required,
	is_system, default_value, options, display_order, lookup_object_type_id,
	created_at, updated_at`

func scanField(row interface{ Scan(dest ...any) error }) (*domain.ObjectField, error) {
	var f domain.ObjectField
	var id int64
	var optionsRaw string
	err := row.Scan(
		&id, &f.ObjectTypeID, &f.Name, &f.APIName, &f.DataType, &f.IsRequired,
		&f.IsSystem, &f.DefaultValue, &optionsRaw, &f.DisplayOrder, &f.LookupType,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.ID = strconv.FormatInt(id, 10)
	opts, err := decodeOptions(optionsRaw)
	if err != nil {
		return nil, err
	}
	f.Options = opts
	return &f, nil
}

// List returns the ordered field list of an object type. Presentation order
// is display_order with insertion order breaking ties; never a timestamp.
func (s *SQLiteFieldStore) List(ctx context.Context, objectType string) ([]domain.ObjectField, error) {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fieldCols+` FROM object_fields
		 WHERE object_type_id = ?
		 ORDER BY display_order, id`, typeID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fields []domain.ObjectField
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, *f)
	}
	if fields == nil {
		fields = []domain.ObjectField{}
	}
	return fields, rows.Err()
}

// Create inserts a new field definition. An omitted API name is derived
// from the display name with numeric suffixing on collision; an explicit
// API name must be valid and free or the call fails without side effects.
func (s *SQLiteFieldStore) Create(ctx context.Context, objectType string, f *domain.ObjectField) (*domain.ObjectField, error) {
	typeID, err := ResolveTypeID(ctx, s.db, objectType)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		return nil, fmt.Errorf("field name is required")
	}

	apiName := f.APIName
	derived := apiName == ""
	if derived {
		apiName = schema.DeriveAPIName(f.Name)
	} else if !schema.ValidAPIName(apiName) {
		return nil, fmt.Errorf("api name %q: %w", apiName, ErrInvalidAPIName)
	}

	optStr, err := encodeOptions(f.Options)
	if err != nil {
		return nil, err
	}
	if f.DataType == "" {
		f.DataType = domain.TypeText
	}

	ts := now()
	insert := func(name string) (sql.Result, error) {
		return s.db.ExecContext(ctx,
			`INSERT INTO object_fields (object_type_id, name, api_name, data_type,
			 is_required, is_system, default_value, options, display_order,
			 lookup_object_type_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			typeID, f.Name, name, f.DataType, f.IsRequired, f.IsSystem,
			f.DefaultValue, optStr, f.DisplayOrder, f.LookupType, ts, ts,
		)
	}

	res, err := insert(apiName)
	if err != nil && isUniqueViolation(err) && derived {
		for i := 2; err != nil && isUniqueViolation(err); i++ {
			res, err = insert(fmt.Sprintf("%s_%d", apiName, i))
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("api name %q on type %s: %w", apiName, typeID, ErrDuplicateAPIName)
		}
		return nil, fmt.Errorf("create field: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	s.schemaChanged(typeID)
	return s.Get(ctx, strconv.FormatInt(id, 10))
}

// Get retrieves a single field definition by ID.
func (s *SQLiteFieldStore) Get(ctx context.Context, fieldID string) (*domain.ObjectField, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fieldCols+` FROM object_fields WHERE id = ?`, fieldID)

	f, err := scanField(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("field %q: %w", fieldID, ErrNotFound)
		}
		return nil, fmt.Errorf("get field: %w", err)
	}
	return f, nil
}

// Update modifies an existing field definition. The API name and data type
// are fixed at creation; values already stored under the name stay valid.
func (s *SQLiteFieldStore) Update(ctx context.Context, fieldID string, patch *domain.ObjectField) (*domain.ObjectField, error) {
	existing, err := s.Get(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	optStr, err := encodeOptions(patch.Options)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE object_fields SET
			name = COALESCE(NULLIF(?, ''), name),
			is_required = ?, default_value = ?, options = ?,
			display_order = ?, updated_at = ?
		 WHERE id = ?`,
		patch.Name, patch.IsRequired, patch.DefaultValue, optStr,
		patch.DisplayOrder, now(), fieldID,
	)
	if err != nil {
		return nil, fmt.Errorf("update field: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("field %q: %w", fieldID, ErrNotFound)
	}

	s.schemaChanged(existing.ObjectTypeID)
	return s.Get(ctx, fieldID)
}

// Delete removes a field definition. Stored values under its API name
// become inert rather than being erased; consumers re-fetch the field list
// via the published refresh signal.
func (s *SQLiteFieldStore) Delete(ctx context.Context, fieldID string) error {
	existing, err := s.Get(ctx, fieldID)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM object_fields WHERE id = ?`, fieldID)
	if err != nil {
		return fmt.Errorf("delete field: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("field %q: %w", fieldID, ErrNotFound)
	}

	s.schemaChanged(existing.ObjectTypeID)
	return nil
}
