package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/events"
)

// PublishParams selects what goes into a published application. Excluded
// fields are keyed by object type ID and carry is_included=false in the
// snapshot rather than being dropped.
type PublishParams struct {
	Name           string
	Description    string
	CreatedBy      string
	ObjectTypeIDs  []string
	ExcludedFields map[string][]string
}

// PublishStore handles application publishing and schema import.
type PublishStore interface {
	Publish(ctx context.Context, p PublishParams) (*domain.PublishedApplication, error)
	List(ctx context.Context) ([]domain.PublishedApplication, error)
	Get(ctx context.Context, appID string) (*domain.PublishedApplication, error)
	ImportObjectType(ctx context.Context, sourceObjectType string) (*domain.ObjectType, error)
}

// SQLitePublishStore implements PublishStore using SQLite.
type SQLitePublishStore struct {
	db  *sql.DB
	bus *events.Bus
}

// NewSQLitePublishStore creates a new SQLitePublishStore.
func NewSQLitePublishStore(db *sql.DB, bus *events.Bus) *SQLitePublishStore {
	return &SQLitePublishStore{db: db, bus: bus}
}

// Publish freezes the selected object types and their fields into a
// self-contained snapshot. Later schema edits do not affect it.
func (s *SQLitePublishStore) Publish(ctx context.Context, p PublishParams) (*domain.PublishedApplication, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("application name is required")
	}
	if len(p.ObjectTypeIDs) == 0 {
		return nil, fmt.Errorf("at least one object type is required")
	}

	types := NewSQLiteObjectTypeStore(s.db, s.bus)
	fields := NewSQLiteFieldStore(s.db, s.bus)

	snapshot := make([]domain.PublishedObject, 0, len(p.ObjectTypeIDs))
	for _, ref := range p.ObjectTypeIDs {
		t, err := types.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		if t.IsArchived {
			return nil, fmt.Errorf("object type %q is archived: %w", ref, ErrSourceNotFound)
		}

		fieldList, err := fields.List(ctx, t.ID)
		if err != nil {
			return nil, err
		}

		excluded := make(map[string]bool, len(p.ExcludedFields[t.ID]))
		for _, name := range p.ExcludedFields[t.ID] {
			excluded[name] = true
		}

		obj := domain.PublishedObject{
			ObjectTypeID: t.ID,
			Name:         t.Name,
			APIName:      t.APIName,
			Fields:       make([]domain.PublishedField, 0, len(fieldList)),
		}
		for _, f := range fieldList {
			obj.Fields = append(obj.Fields, domain.PublishedField{
				APIName:    f.APIName,
				Name:       f.Name,
				DataType:   f.DataType,
				IsRequired: f.IsRequired,
				IsIncluded: !excluded[f.APIName],
			})
		}
		snapshot = append(snapshot, obj)
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	id := uuid.NewString()
	ts := now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO published_applications (id, name, description, created_by,
		 snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Description, p.CreatedBy, string(raw), ts,
	); err != nil {
		return nil, fmt.Errorf("insert published application: %w", err)
	}

	return s.Get(ctx, id)
}

func scanPublished(row interface{ Scan(dest ...any) error }) (*domain.PublishedApplication, error) {
	var app domain.PublishedApplication
	var raw string
	err := row.Scan(&app.ID, &app.Name, &app.Description, &app.CreatedBy,
		&raw, &app.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &app.ObjectTypes); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &app, nil
}

// List returns all published applications, oldest first.
func (s *SQLitePublishStore) List(ctx context.Context) ([]domain.PublishedApplication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_by, snapshot, created_at
		 FROM published_applications ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list published applications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var apps []domain.PublishedApplication
	for rows.Next() {
		app, err := scanPublished(rows)
		if err != nil {
			return nil, fmt.Errorf("scan published application: %w", err)
		}
		apps = append(apps, *app)
	}
	if apps == nil {
		apps = []domain.PublishedApplication{}
	}
	return apps, rows.Err()
}

// Get retrieves one published application with its snapshot decoded.
func (s *SQLitePublishStore) Get(ctx context.Context, appID string) (*domain.PublishedApplication, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, snapshot, created_at
		 FROM published_applications WHERE id = ?`, appID)

	app, err := scanPublished(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("published application %q: %w", appID, ErrNotFound)
		}
		return nil, fmt.Errorf("get published application: %w", err)
	}
	return app, nil
}

// ImportObjectType clones an object type into the caller's schema. The copy
// records where it came from via source_object_id and carries fresh field
// IDs but the same field API names, data types and ordering. Records are
// never copied.
func (s *SQLitePublishStore) ImportObjectType(ctx context.Context, sourceObjectType string) (*domain.ObjectType, error) {
	types := NewSQLiteObjectTypeStore(s.db, s.bus)

	src, err := types.Get(ctx, sourceObjectType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("import source %q: %w", sourceObjectType, ErrSourceNotFound)
		}
		return nil, err
	}
	if src.IsArchived {
		return nil, fmt.Errorf("import source %q is archived: %w", sourceObjectType, ErrSourceNotFound)
	}

	srcFields, err := NewSQLiteFieldStore(s.db, s.bus).List(ctx, src.ID)
	if err != nil {
		return nil, err
	}

	created, err := types.Create(ctx, &domain.ObjectType{
		Name:                src.Name,
		SourceObjectID:      src.ID,
		DisplayFieldAPIName: src.DisplayFieldAPIName,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import fields: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	for _, f := range srcFields {
		optStr, err := encodeOptions(f.Options)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO object_fields (object_type_id, name, api_name, data_type,
			 is_required, is_system, default_value, options, display_order,
			 lookup_object_type_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			created.ID, f.Name, f.APIName, f.DataType, f.IsRequired, f.IsSystem,
			f.DefaultValue, optStr, f.DisplayOrder, f.LookupType, ts, ts,
		); err != nil {
			return nil, fmt.Errorf("clone field %s: %w", f.APIName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import fields: %w", err)
	}

	if s.bus != nil {
		s.bus.PublishSchema(events.SchemaChanged{ObjectTypeID: created.ID})
	}
	return created, nil
}
