package store

import (
	"database/sql"

	"github.com/rgould/fieldkit/internal/events"
)

// Store bundles every persistence interface over one database handle so
// callers wire a single value through the application.
type Store struct {
	DB  *sql.DB
	Bus *events.Bus

	Types    ObjectTypeStore
	Fields   FieldStore
	Records  RecordStore
	Mappings MappingStore
	Shares   ShareStore
	Publish  PublishStore
}

// New creates a Store backed by db. Structural and value mutations publish
// refresh events on bus.
func New(db *sql.DB, bus *events.Bus) *Store {
	return &Store{
		DB:       db,
		Bus:      bus,
		Types:    NewSQLiteObjectTypeStore(db, bus),
		Fields:   NewSQLiteFieldStore(db, bus),
		Records:  NewSQLiteRecordStore(db, bus),
		Mappings: NewSQLiteMappingStore(db),
		Shares:   NewSQLiteShareStore(db),
		Publish:  NewSQLitePublishStore(db, bus),
	}
}
