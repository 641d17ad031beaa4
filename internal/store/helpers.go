package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// now returns the current UTC time as an ISO 8601 timestamp.
func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// ResolveTypeID resolves an object type path parameter (API name like
// "contacts" or internal ID like "t-1") to the type's ID. Archived types
// resolve too; callers that need an active type check is_archived
// themselves.
func ResolveTypeID(ctx context.Context, db *sql.DB, objectType string) (string, error) {
	var typeID string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM object_types WHERE api_name = ? OR id = ?`,
		objectType, objectType,
	).Scan(&typeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("object type %q: %w", objectType, ErrNotFound)
		}
		return "", fmt.Errorf("resolve object type: %w", err)
	}
	return typeID, nil
}
