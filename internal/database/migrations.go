package database

// migrations is an ordered list of SQL migration groups. Each entry is a
// slice of SQL statements executed together in one transaction. The version
// number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: schema metadata and record storage
	{
		`CREATE TABLE object_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			api_name TEXT UNIQUE NOT NULL,
			is_system BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			source_object_id TEXT NOT NULL DEFAULT '',
			display_field_api_name TEXT NOT NULL DEFAULT 'name',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE object_fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			object_type_id TEXT NOT NULL,
			name TEXT NOT NULL,
			api_name TEXT NOT NULL,
			data_type TEXT NOT NULL,
			is_required BOOLEAN NOT NULL DEFAULT FALSE,
			is_system BOOLEAN NOT NULL DEFAULT FALSE,
			default_value TEXT NOT NULL DEFAULT '',
			options TEXT NOT NULL DEFAULT '[]',
			display_order INTEGER NOT NULL DEFAULT 0,
			lookup_object_type_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (object_type_id, api_name),
			FOREIGN KEY (object_type_id) REFERENCES object_types(id)
		)`,
		`CREATE INDEX idx_object_fields_type ON object_fields(object_type_id, display_order)`,

		`CREATE TABLE object_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			object_type_id TEXT NOT NULL,
			owner_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (object_type_id) REFERENCES object_types(id)
		)`,
		`CREATE INDEX idx_object_records_type ON object_records(object_type_id)`,

		`CREATE TABLE object_field_values (
			record_id INTEGER NOT NULL,
			field_api_name TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (record_id, field_api_name),
			FOREIGN KEY (record_id) REFERENCES object_records(id)
		)`,
		`CREATE INDEX idx_field_values_name ON object_field_values(field_api_name, value)`,
	},

	// Migration 2: cross-schema mapping, sharing and publishing
	{
		`CREATE TABLE user_field_mappings (
			source_user_id TEXT NOT NULL,
			target_user_id TEXT NOT NULL,
			source_object_id TEXT NOT NULL,
			target_object_id TEXT NOT NULL,
			source_field_api_name TEXT NOT NULL,
			target_field_api_name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (source_user_id, target_user_id, source_object_id,
				target_object_id, target_field_api_name)
		)`,

		`CREATE TABLE record_shares (
			id TEXT PRIMARY KEY,
			record_id INTEGER NOT NULL,
			shared_by_user_id TEXT NOT NULL,
			shared_with_user_id TEXT NOT NULL,
			permission_level TEXT NOT NULL DEFAULT 'read',
			created_at TEXT NOT NULL,
			FOREIGN KEY (record_id) REFERENCES object_records(id)
		)`,
		`CREATE INDEX idx_record_shares_with ON record_shares(shared_with_user_id)`,

		`CREATE TABLE record_share_fields (
			share_id TEXT NOT NULL,
			field_api_name TEXT NOT NULL,
			is_visible BOOLEAN NOT NULL DEFAULT TRUE,
			PRIMARY KEY (share_id, field_api_name),
			FOREIGN KEY (share_id) REFERENCES record_shares(id)
		)`,

		`CREATE TABLE published_applications (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			snapshot TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	},
}
