// Package seed installs the standard system object types on startup.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rgould/fieldkit/internal/domain"
)

type fieldDef struct {
	Name     string
	APIName  string
	DataType domain.DataType
	Required bool
	Options  []domain.Option
	Order    int
}

var statusOptions = []domain.Option{
	{Label: "Active", Value: "active"},
	{Label: "Inactive", Value: "inactive"},
	{Label: "Pending", Value: "pending"},
}

// systemTypes defines the seeded object types with fixed IDs. The display
// field defaults to "name" for both.
var systemTypes = []struct {
	ID      string
	Name    string
	APIName string
	Fields  []fieldDef
}{
	{
		ID: "t-1", Name: "Contacts", APIName: "contacts",
		Fields: []fieldDef{
			{Name: "Name", APIName: "name", DataType: domain.TypeText, Required: true, Order: 10},
			{Name: "Email", APIName: "email", DataType: domain.TypeEmail, Order: 20},
			{Name: "Phone Number", APIName: "phone_number", DataType: domain.TypePhone, Order: 30},
			{Name: "Status", APIName: "status", DataType: domain.TypePicklist, Options: statusOptions, Order: 40},
		},
	},
	{
		ID: "t-2", Name: "Companies", APIName: "companies",
		Fields: []fieldDef{
			{Name: "Name", APIName: "name", DataType: domain.TypeText, Required: true, Order: 10},
			{Name: "Website", APIName: "website", DataType: domain.TypeURL, Order: 20},
			{Name: "Phone Number", APIName: "phone_number", DataType: domain.TypePhone, Order: 30},
			{Name: "Status", APIName: "status", DataType: domain.TypePicklist, Options: statusOptions, Order: 40},
		},
	},
}

// Seed inserts the system object types and their fields. It is idempotent —
// existing rows are left untouched, so user edits survive restarts.
func Seed(ctx context.Context, db *sql.DB) error {
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	for _, st := range systemTypes {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO object_types (id, name, api_name, is_system,
			 is_active, is_archived, source_object_id, display_field_api_name,
			 created_at, updated_at)
			 VALUES (?, ?, ?, TRUE, TRUE, FALSE, '', 'name', ?, ?)`,
			st.ID, st.Name, st.APIName, ts, ts,
		)
		if err != nil {
			return fmt.Errorf("seed object type %s: %w", st.APIName, err)
		}

		for _, f := range st.Fields {
			opts := f.Options
			if opts == nil {
				opts = []domain.Option{}
			}
			optStr, err := json.Marshal(opts)
			if err != nil {
				return fmt.Errorf("seed field options %s: %w", f.APIName, err)
			}
			_, err = db.ExecContext(ctx,
				`INSERT OR IGNORE INTO object_fields (object_type_id, name,
				 api_name, data_type, is_required, is_system, default_value,
				 options, display_order, lookup_object_type_id, created_at,
				 updated_at)
				 VALUES (?, ?, ?, ?, ?, TRUE, '', ?, ?, '', ?, ?)`,
				st.ID, f.Name, f.APIName, f.DataType, f.Required,
				string(optStr), f.Order, ts, ts,
			)
			if err != nil {
				return fmt.Errorf("seed field %s.%s: %w", st.APIName, f.APIName, err)
			}
		}
	}
	return nil
}
