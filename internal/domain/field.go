package domain

// DataType is the closed set of field data types. Unknown tags are treated
// as Text by the schema compiler so forward-compatible types degrade
// gracefully instead of failing compilation.
type DataType string

// Supported field data types.
const (
	TypeText     DataType = "text"
	TypeEmail    DataType = "email"
	TypeURL      DataType = "url"
	TypePhone    DataType = "phone"
	TypeLookup   DataType = "lookup"
	TypeNumber   DataType = "number"
	TypeBoolean  DataType = "boolean"
	TypeDate     DataType = "date"
	TypeTextarea DataType = "textarea"
	TypePicklist DataType = "picklist"
)

// ObjectField is a named, typed attribute of an ObjectType. APIName is
// unique within the owning type and is the key under which record values
// are stored.
type ObjectField struct {
	ID           string   `json:"id"`
	ObjectTypeID string   `json:"objectTypeId"`
	Name         string   `json:"name"`
	APIName      string   `json:"apiName"`
	DataType     DataType `json:"dataType"`
	IsRequired   bool     `json:"isRequired"`
	IsSystem     bool     `json:"isSystem"`
	DefaultValue string   `json:"defaultValue,omitempty"`
	Options      []Option `json:"options"`
	DisplayOrder int      `json:"displayOrder"`
	LookupType   string   `json:"lookupObjectTypeId,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

// Option is a selectable value for picklist fields.
type Option struct {
	Label        string `json:"label"`
	Value        string `json:"value"`
	DisplayOrder int    `json:"displayOrder"`
	Hidden       bool   `json:"hidden"`
}
