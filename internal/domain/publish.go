package domain

// PublishedApplication is a snapshot of a selected subset of object types
// and fields, bundled for distribution. The snapshot is self-contained:
// later edits to the live schema do not affect it.
type PublishedApplication struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CreatedBy   string            `json:"createdBy,omitempty"`
	ObjectTypes []PublishedObject `json:"objectTypes"`
	CreatedAt   string            `json:"createdAt"`
}

// PublishedObject is one object type within a published bundle.
type PublishedObject struct {
	ObjectTypeID string           `json:"objectTypeId"`
	Name         string           `json:"name"`
	APIName      string           `json:"apiName"`
	Fields       []PublishedField `json:"fields"`
}

// PublishedField is a field snapshot with its inclusion flag. Excluded
// fields stay in the live schema but are hidden from the published surface.
type PublishedField struct {
	APIName    string   `json:"apiName"`
	Name       string   `json:"name"`
	DataType   DataType `json:"dataType"`
	IsRequired bool     `json:"isRequired"`
	IsIncluded bool     `json:"isIncluded"`
}
