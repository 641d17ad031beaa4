package domain

// ObjectRecord is an instance of an ObjectType. It stores no typed data
// itself; populated fields live in the value store keyed by field API name.
// A record with zero populated fields is valid and displays as
// "Unnamed Record".
type ObjectRecord struct {
	ID           string            `json:"id"`
	ObjectTypeID string            `json:"objectTypeId"`
	OwnerID      string            `json:"ownerId,omitempty"`
	Values       map[string]string `json:"values"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt"`
}

// UnnamedRecord is the display fallback for records whose display field is
// unset.
const UnnamedRecord = "Unnamed Record"

// ListOpts controls record listing.
type ListOpts struct {
	Limit int
	After string
}

// RecordPage is one page of a record listing.
type RecordPage struct {
	Results []*ObjectRecord `json:"results"`
	HasMore bool            `json:"-"`
	After   string          `json:"-"`
}
