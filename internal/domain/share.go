package domain

// Permission levels for record shares.
const (
	PermissionRead = "read"
	PermissionEdit = "edit"
)

// RecordShare grants another user access to one record. Which fields are
// exposed at all is controlled by the share's field rows, independent of the
// recipient's field mapping.
type RecordShare struct {
	ID               string             `json:"id"`
	RecordID         string             `json:"recordId"`
	SharedByUserID   string             `json:"sharedByUserId"`
	SharedWithUserID string             `json:"sharedWithUserId"`
	PermissionLevel  string             `json:"permissionLevel"`
	Fields           []RecordShareField `json:"fields"`
	CreatedAt        string             `json:"createdAt"`
}

// RecordShareField controls visibility of a single field within a share.
type RecordShareField struct {
	FieldAPIName string `json:"fieldApiName"`
	IsVisible    bool   `json:"isVisible"`
}
