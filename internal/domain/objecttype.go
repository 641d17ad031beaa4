package domain

// ObjectType is a user-defined entity schema. Records of this type carry no
// typed columns of their own; their shape is entirely determined by the
// type's field list.
//
// SourceObjectID, when non-empty, names the ObjectType this one was imported
// from. It is a weak back-reference, never an ownership edge.
type ObjectType struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	APIName             string `json:"apiName"`
	IsSystem            bool   `json:"isSystem"`
	IsActive            bool   `json:"isActive"`
	IsArchived          bool   `json:"isArchived"`
	SourceObjectID      string `json:"sourceObjectId,omitempty"`
	DisplayFieldAPIName string `json:"displayFieldApiName"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}
