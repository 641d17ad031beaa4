package domain

// FieldMapping is one row of the directed, field-level correspondence
// between a source user's schema and a target user's schema for one
// object-type pair. Unmapped fields simply have no row.
type FieldMapping struct {
	SourceUserID       string `json:"sourceUserId"`
	TargetUserID       string `json:"targetUserId"`
	SourceObjectID     string `json:"sourceObjectId"`
	TargetObjectID     string `json:"targetObjectId"`
	SourceFieldAPIName string `json:"sourceFieldApiName"`
	TargetFieldAPIName string `json:"targetFieldApiName"`
}

// MappingStatus reports how complete a schema pair's mapping is. Percent is
// floor-rounded for display and never gates a transform.
type MappingStatus struct {
	MappedFieldCount  int `json:"mappedFieldCount"`
	TotalSourceFields int `json:"totalSourceFields"`
	Percent           int `json:"percent"`
}
