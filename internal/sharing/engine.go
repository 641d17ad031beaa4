// Package sharing projects a shared record through the recipient's field
// mapping: share visibility decides which source fields may be seen at all,
// the mapping decides what they are called on the recipient's side.
package sharing

import (
	"context"
	"fmt"

	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/store"
)

// Transform translates source-schema values into the target schema using the
// given mappings. Source fields without a mapping row are dropped; mapped
// fields absent from values produce no entry. Transform never fails on an
// incomplete mapping.
func Transform(mappings []domain.FieldMapping, values map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range mappings {
		if v, ok := values[m.SourceFieldAPIName]; ok {
			out[m.TargetFieldAPIName] = v
		}
	}
	return out
}

// View is a shared record as the recipient sees it: visible source values
// translated into their own schema. When the pair has no mapping configured
// the view carries no values and MappingConfigured false, so the caller can
// prompt for mapping setup instead of failing.
type View struct {
	ShareID           string            `json:"shareId"`
	RecordID          string            `json:"recordId"`
	SourceObjectID    string            `json:"sourceObjectId"`
	TargetObjectID    string            `json:"targetObjectId"`
	PermissionLevel   string            `json:"permissionLevel"`
	MappingConfigured bool              `json:"mappingConfigured"`
	Values            map[string]string `json:"values"`
}

// Engine resolves share views against the stores.
type Engine struct {
	records  store.RecordStore
	shares   store.ShareStore
	mappings store.MappingStore
}

// NewEngine creates an Engine over the given stores.
func NewEngine(records store.RecordStore, shares store.ShareStore, mappings store.MappingStore) *Engine {
	return &Engine{records: records, shares: shares, mappings: mappings}
}

// visibleValues filters record values down to what the share exposes. A
// share with no field rows exposes everything.
func visibleValues(share *domain.RecordShare, values map[string]string) map[string]string {
	if len(share.Fields) == 0 {
		return values
	}
	visible := make(map[string]bool, len(share.Fields))
	for _, f := range share.Fields {
		visible[f.FieldAPIName] = f.IsVisible
	}
	out := make(map[string]string)
	for name, v := range values {
		if visible[name] {
			out[name] = v
		}
	}
	return out
}

// View computes the recipient's view of a share, translated into their
// object type targetObjectID.
func (e *Engine) View(ctx context.Context, shareID, targetObjectID string) (*View, error) {
	share, err := e.shares.Get(ctx, shareID)
	if err != nil {
		return nil, err
	}
	record, err := e.records.Get(ctx, share.RecordID)
	if err != nil {
		return nil, fmt.Errorf("shared record: %w", err)
	}

	visible := visibleValues(share, record.Values)

	mappings, err := e.mappings.Get(ctx,
		share.SharedByUserID, share.SharedWithUserID,
		record.ObjectTypeID, targetObjectID)
	if err != nil {
		return nil, err
	}

	view := &View{
		ShareID:           share.ID,
		RecordID:          record.ID,
		SourceObjectID:    record.ObjectTypeID,
		TargetObjectID:    targetObjectID,
		PermissionLevel:   share.PermissionLevel,
		MappingConfigured: len(mappings) > 0,
	}
	// Only the intersection of visible and mapped fields is ever disclosed;
	// an unconfigured pair discloses nothing.
	view.Values = Transform(mappings, visible)
	return view, nil
}
