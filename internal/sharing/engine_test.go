package sharing

import (
	"context"
	"testing"

	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/events"
	"github.com/rgould/fieldkit/internal/store"
	"github.com/rgould/fieldkit/internal/testhelpers"
)

func mapping(source, target string) domain.FieldMapping {
	return domain.FieldMapping{SourceFieldAPIName: source, TargetFieldAPIName: target}
}

func TestTransformDropsUnmappedFields(t *testing.T) {
	mappings := []domain.FieldMapping{mapping("a", "x"), mapping("b", "y")}
	values := map[string]string{"a": "1", "b": "2", "c": "3"}

	got := Transform(mappings, values)
	want := map[string]string{"x": "1", "y": "2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestTransformSkipsUnsetMappedFields(t *testing.T) {
	mappings := []domain.FieldMapping{mapping("a", "x"), mapping("b", "y")}
	got := Transform(mappings, map[string]string{"a": "1"})
	if len(got) != 1 || got["x"] != "1" {
		t.Errorf("got %v, want only x=1", got)
	}
	if _, ok := got["y"]; ok {
		t.Error("unset source field produced a target entry")
	}
}

func TestTransformEmptyMappings(t *testing.T) {
	got := Transform(nil, map[string]string{"a": "1"})
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

type engineFixture struct {
	store  *store.Store
	engine *Engine
	typeID string
	share  *domain.RecordShare
}

func newEngineFixture(t *testing.T, shareFields []domain.RecordShareField) *engineFixture {
	t.Helper()
	ctx := context.Background()
	s := store.New(testhelpers.NewTestDB(t), events.NewBus())

	tp, err := s.Types.Create(ctx, &domain.ObjectType{Name: "Clients"})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	for _, name := range []string{"Name", "Email", "Notes"} {
		if _, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: name}); err != nil {
			t.Fatalf("create field %s: %v", name, err)
		}
	}
	rec, err := s.Records.Create(ctx, tp.ID, map[string]string{
		"name": "Acme", "email": "hi@acme.test", "notes": "private",
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	share, err := s.Shares.Create(ctx, &domain.RecordShare{
		RecordID:         rec.ID,
		SharedByUserID:   "u-alice",
		SharedWithUserID: "u-bob",
		Fields:           shareFields,
	})
	if err != nil {
		t.Fatalf("create share: %v", err)
	}

	return &engineFixture{
		store:  s,
		engine: NewEngine(s.Records, s.Shares, s.Mappings),
		typeID: tp.ID,
		share:  share,
	}
}

func TestViewWithoutMappingDisclosesNothing(t *testing.T) {
	fx := newEngineFixture(t, nil)

	view, err := fx.engine.View(context.Background(), fx.share.ID, "t-99")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.MappingConfigured {
		t.Error("expected MappingConfigured = false for unconfigured pair")
	}
	if len(view.Values) != 0 {
		t.Errorf("unconfigured pair leaked values: %v", view.Values)
	}
}

func TestViewTranslatesThroughMapping(t *testing.T) {
	fx := newEngineFixture(t, nil)
	ctx := context.Background()

	for _, m := range []domain.FieldMapping{
		{SourceUserID: "u-alice", TargetUserID: "u-bob",
			SourceObjectID: fx.typeID, TargetObjectID: "t-99",
			SourceFieldAPIName: "name", TargetFieldAPIName: "company_name"},
		{SourceUserID: "u-alice", TargetUserID: "u-bob",
			SourceObjectID: fx.typeID, TargetObjectID: "t-99",
			SourceFieldAPIName: "email", TargetFieldAPIName: "contact_email"},
	} {
		if err := fx.store.Mappings.Set(ctx, m); err != nil {
			t.Fatalf("set mapping: %v", err)
		}
	}

	view, err := fx.engine.View(ctx, fx.share.ID, "t-99")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !view.MappingConfigured {
		t.Fatal("expected MappingConfigured = true")
	}
	if view.Values["company_name"] != "Acme" || view.Values["contact_email"] != "hi@acme.test" {
		t.Errorf("translated values wrong: %v", view.Values)
	}
	// notes has no mapping row and must not leak through.
	if _, ok := view.Values["notes"]; ok {
		t.Error("unmapped source field leaked into the view")
	}
}

func TestViewHonorsFieldVisibility(t *testing.T) {
	fx := newEngineFixture(t, []domain.RecordShareField{
		{FieldAPIName: "name", IsVisible: true},
		{FieldAPIName: "email", IsVisible: true},
		{FieldAPIName: "notes", IsVisible: false},
	})
	ctx := context.Background()

	if err := fx.store.Mappings.Set(ctx, domain.FieldMapping{
		SourceUserID: "u-alice", TargetUserID: "u-bob",
		SourceObjectID: fx.typeID, TargetObjectID: "t-99",
		SourceFieldAPIName: "notes", TargetFieldAPIName: "remarks",
	}); err != nil {
		t.Fatalf("set mapping: %v", err)
	}

	view, err := fx.engine.View(ctx, fx.share.ID, "t-99")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	// Even a mapped field stays hidden when the share marks it invisible.
	if _, ok := view.Values["remarks"]; ok {
		t.Errorf("hidden field leaked through mapping: %v", view.Values)
	}
}
