package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rgould/fieldkit/internal/domain"
)

func createTestType(t *testing.T, s *Store, name string) *domain.ObjectType {
	t.Helper()
	created, err := s.Types.Create(context.Background(), &domain.ObjectType{Name: name})
	if err != nil {
		t.Fatalf("create object type: %v", err)
	}
	return created
}

func TestFieldCreateDerivesAPIName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tp := createTestType(t, s, "Contacts Test")

	f, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Phone Number"})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}
	if f.APIName != "phone_number" {
		t.Errorf("api name = %q, want phone_number", f.APIName)
	}
	if f.DataType != domain.TypeText {
		t.Errorf("data type = %q, want text default", f.DataType)
	}
}

func TestFieldDerivedNameCollisionSuffixes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tp := createTestType(t, s, "Widgets")

	first, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Status"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Status"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.APIName != "status" || second.APIName != "status_2" {
		t.Errorf("api names = %q, %q; want status, status_2", first.APIName, second.APIName)
	}
}

func TestFieldExplicitDuplicateFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tp := createTestType(t, s, "Gadgets")

	if _, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Email", APIName: "email"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Other", APIName: "email"})
	if !errors.Is(err, ErrDuplicateAPIName) {
		t.Fatalf("expected ErrDuplicateAPIName, got %v", err)
	}
}

func TestFieldSameAPINameOnDifferentTypes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createTestType(t, s, "Alpha")
	b := createTestType(t, s, "Beta")

	if _, err := s.Fields.Create(ctx, a.ID, &domain.ObjectField{Name: "Email", APIName: "email"}); err != nil {
		t.Fatalf("create on alpha: %v", err)
	}
	if _, err := s.Fields.Create(ctx, b.ID, &domain.ObjectField{Name: "Email", APIName: "email"}); err != nil {
		t.Fatalf("create on beta should succeed, got: %v", err)
	}
}

func TestFieldListOrderedByDisplayOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tp := createTestType(t, s, "Ordered")

	for _, tc := range []struct {
		name  string
		order int
	}{
		{"Third", 30}, {"First", 10}, {"Second", 20},
	} {
		if _, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: tc.name, DisplayOrder: tc.order}); err != nil {
			t.Fatalf("create %s: %v", tc.name, err)
		}
	}

	fields, err := s.Fields.List(ctx, tp.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"First", "Second", "Third"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, name := range want {
		if fields[i].Name != name {
			t.Errorf("fields[%d] = %q, want %q", i, fields[i].Name, name)
		}
	}
}

func TestFieldUpdateKeepsAPINameAndType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tp := createTestType(t, s, "Stable")

	f, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Amount", DataType: domain.TypeNumber})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Fields.Update(ctx, f.ID, &domain.ObjectField{Name: "Total Amount", IsRequired: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Total Amount" || !updated.IsRequired {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.APIName != "amount" || updated.DataType != domain.TypeNumber {
		t.Errorf("api name or data type changed: %q %q", updated.APIName, updated.DataType)
	}
}

func TestFieldDeleteLeavesValuesInert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tp := createTestType(t, s, "Inert")

	f, err := s.Fields.Create(ctx, tp.ID, &domain.ObjectField{Name: "Note"})
	if err != nil {
		t.Fatalf("create field: %v", err)
	}
	rec, err := s.Records.Create(ctx, tp.ID, map[string]string{"note": "kept"})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	if err := s.Fields.Delete(ctx, f.ID); err != nil {
		t.Fatalf("delete field: %v", err)
	}

	values, err := s.Records.GetValues(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get values: %v", err)
	}
	if values["note"] != "kept" {
		t.Errorf("stored value erased on field delete: %v", values)
	}
}
