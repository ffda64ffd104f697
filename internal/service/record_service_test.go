package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"stageflow/config"
	"stageflow/internal/dto"
	"stageflow/internal/model"
	"stageflow/internal/repository"
)

type recordFixture struct {
	svc      RecordService
	records  *mockRecordRepo
	accounts *mockAccountRepo
}

func newRecordFixture(cfg *config.Config) *recordFixture {
	records := newMockRecordRepo()
	accounts := newMockAccountRepo()
	repo := &repository.Repository{Account: accounts, Record: records}
	return &recordFixture{
		svc:      NewRecordService(cfg, repo, zap.NewNop()),
		records:  records,
		accounts: accounts,
	}
}

func samplePayload(name string) *dto.RecordPayload {
	return &dto.RecordPayload{
		Specialty:      "Nursing",
		Group:          "A1",
		FullName:       name,
		NationalID:     "X1234567",
		PlacementDate:  "2026-03-02",
		TotalHours:     120,
		Municipality:   "Girona",
		Institution:    "Hospital Josep Trueta",
		SupervisorName: "Marta Soler",
		SupervisorID:   "S-42",
	}
}

func TestCreateReturnsRowPosition(t *testing.T) {
	fx := newRecordFixture(newTestConfig())
	ctx := context.Background()

	// header sits at row 1, so the first record lands at 2
	for i, want := range []int{2, 3, 4} {
		pos, err := fx.svc.Create(ctx, samplePayload(fmt.Sprintf("Student %d", i+1)), "ana@example.com")
		if err != nil {
			t.Fatalf("Create #%d: %v", i+1, err)
		}
		if pos != want {
			t.Errorf("Create #%d position = %d, want %d", i+1, pos, want)
		}
	}
}

func TestCreateStampsSubmitter(t *testing.T) {
	fx := newRecordFixture(newTestConfig())
	ctx := context.Background()

	if _, err := fx.svc.Create(ctx, samplePayload("Ana"), "ana@example.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := fx.records.GetByIndex(ctx, 0)
	if err != nil {
		t.Fatalf("GetByIndex: %v", err)
	}
	if rec.SubmitterEmail != "ana@example.com" {
		t.Errorf("SubmitterEmail = %q, want ana@example.com", rec.SubmitterEmail)
	}
}

func TestUpdateTouchesOnlyTargetRow(t *testing.T) {
	fx := newRecordFixture(newTestConfig())
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := fx.svc.Create(ctx, samplePayload(name), "ana@example.com"); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	updated := samplePayload("Second Edited")
	updated.TotalHours = 200
	if err := fx.svc.Update(ctx, 3, updated, "ana@example.com"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	wantNames := []string{"First", "Second Edited", "Third"}
	for i, want := range wantNames {
		rec, err := fx.records.GetByIndex(ctx, i)
		if err != nil {
			t.Fatalf("GetByIndex(%d): %v", i, err)
		}
		if rec.FullName != want {
			t.Errorf("row %d name = %q, want %q", i+model.HeaderOffset, rec.FullName, want)
		}
	}

	// the submitter stamp survives edits
	rec, _ := fx.records.GetByIndex(ctx, 1)
	if rec.SubmitterEmail != "ana@example.com" {
		t.Errorf("SubmitterEmail = %q after update", rec.SubmitterEmail)
	}
	if rec.TotalHours != 200 {
		t.Errorf("TotalHours = %d, want 200", rec.TotalHours)
	}
}

func TestDeleteShiftsLaterRowsUp(t *testing.T) {
	fx := newRecordFixture(newTestConfig())
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := fx.svc.Create(ctx, samplePayload(name), "ana@example.com"); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	if err := fx.svc.Delete(ctx, 3, "ana@example.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	list, total, err := fx.svc.List(ctx, &dto.RecordListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	// Third now occupies the position Second held
	if list[0].Position != 2 || list[0].FullName != "First" {
		t.Errorf("row 0 = (%d, %q), want (2, First)", list[0].Position, list[0].FullName)
	}
	if list[1].Position != 3 || list[1].FullName != "Third" {
		t.Errorf("row 1 = (%d, %q), want (3, Third)", list[1].Position, list[1].FullName)
	}
}

func TestPositionBounds(t *testing.T) {
	fx := newRecordFixture(newTestConfig())
	ctx := context.Background()

	if _, err := fx.svc.Create(ctx, samplePayload("Only"), "ana@example.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// valid data positions with one record are exactly [2, 2]
	for _, pos := range []int{0, 1, 3, 99} {
		if err := fx.svc.Update(ctx, pos, samplePayload("X"), "ana@example.com"); !errors.Is(err, ErrRowNotFound) {
			t.Errorf("Update(%d): err = %v, want ErrRowNotFound", pos, err)
		}
		if err := fx.svc.Delete(ctx, pos, "ana@example.com"); !errors.Is(err, ErrRowNotFound) {
			t.Errorf("Delete(%d): err = %v, want ErrRowNotFound", pos, err)
		}
	}

	// the store is untouched by the rejected calls
	count, _ := fx.records.Count(ctx)
	if count != 1 {
		t.Errorf("count = %d after rejected mutations, want 1", count)
	}
	rec, _ := fx.records.GetByIndex(ctx, 0)
	if rec.FullName != "Only" {
		t.Errorf("record name = %q, want Only", rec.FullName)
	}
}

func TestAdminEnforcementFlag(t *testing.T) {
	cfg := newTestConfig()
	cfg.Feature.EnforceAdminMutations = true
	fx := newRecordFixture(cfg)
	ctx := context.Background()

	fx.accounts.Create(ctx, &model.Account{Email: "user@example.com", Role: model.RoleUser})
	fx.accounts.Create(ctx, &model.Account{Email: "admin@example.com", Role: model.RoleAdmin})

	if _, err := fx.svc.Create(ctx, samplePayload("Blocked"), "user@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("user create: err = %v, want ErrForbidden", err)
	}
	if _, err := fx.svc.Create(ctx, samplePayload("Allowed"), "admin@example.com"); err != nil {
		t.Errorf("admin create: %v", err)
	}

	// default mode stays permissive
	fx2 := newRecordFixture(newTestConfig())
	if _, err := fx2.svc.Create(ctx, samplePayload("Anyone"), "user@example.com"); err != nil {
		t.Errorf("permissive create: %v", err)
	}
}

func TestListPaginatesInRowOrder(t *testing.T) {
	fx := newRecordFixture(newTestConfig())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if _, err := fx.svc.Create(ctx, samplePayload(fmt.Sprintf("Student %d", i)), "ana@example.com"); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, total, err := fx.svc.List(ctx, &dto.RecordListRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].FullName != "Student 3" || list[0].Position != 4 {
		t.Errorf("page 2 row 0 = (%d, %q), want (4, Student 3)", list[0].Position, list[0].FullName)
	}
	if list[1].FullName != "Student 4" || list[1].Position != 5 {
		t.Errorf("page 2 row 1 = (%d, %q), want (5, Student 4)", list[1].Position, list[1].FullName)
	}
}
