package dashboard

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/careboard/careboard/pkg/apperr"
)

// fakeResource records every store call and can be made to fail or block.
type fakeResource struct {
	mu       sync.Mutex
	defaults map[string]string
	entities map[uuid.UUID]map[string]string
	calls    []string

	createErr error
	updateErr error
	deleteErr error
	listErr   error

	// blockSubmit, when non-nil, parks Create/Update until closed.
	blockSubmit chan struct{}
	// blockDelete does the same for Delete.
	blockDelete chan struct{}
}

func newFakeResource() *fakeResource {
	return &fakeResource{
		defaults: map[string]string{"reason": "", "status": "scheduled"},
		entities: make(map[uuid.UUID]map[string]string),
	}
}

func (f *fakeResource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeResource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeResource) Kind() string { return "appointments" }

func (f *fakeResource) Defaults() map[string]string {
	out := make(map[string]string, len(f.defaults))
	for k, v := range f.defaults {
		out[k] = v
	}
	return out
}

func (f *fakeResource) DraftFor(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	f.record("draft_for")
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entities[id]
	if !ok {
		return nil, apperr.NotFound("entity not found")
	}
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out, nil
}

func (f *fakeResource) Create(ctx context.Context, fields map[string]string) error {
	f.record("create")
	if f.blockSubmit != nil {
		<-f.blockSubmit
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[uuid.New()] = fields
	return nil
}

func (f *fakeResource) Update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	f.record("update")
	if f.blockSubmit != nil {
		<-f.blockSubmit
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entities[id]; !ok {
		return apperr.NotFound("entity not found")
	}
	f.entities[id] = fields
	return nil
}

func (f *fakeResource) Delete(ctx context.Context, id uuid.UUID) error {
	f.record("delete")
	if f.blockDelete != nil {
		<-f.blockDelete
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entities[id]; !ok {
		return apperr.NotFound("entity not found")
	}
	delete(f.entities, id)
	return nil
}

func (f *fakeResource) List(ctx context.Context) (interface{}, int, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entities), len(f.entities), nil
}

func (f *fakeResource) seed(fields map[string]string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.entities[id] = fields
	return id
}

func TestOpenCreate_UsesDefaults(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)

	snap, err := ctrl.OpenCreate()
	if err != nil {
		t.Fatalf("OpenCreate: %v", err)
	}
	if snap.Phase != PhaseDrafting || snap.Mode != ModeCreate {
		t.Fatalf("snapshot = %+v, want drafting/create", snap)
	}
	if snap.Fields["status"] != "scheduled" {
		t.Errorf("default status = %q, want scheduled", snap.Fields["status"])
	}
	if res.callCount() != 0 {
		t.Errorf("OpenCreate made %d store calls, want 0", res.callCount())
	}
}

func TestOpenCreate_WhileOpen(t *testing.T) {
	ctrl := NewController(newFakeResource())
	if _, err := ctrl.OpenCreate(); err != nil {
		t.Fatalf("OpenCreate: %v", err)
	}
	if _, err := ctrl.OpenCreate(); !errors.Is(err, ErrFormOpen) {
		t.Fatalf("expected ErrFormOpen, got %v", err)
	}
}

func TestOpenEdit_CopiesEntity(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)
	id := res.seed(map[string]string{"reason": "Checkup", "status": "completed"})

	snap, err := ctrl.OpenEdit(context.Background(), id)
	if err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if snap.Mode != ModeEdit || snap.Target != id {
		t.Fatalf("snapshot = %+v, want edit targeting %s", snap, id)
	}
	if snap.Fields["reason"] != "Checkup" {
		t.Errorf("reason = %q, want Checkup", snap.Fields["reason"])
	}
}

func TestOpenEdit_NotFoundLeavesClosed(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)

	_, err := ctrl.OpenEdit(context.Background(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if ctrl.State().Phase != PhaseClosed {
		t.Errorf("phase = %q after failed open, want closed", ctrl.State().Phase)
	}
}

func TestSetField_OutsideDrafting(t *testing.T) {
	ctrl := NewController(newFakeResource())
	if _, err := ctrl.SetField(uuid.New(), "reason", "x"); !errors.Is(err, ErrNoOpenForm) {
		t.Fatalf("expected ErrNoOpenForm, got %v", err)
	}
}

func TestSubmit_CreateRefreshesAndCloses(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)

	snap, err := ctrl.OpenCreate()
	if err != nil {
		t.Fatalf("OpenCreate: %v", err)
	}
	if _, err := ctrl.SetField(snap.FormID, "reason", "Checkup"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	final, err := ctrl.Submit(context.Background(), snap.FormID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if final.Phase != PhaseClosed {
		t.Errorf("phase = %q, want closed", final.Phase)
	}
	if _, _, ok := ctrl.Cache().Get(); !ok {
		t.Error("cache not refreshed after successful submit")
	}
	// create resolves before list is issued
	res.mu.Lock()
	calls := append([]string(nil), res.calls...)
	res.mu.Unlock()
	if len(calls) != 2 || calls[0] != "create" || calls[1] != "list" {
		t.Errorf("calls = %v, want [create list]", calls)
	}
}

func TestSubmit_FailureKeepsDraft(t *testing.T) {
	res := newFakeResource()
	res.createErr = apperr.Store("insert failed", errors.New("boom"))
	ctrl := NewController(res)

	snap, _ := ctrl.OpenCreate()
	if _, err := ctrl.SetField(snap.FormID, "reason", "Checkup"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	_, err := ctrl.Submit(context.Background(), snap.FormID)
	if err == nil {
		t.Fatal("expected submit error to surface")
	}
	state := ctrl.State()
	if state.Phase != PhaseDrafting {
		t.Errorf("phase = %q after failure, want drafting", state.Phase)
	}
	if state.Fields["reason"] != "Checkup" {
		t.Errorf("draft lost on failure: reason = %q", state.Fields["reason"])
	}

	// the draft can be resubmitted once the store recovers
	res.createErr = nil
	if _, err := ctrl.Submit(context.Background(), snap.FormID); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
}

func TestSubmit_InFlightGuard(t *testing.T) {
	res := newFakeResource()
	res.blockSubmit = make(chan struct{})
	ctrl := NewController(res)

	snap, _ := ctrl.OpenCreate()

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), snap.FormID)
		done <- err
	}()

	// wait for the first submit to reach the store
	for res.callCount() == 0 {
		runtime.Gosched()
	}

	if _, err := ctrl.Submit(context.Background(), snap.FormID); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	if _, err := ctrl.Cancel(snap.FormID); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("cancel during submit: expected ErrSubmitInFlight, got %v", err)
	}

	close(res.blockSubmit)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if ctrl.State().Phase != PhaseClosed {
		t.Errorf("phase = %q, want closed", ctrl.State().Phase)
	}
}

func TestCancel_ZeroStoreCalls(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	before := ctrl.Cache().RefreshedAt()
	callsBefore := res.callCount()

	id := res.seed(map[string]string{"reason": "Checkup", "status": "scheduled"})
	snap, err := ctrl.OpenEdit(context.Background(), id)
	if err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if _, err := ctrl.SetField(snap.FormID, "reason", "edited"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if _, err := ctrl.Cancel(snap.FormID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// one draft_for to open the edit, nothing else
	if got := res.callCount() - callsBefore; got != 1 {
		t.Errorf("edit+cancel made %d store calls, want 1 (the entity fetch)", got)
	}
	if !ctrl.Cache().RefreshedAt().Equal(before) {
		t.Error("cancel touched the list cache")
	}
	if ctrl.State().Phase != PhaseClosed {
		t.Errorf("phase = %q, want closed", ctrl.State().Phase)
	}
}

func TestDelete_TwoStepProtocol(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)
	id := res.seed(map[string]string{"reason": "Checkup", "status": "scheduled"})

	snap, err := ctrl.RequestDelete(id)
	if err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if snap.Phase != PhaseConfirmingDelete {
		t.Fatalf("phase = %q, want confirming_delete", snap.Phase)
	}
	// nothing deleted until confirmation
	if res.callCount() != 0 {
		t.Fatalf("RequestDelete made %d store calls, want 0", res.callCount())
	}

	final, err := ctrl.ConfirmDelete(context.Background(), snap.DeletionID)
	if err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if final.Phase != PhaseClosed {
		t.Errorf("phase = %q, want closed", final.Phase)
	}
	if _, ok := res.entities[id]; ok {
		t.Error("entity still present after confirmed delete")
	}
}

func TestConfirmDelete_InFlightGuard(t *testing.T) {
	res := newFakeResource()
	res.blockDelete = make(chan struct{})
	ctrl := NewController(res)
	first := res.seed(map[string]string{"reason": "Checkup", "status": "scheduled"})
	second := res.seed(map[string]string{"reason": "Follow-up", "status": "scheduled"})

	snap, err := ctrl.RequestDelete(first)
	if err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.ConfirmDelete(context.Background(), snap.DeletionID)
		done <- err
	}()

	// wait for the confirm to reach the store
	for res.callCount() == 0 {
		runtime.Gosched()
	}

	// the committing delete can no longer be cancelled or replaced
	if _, err := ctrl.CancelDelete(snap.DeletionID); !errors.Is(err, ErrDeleteInFlight) {
		t.Fatalf("cancel during delete: expected ErrDeleteInFlight, got %v", err)
	}
	if _, err := ctrl.RequestDelete(second); !errors.Is(err, ErrDeleteInFlight) {
		t.Fatalf("request during delete: expected ErrDeleteInFlight, got %v", err)
	}
	if _, err := ctrl.ConfirmDelete(context.Background(), snap.DeletionID); !errors.Is(err, ErrDeleteInFlight) {
		t.Fatalf("re-confirm during delete: expected ErrDeleteInFlight, got %v", err)
	}
	if _, err := ctrl.OpenCreate(); !errors.Is(err, ErrDeleteInFlight) {
		t.Fatalf("open during delete: expected ErrDeleteInFlight, got %v", err)
	}

	close(res.blockDelete)
	if err := <-done; err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ctrl.State().Phase != PhaseClosed {
		t.Errorf("phase = %q, want closed", ctrl.State().Phase)
	}
	if _, ok := res.entities[first]; ok {
		t.Error("entity still present after confirmed delete")
	}

	// a fresh delete request works once the confirm has resolved
	snap, err = ctrl.RequestDelete(second)
	if err != nil {
		t.Fatalf("RequestDelete after flight: %v", err)
	}
	if _, err := ctrl.ConfirmDelete(context.Background(), snap.DeletionID); err != nil {
		t.Fatalf("ConfirmDelete after flight: %v", err)
	}
	if _, ok := res.entities[second]; ok {
		t.Error("second entity still present after confirmed delete")
	}
}

func TestDelete_CancelAborts(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)
	id := res.seed(map[string]string{"reason": "Checkup", "status": "scheduled"})

	snap, err := ctrl.RequestDelete(id)
	if err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if _, err := ctrl.CancelDelete(snap.DeletionID); err != nil {
		t.Fatalf("CancelDelete: %v", err)
	}
	if res.callCount() != 0 {
		t.Errorf("request+cancel made %d store calls, want 0", res.callCount())
	}
	if _, ok := res.entities[id]; !ok {
		t.Error("entity gone after cancelled delete")
	}
}

func TestDelete_WrongDeletionID(t *testing.T) {
	res := newFakeResource()
	ctrl := NewController(res)
	id := res.seed(map[string]string{"reason": "Checkup", "status": "scheduled"})

	if _, err := ctrl.RequestDelete(id); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if _, err := ctrl.ConfirmDelete(context.Background(), uuid.New()); !errors.Is(err, ErrUnknownDeletion) {
		t.Fatalf("expected ErrUnknownDeletion, got %v", err)
	}
	if _, ok := res.entities[id]; !ok {
		t.Error("wrong deletion id still deleted the entity")
	}
}

func TestConfirmDelete_FailureStaysPending(t *testing.T) {
	res := newFakeResource()
	res.deleteErr = apperr.Store("delete failed", errors.New("boom"))
	ctrl := NewController(res)
	id := res.seed(map[string]string{"reason": "Checkup", "status": "scheduled"})

	snap, _ := ctrl.RequestDelete(id)
	if _, err := ctrl.ConfirmDelete(context.Background(), snap.DeletionID); err == nil {
		t.Fatal("expected delete error to surface")
	}
	if ctrl.State().Phase != PhaseConfirmingDelete {
		t.Errorf("phase = %q after failure, want confirming_delete", ctrl.State().Phase)
	}

	res.deleteErr = nil
	if _, err := ctrl.ConfirmDelete(context.Background(), snap.DeletionID); err != nil {
		t.Fatalf("retry after store recovery: %v", err)
	}
}
