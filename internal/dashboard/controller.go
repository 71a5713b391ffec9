package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Phase is the controller's coarse state.
type Phase string

const (
	PhaseClosed           Phase = "closed"
	PhaseDrafting         Phase = "drafting"
	PhaseSubmitting       Phase = "submitting"
	PhaseConfirmingDelete Phase = "confirming_delete"
	PhaseDeleting         Phase = "deleting"
)

// Mode distinguishes a create draft from an edit draft.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var (
	// ErrSubmitInFlight is returned when an action arrives while a submit
	// is still waiting on the store. Duplicate writes are refused rather
	// than queued.
	ErrSubmitInFlight = errors.New("a submit is already in flight")

	// ErrDeleteInFlight is the delete protocol's counterpart: once a
	// confirm has reached the store, the pending delete can no longer be
	// cancelled, re-confirmed, or replaced.
	ErrDeleteInFlight = errors.New("a delete is already in flight")

	ErrFormOpen        = errors.New("a form is already open")
	ErrNoOpenForm      = errors.New("no form is open")
	ErrUnknownForm     = errors.New("form not found")
	ErrNoPendingDelete = errors.New("no delete is pending")
	ErrUnknownDeletion = errors.New("pending delete not found")
)

// Controller runs one entity kind's form lifecycle for one session. All
// transitions are serialized on the controller's mutex; the lock is dropped
// for the store round trip during submit so the in-flight guard is
// observable from other requests.
type Controller struct {
	mu  sync.Mutex
	res Resource

	cache *ListCache

	phase  Phase
	mode   Mode
	formID uuid.UUID
	target uuid.UUID
	draft  Draft

	deletionID   uuid.UUID
	deleteTarget uuid.UUID
}

// Snapshot is a point-in-time copy of the controller state, safe to hand
// to callers after the lock is released.
type Snapshot struct {
	Kind         string            `json:"kind"`
	Phase        Phase             `json:"phase"`
	Mode         Mode              `json:"mode,omitempty"`
	FormID       uuid.UUID         `json:"form_id,omitempty"`
	Target       uuid.UUID         `json:"target_id,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	DeletionID   uuid.UUID         `json:"deletion_id,omitempty"`
	DeleteTarget uuid.UUID         `json:"delete_target_id,omitempty"`
}

func NewController(res Resource) *Controller {
	return &Controller{
		res:   res,
		cache: NewListCache(),
		phase: PhaseClosed,
	}
}

func (c *Controller) Cache() *ListCache { return c.cache }

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Kind:         c.res.Kind(),
		Phase:        c.phase,
		Mode:         c.mode,
		FormID:       c.formID,
		Target:       c.target,
		DeletionID:   c.deletionID,
		DeleteTarget: c.deleteTarget,
	}
	if c.phase == PhaseDrafting || c.phase == PhaseSubmitting {
		s.Fields = c.draft.Fields()
	}
	return s
}

// State returns the current snapshot.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OpenCreate starts a create draft from the kind's default table.
func (c *Controller) OpenCreate() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitting {
		return Snapshot{}, ErrSubmitInFlight
	}
	if c.phase == PhaseDeleting {
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseClosed {
		return Snapshot{}, ErrFormOpen
	}
	c.draft = newDraft(c.res.Defaults())
	c.formID = uuid.New()
	c.target = uuid.Nil
	c.mode = ModeCreate
	c.phase = PhaseDrafting
	return c.snapshotLocked(), nil
}

// OpenEdit starts an edit draft seeded from the stored entity. Fetching
// the entity is the only store call; failure leaves the controller closed.
func (c *Controller) OpenEdit(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return Snapshot{}, ErrSubmitInFlight
	}
	if c.phase == PhaseDeleting {
		c.mu.Unlock()
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseClosed {
		c.mu.Unlock()
		return Snapshot{}, ErrFormOpen
	}
	c.mu.Unlock()

	fields, err := c.res.DraftFor(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseClosed {
		return Snapshot{}, ErrFormOpen
	}
	c.draft = newDraft(fields)
	c.formID = uuid.New()
	c.target = id
	c.mode = ModeEdit
	c.phase = PhaseDrafting
	return c.snapshotLocked(), nil
}

// SetField replaces one draft field. Valid only while drafting.
func (c *Controller) SetField(formID uuid.UUID, key, value string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitting {
		return Snapshot{}, ErrSubmitInFlight
	}
	if c.phase == PhaseDeleting {
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseDrafting {
		return Snapshot{}, ErrNoOpenForm
	}
	if formID != c.formID {
		return Snapshot{}, ErrUnknownForm
	}
	next, err := c.draft.Set(key, value)
	if err != nil {
		return Snapshot{}, err
	}
	c.draft = next
	return c.snapshotLocked(), nil
}

// Submit commits the draft: create for a create draft, full-field update
// for an edit draft. On success the list cache is refreshed strictly after
// the mutation resolves and the form closes. On failure the form stays
// open with the draft intact and the error is returned.
func (c *Controller) Submit(ctx context.Context, formID uuid.UUID) (Snapshot, error) {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return Snapshot{}, ErrSubmitInFlight
	}
	if c.phase == PhaseDeleting {
		c.mu.Unlock()
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseDrafting {
		c.mu.Unlock()
		return Snapshot{}, ErrNoOpenForm
	}
	if formID != c.formID {
		c.mu.Unlock()
		return Snapshot{}, ErrUnknownForm
	}
	fields := c.draft.Fields()
	mode := c.mode
	target := c.target
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	var err error
	if mode == ModeCreate {
		err = c.res.Create(ctx, fields)
	} else {
		err = c.res.Update(ctx, target, fields)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseDrafting
		return c.snapshotLocked(), err
	}

	refreshErr := c.refreshLocked(ctx)
	c.phase = PhaseClosed
	c.mode = ""
	c.formID = uuid.Nil
	c.target = uuid.Nil
	c.draft = Draft{}
	return c.snapshotLocked(), refreshErr
}

// Cancel discards the draft unconditionally. No store calls are made and
// the cached list is untouched.
func (c *Controller) Cancel(formID uuid.UUID) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitting {
		return Snapshot{}, ErrSubmitInFlight
	}
	if c.phase == PhaseDeleting {
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseDrafting {
		return Snapshot{}, ErrNoOpenForm
	}
	if formID != c.formID {
		return Snapshot{}, ErrUnknownForm
	}
	c.phase = PhaseClosed
	c.mode = ""
	c.formID = uuid.Nil
	c.target = uuid.Nil
	c.draft = Draft{}
	return c.snapshotLocked(), nil
}

// RequestDelete opens the confirmation step for deleting id. Nothing is
// deleted until ConfirmDelete.
func (c *Controller) RequestDelete(id uuid.UUID) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitting {
		return Snapshot{}, ErrSubmitInFlight
	}
	if c.phase == PhaseDeleting {
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseClosed {
		return Snapshot{}, ErrFormOpen
	}
	c.deletionID = uuid.New()
	c.deleteTarget = id
	c.phase = PhaseConfirmingDelete
	return c.snapshotLocked(), nil
}

// ConfirmDelete commits the pending delete and refreshes the list. Phase
// is held at PhaseDeleting while the lock is dropped for the store round
// trip, so a concurrent cancel, re-confirm, or new delete request fails
// with ErrDeleteInFlight instead of racing the commit. On failure the
// confirmation stays pending so the caller can retry or abort.
func (c *Controller) ConfirmDelete(ctx context.Context, deletionID uuid.UUID) (Snapshot, error) {
	c.mu.Lock()
	if c.phase == PhaseDeleting {
		c.mu.Unlock()
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseConfirmingDelete {
		c.mu.Unlock()
		return Snapshot{}, ErrNoPendingDelete
	}
	if deletionID != c.deletionID {
		c.mu.Unlock()
		return Snapshot{}, ErrUnknownDeletion
	}
	target := c.deleteTarget
	c.phase = PhaseDeleting
	c.mu.Unlock()

	err := c.res.Delete(ctx, target)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseConfirmingDelete
		return c.snapshotLocked(), err
	}

	refreshErr := c.refreshLocked(ctx)
	c.phase = PhaseClosed
	c.deletionID = uuid.Nil
	c.deleteTarget = uuid.Nil
	return c.snapshotLocked(), refreshErr
}

// CancelDelete abandons the pending delete with zero store calls. A
// delete whose confirm has already reached the store cannot be cancelled.
func (c *Controller) CancelDelete(deletionID uuid.UUID) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseDeleting {
		return Snapshot{}, ErrDeleteInFlight
	}
	if c.phase != PhaseConfirmingDelete {
		return Snapshot{}, ErrNoPendingDelete
	}
	if deletionID != c.deletionID {
		return Snapshot{}, ErrUnknownDeletion
	}
	c.phase = PhaseClosed
	c.deletionID = uuid.Nil
	c.deleteTarget = uuid.Nil
	return c.snapshotLocked(), nil
}

// Refresh re-lists the kind and replaces the cache.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Controller) refreshLocked(ctx context.Context) error {
	items, total, err := c.res.List(ctx)
	if err != nil {
		return err
	}
	c.cache.Replace(items, total)
	return nil
}
