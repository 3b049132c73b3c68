// Package dispatch validates list_control requests and executes them
// against a ListStore on behalf of one owner.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// Result is the uniform outcome envelope of Execute.
type Result struct {
	Action domain.Action
	// Requested is the number of rows the request named: items for
	// create, ids for delete, one for update.
	Requested int
	// Items are the rows created or updated.
	Items []domain.ListItem
	// Deleted is the number of rows removed by a delete.
	Deleted int
}

// Affected returns how many rows the request changed.
func (r *Result) Affected() int {
	if r.Action == domain.ActionDelete {
		return r.Deleted
	}
	return len(r.Items)
}

// Dispatcher is the only path by which the agent mutates a list. Every
// storage call it makes is scoped by the caller's owner id.
type Dispatcher struct {
	store  domain.ListStore
	owners domain.OwnerLookup // nil when the store can't tell
	log    *logger.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the timestamp source for created rows.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDGenerator overrides the row id source.
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

// New creates a dispatcher over store. If store also implements
// domain.OwnerLookup, foreign ids are reported as authorization errors
// instead of silent no-ops.
func New(store domain.ListStore, log *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	if ol, ok := store.(domain.OwnerLookup); ok {
		d.owners = ol
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ── Public API ───────────────────────────────────────────────────

// Execute validates req and runs it for ownerID. On a partial create the
// returned Result holds the rows that made it and the error is a storage
// error naming requested vs inserted counts.
func (d *Dispatcher) Execute(ctx context.Context, ownerID string, req domain.ActionRequest) (*Result, error) {
	if ownerID == "" {
		return nil, domain.Errorf(domain.KindAuthorization, "dispatch.execute", "no caller identity")
	}
	if err := checkShape(req); err != nil {
		return nil, err
	}

	switch req.Action {
	case domain.ActionCreate:
		return d.create(ctx, ownerID, req.Items)
	case domain.ActionUpdate:
		return d.update(ctx, ownerID, req.ID, req.Items[0])
	case domain.ActionDelete:
		ids := req.IDs
		if req.ID != "" {
			ids = []string{req.ID}
		}
		return d.delete(ctx, ownerID, ids)
	}
	// checkShape rejects anything else.
	return nil, invalid("unknown action %q", req.Action)
}

// ── Actions ──────────────────────────────────────────────────────

func (d *Dispatcher) create(ctx context.Context, ownerID string, drafts []domain.ListItemDraft) (*Result, error) {
	rows := make([]domain.ListItem, 0, len(drafts))
	now := d.now()
	for i, draft := range drafts {
		item, err := newItem(draft, i)
		if err != nil {
			return nil, err
		}
		item.ID = d.newID()
		item.OwnerID = ownerID
		item.CreatedAt = now
		rows = append(rows, item)
	}

	res := &Result{Action: domain.ActionCreate, Requested: len(rows)}
	inserted, err := d.store.InsertMany(ctx, rows)
	res.Items = inserted
	if err != nil {
		d.log.Error("Insert failed after %d of %d rows: %v", len(inserted), len(rows), err)
		return res, &domain.Error{
			Kind: domain.KindStorage,
			Op:   "dispatch.create",
			Msg:  fmt.Sprintf("inserted %d of %d items", len(inserted), len(rows)),
			Err:  err,
		}
	}

	d.log.Debug("Created %d items for %s", len(inserted), ownerID)
	return res, nil
}

func (d *Dispatcher) update(ctx context.Context, ownerID, id string, draft domain.ListItemDraft) (*Result, error) {
	patch, err := toPatch(draft, 0)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, invalid("update patch changes nothing")
	}

	res := &Result{Action: domain.ActionUpdate, Requested: 1}
	updated, err := d.store.UpdateOne(ctx, id, ownerID, patch)
	if err != nil {
		return res, domain.WrapError(domain.KindStorage, "dispatch.update", err)
	}
	res.Items = updated

	if len(updated) == 0 {
		if err := d.checkForeign(ctx, ownerID, []string{id}); err != nil {
			return res, err
		}
		d.log.Debug("Update of %s matched nothing for %s", id, ownerID)
	}
	return res, nil
}

func (d *Dispatcher) delete(ctx context.Context, ownerID string, ids []string) (*Result, error) {
	res := &Result{Action: domain.ActionDelete, Requested: len(ids)}
	// A single foreign id rejects the whole request before anything is removed.
	if err := d.checkForeign(ctx, ownerID, ids); err != nil {
		return res, err
	}
	n, err := d.store.DeleteMany(ctx, ids, ownerID)
	if err != nil {
		return res, domain.WrapError(domain.KindStorage, "dispatch.delete", err)
	}
	res.Deleted = n

	if n < len(ids) {
		d.log.Debug("Delete removed %d of %d ids for %s", n, len(ids), ownerID)
	}
	return res, nil
}

// checkForeign returns an authorization error if any id exists under a
// different owner. Ids that don't exist at all are not an error.
func (d *Dispatcher) checkForeign(ctx context.Context, ownerID string, ids []string) error {
	if d.owners == nil {
		return nil
	}
	for _, id := range ids {
		owner, err := d.owners.OwnerOf(ctx, id)
		if err != nil {
			continue
		}
		if owner != ownerID {
			d.log.Warn("Owner %s referenced item %s owned by someone else", ownerID, id)
			return domain.Errorf(domain.KindAuthorization, "dispatch.scope", "item %s is not on your list", id)
		}
	}
	return nil
}
