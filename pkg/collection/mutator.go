package collection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/watchlogapp/watchlog/pkg/errcodes"
	"github.com/watchlogapp/watchlog/pkg/models"
)

// Mutator applies optimistic mutations to a Store and reconciles them
// against a Repository. Each operation follows the same three-phase
// contract: apply locally, issue the remote write, then commit the server's
// canonical response or roll back to the pre-mutation snapshot.
//
// Mutator is not safe for concurrent use. It is built for a single-threaded,
// action-driven caller: all local mutation runs synchronously between remote
// suspension points, so no caller ever observes a half-applied state. A
// second mutation to the same item before the first settles is not
// prevented; the last remote write wins, and callers that need batching must
// coalesce themselves.
type Mutator struct {
	repo    Repository
	store   *Store
	ownerID int
}

// NewMutator returns a mutator writing to store on behalf of ownerID. An
// ownerID of 0 means no active session; every mutation is then rejected
// locally before any remote call.
func NewMutator(repo Repository, store *Store, ownerID int) *Mutator {
	return &Mutator{repo: repo, store: store, ownerID: ownerID}
}

// Resync replaces the collection with the repository's current contents.
func (m *Mutator) Resync(ctx context.Context) error {
	items, err := m.repo.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	fresh := make([]*models.MediaItem, len(items))
	for i, item := range items {
		fresh[i] = item.Clone()
	}
	m.store.restore(fresh)
	return nil
}

// AddItem appends the item locally under a placeholder id, then creates it
// remotely. On success the placeholder is replaced with the server-confirmed
// item; on failure the placeholder is removed and the error surfaced.
func (m *Mutator) AddItem(ctx context.Context, item *models.MediaItem) (*models.MediaItem, error) {
	if err := m.requireSession(); err != nil {
		return nil, err
	}

	local := item.Clone()
	if local.ID == "" {
		local.ID = uuid.New().String()
	}
	local.UserID = m.ownerID
	m.store.insertAt(m.store.Len(), local)

	created, err := m.repo.Create(ctx, local.Clone())
	if err != nil {
		if idx := m.store.indexOf(local.ID); idx >= 0 {
			m.store.removeAt(idx)
		}
		return nil, errors.WithStack(err)
	}

	committed := created.Clone()
	if idx := m.store.indexOf(local.ID); idx >= 0 {
		m.store.items[idx] = committed
	}
	return committed, nil
}

// UpdateItem replaces the matching item with the patched version locally,
// then remotely. On success the server's canonical item wins over local
// fields; on failure the collection is restored verbatim from the
// pre-mutation snapshot.
func (m *Mutator) UpdateItem(ctx context.Context, patch *models.MediaItem) (*models.MediaItem, error) {
	if err := m.requireSession(); err != nil {
		return nil, err
	}

	idx := m.store.indexOf(patch.ID)
	if idx < 0 {
		return nil, errors.WithStack(ErrStaleSnapshot)
	}

	return m.replaceAt(ctx, idx, patch.Clone())
}

// UpdateStatus is UpdateItem specialized to a status transition, carrying
// the datePaused side effect: set on transition into Paused, cleared on
// transition out. A missing local item fails before any remote call with
// ErrStaleSnapshot, telling the caller to resynchronize.
func (m *Mutator) UpdateStatus(ctx context.Context, id string, status models.MediaStatus) (*models.MediaItem, error) {
	if err := m.requireSession(); err != nil {
		return nil, err
	}

	idx := m.store.indexOf(id)
	if idx < 0 {
		return nil, errors.WithStack(ErrStaleSnapshot)
	}

	patched := m.store.items[idx].Clone()
	if status == models.MediaStatusPaused && patched.Status != models.MediaStatusPaused {
		now := time.Now()
		patched.DatePaused = &now
	} else if status != models.MediaStatusPaused && patched.Status == models.MediaStatusPaused {
		patched.DatePaused = nil
	}
	patched.Status = status

	return m.replaceAt(ctx, idx, patched)
}

// DeleteItem removes the item locally, then remotely. On failure the item is
// re-inserted at its prior position from the snapshot.
func (m *Mutator) DeleteItem(ctx context.Context, id string) error {
	if err := m.requireSession(); err != nil {
		return err
	}

	idx := m.store.indexOf(id)
	if idx < 0 {
		return errors.WithStack(ErrStaleSnapshot)
	}

	snap := m.store.snapshot()
	m.store.removeAt(idx)

	if err := m.repo.Delete(ctx, id); err != nil {
		m.store.restore(snap)
		return m.settleFailure(ctx, err)
	}
	return nil
}

// replaceAt runs the shared three-phase replace: local swap, remote write,
// commit or rollback.
func (m *Mutator) replaceAt(ctx context.Context, idx int, patched *models.MediaItem) (*models.MediaItem, error) {
	snap := m.store.snapshot()
	m.store.items[idx] = patched

	canonical, err := m.repo.Replace(ctx, patched.ID, patched.Clone())
	if err != nil {
		m.store.restore(snap)
		return nil, m.settleFailure(ctx, err)
	}

	committed := canonical.Clone()
	m.store.items[idx] = committed
	return committed, nil
}

// settleFailure maps a failed remote write, after rollback, to the error the
// caller sees. A remote not-found means the local snapshot is stale: the
// collection is refetched from the source of truth and the caller gets
// ErrStaleSnapshot instead of a retryable transport error.
func (m *Mutator) settleFailure(ctx context.Context, err error) error {
	if errcodes.IsNotFound(err) {
		if resyncErr := m.Resync(ctx); resyncErr != nil {
			return errors.WithStack(resyncErr)
		}
		return errors.WithStack(ErrStaleSnapshot)
	}
	return errors.WithStack(err)
}

func (m *Mutator) requireSession() error {
	if m.ownerID <= 0 {
		return errcodes.Unauthorized("No active session.")
	}
	return nil
}
