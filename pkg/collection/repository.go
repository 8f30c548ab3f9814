// Package collection provides a client-held, optimistically mutated view of
// one owner's media items. Mutations apply to the local collection
// immediately, issue the corresponding remote write, and either commit the
// canonical server response or roll the collection back to the exact
// pre-mutation snapshot when the write fails.
package collection

import (
	"context"

	"github.com/pkg/errors"
	"github.com/watchlogapp/watchlog/pkg/models"
)

// Repository is the durable store behind the collection. Implementations
// must return an error satisfying errcodes.IsNotFound when an id does not
// exist, so the mutator can tell a vanished item apart from a transport
// failure. The server-side implementation is media.Repository; a remote
// HTTP client satisfies the same contract.
type Repository interface {
	List(ctx context.Context) ([]*models.MediaItem, error)
	Create(ctx context.Context, item *models.MediaItem) (*models.MediaItem, error)
	Replace(ctx context.Context, id string, item *models.MediaItem) (*models.MediaItem, error)
	Delete(ctx context.Context, id string) error
}

// ErrStaleSnapshot signals that the local collection no longer matches the
// remote store. The caller must resynchronize before retrying; a blind retry
// would replay the same stale write.
var ErrStaleSnapshot = errors.New("collection snapshot is stale; resync required")
