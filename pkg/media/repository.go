package media

import (
	"context"

	"github.com/watchlogapp/watchlog/pkg/models"
)

// Repository adapts the media service to the collection.Repository interface,
// scoped to a single owner. The optimistic collection layer talks to this
// adapter and never sees user ids.
type Repository struct {
	svc    *Service
	userID int
}

func NewRepository(svc *Service, userID int) *Repository {
	return &Repository{svc: svc, userID: userID}
}

func (r *Repository) List(ctx context.Context) ([]*models.MediaItem, error) {
	return r.svc.ListItems(ctx, ListItemsOptions{UserID: r.userID})
}

func (r *Repository) Create(ctx context.Context, item *models.MediaItem) (*models.MediaItem, error) {
	item = item.Clone()
	// The store's placeholder id never reaches the database; the service
	// assigns the canonical one.
	item.ID = ""
	item.UserID = r.userID
	return r.svc.CreateItem(ctx, item)
}

func (r *Repository) Replace(ctx context.Context, id string, item *models.MediaItem) (*models.MediaItem, error) {
	item = item.Clone()
	item.ID = id
	return r.svc.ReplaceItem(ctx, r.userID, item)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.svc.DeleteItem(ctx, DeleteItemOptions{ID: id, UserID: r.userID})
}
