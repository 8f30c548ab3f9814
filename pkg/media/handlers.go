package media

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/watchlogapp/watchlog/pkg/errcodes"
	"github.com/watchlogapp/watchlog/pkg/models"
	"github.com/watchlogapp/watchlog/pkg/progress"
)

type handler struct {
	mediaService *Service
}

// ItemDisplay carries the derived presentation fields alongside an item so
// every client renders progress the same way.
type ItemDisplay struct {
	PrimaryText            string  `json:"primary_text"`
	SecondaryText          string  `json:"secondary_text,omitempty"`
	PercentComplete        float64 `json:"percent_complete"`
	SeasonCompleteEligible bool    `json:"season_complete_eligible"`
}

type ItemResponse struct {
	*models.MediaItem
	Display ItemDisplay `json:"display"`
}

func buildItemResponse(item *models.MediaItem) ItemResponse {
	return ItemResponse{
		MediaItem: item,
		Display: ItemDisplay{
			PrimaryText:            progress.PrimaryText(item),
			SecondaryText:          progress.SecondaryText(item),
			PercentComplete:        progress.PercentComplete(item),
			SeasonCompleteEligible: progress.SeasonCompleteEligible(item),
		},
	}
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListItemsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	opts := ListItemsOptions{
		UserID: user.ID,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	}
	if params.Status != nil {
		status := models.MediaStatus(*params.Status)
		opts.Status = &status
	}
	if params.Kind != nil {
		kind := models.MediaKind(*params.Kind)
		opts.Kind = &kind
	}

	items, total, err := h.mediaService.ListItemsWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	result := make([]ItemResponse, len(items))
	for i, item := range items {
		result[i] = buildItemResponse(item)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"items": result,
		"total": total,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	item := &models.MediaItem{
		UserID:              user.ID,
		Title:               params.Title,
		Kind:                models.MediaKind(params.Kind),
		ProgressCurrent:     params.ProgressCurrent,
		ProgressTotal:       params.ProgressTotal,
		CurrentSeason:       params.CurrentSeason,
		TotalSeasons:        params.TotalSeasons,
		SeasonName:          params.SeasonName,
		EpisodesInSeason:    params.EpisodesInSeason,
		SeasonEpisodeCounts: models.IntList(params.SeasonEpisodeCounts),
		VolumesCurrent:      params.VolumesCurrent,
		VolumesTotal:        params.VolumesTotal,
		Synopsis:            params.Synopsis,
		Score:               params.Score,
		Genres:              models.StringList(params.Genres),
		CatalogID:           params.CatalogID,
	}
	if params.Status != nil {
		item.Status = models.MediaStatus(*params.Status)
	}

	created, err := h.mediaService.CreateItem(ctx, item)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, buildItemResponse(created)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	item, err := h.mediaService.RetrieveItem(ctx, RetrieveItemOptions{
		ID:     c.Param("id"),
		UserID: &user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildItemResponse(item)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	item, err := h.mediaService.RetrieveItem(ctx, RetrieveItemOptions{
		ID:     c.Param("id"),
		UserID: &user.ID,
	})
	if err != nil {
		return err
	}

	applyItemPatch(item, params)

	updated, err := h.mediaService.ReplaceItem(ctx, user.ID, item)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildItemResponse(updated)))
}

func (h *handler) updateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateStatusPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	item, err := h.mediaService.UpdateStatus(ctx, UpdateStatusOptions{
		ID:     c.Param("id"),
		UserID: user.ID,
		Status: models.MediaStatus(params.Status),
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildItemResponse(item)))
}

func (h *handler) advanceSeason(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	item, err := h.mediaService.AdvanceSeason(ctx, SeasonMoveOptions{
		ID:     c.Param("id"),
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildItemResponse(item)))
}

func (h *handler) retreatSeason(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	item, err := h.mediaService.RetreatSeason(ctx, SeasonMoveOptions{
		ID:     c.Param("id"),
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, buildItemResponse(item)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("User not found in context")
	}

	err := h.mediaService.DeleteItem(ctx, DeleteItemOptions{
		ID:     c.Param("id"),
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func applyItemPatch(item *models.MediaItem, params UpdateItemPayload) {
	if params.Title != nil {
		item.Title = *params.Title
	}
	if params.ProgressCurrent != nil {
		item.ProgressCurrent = *params.ProgressCurrent
	}
	if params.ProgressTotal != nil {
		item.ProgressTotal = params.ProgressTotal
	}
	if params.CurrentSeason != nil {
		item.CurrentSeason = params.CurrentSeason
	}
	if params.TotalSeasons != nil {
		item.TotalSeasons = params.TotalSeasons
	}
	if params.SeasonName != nil {
		item.SeasonName = params.SeasonName
	}
	if params.EpisodesInSeason != nil {
		item.EpisodesInSeason = params.EpisodesInSeason
	}
	if params.SeasonEpisodeCounts != nil {
		item.SeasonEpisodeCounts = models.IntList(*params.SeasonEpisodeCounts)
	}
	if params.VolumesCurrent != nil {
		item.VolumesCurrent = params.VolumesCurrent
	}
	if params.VolumesTotal != nil {
		item.VolumesTotal = params.VolumesTotal
	}
	if params.Synopsis != nil {
		item.Synopsis = params.Synopsis
	}
	if params.Score != nil {
		item.Score = params.Score
	}
	if params.Genres != nil {
		item.Genres = models.StringList(*params.Genres)
	}
	if params.CatalogID != nil {
		item.CatalogID = params.CatalogID
	}
}
