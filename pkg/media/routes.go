package media

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers media item routes on a pre-configured
// group. The group is expected to carry the auth middleware.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	mediaService := NewService(db)

	h := &handler{
		mediaService: mediaService,
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.PUT("/:id/status", h.updateStatus)
	g.POST("/:id/season/advance", h.advanceSeason)
	g.POST("/:id/season/retreat", h.retreatSeason)
	g.DELETE("/:id", h.delete)
}
