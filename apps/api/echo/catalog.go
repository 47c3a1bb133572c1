package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func registerCatalogAPI(g *echo.Group, s *Server) {
	g.GET("/:collection", func(ctx echo.Context) error {
		collection := ctx.Param("collection")
		res, err := s.CatalogSvc.Query(ctx.Request().Context(), collection, bindQuery(ctx))
		if err != nil {
			return errors.Wrapf(err, "querying %s", collection)
		}
		return ctx.JSON(http.StatusOK, res)
	})

	g.DELETE("/:collection/:recordId", func(ctx echo.Context) error {
		collection := ctx.Param("collection")
		if err := s.CatalogSvc.Delete(ctx.Request().Context(), collection, ctx.Param("recordId")); err != nil {
			return errors.Wrapf(err, "deleting from %s", collection)
		}
		return ctx.NoContent(http.StatusNoContent)
	})
}
