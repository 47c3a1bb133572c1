package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core/platform"
)

type dashboardApi struct {
	*Server
}

func registerDashboardAPI(g *echo.Group, s *Server) {
	api := dashboardApi{s}

	g.GET("/dashboard", api.dashboard)
	g.GET("/reports", api.reports)
	g.GET("/settings", api.settings)
	g.PUT("/settings", api.updateSettings)
}

func (api dashboardApi) dashboard(ctx echo.Context) error {
	dash, err := api.DashboardSvc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api dashboardApi) reports(ctx echo.Context) error {
	rep, err := api.DashboardSvc.Reports(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building reports")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api dashboardApi) settings(ctx echo.Context) error {
	st, err := api.SettingsSvc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api dashboardApi) updateSettings(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	st, err := api.SettingsSvc.Get(reqCtx)
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	var data platform.SettingsData
	if err = api.submitForm(ctx, platform.Defaults, st, &data); err != nil {
		return err
	}
	if st, err = api.SettingsSvc.Update(reqCtx, data); err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, st)
}
