package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
)

type ViewResponse struct {
	ID   string    `json:"id"`
	Page lead.Page `json:"page"`
}

type leadViewApi struct {
	conf      *core.Config
	logger    core.Logger
	validate  *validator.Validate
	sources   SourceFactory
	views     *registry
	jwtConfig middleware.JWTConfig
}

func registerLeadViewAPI(g *echo.Group, jwt echo.MiddlewareFunc, jwtConfig middleware.JWTConfig, views *registry, deps ServerDeps) {
	api := leadViewApi{
		conf:      deps.Conf,
		logger:    deps.Logger,
		validate:  deps.Validate,
		sources:   deps.Sources,
		views:     views,
		jwtConfig: jwtConfig,
	}

	vg := g.Group("/lead-views", jwt)
	vg.POST("", api.mount)

	// detail endpoints
	dg := vg.Group("/:id", viewMiddleware(views, jwtConfig))
	dg.GET("", api.render)
	dg.POST("/reload", api.reload)
	dg.PATCH("/leads/:lead_id", api.patchSalesStatus)
	dg.DELETE("", api.unmount)
}

// Handlers

func (api *leadViewApi) mount(ctx echo.Context) error {
	claims, err := getContextClaims(ctx, api.jwtConfig)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// no view can be built for anyone: the app is misconfigured
	src, err := api.sources(claims.Session())
	if err != nil {
		return core.NewShutdownError(fmt.Sprintf("creating lead source: %v", err))
	}
	v, err := lead.NewView(src, lead.WithPageSize(api.conf.Leads.PageSize), lead.WithLogger(api.logger))
	if err != nil {
		return core.NewShutdownError(fmt.Sprintf("creating lead view: %v", err))
	}

	id := api.views.add(claims.Subject, v)
	api.logger.Debug(fmt.Sprintf("lead view %s mounted", id), claims.Session())

	return ctx.JSON(http.StatusCreated, ViewResponse{ID: id, Page: v.Render()})
}

func (api *leadViewApi) render(ctx echo.Context) error {
	v, err := getContextView(ctx)
	if err != nil {
		return err
	}

	var q ViewQuery
	if err = q.Bind(ctx); err != nil {
		return err
	}
	filter := q.Filter(v.Filter())
	if err = api.validate.Struct(filter); err != nil {
		return err
	}

	// a changed filter starts over from the first page
	if !v.SetFilter(filter) && q.Page > 0 {
		if err = v.SetPage(q.Page); err != nil {
			return err
		}
	}

	if !q.Wait {
		return ctx.JSON(http.StatusOK, ViewResponse{ID: ctx.Param("id"), Page: v.Render()})
	}

	// fetch failures are reported in the page, without fetching again; a gone client gets whatever is loaded
	reqCtx := ctx.Request().Context()
	if err = v.Fill(reqCtx); err != nil && lead.Kind(err) == "" && reqCtx.Err() == nil {
		return errors.Wrap(err, "filling lead view")
	}
	return ctx.JSON(http.StatusOK, ViewResponse{ID: ctx.Param("id"), Page: v.Snapshot()})
}

func (api *leadViewApi) reload(ctx echo.Context) error {
	v, err := getContextView(ctx)
	if err != nil {
		return err
	}

	// fetch failures are reported in the page
	if err = v.Reload(ctx.Request().Context()); err != nil && lead.Kind(err) == "" {
		return errors.Wrap(err, "reloading lead view")
	}
	return ctx.JSON(http.StatusOK, ViewResponse{ID: ctx.Param("id"), Page: v.Render()})
}

func (api *leadViewApi) patchSalesStatus(ctx echo.Context) error {
	v, err := getContextView(ctx)
	if err != nil {
		return err
	}

	var data lead.SalesStatusUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SalesStatusUpdate")
	}
	status, err := data.Validate(api.validate)
	if err != nil {
		return err
	}

	l, err := v.PatchSalesStatus(ctx.Request().Context(), ctx.Param("lead_id"), status)
	if err != nil {
		return errors.Wrap(err, "patching sales status")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *leadViewApi) unmount(ctx echo.Context) error {
	claims, err := getContextClaims(ctx, api.jwtConfig)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !api.views.remove(claims.Subject, ctx.Param("id")) {
		return errViewNotFound
	}
	api.logger.Debug(fmt.Sprintf("lead view %s unmounted", ctx.Param("id")), claims.Session())
	return ctx.NoContent(http.StatusNoContent)
}
