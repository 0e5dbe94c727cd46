package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core/lead"
)

var contextViewKey = "leadView"

// viewMiddleware loads the lead view `:id` of the context session into the context.
func viewMiddleware(views *registry, jwtConfig middleware.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx, jwtConfig)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			v, ok := views.get(claims.Subject, ctx.Param("id"))
			if !ok {
				return errViewNotFound
			}
			ctx.Set(contextViewKey, v)
			return next(ctx)
		}
	}
}

func getContextView(ctx echo.Context) (*lead.View, error) {
	if v, ok := ctx.Get(contextViewKey).(*lead.View); ok {
		return v, nil
	}
	return nil, errViewNotFound
}
