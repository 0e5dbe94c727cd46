package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core"
)

type (
	SessionRequest struct {
		Token string `json:"token" validate:"required,notblank"`
		Name  string `json:"name"`
		Email string `json:"email" validate:"omitempty,email"`
		Role  string `json:"role"`
	}

	SessionResponse struct {
		Token string `json:"token"`
	}
)

func (r *SessionRequest) Validate(validate *validator.Validate) error {
	r.Token = core.CleanString(r.Token)
	r.Name = core.CleanString(r.Name)
	r.Email = core.CleanString(r.Email, true)
	r.Role = core.CleanString(r.Role, true)
	return validate.Struct(r)
}

type sessionApi struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
	validate  *validator.Validate
}

func registerSessionAPI(g *echo.Group, jwtConfig middleware.JWTConfig, conf *core.Config, validate *validator.Validate) {
	api := sessionApi{
		conf:      conf,
		jwtConfig: jwtConfig,
		validate:  validate,
	}

	g.POST("/sessions", api.create)
}

// create exchanges the backend bearer token and profile for a dashboard session token.
func (api *sessionApi) create(ctx echo.Context) error {
	var data SessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims := GetSessionClaims(core.Session{
		Token: data.Token,
		Name:  data.Name,
		Email: data.Email,
		Role:  data.Role,
	}, api.conf)
	token, err := GenerateToken(claims, api.jwtConfig)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusCreated, SessionResponse{Token: token})
}
