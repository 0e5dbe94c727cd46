package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errViewNotFound     = echo.NewHTTPError(http.StatusNotFound, "lead view not found")
	errLeadNotFound     = echo.NewHTTPError(http.StatusNotFound, "lead not found")
	errFetchInFlight    = echo.NewHTTPError(http.StatusConflict, "leads are loading, try again later")
	errUpdatesDisabled  = echo.NewHTTPError(http.StatusMethodNotAllowed, "sales status updates are not supported")
	errSessionExpired   = echo.NewHTTPError(http.StatusUnauthorized, lead.MsgSessionExpired)
	errBadBackendResp   = echo.NewHTTPError(http.StatusBadGateway, lead.MsgBadResponse)
	errBackendTransport = echo.NewHTTPError(http.StatusBadGateway, lead.MsgUpdateFailed)
)

// leadHTTPError maps the lead errors onto HTTP errors; nil when `err` is not one of them.
func leadHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, lead.ErrViewClosed):
		return errViewNotFound
	case errors.Is(err, lead.ErrNotFound):
		return errLeadNotFound
	case errors.Is(err, lead.ErrFetchInFlight):
		return errFetchInFlight
	case errors.Is(err, lead.ErrNoPatcher):
		return errUpdatesDisabled
	case errors.Is(err, lead.ErrUnauthorized):
		return errSessionExpired
	case errors.Is(err, lead.ErrMalformed):
		return errBadBackendResp
	case errors.Is(err, lead.ErrTransport):
		return errBackendTransport
	case errors.Is(err, lead.ErrInvalidPage):
		return echo.NewHTTPError(http.StatusBadRequest, lead.ErrInvalidPage.Error())
	default:
		return nil
	}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	jwtConfig middleware.JWTConfig,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		if herr := leadHTTPError(err); herr != nil {
			err = errors.Wrap(err, herr.Error())
			code = herr.Code
			message = herr.Message
		} else {
			switch origErr := errors.Cause(err).(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				code = http.StatusBadRequest
				message = core.TranslateErrors(origErr, translator)
			case *core.ValidationError:
				if origErr.Fields != nil {
					message = origErr.FieldMap()
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var sess core.Session
				if claims, cErr := getContextClaims(ctx, jwtConfig); cErr == nil {
					sess = claims.Session()
				}
				logger.Error(msg, errors.Wrap(err, msg), sess)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
