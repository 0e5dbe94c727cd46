package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
)

type (
	// SourceFactory returns the lead source of a dashboard session.
	SourceFactory func(sess core.Session) (lead.PageSource, error)

	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		Sources        SourceFactory
		DisableReqLogs bool
	}

	Server struct {
		deps      ServerDeps
		app       *echo.Echo
		jwtConfig middleware.JWTConfig
		views     *registry
		errors    chan error
		shutdown  chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = core.DiscardLogger
	}
	s := &Server{
		deps:      deps,
		app:       echo.New(),
		jwtConfig: NewJWTConfig(deps.Conf.SecretKey),
		views:     newRegistry(),
		errors:    make(chan error, 1),
		shutdown:  make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.jwtConfig, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = conf.TestMode

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.jwtConfig)

	registerSessionAPI(v1, s.jwtConfig, conf, s.deps.Validate)
	registerLeadViewAPI(v1, jwt, s.jwtConfig, s.views, s.deps)
}

// Start serves the API until it is shut down; a listener failure is sent on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown stops accepting requests, waits for the outstanding ones, then unmounts every view.
func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	defer s.views.closeAll()
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	defer s.views.closeAll()
	return s.app.Close()
}

// RunSweeper unmounts the views left idle for longer than `server.viewIdleTimeout` until ctx is done.
func (s *Server) RunSweeper(ctx context.Context) error {
	idle := s.deps.Conf.Server.ViewIdleTimeout
	if idle <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.views.sweep(idle); n > 0 {
				s.deps.Logger.Info("unmounted idle lead views", map[string]interface{}{"count": n})
			}
		}
	}
}

// ViewCount is the number of mounted lead views.
func (s *Server) ViewCount() int {
	return s.views.len()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to AdmitDesk API!")
}
