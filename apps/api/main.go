package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	echoapi "github.com/trezcool/admitdesk/apps/api/echo"
	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
	backendsvc "github.com/trezcool/admitdesk/services/backend"
	logsvc "github.com/trezcool/admitdesk/services/logger"
	sessionsvc "github.com/trezcool/admitdesk/services/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	// set up loggers
	local := logsvc.NewLocalLogger(conf)
	logger := logsvc.NewRollbarLogger(local.WithField("component", "api"), conf)
	logger.Enable(!conf.Debug)

	backendLogger := logsvc.NewRollbarLogger(local.WithField("component", "backend"), conf)
	backendLogger.Enable(!conf.Debug)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	lead.InitValidators(validate, translator)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Sources: func(sess core.Session) (lead.PageSource, error) {
			return backendsvc.NewClient(conf.Backend.BaseURL, conf.Backend.Timeout, sessionsvc.Static(sess), backendLogger)
		},
	})

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("leadViews", expvar.Func(func() interface{} { return server.ViewCount() }))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	go server.Start()

	g.Go(func() error {
		return server.RunSweeper(gctx)
	})

	// =========================================================================
	// Shutdown

	g.Go(func() error {
		defer cancel()

		select {
		case err := <-server.Errors():
			return errors.Wrap(err, "server error")

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		}

		// give outstanding requests a deadline for completion
		sctx, scancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer scancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(sctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				return errors.Wrap(err, "could not force stop server")
			}
		}
		return nil
	})

	return g.Wait()
}
