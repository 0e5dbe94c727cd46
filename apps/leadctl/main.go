package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/trezcool/admitdesk/core"
	"github.com/trezcool/admitdesk/core/lead"
	logsvc "github.com/trezcool/admitdesk/services/logger"
	sessionsvc "github.com/trezcool/admitdesk/services/session"
)

const redisKeyPrefix = "admitdesk:leadctl:"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, err := core.NewConfig()
	errAndDie(err)

	local := logsvc.NewLocalLogger(conf)
	if !conf.Debug {
		local.SetLevel(logrus.ErrorLevel) // failures are reported to the user
	}
	logger := logsvc.NewRollbarLogger(local.WithField("component", "leadctl"), conf)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	lead.InitValidators(validate, translator)

	store, err := openSessionStore(ctx, conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		conf:     conf,
		logger:   logger,
		validate: validate,
		sessions: sessionsvc.NewProvider(store),
		out:      color.Output,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// openSessionStore keeps the session in redis when an address is configured, on disk otherwise.
func openSessionStore(ctx context.Context, conf *core.Config) (sessionsvc.Store, error) {
	if conf.Session.RedisAddr == "" {
		return sessionsvc.NewDiskStore(conf.Session.Dir), nil
	}
	rdb, err := sessionsvc.DialRedis(ctx, conf.Session.RedisAddr)
	if err != nil {
		return nil, errors.Wrap(err, "opening session store")
	}
	return sessionsvc.NewRedisStore(rdb, redisKeyPrefix, 0), nil
}

func errAndDie(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}
