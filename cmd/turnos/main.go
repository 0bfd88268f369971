package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinica-nutricion/turnos-client/internal/app"
	"github.com/clinica-nutricion/turnos-client/internal/cli"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/config"
	"github.com/clinica-nutricion/turnos-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		cfg.Platform = string(domain.PlatformNative)
		log := logger.Init(logger.Options{
			Level:  cfg.LogLevel,
			Pretty: true,
			Output: os.Stderr,
			App:    "turnos",
		})
		return app.New(ctx, cfg, log)
	}

	err := cli.Execute(ctx, cli.Options{Build: build, In: os.Stdin, Out: os.Stdout}, os.Args[1:])
	if err != nil {
		l := logger.Get()
		l.Debug().Err(err).Msg("command failed")
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
