package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/logger"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/service"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/transport"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			db.NewGormClient,
		),
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Desugar()}
		}),
		service.Module,
		transport.Module,
	).Run()
}
