package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
)

var (
	DefaultWays  = []string{"Boil", "Stir-fry", "Grill", "Steam", "Deep-fry", "Bake", "Raw", "Braise"}
	DefaultTypes = []string{"Main dish", "Side dish", "Soup", "Salad", "Dessert", "Snack", "Beverage", "Sauce"}
)

var logLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

// NewGormClient opens the pool once for the process and closes it when the
// fx application stops.
func NewGormClient(lc fx.Lifecycle, cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := Open(cfg, l)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedLookups(db); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Info("Closing database pool.")
			sqlDB, err := db.DB()
			if err != nil {
				return errors.Wrap(err, "get sql db")
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func Open(cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	level, ok := logLevels[cfg.DBLogLevel]
	if !ok {
		level = logger.Warn
	}
	newLogger := logger.New(zap.NewStdLog(l.Desugar()), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
	})

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}
	if cfg.DBDriver == config.DriverSQLite {
		// single writer; also keeps an in-memory database alive across calls
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, errors.Wrap(err, "enable foreign keys")
		}
	} else if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	return nil
}

func SeedLookups(db *gorm.DB) error {
	ways := make([]RecipeWay, len(DefaultWays))
	for i, name := range DefaultWays {
		ways[i] = RecipeWay{Name: name}
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&ways)
	if res.Error != nil {
		return errors.Wrap(res.Error, "seed recipe ways")
	}

	types := make([]RecipeType, len(DefaultTypes))
	for i, name := range DefaultTypes {
		types[i] = RecipeType{Name: name}
	}
	res = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&types)
	if res.Error != nil {
		return errors.Wrap(res.Error, "seed recipe types")
	}

	return nil
}
