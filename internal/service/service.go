package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
)

var Module = fx.Provide(
	NewAccounts,
	NewFridge,
	NewRecipes,
	NewDiscovery,
	NewSocial,
)

// base is embedded by every component. Components share nothing but the pool.
type base struct {
	db      *gorm.DB
	logger  *zap.SugaredLogger
	timeout time.Duration
}

func newBase(db *gorm.DB, cfg *config.Config, l *zap.SugaredLogger) base {
	return base{
		db:      db,
		logger:  l,
		timeout: cfg.StatementTimeout,
	}
}

// conn returns a session bound to a context carrying the statement timeout.
func (b *base) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return b.db.WithContext(ctx), cancel
}

// fail logs the storage error and returns its classified kind wrapped with op.
func (b *base) fail(op string, err error) error {
	kind := classify(err)
	if errors.Is(kind, ErrTimeout) || errors.Is(kind, ErrUnavailable) {
		b.logger.Errorw(op, "error", err)
	} else {
		b.logger.Debugw(op, "error", err)
	}
	return errors.Wrap(kind, op)
}
