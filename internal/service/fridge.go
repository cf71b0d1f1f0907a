package service

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

type Fridge struct {
	base
}

func NewFridge(conn *gorm.DB, cfg *config.Config, l *zap.SugaredLogger) *Fridge {
	return &Fridge{base: newBase(conn, cfg, l)}
}

// AddIngredient stores quantity for (user, name); holding the ingredient
// already overwrites its quantity instead of adding a second row.
func (s *Fridge) AddIngredient(ctx context.Context, userID, name, quantity string) error {
	conn, cancel := s.conn(ctx)
	defer cancel()

	err := conn.Transaction(func(tx *gorm.DB) error {
		id, err := ingredientID(tx, name)
		if err != nil {
			return err
		}

		res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   quantity,
				"updated_at": time.Now(),
			}),
		}).Create(&db.UserIngredient{
			UserID:       userID,
			IngredientID: id,
			Quantity:     quantity,
		})
		if res.Error != nil {
			return errors.Wrap(res.Error, "upsert user ingredient")
		}
		return nil
	})
	if err != nil {
		return s.fail("add ingredient", err)
	}
	return nil
}

func (s *Fridge) ListIngredients(ctx context.Context, userID string) ([]models.FridgeItem, error) {
	sql, args, err := squirrel.
		Select("ui.id", "ui.ingredient_id", "i.name", "ui.quantity", "ui.updated_at").
		From("user_ingredients ui").
		Join("ingredients i ON i.id = ui.ingredient_id").
		Where(squirrel.Eq{"ui.user_id": userID}).
		OrderBy("i.name", "ui.id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	items := make([]models.FridgeItem, 0)
	res := tx.Raw(sql, args...).Scan(&items)
	if res.Error != nil {
		return nil, s.fail("list ingredients", res.Error)
	}
	return items, nil
}

// DeleteIngredient reports false when no row matched, which covers both a
// missing row and a row owned by someone else.
func (s *Fridge) DeleteIngredient(ctx context.Context, userID string, userIngredientID uint64) (bool, error) {
	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Where("id = ? AND user_id = ?", userIngredientID, userID).Delete(&db.UserIngredient{})
	if res.Error != nil {
		return false, s.fail("delete ingredient", res.Error)
	}
	return res.RowsAffected > 0, nil
}
