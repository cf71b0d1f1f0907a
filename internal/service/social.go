package service

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

type Social struct {
	base
}

func NewSocial(conn *gorm.DB, cfg *config.Config, l *zap.SugaredLogger) *Social {
	return &Social{base: newBase(conn, cfg, l)}
}

// ToggleFavorite deletes the pair first and inserts only when nothing was
// deleted, inside one transaction; the composite key rejects duplicates.
func (s *Social) ToggleFavorite(ctx context.Context, recipeID uint64, userID string) (models.ToggleResult, error) {
	conn, cancel := s.conn(ctx)
	defer cancel()

	var result models.ToggleResult
	err := conn.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&db.Favorite{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete favorite")
		}
		if res.RowsAffected > 0 {
			result = models.Removed
			return nil
		}

		res = tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&db.Favorite{
			UserID:   userID,
			RecipeID: recipeID,
		})
		if res.Error != nil {
			return errors.Wrap(res.Error, "insert favorite")
		}
		result = models.Added
		return nil
	})
	if err != nil {
		return 0, s.fail("toggle favorite", err)
	}
	return result, nil
}

func (s *Social) IsFavorited(ctx context.Context, recipeID uint64, userID string) (bool, error) {
	tx, cancel := s.conn(ctx)
	defer cancel()

	var n int64
	res := tx.Model(&db.Favorite{}).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&n)
	if res.Error != nil {
		return false, s.fail("is favorited", res.Error)
	}
	return n > 0, nil
}

func (s *Social) ListFavorites(ctx context.Context, userID string) ([]models.RecipeSummary, error) {
	sql, args, err := summarySelect().
		Join("favorites f ON f.recipe_id = r.id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("f.created_at DESC", "r.id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	recipes := make([]models.RecipeSummary, 0)
	res := tx.Raw(sql, args...).Scan(&recipes)
	if res.Error != nil {
		return nil, s.fail("list favorites", res.Error)
	}
	return recipes, nil
}

func (s *Social) AddComment(ctx context.Context, authorID string, recipeID uint64, content string) (uint64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, errors.Wrap(ErrInvalidInput, "comment content is required")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	comment := db.Comment{
		RecipeID: recipeID,
		UserID:   authorID,
		Content:  content,
	}
	res := tx.Omit(clause.Associations).Create(&comment)
	if res.Error != nil {
		return 0, s.fail("add comment", res.Error)
	}
	return comment.ID, nil
}

// DeleteComment reports false when nothing matched: the comment is missing or
// userID is not its author.
func (s *Social) DeleteComment(ctx context.Context, commentID uint64, userID string) (bool, error) {
	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Where("id = ? AND user_id = ?", commentID, userID).Delete(&db.Comment{})
	if res.Error != nil {
		return false, s.fail("delete comment", res.Error)
	}
	return res.RowsAffected > 0, nil
}
