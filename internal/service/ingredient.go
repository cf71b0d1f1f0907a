package service

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db"
)

// ingredientID resolves name to its row, creating it when unseen. The insert
// is conflict-tolerant, so concurrent creators of the same name both succeed
// and read back the single row.
func ingredientID(tx *gorm.DB, name string) (uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.Wrap(ErrInvalidInput, "ingredient name is required")
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&db.Ingredient{Name: name})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "insert ingredient")
	}

	ingredient := db.Ingredient{}
	res = tx.Where("name = ?", name).Take(&ingredient)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "select ingredient")
	}
	return ingredient.ID, nil
}
