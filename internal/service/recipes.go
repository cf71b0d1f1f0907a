package service

import (
	"context"
	"regexp"
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

var stepPrefix = regexp.MustCompile(`^\d+\.\s*`)

type lookupTableDef struct {
	table, idColumn, nameColumn string
}

// Identifiers come from this closed set only; caller input is always bound.
var lookupTables = map[models.LookupTable]lookupTableDef{
	models.LookupWay:  {table: "recipe_ways", idColumn: "id", nameColumn: "name"},
	models.LookupType: {table: "recipe_types", idColumn: "id", nameColumn: "name"},
}

type Recipes struct {
	base
}

func NewRecipes(conn *gorm.DB, cfg *config.Config, l *zap.SugaredLogger) *Recipes {
	return &Recipes{base: newBase(conn, cfg, l)}
}

func (s *Recipes) ResolveLookupID(ctx context.Context, table models.LookupTable, name string) (uint64, error) {
	def, ok := lookupTables[table]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidInput, "unknown lookup table %s", table)
	}

	sql, args, err := squirrel.
		Select(def.idColumn).
		From(def.table).
		Where(squirrel.Eq{def.nameColumn: strings.TrimSpace(name)}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	ids := make([]uint64, 0, 1)
	res := tx.Raw(sql, args...).Scan(&ids)
	if res.Error != nil {
		return 0, s.fail("resolve "+table.String(), res.Error)
	}
	if len(ids) == 0 {
		return 0, errors.Wrapf(ErrNotFound, "resolve %s %q", table, name)
	}
	return ids[0], nil
}

func (s *Recipes) ListLookups(ctx context.Context, table models.LookupTable) ([]models.Lookup, error) {
	def, ok := lookupTables[table]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "unknown lookup table %s", table)
	}

	sql, args, err := squirrel.
		Select(def.idColumn+" AS id", def.nameColumn+" AS name").
		From(def.table).
		OrderBy(def.idColumn).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	lookups := make([]models.Lookup, 0)
	res := tx.Raw(sql, args...).Scan(&lookups)
	if res.Error != nil {
		return nil, s.fail("list "+table.String(), res.Error)
	}
	return lookups, nil
}

// CreateRecipe writes the recipe with its ingredients and steps in one
// transaction; nothing is left behind if any row fails.
func (s *Recipes) CreateRecipe(ctx context.Context, authorID string, in models.RecipeInput) (uint64, error) {
	if err := validateRecipe(&in); err != nil {
		return 0, err
	}

	conn, cancel := s.conn(ctx)
	defer cancel()

	recipe := db.Recipe{
		AuthorID: authorID,
	}
	applyRecipeInput(&recipe, &in)

	err := conn.Transaction(func(tx *gorm.DB) error {
		if res := tx.Omit(clause.Associations).Create(&recipe); res.Error != nil {
			return errors.Wrap(res.Error, "insert recipe")
		}
		return writeContents(tx, recipe.ID, &in)
	})
	if err != nil {
		return 0, s.fail("create recipe", err)
	}

	return recipe.ID, nil
}

// UpdateRecipe overwrites the recipe row and rebuilds its ingredient and step
// sets from scratch.
func (s *Recipes) UpdateRecipe(ctx context.Context, recipeID uint64, in models.RecipeInput) error {
	if err := validateRecipe(&in); err != nil {
		return err
	}

	conn, cancel := s.conn(ctx)
	defer cancel()

	err := conn.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
			"title":        in.Title,
			"description":  in.Description,
			"type_id":      in.TypeID,
			"way_id":       in.WayID,
			"calories":     in.Nutrition.Calories,
			"carbohydrate": in.Nutrition.Carbohydrate,
			"protein":      in.Nutrition.Protein,
			"fat":          in.Nutrition.Fat,
			"sodium":       in.Nutrition.Sodium,
		})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update recipe")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if res := tx.Where("recipe_id = ?", recipeID).Delete(&db.RecipeIngredient{}); res.Error != nil {
			return errors.Wrap(res.Error, "delete recipe ingredients")
		}
		if res := tx.Where("recipe_id = ?", recipeID).Delete(&db.CookingStep{}); res.Error != nil {
			return errors.Wrap(res.Error, "delete cooking steps")
		}
		return writeContents(tx, recipeID, &in)
	})
	if err != nil {
		return s.fail("update recipe", err)
	}
	return nil
}

// DeleteRecipe removes the recipe; ingredients, steps, comments and favorites
// referencing it go through ON DELETE CASCADE.
func (s *Recipes) DeleteRecipe(ctx context.Context, recipeID uint64) error {
	tx, cancel := s.conn(ctx)
	defer cancel()

	res := tx.Where("id = ?", recipeID).Delete(&db.Recipe{})
	if res.Error != nil {
		return s.fail("delete recipe", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "delete recipe")
	}
	return nil
}

// AuthorOf lets callers enforce ownership before UpdateRecipe/DeleteRecipe.
func (s *Recipes) AuthorOf(ctx context.Context, recipeID uint64) (string, error) {
	tx, cancel := s.conn(ctx)
	defer cancel()

	recipe := db.Recipe{}
	res := tx.Select("id", "author_id").Where("id = ?", recipeID).Take(&recipe)
	if res.Error != nil {
		return "", s.fail("get recipe author", res.Error)
	}
	return recipe.AuthorID, nil
}

func (s *Recipes) GetRecipeDetail(ctx context.Context, recipeID uint64) (*models.RecipeDetail, error) {
	infoSQL, infoArgs, err := squirrel.
		Select(
			"r.id", "r.title", "r.description",
			"r.author_id", "u.nickname AS author_nickname",
			"r.type_id", "rt.name AS type_name",
			"r.way_id", "rw.name AS way_name",
			"r.calories", "r.carbohydrate", "r.protein", "r.fat", "r.sodium",
			"r.created_at",
		).
		From("recipes r").
		Join("users u ON u.id = r.author_id").
		Join("recipe_types rt ON rt.id = r.type_id").
		Join("recipe_ways rw ON rw.id = r.way_id").
		Where(squirrel.Eq{"r.id": recipeID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build info sql")
	}

	ingSQL, ingArgs, err := squirrel.
		Select("i.name", "ri.amount").
		From("recipe_ingredients ri").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Where(squirrel.Eq{"ri.recipe_id": recipeID}).
		OrderBy("ri.id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build ingredients sql")
	}

	stepSQL, stepArgs, err := squirrel.
		Select("step_no", "description").
		From("cooking_steps").
		Where(squirrel.Eq{"recipe_id": recipeID}).
		OrderBy("step_no").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build steps sql")
	}

	commentSQL, commentArgs, err := squirrel.
		Select("c.id", "c.user_id", "u.nickname", "c.content", "c.created_at").
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where(squirrel.Eq{"c.recipe_id": recipeID}).
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build comments sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	infos := make([]models.RecipeInfo, 0, 1)
	if res := tx.Raw(infoSQL, infoArgs...).Scan(&infos); res.Error != nil {
		return nil, s.fail("get recipe info", res.Error)
	}
	if len(infos) == 0 {
		return nil, errors.Wrap(ErrNotFound, "get recipe info")
	}

	detail := models.RecipeDetail{
		Info:        infos[0],
		Ingredients: make([]models.IngredientLine, 0),
		Steps:       make([]models.Step, 0),
		Comments:    make([]models.CommentView, 0),
	}

	if res := tx.Raw(ingSQL, ingArgs...).Scan(&detail.Ingredients); res.Error != nil {
		return nil, s.fail("get recipe ingredients", res.Error)
	}
	if res := tx.Raw(stepSQL, stepArgs...).Scan(&detail.Steps); res.Error != nil {
		return nil, s.fail("get recipe steps", res.Error)
	}
	for i := range detail.Steps {
		detail.Steps[i].Description = stepPrefix.ReplaceAllString(detail.Steps[i].Description, "")
	}
	if res := tx.Raw(commentSQL, commentArgs...).Scan(&detail.Comments); res.Error != nil {
		return nil, s.fail("get recipe comments", res.Error)
	}

	return &detail, nil
}

////////

func validateRecipe(in *models.RecipeInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return errors.Wrap(ErrInvalidInput, "title is required")
	}
	if in.TypeID == 0 || in.WayID == 0 {
		return errors.Wrap(ErrInvalidInput, "recipe type and way are required")
	}
	for name, v := range map[string]*float64{
		"calories":     in.Nutrition.Calories,
		"carbohydrate": in.Nutrition.Carbohydrate,
		"protein":      in.Nutrition.Protein,
		"fat":          in.Nutrition.Fat,
		"sodium":       in.Nutrition.Sodium,
	} {
		if v != nil && *v < 0 {
			return errors.Wrapf(ErrInvalidInput, "%s must not be negative", name)
		}
	}
	return nil
}

func applyRecipeInput(r *db.Recipe, in *models.RecipeInput) {
	r.Title = in.Title
	r.Description = in.Description
	r.TypeID = in.TypeID
	r.WayID = in.WayID
	r.Calories = in.Nutrition.Calories
	r.Carbohydrate = in.Nutrition.Carbohydrate
	r.Protein = in.Nutrition.Protein
	r.Fat = in.Nutrition.Fat
	r.Sodium = in.Nutrition.Sodium
}

// writeContents inserts ingredient rows for non-blank names and step rows for
// non-blank steps, numbered from 1 after blanks are dropped.
func writeContents(tx *gorm.DB, recipeID uint64, in *models.RecipeInput) error {
	ingredients := make([]db.RecipeIngredient, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if strings.TrimSpace(line.Name) == "" {
			continue
		}
		id, err := ingredientID(tx, line.Name)
		if err != nil {
			return err
		}
		ingredients = append(ingredients, db.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: id,
			Amount:       strings.TrimSpace(line.Amount),
		})
	}
	if len(ingredients) > 0 {
		if res := tx.Omit(clause.Associations).Create(&ingredients); res.Error != nil {
			return errors.Wrap(res.Error, "insert recipe ingredients")
		}
	}

	steps := make([]db.CookingStep, 0, len(in.Steps))
	for _, text := range in.Steps {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		steps = append(steps, db.CookingStep{
			RecipeID:    recipeID,
			StepNo:      len(steps) + 1,
			Description: text,
		})
	}
	if len(steps) > 0 {
		if res := tx.Omit(clause.Associations).Create(&steps); res.Error != nil {
			return errors.Wrap(res.Error, "insert cooking steps")
		}
	}

	return nil
}
