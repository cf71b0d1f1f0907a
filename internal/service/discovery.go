package service

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

const topN = 5

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Discovery struct {
	base
}

func NewDiscovery(conn *gorm.DB, cfg *config.Config, l *zap.SugaredLogger) *Discovery {
	return &Discovery{base: newBase(conn, cfg, l)}
}

// summarySelect is the shared projection of every recipe listing.
func summarySelect() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"r.id", "r.title",
			"r.author_id", "u.nickname AS author_nickname",
			"rt.name AS type_name", "rw.name AS way_name",
			"r.calories", "r.carbohydrate", "r.protein", "r.fat", "r.sodium",
			"r.created_at",
		).
		From("recipes r").
		Join("users u ON u.id = r.author_id").
		Join("recipe_types rt ON rt.id = r.type_id").
		Join("recipe_ways rw ON rw.id = r.way_id")
}

func contains(column, value string) squirrel.Sqlizer {
	return squirrel.Expr("LOWER("+column+") LIKE ? ESCAPE '\\'", "%"+likeEscaper.Replace(strings.ToLower(value))+"%")
}

func hasIngredient(name string) squirrel.Sqlizer {
	return squirrel.Expr(`EXISTS (SELECT 1 FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = r.id AND i.name = ?)`, name)
}

func lacksIngredient(name string) squirrel.Sqlizer {
	return squirrel.Expr(`NOT EXISTS (SELECT 1 FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = r.id AND i.name = ?)`, name)
}

// filterPredicates turns the filter bag into an AND list; absent filters add
// nothing and every value is a bound argument.
func filterPredicates(f *models.SearchFilters) squirrel.And {
	where := squirrel.And{}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		where = append(where, contains("r.title", kw))
	}
	if author := strings.TrimSpace(f.Author); author != "" {
		where = append(where, contains("u.nickname", author))
	}
	if way := strings.TrimSpace(f.RecipeWay); way != "" {
		where = append(where, squirrel.Eq{"rw.name": way})
	}
	if typ := strings.TrimSpace(f.RecipeType); typ != "" {
		where = append(where, squirrel.Eq{"rt.name": typ})
	}

	ranges := []struct {
		column string
		rng    models.Range
	}{
		{"r.calories", f.Calories},
		{"r.carbohydrate", f.Carbohydrate},
		{"r.protein", f.Protein},
		{"r.fat", f.Fat},
		{"r.sodium", f.Sodium},
	}
	for _, r := range ranges {
		if r.rng.Min != nil {
			where = append(where, squirrel.GtOrEq{r.column: *r.rng.Min})
		}
		if r.rng.Max != nil {
			where = append(where, squirrel.LtOrEq{r.column: *r.rng.Max})
		}
	}

	if name := strings.TrimSpace(f.IncludeIngredient); name != "" {
		where = append(where, hasIngredient(name))
	}
	if name := strings.TrimSpace(f.ExcludeIngredient); name != "" {
		where = append(where, lacksIngredient(name))
	}

	return where
}

func (s *Discovery) SearchRecipes(ctx context.Context, f models.SearchFilters) ([]models.RecipeSummary, error) {
	q := summarySelect().
		Where(filterPredicates(&f)).
		OrderBy("r.created_at DESC", "r.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	recipes := make([]models.RecipeSummary, 0)
	res := tx.Raw(sql, args...).Scan(&recipes)
	if res.Error != nil {
		return nil, s.fail("search recipes", res.Error)
	}
	return recipes, nil
}

// FindRecipesByFridge lists recipes cookable from the user's fridge under
// policy. Quantities are free text and are not compared. Recipes without
// ingredients never match.
func (s *Discovery) FindRecipesByFridge(ctx context.Context, userID string, policy models.FridgeMatchPolicy) ([]models.FridgeMatch, error) {
	const inFridge = `EXISTS (SELECT 1 FROM user_ingredients ui
		WHERE ui.user_id = ? AND ui.ingredient_id = ri.ingredient_id)`

	q := summarySelect().
		Column(squirrel.Expr(`(SELECT COUNT(*) FROM recipe_ingredients ri
			WHERE ri.recipe_id = r.id AND `+inFridge+`) AS matched_ingredients`, userID)).
		Column(`(SELECT COUNT(*) FROM recipe_ingredients ri
			WHERE ri.recipe_id = r.id) AS total_ingredients`)

	switch policy {
	case models.MatchAll:
		q = q.Where(`EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = r.id)`).
			Where(`NOT EXISTS (SELECT 1 FROM recipe_ingredients ri
				WHERE ri.recipe_id = r.id AND NOT `+inFridge+`)`, userID)
	case models.MatchAny:
		q = q.Where(`EXISTS (SELECT 1 FROM recipe_ingredients ri
				WHERE ri.recipe_id = r.id AND `+inFridge+`)`, userID)
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown fridge match policy %d", policy)
	}

	sql, args, err := q.
		OrderBy("matched_ingredients DESC", "r.created_at DESC", "r.id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	matches := make([]models.FridgeMatch, 0)
	res := tx.Raw(sql, args...).Scan(&matches)
	if res.Error != nil {
		return nil, s.fail("find recipes by fridge", res.Error)
	}
	return matches, nil
}

// Top5 ranks every recipe by favorite or comment count, recipes with no
// favorites or comments included at zero. Ties go to the newer id.
func (s *Discovery) Top5(ctx context.Context, by models.RankBy) ([]models.RankedRecipe, error) {
	var join, counted string
	switch by {
	case models.RankByFavorites:
		join, counted = "favorites x ON x.recipe_id = r.id", "x.user_id"
	case models.RankByComments:
		join, counted = "comments x ON x.recipe_id = r.id", "x.id"
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown ranking %d", by)
	}

	sql, args, err := squirrel.
		Select("r.id AS recipe_id", "r.title", "COUNT("+counted+") AS cnt", "rt.name AS type_name").
		From("recipes r").
		Join("recipe_types rt ON rt.id = r.type_id").
		LeftJoin(join).
		GroupBy("r.id", "r.title", "rt.name").
		OrderBy("cnt DESC", "r.id DESC").
		Limit(topN).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	tx, cancel := s.conn(ctx)
	defer cancel()

	ranked := make([]models.RankedRecipe, 0, topN)
	res := tx.Raw(sql, args...).Scan(&ranked)
	if res.Error != nil {
		return nil, s.fail("top recipes", res.Error)
	}
	return ranked, nil
}

// Browse dispatches a query variant to its named operation.
func (s *Discovery) Browse(ctx context.Context, q models.RecipeQuery) ([]models.RecipeSummary, error) {
	switch q := q.(type) {
	case models.Filtered:
		return s.SearchRecipes(ctx, q.Filters)
	case models.FridgeMatchQuery:
		matches, err := s.FindRecipesByFridge(ctx, q.UserID, q.Policy)
		if err != nil {
			return nil, err
		}
		recipes := make([]models.RecipeSummary, len(matches))
		for i := range matches {
			recipes[i] = matches[i].RecipeSummary
		}
		return recipes, nil
	}
	return nil, errors.Wrapf(ErrInvalidInput, "unknown recipe query %T", q)
}
