package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db/dbtest"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

type testEnv struct {
	conn      *gorm.DB
	accounts  *Accounts
	fridge    *Fridge
	recipes   *Recipes
	discovery *Discovery
	social    *Social
	faker     *gofakeit.Faker

	wayID, typeID uint64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := dbtest.New(t)
	cfg := dbtest.Config()
	l := zaptest.NewLogger(t).Sugar()

	e := &testEnv{
		conn:      conn,
		accounts:  NewAccounts(conn, cfg, l),
		fridge:    NewFridge(conn, cfg, l),
		recipes:   NewRecipes(conn, cfg, l),
		discovery: NewDiscovery(conn, cfg, l),
		social:    NewSocial(conn, cfg, l),
		faker:     gofakeit.New(42),
	}

	var err error
	e.wayID, err = e.recipes.ResolveLookupID(context.Background(), models.LookupWay, "Boil")
	require.NoError(t, err)
	e.typeID, err = e.recipes.ResolveLookupID(context.Background(), models.LookupType, "Main dish")
	require.NoError(t, err)

	return e
}

func (e *testEnv) user(t *testing.T, id string) string {
	t.Helper()
	require.NoError(t, e.accounts.Register(context.Background(), id, e.faker.Password(true, true, true, false, false, 12), e.faker.FirstName()))
	return id
}

func (e *testEnv) input(title string, ingredients ...string) models.RecipeInput {
	lines := make([]models.IngredientLine, len(ingredients))
	for i, name := range ingredients {
		lines[i] = models.IngredientLine{Name: name, Amount: "1"}
	}
	return models.RecipeInput{
		Title:       title,
		Description: e.faker.Sentence(8),
		TypeID:      e.typeID,
		WayID:       e.wayID,
		Ingredients: lines,
		Steps:       []string{"Prepare", "Cook"},
	}
}

func (e *testEnv) recipe(t *testing.T, author, title string, ingredients ...string) uint64 {
	t.Helper()
	id, err := e.recipes.CreateRecipe(context.Background(), author, e.input(title, ingredients...))
	require.NoError(t, err)
	return id
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := e.conn.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func ptr(v float64) *float64 {
	return &v
}

func titles(recipes []models.RecipeSummary) []string {
	out := make([]string, len(recipes))
	for i := range recipes {
		out[i] = recipes[i].Title
	}
	return out
}
