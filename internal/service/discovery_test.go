package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

func TestSearchByNutritionRange(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	alice := e.user(t, "alice")

	for title, calories := range map[string]*float64{
		"c50":  ptr(50),
		"c100": ptr(100),
		"c200": ptr(200),
		"c300": ptr(300),
		"c350": ptr(350),
		"none": nil,
	} {
		in := e.input(title, "Rice")
		in.Nutrition.Calories = calories
		_, err := e.recipes.CreateRecipe(ctx, alice, in)
		require.NoError(t, err)
	}

	found, err := e.discovery.SearchRecipes(ctx, models.SearchFilters{
		Calories: models.Range{Min: ptr(100), Max: ptr(300)},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c100", "c200", "c300"}, titles(found))

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{
		Calories: models.Range{Min: ptr(300)},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c300", "c350"}, titles(found))

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, found, 6)
}

func TestSearchByIngredients(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	alice := e.user(t, "alice")

	e.recipe(t, alice, "Pancake", "Egg", "Milk")
	e.recipe(t, alice, "Omelette", "Egg")
	e.recipe(t, alice, "Latte", "Milk")

	found, err := e.discovery.SearchRecipes(ctx, models.SearchFilters{IncludeIngredient: "Egg"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Pancake", "Omelette"}, titles(found))

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{
		IncludeIngredient: "Egg",
		ExcludeIngredient: "Milk",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Omelette"}, titles(found))
}

func TestSearchByKeyword(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	alice := e.user(t, "alice")

	for _, title := range []string{"Egg Fried Rice", "EGG salad", "100% Juice", "Plain_toast", "Plaintoast"} {
		e.recipe(t, alice, title, "Water")
	}

	cases := []struct {
		keyword string
		want    []string
	}{
		{"egg", []string{"Egg Fried Rice", "EGG salad"}},
		{"%", []string{"100% Juice"}},
		{"n_t", []string{"Plain_toast"}},
		{"  ", []string{"Egg Fried Rice", "EGG salad", "100% Juice", "Plain_toast", "Plaintoast"}},
		{"soup", []string{}},
	}
	for _, c := range cases {
		t.Run(c.keyword, func(t *testing.T) {
			found, err := e.discovery.SearchRecipes(ctx, models.SearchFilters{Keyword: c.keyword})
			require.NoError(t, err)
			assert.ElementsMatch(t, c.want, titles(found))
		})
	}
}

func TestSearchByAuthorAndLookups(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	require.NoError(t, e.accounts.Register(ctx, "u1", "pass", "Chef Alice"))
	require.NoError(t, e.accounts.Register(ctx, "u2", "pass", "Bob"))

	steamID, err := e.recipes.ResolveLookupID(ctx, models.LookupWay, "Steam")
	require.NoError(t, err)
	soupID, err := e.recipes.ResolveLookupID(ctx, models.LookupType, "Soup")
	require.NoError(t, err)

	e.recipe(t, "u1", "Boiled egg", "Egg")
	steamed := e.input("Steamed bun", "Flour")
	steamed.WayID = steamID
	_, err = e.recipes.CreateRecipe(ctx, "u1", steamed)
	require.NoError(t, err)
	soup := e.input("Miso soup", "Miso")
	soup.TypeID = soupID
	_, err = e.recipes.CreateRecipe(ctx, "u2", soup)
	require.NoError(t, err)

	found, err := e.discovery.SearchRecipes(ctx, models.SearchFilters{Author: "alice"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Boiled egg", "Steamed bun"}, titles(found))

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{RecipeWay: "Steam"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Steamed bun"}, titles(found))
	assert.Equal(t, "Steam", found[0].WayName)
	assert.Equal(t, "Chef Alice", found[0].AuthorNickname)

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{RecipeType: "Soup"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Miso soup"}, titles(found))

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{Author: "alice", RecipeType: "Soup"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = e.discovery.SearchRecipes(ctx, models.SearchFilters{Author: "alice", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestFindRecipesByFridge(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	require.NoError(t, e.fridge.AddIngredient(ctx, alice, "Egg", "6"))
	require.NoError(t, e.fridge.AddIngredient(ctx, alice, "Milk", "1l"))
	require.NoError(t, e.fridge.AddIngredient(ctx, bob, "Bread", "1"))

	e.recipe(t, bob, "Omelette", "Egg")
	e.recipe(t, bob, "Pancake", "Egg", "Milk", "Flour")
	e.recipe(t, bob, "Custard", "Egg", "Milk")
	e.recipe(t, bob, "Toast", "Bread")
	e.recipe(t, bob, "Water")

	t.Run("all", func(t *testing.T) {
		matches, err := e.discovery.FindRecipesByFridge(ctx, alice, models.MatchAll)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "Custard", matches[0].Title)
		assert.EqualValues(t, 2, matches[0].MatchedIngredients)
		assert.EqualValues(t, 2, matches[0].TotalIngredients)
		assert.Equal(t, "Omelette", matches[1].Title)
	})

	t.Run("any", func(t *testing.T) {
		matches, err := e.discovery.FindRecipesByFridge(ctx, alice, models.MatchAny)
		require.NoError(t, err)
		require.Len(t, matches, 3)

		got := map[string][2]int64{}
		for _, m := range matches {
			got[m.Title] = [2]int64{m.MatchedIngredients, m.TotalIngredients}
		}
		assert.Equal(t, map[string][2]int64{
			"Omelette": {1, 1},
			"Pancake":  {2, 3},
			"Custard":  {2, 2},
		}, got)
		assert.Equal(t, "Omelette", matches[2].Title)
	})

	t.Run("empty fridge", func(t *testing.T) {
		carol := e.user(t, "carol")
		matches, err := e.discovery.FindRecipesByFridge(ctx, carol, models.MatchAll)
		require.NoError(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := e.discovery.FindRecipesByFridge(ctx, alice, models.FridgeMatchPolicy(7))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestTop5(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")

	ids := make([]uint64, 6)
	for i := range ids {
		ids[i] = e.recipe(t, alice, e.faker.Dessert(), "Sugar")
	}

	for _, fan := range []string{bob, carol} {
		_, err := e.social.ToggleFavorite(ctx, ids[0], fan)
		require.NoError(t, err)
	}
	_, err := e.social.ToggleFavorite(ctx, ids[2], bob)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = e.social.AddComment(ctx, bob, ids[1], e.faker.Sentence(5))
		require.NoError(t, err)
	}

	recipeIDs := func(ranked []models.RankedRecipe) []uint64 {
		out := make([]uint64, len(ranked))
		for i := range ranked {
			out[i] = ranked[i].RecipeID
		}
		return out
	}

	byFavorites, err := e.discovery.Top5(ctx, models.RankByFavorites)
	require.NoError(t, err)
	assert.Equal(t, []uint64{ids[0], ids[2], ids[5], ids[4], ids[3]}, recipeIDs(byFavorites))
	assert.EqualValues(t, 2, byFavorites[0].Count)
	assert.EqualValues(t, 1, byFavorites[1].Count)
	assert.Zero(t, byFavorites[4].Count)
	assert.Equal(t, "Main dish", byFavorites[0].TypeName)

	byComments, err := e.discovery.Top5(ctx, models.RankByComments)
	require.NoError(t, err)
	assert.Equal(t, []uint64{ids[1], ids[5], ids[4], ids[3], ids[2]}, recipeIDs(byComments))
	assert.EqualValues(t, 3, byComments[0].Count)

	_, err = e.discovery.Top5(ctx, models.RankBy(9))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTop5FewerRecipes(t *testing.T) {
	e := newTestEnv(t)

	ranked, err := e.discovery.Top5(context.Background(), models.RankByFavorites)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	e.recipe(t, e.user(t, "alice"), "Only one", "Salt")
	ranked, err = e.discovery.Top5(context.Background(), models.RankByComments)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Only one", ranked[0].Title)
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	alice := e.user(t, "alice")
	require.NoError(t, e.fridge.AddIngredient(ctx, alice, "Egg", "2"))

	e.recipe(t, alice, "Omelette", "Egg")
	e.recipe(t, alice, "Custard", "Egg", "Milk")

	found, err := e.discovery.Browse(ctx, models.Filtered{Filters: models.SearchFilters{Keyword: "cust"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Custard"}, titles(found))

	found, err = e.discovery.Browse(ctx, models.FridgeMatchQuery{UserID: alice, Policy: models.MatchAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"Omelette"}, titles(found))

	found, err = e.discovery.Browse(ctx, models.FridgeMatchQuery{UserID: alice, Policy: models.MatchAny})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Omelette", "Custard"}, titles(found))
}
