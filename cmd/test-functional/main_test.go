//go:build functional

package test_functional

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

func register(ctx context.Context, t *testing.T, id string) string {
	t.Helper()

	resp, err := client(ctx, "").
		SetResult(&models.TokenResp{}).
		SetBody(models.RegisterReq{ID: id, Password: "password-" + id, Nickname: "Chef " + id}).
		Post(endpoint("/auth/register"))
	require.Nil(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	got, ok := resp.Result().(*models.TokenResp)
	require.True(t, ok)
	return got.Token
}

func TestRegister(t *testing.T) {
	t.Run("successful register", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		token := register(ctx, t, "alice")
		assert.NotEmpty(t, token)

		var (
			id   string
			hash string
		)
		err := DBConn.QueryRow(ctx, "SELECT id, password_hash FROM users WHERE token=$1", token).Scan(&id, &hash)
		assert.Nil(t, err)

		assert.Equal(t, "alice", id)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})

	t.Run("bad body", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := client(ctx, "").
			SetBody(`
			{"something": "???"}
		`).
			Post(endpoint("/auth/register"))
		assert.Nil(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})

	t.Run("duplicate id", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		register(ctx, t, "alice")
		resp, err := client(ctx, "").
			SetBody(models.RegisterReq{ID: "alice", Password: "other-password", Nickname: "Mallory"}).
			Post(endpoint("/auth/register"))
		assert.Nil(t, err)

		assert.Equal(t, http.StatusConflict, resp.StatusCode())
	})
}

func TestRecipeLifecycle(t *testing.T) {
	defer FlushDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	alice := register(ctx, t, "alice")
	bob := register(ctx, t, "bob")

	resp, err := client(ctx, alice).
		SetResult(&[]models.Lookup{}).
		Get(endpoint("/lookups/ways"))
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	ways := *resp.Result().(*[]models.Lookup)
	require.NotEmpty(t, ways)

	resp, err = client(ctx, alice).
		SetResult(&[]models.Lookup{}).
		Get(endpoint("/lookups/types"))
	require.Nil(t, err)
	types := *resp.Result().(*[]models.Lookup)
	require.NotEmpty(t, types)

	calories := 250.0
	resp, err = client(ctx, alice).
		SetResult(&models.IDResp{}).
		SetBody(models.RecipeReq{
			Title:    "Tamagoyaki",
			TypeID:   types[0].ID,
			WayID:    ways[0].ID,
			Calories: &calories,
			Ingredients: []models.IngredientLine{
				{Name: "Egg", Amount: "3"},
				{Name: "Soy sauce", Amount: "1 tsp"},
			},
			Steps: []string{"1. Beat eggs", "2. Roll in pan"},
		}).
		Post(endpoint("/recipes"))
	require.Nil(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	id := resp.Result().(*models.IDResp).ID

	var steps int
	err = DBConn.QueryRow(ctx, "SELECT COUNT(*) FROM cooking_steps WHERE recipe_id=$1", id).Scan(&steps)
	assert.Nil(t, err)
	assert.Equal(t, 2, steps)

	resp, err = client(ctx, bob).
		SetResult(&models.RecipeDetail{}).
		Get(endpoint(fmt.Sprintf("/recipes/%d", id)))
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	detail := resp.Result().(*models.RecipeDetail)
	assert.Equal(t, "Beat eggs", detail.Steps[0].Description)

	resp, err = client(ctx, bob).
		SetBody(models.FridgeReq{Name: "Egg", Quantity: "10"}).
		Post(endpoint("/fridge"))
	require.Nil(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client(ctx, bob).
		SetResult(&[]models.FridgeMatch{}).
		SetQueryParam("policy", "any").
		Get(endpoint("/recipes/fridge"))
	require.Nil(t, err)
	matches := *resp.Result().(*[]models.FridgeMatch)
	require.Len(t, matches, 1)
	assert.EqualValues(t, 1, matches[0].MatchedIngredients)
	assert.EqualValues(t, 2, matches[0].TotalIngredients)

	resp, err = client(ctx, bob).
		SetBody(models.CommentReq{Content: "Sweet or savory?"}).
		Post(endpoint(fmt.Sprintf("/recipes/%d/comments", id)))
	require.Nil(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = client(ctx, bob).
		Post(endpoint(fmt.Sprintf("/recipes/%d/favorite", id)))
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client(ctx, bob).
		Delete(endpoint(fmt.Sprintf("/recipes/%d", id)))
	require.Nil(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	resp, err = client(ctx, alice).
		Delete(endpoint(fmt.Sprintf("/recipes/%d", id)))
	require.Nil(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	var left int
	err = DBConn.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM comments WHERE recipe_id=$1) +
		(SELECT COUNT(*) FROM favorites WHERE recipe_id=$1) +
		(SELECT COUNT(*) FROM recipe_ingredients WHERE recipe_id=$1)`, id).Scan(&left)
	assert.Nil(t, err)
	assert.Zero(t, left)
}
