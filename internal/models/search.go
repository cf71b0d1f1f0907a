package models

import "time"

type (
	// Range bounds are inclusive; a nil bound is not applied.
	Range struct {
		Min *float64
		Max *float64
	}

	SearchFilters struct {
		Keyword           string
		Author            string
		RecipeWay         string
		RecipeType        string
		Calories          Range
		Carbohydrate      Range
		Protein           Range
		Fat               Range
		Sodium            Range
		IncludeIngredient string
		ExcludeIngredient string
		Limit             uint64
	}

	RecipeSummary struct {
		ID             uint64    `json:"id"`
		Title          string    `json:"title"`
		AuthorID       string    `json:"author_id"`
		AuthorNickname string    `json:"author_nickname"`
		TypeName       string    `json:"type_name"`
		WayName        string    `json:"way_name"`
		Nutrition      `json:"nutrition"`
		CreatedAt      time.Time `json:"created_at"`
	}

	FridgeMatch struct {
		RecipeSummary
		MatchedIngredients int64 `json:"matched_ingredients"`
		TotalIngredients   int64 `json:"total_ingredients"`
	}

	RankedRecipe struct {
		RecipeID uint64 `json:"recipe_id"`
		Title    string `json:"title"`
		Count    int64  `json:"count" gorm:"column:cnt"`
		TypeName string `json:"type_name"`
	}
)

type FridgeMatchPolicy int

const (
	// MatchAll: every ingredient of the recipe is in the fridge.
	MatchAll FridgeMatchPolicy = iota
	// MatchAny: at least one ingredient of the recipe is in the fridge.
	MatchAny
)

type RankBy int

const (
	RankByFavorites RankBy = iota
	RankByComments
)

type ToggleResult int

const (
	Added ToggleResult = iota + 1
	Removed
)

func (r ToggleResult) String() string {
	switch r {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// RecipeQuery selects one of the two browse modes.
type RecipeQuery interface {
	isRecipeQuery()
}

type (
	Filtered struct {
		Filters SearchFilters
	}

	FridgeMatchQuery struct {
		UserID string
		Policy FridgeMatchPolicy
	}
)

func (Filtered) isRecipeQuery()         {}
func (FridgeMatchQuery) isRecipeQuery() {}
