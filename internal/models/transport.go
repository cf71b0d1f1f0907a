package models

type (
	RegisterReq struct {
		ID       string `json:"id" validate:"required,max=64"`
		Password string `json:"password" validate:"required,min=8"`
		Nickname string `json:"nickname" validate:"required,max=64"`
	}

	LoginReq struct {
		ID       string `json:"id" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	TokenResp struct {
		Token string `json:"token"`
	}

	NicknameReq struct {
		Nickname string `json:"nickname" validate:"required,max=64"`
	}

	PasswordReq struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}

	FridgeReq struct {
		Name     string `json:"name" validate:"required,max=128"`
		Quantity string `json:"quantity"`
	}

	RecipeReq struct {
		Title        string           `json:"title" validate:"required,max=256"`
		Description  string           `json:"description"`
		TypeID       uint64           `json:"type_id" validate:"required_without=Type"`
		WayID        uint64           `json:"way_id" validate:"required_without=Way"`
		Type         string           `json:"type"`
		Way          string           `json:"way"`
		Calories     *float64         `json:"calories" validate:"omitempty,min=0"`
		Carbohydrate *float64         `json:"carbohydrate" validate:"omitempty,min=0"`
		Protein      *float64         `json:"protein" validate:"omitempty,min=0"`
		Fat          *float64         `json:"fat" validate:"omitempty,min=0"`
		Sodium       *float64         `json:"sodium" validate:"omitempty,min=0"`
		Ingredients  []IngredientLine `json:"ingredients"`
		Steps        []string         `json:"steps"`
	}

	// SearchReq is read from the query string of GET /recipes.
	SearchReq struct {
		Keyword           string   `query:"keyword"`
		Author            string   `query:"author"`
		Way               string   `query:"way"`
		Type              string   `query:"type"`
		MinCalories       *float64 `query:"min_calories"`
		MaxCalories       *float64 `query:"max_calories"`
		MinCarbohydrate   *float64 `query:"min_carbohydrate"`
		MaxCarbohydrate   *float64 `query:"max_carbohydrate"`
		MinProtein        *float64 `query:"min_protein"`
		MaxProtein        *float64 `query:"max_protein"`
		MinFat            *float64 `query:"min_fat"`
		MaxFat            *float64 `query:"max_fat"`
		MinSodium         *float64 `query:"min_sodium"`
		MaxSodium         *float64 `query:"max_sodium"`
		IncludeIngredient string   `query:"include"`
		ExcludeIngredient string   `query:"exclude"`
		Limit             uint64   `query:"limit" validate:"max=100"`
	}

	CommentReq struct {
		Content string `json:"content" validate:"required,max=2000"`
	}

	IDResp struct {
		ID uint64 `json:"id"`
	}

	ErrorResp struct {
		Error string `json:"error"`
	}

	FavoriteResp struct {
		Favorited bool   `json:"favorited"`
		Result    string `json:"result,omitempty"`
	}
)

func (r *RecipeReq) Input() RecipeInput {
	return RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		TypeID:      r.TypeID,
		WayID:       r.WayID,
		Nutrition: Nutrition{
			Calories:     r.Calories,
			Carbohydrate: r.Carbohydrate,
			Protein:      r.Protein,
			Fat:          r.Fat,
			Sodium:       r.Sodium,
		},
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
	}
}

func (r *SearchReq) Filters() SearchFilters {
	return SearchFilters{
		Keyword:           r.Keyword,
		Author:            r.Author,
		RecipeWay:         r.Way,
		RecipeType:        r.Type,
		Calories:          Range{Min: r.MinCalories, Max: r.MaxCalories},
		Carbohydrate:      Range{Min: r.MinCarbohydrate, Max: r.MaxCarbohydrate},
		Protein:           Range{Min: r.MinProtein, Max: r.MaxProtein},
		Fat:               Range{Min: r.MinFat, Max: r.MaxFat},
		Sodium:            Range{Min: r.MinSodium, Max: r.MaxSodium},
		IncludeIngredient: r.IncludeIngredient,
		ExcludeIngredient: r.ExcludeIngredient,
		Limit:             r.Limit,
	}
}
