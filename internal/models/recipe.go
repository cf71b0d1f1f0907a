package models

import "time"

type LookupTable int

const (
	LookupWay LookupTable = iota + 1
	LookupType
)

func (t LookupTable) String() string {
	switch t {
	case LookupWay:
		return "way"
	case LookupType:
		return "type"
	}
	return "unknown"
}

type (
	Lookup struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}

	// Nutrition values are optional; nil means "not provided", not zero.
	Nutrition struct {
		Calories     *float64 `json:"calories"`
		Carbohydrate *float64 `json:"carbohydrate"`
		Protein      *float64 `json:"protein"`
		Fat          *float64 `json:"fat"`
		Sodium       *float64 `json:"sodium"`
	}

	IngredientLine struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}

	RecipeInput struct {
		Title       string
		Description string
		TypeID      uint64
		WayID       uint64
		Nutrition   Nutrition
		Ingredients []IngredientLine
		Steps       []string
	}

	RecipeInfo struct {
		ID             uint64    `json:"id"`
		Title          string    `json:"title"`
		Description    string    `json:"description"`
		AuthorID       string    `json:"author_id"`
		AuthorNickname string    `json:"author_nickname"`
		TypeID         uint64    `json:"type_id"`
		TypeName       string    `json:"type_name"`
		WayID          uint64    `json:"way_id"`
		WayName        string    `json:"way_name"`
		Nutrition      `json:"nutrition"`
		CreatedAt      time.Time `json:"created_at"`
	}

	Step struct {
		StepNo      int    `json:"step_no"`
		Description string `json:"description"`
	}

	CommentView struct {
		ID        uint64    `json:"id"`
		UserID    string    `json:"user_id"`
		Nickname  string    `json:"nickname"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}

	RecipeDetail struct {
		Info        RecipeInfo       `json:"info"`
		Ingredients []IngredientLine `json:"ingredients"`
		Steps       []Step           `json:"steps"`
		Comments    []CommentView    `json:"comments"`
	}
)
