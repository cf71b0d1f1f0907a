package models

import "time"

type (
	User struct {
		ID        string    `json:"id"`
		Nickname  string    `json:"nickname"`
		CreatedAt time.Time `json:"created_at"`
	}

	FridgeItem struct {
		ID           uint64    `json:"id"`
		IngredientID uint64    `json:"ingredient_id"`
		Name         string    `json:"name"`
		Quantity     string    `json:"quantity"`
		UpdatedAt    time.Time `json:"updated_at"`
	}
)
