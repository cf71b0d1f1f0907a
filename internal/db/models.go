package db

import (
	"time"
)

// Foreign keys are declared on the owning side only (belongs-to), so every
// constraint and its ON DELETE action lives on the referencing table.
type (
	GormForkedModel struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		ID           string  `gorm:"primarykey;size:64"`
		PasswordHash string  `gorm:"not null"`
		Nickname     string  `gorm:"not null;size:64"`
		Token        *string `gorm:"uniqueIndex;size:64"`
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	Ingredient struct {
		GormForkedModel
		Name string `gorm:"not null;uniqueIndex;size:128"`
	}

	UserIngredient struct {
		GormForkedModel
		UserID       string     `gorm:"not null;size:64;uniqueIndex:uidx_user_ingredient"`
		User         User       `gorm:"constraint:OnDelete:CASCADE"`
		IngredientID uint64     `gorm:"not null;uniqueIndex:uidx_user_ingredient"`
		Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT"`
		Quantity     string
	}

	RecipeWay struct {
		ID   uint64 `gorm:"primarykey"`
		Name string `gorm:"not null;uniqueIndex;size:64"`
	}

	RecipeType struct {
		ID   uint64 `gorm:"primarykey"`
		Name string `gorm:"not null;uniqueIndex;size:64"`
	}

	Recipe struct {
		GormForkedModel
		Title        string `gorm:"not null;size:200"`
		Description  string
		AuthorID     string     `gorm:"not null;size:64;index"`
		Author       User       `gorm:"constraint:OnDelete:CASCADE"`
		TypeID       uint64     `gorm:"not null;index"`
		Type         RecipeType `gorm:"constraint:OnDelete:RESTRICT"`
		WayID        uint64     `gorm:"not null;index"`
		Way          RecipeWay  `gorm:"constraint:OnDelete:RESTRICT"`
		Calories     *float64
		Carbohydrate *float64
		Protein      *float64
		Fat          *float64
		Sodium       *float64
	}

	RecipeIngredient struct {
		ID           uint64     `gorm:"primarykey"`
		RecipeID     uint64     `gorm:"not null;index"`
		Recipe       Recipe     `gorm:"constraint:OnDelete:CASCADE"`
		IngredientID uint64     `gorm:"not null;index"`
		Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT"`
		Amount       string
	}

	CookingStep struct {
		ID          uint64 `gorm:"primarykey"`
		RecipeID    uint64 `gorm:"not null;uniqueIndex:uidx_recipe_step"`
		Recipe      Recipe `gorm:"constraint:OnDelete:CASCADE"`
		StepNo      int    `gorm:"not null;uniqueIndex:uidx_recipe_step"`
		Description string `gorm:"not null"`
	}

	Comment struct {
		ID        uint64 `gorm:"primarykey"`
		RecipeID  uint64 `gorm:"not null;index"`
		Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
		UserID    string `gorm:"not null;size:64;index"`
		User      User   `gorm:"constraint:OnDelete:CASCADE"`
		Content   string `gorm:"not null"`
		CreatedAt time.Time
	}

	Favorite struct {
		UserID    string `gorm:"primarykey;size:64"`
		User      User   `gorm:"constraint:OnDelete:CASCADE"`
		RecipeID  uint64 `gorm:"primarykey;autoIncrement:false;index"`
		Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
		CreatedAt time.Time
	}
)

// Models is the migration order; gorm reorders by dependency anyway.
var Models = []interface{}{
	&User{},
	&Ingredient{},
	&UserIngredient{},
	&RecipeWay{},
	&RecipeType{},
	&Recipe{},
	&RecipeIngredient{},
	&CookingStep{},
	&Comment{},
	&Favorite{},
}
