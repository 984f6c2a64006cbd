package entity

import "time"

// Tag is a user-owned label attached to recipes
type Tag struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
}

// Ingredient is a user-owned recipe component. Mutations are recorded in history.
type Ingredient struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
}
