package repository

import "github.com/oksasatya/recipe-api/internal/domain/entity"

// ListFilter narrows tag and ingredient listings. OwnerID is mandatory.
type ListFilter struct {
	OwnerID      string
	AssignedOnly bool
}

// RecipeFilter narrows recipe listings. OwnerID is mandatory; TagIDs and
// IngredientIDs match recipes linked to any of the given ids and are
// combined with AND.
type RecipeFilter struct {
	OwnerID       string
	TagIDs        []int64
	IngredientIDs []int64
	IDs           []int64
	Title         string
}

// HistoryFilter selects snapshots of one entity type visible to OwnerID.
// A zero EntityID selects every entity.
type HistoryFilter struct {
	EntityType entity.EntityType
	OwnerID    string
	EntityID   int64
}
