package entity

import (
	"encoding/json"
	"time"
)

type EntityType string

const (
	EntityRecipe     EntityType = "recipe"
	EntityIngredient EntityType = "ingredient"
)

type ChangeType string

const (
	ChangeCreated ChangeType = "+"
	ChangeUpdated ChangeType = "~"
)

// HistoryRecord is an immutable snapshot of an entity right after a mutation.
// Records are only ever appended.
type HistoryRecord struct {
	ID         int64
	EntityType EntityType
	EntityID   int64
	OwnerID    string
	ChangeType ChangeType
	ChangedBy  string
	ChangedAt  time.Time
	Snapshot   json.RawMessage
}
