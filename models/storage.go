package models

import "time"

// StorageSchemaVersion namespaces every storage key so a future format
// change can migrate entries instead of tripping over stale payloads.
const StorageSchemaVersion = "v1"

// StorageEntry is the server-side analog of the app's local device storage:
// free-form JSON strings keyed per traveler. No schema is enforced beyond
// what the consumer imposes by serializing/deserializing.
type StorageEntry struct {
	TravelerID string    `gorm:"primaryKey;size:40" json:"traveler_id"`
	Key        string    `gorm:"primaryKey;size:100" json:"key"`
	Value      string    `gorm:"type:text" json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PutStorageRequest struct {
	Value string `json:"value" binding:"required"`
}

// ChecklistItem is one entry of a packing/todo checklist kept in device
// storage. Items are identified by ID so defaults can be merged in without
// duplicating what the traveler already saved.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}
