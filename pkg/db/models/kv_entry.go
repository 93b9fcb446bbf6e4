package models

import "time"

// KVEntry is one persisted piece of session state, keyed by session and storage key.
type KVEntry struct {
	SessionID string    `gorm:"column:session_id;primaryKey;size:128"`
	Key       string    `gorm:"column:state_key;primaryKey;size:64"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }
