package model

import "time"

// KVEntry is a row of the kv_store table — the same key/value layout the
// hosted backend used, brought in-house. Version backs the optimistic
// concurrency check on read-modify-write keys (movement ledgers).
type KVEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     []byte `gorm:"type:jsonb;not null"`
	Version   int64  `gorm:"not null;default:1"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_store" }
