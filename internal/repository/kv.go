package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/model"
)

// KVStore is the persistence primitive the whole data layer is built on,
// matching the hosted key-value contract the system migrated away from:
// get, set, delete, and prefix scan. Versioned variants back the optimistic
// concurrency check on read-modify-write keys.
type KVStore interface {
	// Get returns the stored JSON value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// GetWithVersion additionally returns the row version (0 when absent).
	GetWithVersion(ctx context.Context, key string) (json.RawMessage, int64, error)
	// Set writes unconditionally (last-write-wins), bumping the version.
	Set(ctx context.Context, key string, value json.RawMessage) error
	// SetIfVersion writes only when the stored version matches. version 0
	// means "the key must not exist yet". Mismatch yields a conflict error.
	SetIfVersion(ctx context.Context, key string, value json.RawMessage, version int64) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// GetByPrefix returns all values whose key starts with prefix.
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)
}

type gormKV struct{ db *gorm.DB }

// NewKVStore returns a KVStore backed by the Postgres kv_store table.
func NewKVStore(db *gorm.DB) KVStore { return &gormKV{db: db} }

func (s *gormKV) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("kv get", err)
	}
	return json.RawMessage(entry.Value), nil
}

func (s *gormKV) GetWithVersion(ctx context.Context, key string) (json.RawMessage, int64, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, apperr.Persistence("kv get", err)
	}
	return json.RawMessage(entry.Value), entry.Version, nil
}

func (s *gormKV) Set(ctx context.Context, key string, value json.RawMessage) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":   []byte(value),
			"version": gorm.Expr("kv_store.version + 1"),
		}),
	}).Create(&model.KVEntry{Key: key, Value: []byte(value), Version: 1}).Error
	if err != nil {
		return apperr.Persistence("kv set", err)
	}
	return nil
}

func (s *gormKV) SetIfVersion(ctx context.Context, key string, value json.RawMessage, version int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry model.KVEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "key = ?", key).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if version != 0 {
				return apperr.Conflict("la clave fue eliminada por otra operación")
			}
			return tx.Create(&model.KVEntry{Key: key, Value: []byte(value), Version: 1}).Error
		case err != nil:
			return err
		}
		if entry.Version != version {
			return apperr.Conflict("el registro fue modificado por otra operación")
		}
		return tx.Model(&model.KVEntry{}).Where("key = ?", key).
			Updates(map[string]interface{}{
				"value":   []byte(value),
				"version": entry.Version + 1,
			}).Error
	})
	if err != nil && apperr.KindOf(err) == apperr.KindUnknown {
		return apperr.Persistence("kv versioned set", err)
	}
	return err
}

func (s *gormKV) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&model.KVEntry{}, "key = ?", key).Error; err != nil {
		return apperr.Persistence("kv delete", err)
	}
	return nil
}

func (s *gormKV) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	var entries []model.KVEntry
	// Keys contain underscores, which LIKE treats as a wildcard — escape them.
	err := s.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("key ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperr.Persistence("kv prefix scan", err)
	}
	values := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		values = append(values, json.RawMessage(e.Value))
	}
	return values, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
