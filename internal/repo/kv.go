// Package repo implements the persistence layer, backed by GORM on SQLite.
// This file provides the durable key-value surface used by the bookmark
// store: a synchronous get/set of opaque string payloads under fixed keys.
//
// Error semantics:
//   - GetValue reports a missing key as found=false with a nil error, so a
//     fresh database is indistinguishable from an explicitly empty one.
//   - SetValue upserts; the previous payload for the key is replaced whole.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
)

// GetValue fetches the payload stored under key. When the key has never been
// written, it returns ("", false, nil). On DB error, the error is propagated.
func GetValue(ctx context.Context, db *gorm.DB, key string) (string, bool, error) {
	var row domain.KVEntry
	err := db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// SetValue stores value under key, replacing any previous payload. The write
// is synchronous from the caller's perspective.
func SetValue(ctx context.Context, db *gorm.DB, key, value string) error {
	row := domain.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
