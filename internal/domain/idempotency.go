// Package domain defines the core types of the fiqh assistant. This file
// holds the idempotency record used to deduplicate retried submissions.
package domain

import "time"

// Idempotency records the outcome of a previously processed submission,
// keyed by the client-supplied Idempotency-Key. It lets a retried POST return
// the originally produced assistant reply without invoking the answering
// model a second time.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_key"`
	MessageID string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
