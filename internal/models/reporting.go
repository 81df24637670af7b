package models

import (
	"encoding/json"
	"time"
)

// PendingReport is a payload that could not be delivered to the external
// backend after the degraded retry. It is parked here instead of being
// dropped; delivery is not retried automatically.
type PendingReport struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	Kind      string          // e.g. 'game-score', 'video-sent'
	Payload   json.RawMessage `gorm:"type:jsonb"`
	CreatedAt time.Time
}
