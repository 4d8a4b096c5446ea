package models

import "time"

// Device holds the push-notification token registered by a traveler's
// device. One device per traveler is enough for a two-person trip.
type Device struct {
	TravelerID string    `gorm:"primaryKey;size:40" json:"traveler_id"`
	FCMToken   string    `json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}
