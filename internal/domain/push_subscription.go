package domain

import "time"

// PushSubscription mirrors a browser PushSubscription object.
type PushSubscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}
