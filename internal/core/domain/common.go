package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Movements never carry the LastUpdated pair; they are insert-only.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // ActorID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // ActorID reference
}
