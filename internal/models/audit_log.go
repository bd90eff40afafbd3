package models

// AuditLog records mutating operations for traceability. ResourceType is one
// of "space", "budget", "budget_item", "currency", or "user"; Changes holds a
// JSON snapshot of the relevant request fields.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"size:64;not null" json:"action"`
	ResourceType string `gorm:"size:32;not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `gorm:"size:45" json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
