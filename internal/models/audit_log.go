package models

// AuditLog records who changed a financial record and from where.
type AuditLog struct {
	Base
	ProfileID    string `gorm:"not null;index" json:"profile_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"index" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
