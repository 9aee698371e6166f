package models

// AuditLog records every state-changing operation on the renovation graph,
// including cascades, so a partially applied change can be traced afterwards.
type AuditLog struct {
	Base
	Action       string  `gorm:"not null;index" json:"action"`
	ResourceType string  `gorm:"not null" json:"resource_type"`
	ResourceID   *string `gorm:"type:uuid;index" json:"resource_id,omitempty"`
	ProjectID    *string `gorm:"type:uuid;index" json:"project_id,omitempty"`
	ClientIP     string  `gorm:"not null" json:"client_ip"`
	Changes      string  `json:"changes,omitempty"`
}
