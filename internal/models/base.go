package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"renovo/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// ensureID assigns an ID before the row is persisted so that children can
// carry a back-reference to a parent that has not been saved yet.
func (b *Base) ensureID() {
	if b.ID == "" {
		b.ID = uuid.New()
	}
}

// touch records a mutation time.
func (b *Base) touch(now time.Time) {
	b.UpdatedAt = now
}

// PhotoList is an ordered list of photo references (file keys or URLs)
// stored as a JSON array in a text column.
type PhotoList []string

// Value implements driver.Valuer.
func (p PhotoList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (p *PhotoList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = PhotoList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("photo list: unsupported type %T", src)
	}
	if len(data) == 0 {
		*p = PhotoList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("photo list: %w", err)
	}
	*p = out
	return nil
}
