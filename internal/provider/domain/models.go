package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Provider is a service company contracted across one or more properties.
// PropertyIDs holds the assignment list as snowflake strings; it is a plain
// JSON column rather than a join table because assignments are read whole.
type Provider struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Code        string                      `gorm:"not null;uniqueIndex" json:"code"`
	Name        string                      `gorm:"not null" json:"name"`
	Service     string                      `json:"service,omitempty"`
	Status      string                      `gorm:"not null;default:active" json:"status"`
	PropertyIDs datatypes.JSONSlice[string] `gorm:"not null" json:"property_ids"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p Provider) IsActive() bool {
	return p.Status == StatusActive
}

func (p Provider) ServesProperty(id snowflake.ID) bool {
	want := id.String()
	for _, raw := range p.PropertyIDs {
		if raw == want {
			return true
		}
	}
	return false
}
