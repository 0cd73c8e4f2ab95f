// Package domain contains persistence models for provider invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsTerminal reports whether the status permits no further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// Invoice is a billing document issued by a provider against a property.
// Issue and due dates are stored as the raw date strings received from
// upstream systems; validation happens at read time so a bad record never
// blocks ingestion.
type Invoice struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	Number     string        `gorm:"not null;uniqueIndex" json:"number"`
	PropertyID snowflake.ID  `gorm:"not null;index" json:"property_id"`
	ProviderID snowflake.ID  `gorm:"not null;index" json:"provider_id"`
	IssueDate  string        `gorm:"not null" json:"issue_date"`
	DueDate    string        `json:"due_date,omitempty"`
	Status     InvoiceStatus `gorm:"type:text;not null;default:'draft'" json:"status"`
	Subtotal   float64       `gorm:"not null;default:0" json:"subtotal"`
	Tax        float64       `gorm:"not null;default:0" json:"tax"`
	Total      float64       `gorm:"not null;default:0" json:"total"`
	Currency   string        `gorm:"type:text;not null;default:'USD'" json:"currency"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// CanTransitionTo enforces the lifecycle: draft -> sent -> paid/overdue,
// overdue -> paid, and any non-terminal state -> cancelled.
func (i Invoice) CanTransitionTo(next InvoiceStatus) bool {
	if i.Status.IsTerminal() {
		return false
	}
	switch next {
	case InvoiceStatusSent:
		return i.Status == InvoiceStatusDraft
	case InvoiceStatusPaid:
		return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
	case InvoiceStatusOverdue:
		return i.Status == InvoiceStatusSent
	case InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}
