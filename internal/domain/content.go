package domain

import (
	"time"

	"github.com/google/uuid"
)

// Command is a gameplay command catalog entry.
type Command struct {
	ID           int64      `json:"id"`
	Category     string     `json:"category"`
	SubCategory  string     `json:"sub_category,omitempty"`
	CommandCode  string     `json:"command_code"`
	Label        string     `json:"label"`
	Description  string     `json:"description,omitempty"`
	RequiresRole Role       `json:"requires_role"`
	SortOrder    int        `json:"sort_order"`
	IsActive     bool       `json:"is_active"`
	AddedBy      *uuid.UUID `json:"added_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Announcement is a site announcement. Deletion deactivates rather than
// removes the row.
type Announcement struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Type      string     `json:"type"`
	IsPinned  bool       `json:"is_pinned"`
	IsActive  bool       `json:"is_active"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PageSection is editable page content, keyed by its natural section key.
type PageSection struct {
	SectionKey   string     `json:"section_key"`
	SectionTitle string     `json:"section_title"`
	Content      string     `json:"content"`
	ContentType  string     `json:"content_type"`
	Page         string     `json:"page"`
	IsActive     bool       `json:"is_active"`
	UpdatedBy    *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Setting is one site_settings row, singleton per key.
type Setting struct {
	Key       string    `json:"setting_key"`
	Value     string    `json:"setting_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityLogEntry is an append-only audit record. UserID is nil for system
// actions. Entries are never updated or deleted.
type ActivityLogEntry struct {
	ID        int64      `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Username  string     `json:"username"`
	Action    string     `json:"action"`
	Details   string     `json:"details,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
