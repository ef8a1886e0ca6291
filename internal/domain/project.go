// Package domain contains the core data types for the time ledger.
// It is imported by every other internal package (repo, service, handler)
// and depends on nothing internal itself.
package domain

import "time"

// DefaultCurrency is used when neither the caller nor the configuration
// names a currency for a new project.
const DefaultCurrency = "USD"

// Project is a billable unit of work, usually one per client engagement.
// HourlyRate is nil when no rate has been configured; such projects still
// accumulate hours but contribute nothing to earnings.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Client      string    `json:"client,omitempty"`
	Description string    `json:"description,omitempty"`
	HourlyRate  *float64  `json:"hourly_rate,omitempty"`
	Currency    string    `json:"currency"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rate returns the hourly rate, or 0 when none is configured.
func (p Project) Rate() float64 {
	if p.HourlyRate == nil {
		return 0
	}
	return *p.HourlyRate
}

// ProjectPatch carries a partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string  `json:"name,omitempty"`
	Client      *string  `json:"client,omitempty"`
	Description *string  `json:"description,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	Archived    *bool    `json:"archived,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Client == nil && p.Description == nil &&
		p.HourlyRate == nil && p.Currency == nil && p.Archived == nil
}

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	// Search is matched case-insensitively as a substring of name, client
	// or description. Empty matches everything.
	Search string
	// IncludeArchived adds archived projects to the result.
	IncludeArchived bool
}
