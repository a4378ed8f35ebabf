// Package models - opportunity.go defines the Opportunity model, the central record
// type of the portal: a funding, employment, or programme listing published by the
// district for youth to browse and save.
package models

import "time"

// Opportunity represents a single published or draft listing
type Opportunity struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CategoryID   *string    `json:"categoryId,omitempty"`
	CategoryName *string    `json:"categoryName,omitempty"` // joined from categories, not stored
	Organization *string    `json:"organization,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Published    bool       `json:"published"`
	CreatedBy    *string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsOpen returns true if the opportunity has no deadline or the deadline has not passed
func (o *Opportunity) IsOpen(now time.Time) bool {
	return o.Deadline == nil || o.Deadline.After(now)
}

// OpportunityFilter narrows opportunity list queries
type OpportunityFilter struct {
	CategoryID    string
	Search        string
	PublishedOnly bool
	// OpenOnly hides listings whose deadline has already passed
	OpenOnly bool
	Limit    int
	Offset   int
}
