package models

import "time"

// SavedOpportunity is a bookmark linking a youth account to an opportunity.
// The db tags support sqlx struct scanning in the saved-opportunity repository.
type SavedOpportunity struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	OpportunityID string    `json:"opportunityId" db:"opportunity_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// SavedOpportunityDetail is a bookmark joined with the listing it points at,
// returned when a youth lists their saved opportunities.
type SavedOpportunityDetail struct {
	SavedOpportunity
	Opportunity Opportunity `json:"opportunity"`
}
