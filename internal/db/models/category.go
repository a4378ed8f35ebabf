package models

import "time"

// Category groups opportunities (e.g. "Mikopo", "Ajira", "Mafunzo ya Ujasiriamali")
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryWithCount is a Category plus the number of opportunities assigned to it
type CategoryWithCount struct {
	Category
	OpportunityCount int `json:"opportunityCount"`
}
