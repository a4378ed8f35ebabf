package models

import "time"

// Training delivery modes.
const (
	TrainingModeOnline   = "ONLINE"
	TrainingModeInPerson = "IN_PERSON"
)

// Training represents a skills training or course announcement
type Training struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Provider    *string    `json:"provider,omitempty"`
	Mode        string     `json:"mode"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	URL         *string    `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ValidTrainingMode reports whether mode is one of the accepted delivery modes
func ValidTrainingMode(mode string) bool {
	return mode == TrainingModeOnline || mode == TrainingModeInPerson
}
