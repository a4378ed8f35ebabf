package models

import "time"

// Question lifecycle states.
const (
	QuestionStatusPending  = "PENDING"
	QuestionStatusAnswered = "ANSWERED"
)

// Question represents a youth question submitted through the portal Q&A box.
// Questions start PENDING and move to ANSWERED when an administrator replies.
type Question struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	UserFullName *string    `json:"userFullName,omitempty"` // joined from users, not stored
	QuestionText string     `json:"questionText"`
	AnswerText   *string    `json:"answerText,omitempty"`
	Status       string     `json:"status"`
	AnsweredAt   *time.Time `json:"answeredAt,omitempty"`
	AnsweredBy   *string    `json:"answeredBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
