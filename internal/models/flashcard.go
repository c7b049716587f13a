package models

import "time"

// Flashcard is a persisted question/answer pair owned by one user.
type Flashcard struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
