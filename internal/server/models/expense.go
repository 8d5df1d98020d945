package models

import "time"

// Expense is a spending record owned by a single user. Date uses the
// client-facing "YYYY-MM-DD HH:MM:SS" format at the HTTP boundary.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
}
