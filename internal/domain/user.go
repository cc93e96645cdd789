package domain

import "time"

// User is a chat identity enriched with the student identifier and name
// resolved (or placeholder-filled) during registration. Upserted when the
// user confirms their identity.
type User struct {
	TelegramID   int64     `db:"telegram_id"`
	StudentID    string    `db:"student_id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	RegisteredAt time.Time `db:"registered_at"`
}

// FullName joins the given and family names for rendering.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
