package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultDailyHours = 8

type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	DailyHours int       `json:"daily_hours" db:"daily_hours"`
	Bio        string    `json:"bio" db:"bio"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
