package model

import "time"

// DateLayout is the wire format of birth dates.
const DateLayout = "2006-01-02"

// Author represents an author row.
type Author struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BirthDate time.Time `db:"birth_date" json:"birthDate"`
	Biography *string   `db:"biography" json:"biography"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Columns lists the author columns in declaration order.
var Columns = []string{"id", "name", "birth_date", "biography", "created_at"}
