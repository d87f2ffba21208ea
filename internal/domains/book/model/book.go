package model

import "time"

// Book represents a row of the books table.
type Book struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Summary   *string   `json:"summary" db:"summary"`
	ISBN      string    `json:"isbn" db:"isbn"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BookDetail is a book joined with the author fields every read returns.
type BookDetail struct {
	Book
	AuthorName      string    `json:"author_name" db:"author_name"`
	AuthorBirthDate time.Time `json:"author_birthDate" db:"author_birth_date"`
	AuthorBiography *string   `json:"author_biography" db:"author_biography"`
}

// Columns lists the book columns in declaration order.
var Columns = []string{"id", "title", "summary", "isbn", "author_id", "created_at"}

// DetailColumns selects a BookDetail from "books b JOIN authors a".
var DetailColumns = []string{
	"b.id", "b.title", "b.summary", "b.isbn", "b.author_id", "b.created_at",
	"a.name AS author_name",
	"a.birth_date AS author_birth_date",
	"a.biography AS author_biography",
}

// Filter narrows a book listing. Zero values are ignored.
type Filter struct {
	Title    string
	AuthorID int64
}
