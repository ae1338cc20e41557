package models

import "time"

// Student represents a learner registered in the institution. ClassLabel is
// the grade/section identifier matched against slot classrooms, where
// "Grade4" groups sections like "Grade4/A" and "Grade4_B".
type Student struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	ClassLabel string    `db:"class_label" json:"class_label"`
	Guardian   *string   `db:"guardian" json:"guardian,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	ClassLabel string
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
