package models

import "time"

// Weekday enumerates the five teaching days of the school week.
type Weekday string

const (
	WeekdaySunday    Weekday = "SUNDAY"
	WeekdayMonday    Weekday = "MONDAY"
	WeekdayTuesday   Weekday = "TUESDAY"
	WeekdayWednesday Weekday = "WEDNESDAY"
	WeekdayThursday  Weekday = "THURSDAY"
)

// Valid returns true when the weekday is a supported teaching day.
func (d Weekday) Valid() bool {
	switch d {
	case WeekdaySunday, WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday:
		return true
	default:
		return false
	}
}

// Periods per teaching day.
const (
	MinPeriod = 1
	MaxPeriod = 7
)

// ScheduleSlot is one weekly teaching session. Teacher holds the name of
// whoever currently teaches the slot; when a substitution is active,
// OriginalTeacher preserves the regular teacher for reversal.
type ScheduleSlot struct {
	ID              string    `db:"id" json:"id"`
	Day             Weekday   `db:"day" json:"day"`
	Period          int       `db:"period" json:"period"`
	Subject         string    `db:"subject" json:"subject"`
	ClassRoom       string    `db:"class_room" json:"class_room"`
	Teacher         string    `db:"teacher" json:"teacher"`
	OriginalTeacher *string   `db:"original_teacher" json:"original_teacher,omitempty"`
	AcademicYear    *string   `db:"academic_year" json:"academic_year,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// IsSubstituted reports whether a substitution is active on the slot.
func (s ScheduleSlot) IsSubstituted() bool {
	return s.OriginalTeacher != nil && *s.OriginalTeacher != s.Teacher
}

// HomeTeacher returns the slot's regular teacher regardless of substitution.
func (s ScheduleSlot) HomeTeacher() string {
	if s.OriginalTeacher != nil {
		return *s.OriginalTeacher
	}
	return s.Teacher
}

// Year returns the slot's academic year, empty when unscoped.
func (s ScheduleSlot) Year() string {
	if s.AcademicYear == nil {
		return ""
	}
	return *s.AcademicYear
}

// SlotCandidate describes a slot being created or edited, before it exists.
type SlotCandidate struct {
	Day          Weekday
	Period       int
	Teacher      string
	ClassRoom    string
	AcademicYear string
}

// ScheduleFilter describes query params for listing slots.
type ScheduleFilter struct {
	AcademicYear string
	Day          Weekday
	Teacher      string
	ClassRoom    string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// ConflictKind distinguishes the two double-booking dimensions.
type ConflictKind string

const (
	ConflictTeacher ConflictKind = "TEACHER"
	ConflictClass   ConflictKind = "CLASS"
)

// SlotConflict names the existing slot a candidate collides with.
type SlotConflict struct {
	Kind ConflictKind `json:"kind"`
	Slot ScheduleSlot `json:"slot"`
}

// SlotConflictError is returned when a slot collides with an existing one.
// Conflicts are an expected business outcome; the error carries the
// conflicting slot so callers can present day/period/subject without a
// second query.
type SlotConflictError struct {
	Kind     ConflictKind `json:"kind"`
	Message  string       `json:"message"`
	Conflict ScheduleSlot `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *SlotConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
