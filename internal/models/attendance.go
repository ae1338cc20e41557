package models

import (
	"fmt"
	"time"
)

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceExcused AttendanceStatus = "excused"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceExcused, AttendanceAbsent:
		return true
	default:
		return false
	}
}

// EvaluationScore grades one evaluation axis of a daily record.
type EvaluationScore string

const (
	ScoreExcellent EvaluationScore = "excellent"
	ScoreGood      EvaluationScore = "good"
	ScoreAverage   EvaluationScore = "average"
	ScorePoor      EvaluationScore = "poor"
	ScoreNone      EvaluationScore = "none"
)

// Valid returns true when the score is a supported value.
func (s EvaluationScore) Valid() bool {
	switch s {
	case ScoreExcellent, ScoreGood, ScoreAverage, ScorePoor, ScoreNone:
		return true
	default:
		return false
	}
}

// RecordField names an editable field of an attendance record.
type RecordField string

const (
	FieldAttendance    RecordField = "attendance"
	FieldParticipation RecordField = "participation"
	FieldHomework      RecordField = "homework"
	FieldBehavior      RecordField = "behavior"
	FieldNotes         RecordField = "notes"
)

// Valid returns true when the field is editable.
func (f RecordField) Valid() bool {
	switch f {
	case FieldAttendance, FieldParticipation, FieldHomework, FieldBehavior, FieldNotes:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's record for one calendar date.
// Invariant: when Attendance is excused or absent, every evaluation axis
// is ScoreNone.
type AttendanceRecord struct {
	ID            string           `db:"id" json:"id"`
	StudentID     string           `db:"student_id" json:"student_id"`
	Date          time.Time        `db:"date" json:"date"`
	Attendance    AttendanceStatus `db:"attendance" json:"attendance"`
	Participation EvaluationScore  `db:"participation" json:"participation"`
	Homework      EvaluationScore  `db:"homework" json:"homework"`
	Behavior      EvaluationScore  `db:"behavior" json:"behavior"`
	Notes         string           `db:"notes" json:"notes"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceRecordID builds the deterministic per-student per-date key.
func AttendanceRecordID(studentID string, date time.Time) string {
	return fmt.Sprintf("%s_%s", studentID, date.Format("2006-01-02"))
}

// AttendanceFilter scopes attendance listing queries.
type AttendanceFilter struct {
	Date      *time.Time
	StudentID string
	Status    *AttendanceStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// DaySheetRow pairs a roster student with the day's record. Synthesized is
// true when no record has been persisted yet and the row shows defaults.
type DaySheetRow struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Record      AttendanceRecord `json:"record"`
	Synthesized bool             `json:"synthesized"`
}
