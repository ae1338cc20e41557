package engine

import (
	"time"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

// DefaultRecord synthesizes the quick-grading default for a student with no
// record yet on the date: present, every axis excellent, empty notes.
func DefaultRecord(studentID string, date time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:            models.AttendanceRecordID(studentID, date),
		StudentID:     studentID,
		Date:          date,
		Attendance:    models.AttendancePresent,
		Participation: models.ScoreExcellent,
		Homework:      models.ScoreExcellent,
		Behavior:      models.ScoreExcellent,
		Notes:         "",
	}
}

// ApplyFieldEdit derives the next canonical record from one field edit.
// A nil current record is synthesized via DefaultRecord before the edit.
// Editing the attendance field normalizes the evaluation axes:
//
//   - absent or excused forces every axis to none, discarding whatever was
//     there (the most recent attendance edit wins);
//   - present resets only axes that are none back to excellent, leaving
//     already graded axes untouched. Grades are not remembered across an
//     absence.
//
// Axis edits are accepted even while the record is absent or excused; the
// display layer disables those inputs, the engine stays permissive so
// out-of-order and scripted corrections keep working. The returned record is
// a new value; inputs are never mutated.
func ApplyFieldEdit(current *models.AttendanceRecord, studentID string, date time.Time, field models.RecordField, value string) (models.AttendanceRecord, error) {
	if !field.Valid() {
		return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrInvalidArgument, "unknown record field")
	}

	var record models.AttendanceRecord
	if current != nil {
		record = *current
	} else {
		record = DefaultRecord(studentID, date)
	}

	switch field {
	case models.FieldAttendance:
		status := models.AttendanceStatus(value)
		if !status.Valid() {
			return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrInvalidArgument, "invalid attendance status")
		}
		record.Attendance = status
		switch status {
		case models.AttendanceAbsent, models.AttendanceExcused:
			record.Participation = models.ScoreNone
			record.Homework = models.ScoreNone
			record.Behavior = models.ScoreNone
		case models.AttendancePresent:
			if record.Participation == models.ScoreNone {
				record.Participation = models.ScoreExcellent
			}
			if record.Homework == models.ScoreNone {
				record.Homework = models.ScoreExcellent
			}
			if record.Behavior == models.ScoreNone {
				record.Behavior = models.ScoreExcellent
			}
		}
	case models.FieldNotes:
		record.Notes = value
	default:
		score := models.EvaluationScore(value)
		if !score.Valid() {
			return models.AttendanceRecord{}, appErrors.Clone(appErrors.ErrInvalidArgument, "invalid evaluation score")
		}
		switch field {
		case models.FieldParticipation:
			record.Participation = score
		case models.FieldHomework:
			record.Homework = score
		case models.FieldBehavior:
			record.Behavior = score
		}
	}

	record.ID = models.AttendanceRecordID(record.StudentID, record.Date)
	return record, nil
}
