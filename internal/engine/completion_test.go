package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
)

func TestMatchesClassRoom(t *testing.T) {
	cases := []struct {
		label string
		room  string
		want  bool
	}{
		{"Grade4", "Grade4", true},
		{"Grade4", "Grade4/A", true},
		{"Grade4/A", "Grade4", true},
		{"Grade4_B", "Grade4", true},
		{"Grade4", "Grade4_B", true},
		{"Grade4", "Grade40", false},
		{"Grade40", "Grade4", false},
		{"Grade4/A", "Grade4/B", false},
		{"Grade5", "Grade4", false},
		{"", "Grade4", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchesClassRoom(tc.label, tc.room), "label=%q room=%q", tc.label, tc.room)
	}
}

func student(id, label string) models.Student {
	return models.Student{ID: id, FullName: id, ClassLabel: label, Active: true}
}

func record(studentID string, date time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:         models.AttendanceRecordID(studentID, date),
		StudentID:  studentID,
		Date:       date,
		Attendance: models.AttendancePresent,
	}
}

func TestComputeCompletion(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	sessionSlot := slot("s1", models.WeekdaySunday, 1, "Alice", "Grade4/A")
	roster := []string{"st-1", "st-2"}

	// One of two recorded: incomplete.
	partial := ComputeCompletion(sessionSlot, roster, []models.AttendanceRecord{record("st-1", date)}, date)
	assert.False(t, partial.Complete)
	assert.Equal(t, 2, partial.Roster)
	assert.Equal(t, 1, partial.Recorded)

	// Records for another date do not count.
	otherDay := ComputeCompletion(sessionSlot, roster, []models.AttendanceRecord{
		record("st-1", date), record("st-2", date.AddDate(0, 0, -1)),
	}, date)
	assert.False(t, otherDay.Complete)

	full := ComputeCompletion(sessionSlot, roster, []models.AttendanceRecord{
		record("st-1", date), record("st-2", date),
	}, date)
	assert.True(t, full.Complete)
	assert.Equal(t, "s1", full.SlotID)
}

func TestCompletedSlotIDs(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	slots := []models.ScheduleSlot{
		slot("s1", models.WeekdaySunday, 1, "Alice", "Grade4/A"),
		slot("s2", models.WeekdaySunday, 2, "Bob", "Grade5"),
	}
	students := []models.Student{
		student("st-1", "Grade4"),   // parent label matches Grade4/A
		student("st-2", "Grade4/A"), // exact section
		student("st-3", "Grade5"),
	}
	records := []models.AttendanceRecord{
		record("st-1", date),
		record("st-2", date),
	}

	set := CompletedSlotIDs(slots, students, records, date)
	assert.Equal(t, []string{"s1"}, set.SlotIDs)
	assert.True(t, set.Contains("s1"))
	assert.False(t, set.Contains("s2"))

	// Adding an unmatched student must not disturb unrelated slots.
	students = append(students, student("st-9", "Grade6"))
	set = CompletedSlotIDs(slots, students, records, date)
	assert.Equal(t, []string{"s1"}, set.SlotIDs)

	// The reverse prefix direction: slot room "Grade4", student "Grade4/A".
	reverse := []models.ScheduleSlot{slot("s3", models.WeekdayMonday, 1, "Alice", "Grade4")}
	require.Equal(t, []string{"st-1", "st-2"}, RosterIDs(students, "Grade4"))
	set = CompletedSlotIDs(reverse, students, records, date)
	assert.Equal(t, []string{"s3"}, set.SlotIDs)
}
