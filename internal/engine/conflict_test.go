package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
)

func strPtr(s string) *string { return &s }

func slot(id string, day models.Weekday, period int, teacher, room string) models.ScheduleSlot {
	return models.ScheduleSlot{ID: id, Day: day, Period: period, Subject: "Math", Teacher: teacher, ClassRoom: room}
}

func TestCheckConflictTeacher(t *testing.T) {
	existing := []models.ScheduleSlot{
		slot("s1", models.WeekdaySunday, 3, "Alice", "4/A"),
		slot("s2", models.WeekdayMonday, 3, "Alice", "4/B"),
	}

	conflict := CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 3, Teacher: "Alice", ClassRoom: "5/C",
	}, existing, "")
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictTeacher, conflict.Kind)
	assert.Equal(t, "s1", conflict.Slot.ID)

	// Different period, same teacher: no collision.
	assert.Nil(t, CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 4, Teacher: "Alice", ClassRoom: "5/C",
	}, existing, ""))
}

func TestCheckConflictOriginalTeacherStillBooked(t *testing.T) {
	// Bob is substituted by Carol; Bob's own booking must still block.
	substituted := slot("s1", models.WeekdayTuesday, 2, "Carol", "4/A")
	substituted.OriginalTeacher = strPtr("Bob")

	conflict := CheckConflict(models.SlotCandidate{
		Day: models.WeekdayTuesday, Period: 2, Teacher: "Bob", ClassRoom: "6/B",
	}, []models.ScheduleSlot{substituted}, "")
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictTeacher, conflict.Kind)

	conflict = CheckConflict(models.SlotCandidate{
		Day: models.WeekdayTuesday, Period: 2, Teacher: "Carol", ClassRoom: "6/B",
	}, []models.ScheduleSlot{substituted}, "")
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictTeacher, conflict.Kind)
}

func TestCheckConflictClass(t *testing.T) {
	existing := []models.ScheduleSlot{slot("s1", models.WeekdaySunday, 1, "Alice", "4/A")}

	conflict := CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 1, Teacher: "Dina", ClassRoom: "4/A",
	}, existing, "")
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictClass, conflict.Kind)

	// Classroom matching is exact; "4/A " is a different room.
	assert.Nil(t, CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 1, Teacher: "Dina", ClassRoom: "4/A ",
	}, existing, ""))
}

func TestCheckConflictTeacherTakesPrecedence(t *testing.T) {
	// Class conflict sits earlier in the collection than the teacher
	// conflict; the teacher conflict must still be the one reported.
	existing := []models.ScheduleSlot{
		slot("s1", models.WeekdaySunday, 3, "Bob", "4/A"),
		slot("s2", models.WeekdaySunday, 3, "Alice", "4/B"),
	}

	conflict := CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 3, Teacher: "Alice", ClassRoom: "4/A",
	}, existing, "")
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictTeacher, conflict.Kind)
	assert.Equal(t, "s2", conflict.Slot.ID)
}

func TestCheckConflictExcludesOwnID(t *testing.T) {
	existing := []models.ScheduleSlot{slot("s1", models.WeekdaySunday, 3, "Alice", "4/A")}

	// Editing s1 in place keeps its own day/period/teacher without tripping.
	assert.Nil(t, CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 3, Teacher: "Alice", ClassRoom: "4/A",
	}, existing, "s1"))
}

func TestCheckConflictAcademicYearWildcard(t *testing.T) {
	scoped := slot("s1", models.WeekdaySunday, 3, "Alice", "4/A")
	scoped.AcademicYear = strPtr("2025/2026")
	existing := []models.ScheduleSlot{scoped}

	cases := []struct {
		name          string
		candidateYear string
		wantConflict  bool
	}{
		{"same year collides", "2025/2026", true},
		{"different year passes", "2026/2027", false},
		{"unset candidate year is a wildcard", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conflict := CheckConflict(models.SlotCandidate{
				Day: models.WeekdaySunday, Period: 3, Teacher: "Alice", ClassRoom: "5/B", AcademicYear: tc.candidateYear,
			}, existing, "")
			assert.Equal(t, tc.wantConflict, conflict != nil)
		})
	}

	// Unset year on the stored slot is a wildcard too.
	unscoped := []models.ScheduleSlot{slot("s2", models.WeekdaySunday, 3, "Alice", "4/A")}
	conflict := CheckConflict(models.SlotCandidate{
		Day: models.WeekdaySunday, Period: 3, Teacher: "Alice", ClassRoom: "5/B", AcademicYear: "2027/2028",
	}, unscoped, "")
	assert.NotNil(t, conflict)
}
