package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

var testDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func TestApplyFieldEditSynthesizesDefault(t *testing.T) {
	record, err := ApplyFieldEdit(nil, "st-1", testDate, models.FieldParticipation, "good")
	require.NoError(t, err)

	assert.Equal(t, "st-1_2026-03-15", record.ID)
	assert.Equal(t, models.AttendancePresent, record.Attendance)
	assert.Equal(t, models.ScoreGood, record.Participation)
	assert.Equal(t, models.ScoreExcellent, record.Homework)
	assert.Equal(t, models.ScoreExcellent, record.Behavior)
	assert.Empty(t, record.Notes)
}

func TestApplyFieldEditAbsentForcesAxesToNone(t *testing.T) {
	// New record marked absent straight away.
	record, err := ApplyFieldEdit(nil, "st-1", testDate, models.FieldAttendance, "absent")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceAbsent, record.Attendance)
	assert.Equal(t, models.ScoreNone, record.Participation)
	assert.Equal(t, models.ScoreNone, record.Homework)
	assert.Equal(t, models.ScoreNone, record.Behavior)

	// Manually graded axes are discarded too; the attendance edit wins.
	graded := DefaultRecord("st-1", testDate)
	graded.Participation = models.ScoreGood
	graded.Homework = models.ScorePoor
	record, err = ApplyFieldEdit(&graded, "st-1", testDate, models.FieldAttendance, "excused")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceExcused, record.Attendance)
	assert.Equal(t, models.ScoreNone, record.Participation)
	assert.Equal(t, models.ScoreNone, record.Homework)
	assert.Equal(t, models.ScoreNone, record.Behavior)

	// Input untouched.
	assert.Equal(t, models.ScoreGood, graded.Participation)
}

func TestApplyFieldEditReturnToPresentResetsLostGrades(t *testing.T) {
	record := DefaultRecord("st-1", testDate)
	record.Participation = models.ScoreGood

	absent, err := ApplyFieldEdit(&record, "st-1", testDate, models.FieldAttendance, "absent")
	require.NoError(t, err)
	require.Equal(t, models.ScoreNone, absent.Participation)

	// The pre-absence "good" is not remembered; none resets to excellent.
	back, err := ApplyFieldEdit(&absent, "st-1", testDate, models.FieldAttendance, "present")
	require.NoError(t, err)
	assert.Equal(t, models.ScoreExcellent, back.Participation)
	assert.Equal(t, models.ScoreExcellent, back.Homework)
	assert.Equal(t, models.ScoreExcellent, back.Behavior)
}

func TestApplyFieldEditPresentPreservesGradedAxes(t *testing.T) {
	record := DefaultRecord("st-1", testDate)
	record.Participation = models.ScoreAverage
	record.Homework = models.ScoreNone

	next, err := ApplyFieldEdit(&record, "st-1", testDate, models.FieldAttendance, "present")
	require.NoError(t, err)
	assert.Equal(t, models.ScoreAverage, next.Participation)
	assert.Equal(t, models.ScoreExcellent, next.Homework)
}

func TestApplyFieldEditAxisWhileAbsentIsAccepted(t *testing.T) {
	absent, err := ApplyFieldEdit(nil, "st-1", testDate, models.FieldAttendance, "absent")
	require.NoError(t, err)

	// Permissive on purpose: the display layer disables the input, the
	// engine stores the edit so scripted corrections keep working.
	next, err := ApplyFieldEdit(&absent, "st-1", testDate, models.FieldHomework, "good")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceAbsent, next.Attendance)
	assert.Equal(t, models.ScoreGood, next.Homework)
}

func TestApplyFieldEditNotes(t *testing.T) {
	record, err := ApplyFieldEdit(nil, "st-1", testDate, models.FieldNotes, "left early")
	require.NoError(t, err)
	assert.Equal(t, "left early", record.Notes)
	assert.Equal(t, models.AttendancePresent, record.Attendance)
}

func TestApplyFieldEditInvalidArguments(t *testing.T) {
	cases := []struct {
		name  string
		field models.RecordField
		value string
	}{
		{"unknown field", models.RecordField("mood"), "good"},
		{"bad attendance value", models.FieldAttendance, "late"},
		{"bad score value", models.FieldBehavior, "amazing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ApplyFieldEdit(nil, "st-1", testDate, tc.field, tc.value)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrInvalidArgument.Code, appErrors.FromError(err).Code)
		})
	}
}
