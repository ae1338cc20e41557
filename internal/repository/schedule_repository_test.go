package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "day", "period", "subject", "class_room", "teacher", "original_teacher", "academic_year", "created_at", "updated_at"}).
		AddRow("sl-1", "MONDAY", 1, "Mathematics", "Grade 4/A", "Pak Budi", nil, nil, time.Now(), time.Now())
}

func TestScheduleRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day, period, subject, class_room, teacher, original_teacher, academic_year, created_at, updated_at FROM schedule_slots WHERE 1=1 AND (teacher = $1 OR original_teacher = $1) ORDER BY day ASC, period ASC LIMIT 50 OFFSET 0")).
		WithArgs("Pak Budi").
		WillReturnRows(slotRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedule_slots WHERE 1=1 AND (teacher = $1 OR original_teacher = $1)")).
		WithArgs("Pak Budi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	slots, total, err := repo.List(context.Background(), models.ScheduleFilter{Teacher: "Pak Budi"})
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day, period, subject, class_room, teacher, original_teacher, academic_year, created_at, updated_at FROM schedule_slots ORDER BY day ASC, period ASC")).
		WillReturnRows(slotRows())

	slots, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "sl-1", slots[0].ID)
	assert.Equal(t, models.WeekdayMonday, slots[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT .* FROM schedule_slots WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO schedule_slots").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_slots").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	slots := []models.ScheduleSlot{
		{ID: "sl-1", Day: models.WeekdayMonday, Period: 1, Subject: "Mathematics", ClassRoom: "Grade 4/A", Teacher: "Pak Budi"},
		{Day: models.WeekdayMonday, Period: 2, Subject: "Science", ClassRoom: "Grade 4/A", Teacher: "Bu Sari"},
	}
	err := repo.ReplaceAll(context.Background(), slots)
	require.NoError(t, err)
	assert.NotEmpty(t, slots[1].ID, "new slots get generated ids")
	assert.False(t, slots[0].UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryReplaceAllRollsBack(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), []models.ScheduleSlot{
		{ID: "sl-1", Day: models.WeekdayMonday, Period: 1, Subject: "Mathematics", ClassRoom: "Grade 4/A", Teacher: "Pak Budi"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
