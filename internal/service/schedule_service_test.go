package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type stubScheduleRepo struct {
	slots        []models.ScheduleSlot
	listErr      error
	replaceErr   error
	replaced     [][]models.ScheduleSlot
	listAllCalls int
}

func (s *stubScheduleRepo) List(_ context.Context, _ models.ScheduleFilter) ([]models.ScheduleSlot, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.slots, len(s.slots), nil
}

func (s *stubScheduleRepo) ListAll(_ context.Context) ([]models.ScheduleSlot, error) {
	s.listAllCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	snapshot := make([]models.ScheduleSlot, len(s.slots))
	copy(snapshot, s.slots)
	return snapshot, nil
}

func (s *stubScheduleRepo) FindByID(_ context.Context, id string) (*models.ScheduleSlot, error) {
	for i := range s.slots {
		if s.slots[i].ID == id {
			slot := s.slots[i]
			return &slot, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubScheduleRepo) ReplaceAll(_ context.Context, slots []models.ScheduleSlot) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = append(s.replaced, slots)
	s.slots = slots
	return nil
}

func strPtr(s string) *string { return &s }

func seedSlot(id string, day models.Weekday, period int, teacher, room string) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:        id,
		Day:       day,
		Period:    period,
		Subject:   "Mathematics",
		ClassRoom: room,
		Teacher:   teacher,
	}
}

func TestScheduleServiceCreate(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewScheduleService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateSlotRequest{
		Day:       "MONDAY",
		Period:    2,
		Subject:   "Science",
		ClassRoom: "Grade 4/A",
		Teacher:   "Pak Budi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.WeekdayMonday, created.Day)
	assert.Equal(t, 2, created.Period)
	require.Len(t, repo.replaced, 1)
	assert.Len(t, repo.replaced[0], 2)
}

func TestScheduleServiceCreateTeacherConflict(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewScheduleService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSlotRequest{
		Day:       "MONDAY",
		Period:    1,
		Subject:   "Science",
		ClassRoom: "Grade 5/B",
		Teacher:   "Pak Budi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	var conflict *models.SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, models.ConflictTeacher, conflict.Kind)
	assert.Equal(t, "sl-1", conflict.Conflict.ID)
	assert.Empty(t, repo.replaced)
}

func TestScheduleServiceCreateValidation(t *testing.T) {
	svc := NewScheduleService(&stubScheduleRepo{}, nil, nil)

	cases := []CreateSlotRequest{
		{Day: "SATURDAY", Period: 1, Subject: "Science", ClassRoom: "Grade 4/A", Teacher: "Pak Budi"},
		{Day: "MONDAY", Period: 8, Subject: "Science", ClassRoom: "Grade 4/A", Teacher: "Pak Budi"},
		{Day: "MONDAY", Period: 1, Subject: "", ClassRoom: "Grade 4/A", Teacher: "Pak Budi"},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestScheduleServiceCreateAcademicYearWildcard(t *testing.T) {
	booked := seedSlot("sl-1", models.WeekdayTuesday, 3, "Bu Sari", "Grade 4/A")
	booked.AcademicYear = strPtr("2025/2026")
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{booked}}
	svc := NewScheduleService(repo, nil, nil)

	// Different year never collides.
	_, err := svc.Create(context.Background(), CreateSlotRequest{
		Day: "TUESDAY", Period: 3, Subject: "Art", ClassRoom: "Grade 5/B", Teacher: "Bu Sari", AcademicYear: "2026/2027",
	})
	require.NoError(t, err)

	// An unscoped candidate matches every year.
	_, err = svc.Create(context.Background(), CreateSlotRequest{
		Day: "TUESDAY", Period: 3, Subject: "Art", ClassRoom: "Grade 6/C", Teacher: "Bu Sari",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceUpdateExcludesSelf(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewScheduleService(repo, nil, nil)

	updated, err := svc.Update(context.Background(), "sl-1", UpdateSlotRequest{
		Day:       "MONDAY",
		Period:    1,
		Subject:   "Algebra",
		ClassRoom: "Grade 4/A",
		Teacher:   "Pak Budi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", updated.Subject)
}

func TestScheduleServiceUpdateDropsSubstitutionOnTeacherChange(t *testing.T) {
	substituted := seedSlot("sl-1", models.WeekdayMonday, 1, "Bu Sari", "Grade 4/A")
	substituted.OriginalTeacher = strPtr("Pak Budi")
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{substituted}}
	svc := NewScheduleService(repo, nil, nil)

	updated, err := svc.Update(context.Background(), "sl-1", UpdateSlotRequest{
		Day:       "MONDAY",
		Period:    1,
		Subject:   "Mathematics",
		ClassRoom: "Grade 4/A",
		Teacher:   "Pak Agus",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pak Agus", updated.Teacher)
	assert.Nil(t, updated.OriginalTeacher)
}

func TestScheduleServiceUpdateKeepsSubstitutionWhenTeacherUnchanged(t *testing.T) {
	substituted := seedSlot("sl-1", models.WeekdayMonday, 1, "Bu Sari", "Grade 4/A")
	substituted.OriginalTeacher = strPtr("Pak Budi")
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{substituted}}
	svc := NewScheduleService(repo, nil, nil)

	updated, err := svc.Update(context.Background(), "sl-1", UpdateSlotRequest{
		Day:       "MONDAY",
		Period:    1,
		Subject:   "Algebra",
		ClassRoom: "Grade 4/A",
		Teacher:   "Bu Sari",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.OriginalTeacher)
	assert.Equal(t, "Pak Budi", *updated.OriginalTeacher)
}

func TestScheduleServiceUpdateChecksSubstituteBookings(t *testing.T) {
	substituted := seedSlot("sl-1", models.WeekdayMonday, 1, "Bu Sari", "Grade 4/A")
	substituted.OriginalTeacher = strPtr("Pak Budi")
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		substituted,
		seedSlot("sl-2", models.WeekdayTuesday, 1, "Bu Sari", "Grade 5/B"),
	}}
	svc := NewScheduleService(repo, nil, nil)

	// Keeping the substitution but moving onto the substitute's other
	// booking must be rejected; the substitute is booked too, not only
	// the original teacher.
	_, err := svc.Update(context.Background(), "sl-1", UpdateSlotRequest{
		Day:       "TUESDAY",
		Period:    1,
		Subject:   "Mathematics",
		ClassRoom: "Grade 4/A",
		Teacher:   "Bu Sari",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	var conflictErr *models.SlotConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, models.ConflictTeacher, conflictErr.Kind)
	assert.Equal(t, "sl-2", conflictErr.Conflict.ID)
	assert.Empty(t, repo.replaced)
}

func TestScheduleServiceUpdateNotFound(t *testing.T) {
	svc := NewScheduleService(&stubScheduleRepo{}, nil, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateSlotRequest{
		Day: "MONDAY", Period: 1, Subject: "Mathematics", ClassRoom: "Grade 4/A", Teacher: "Pak Budi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceDelete(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
		seedSlot("sl-2", models.WeekdayMonday, 2, "Bu Sari", "Grade 4/A"),
	}}
	svc := NewScheduleService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "sl-1"))
	require.Len(t, repo.replaced, 1)
	require.Len(t, repo.replaced[0], 1)
	assert.Equal(t, "sl-2", repo.replaced[0][0].ID)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceGetNotFound(t *testing.T) {
	svc := NewScheduleService(&stubScheduleRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
