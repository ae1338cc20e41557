package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type stubTeacherRoster struct {
	teachers []models.Teacher
	err      error
}

func (s *stubTeacherRoster) ListActive(_ context.Context) ([]models.Teacher, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.teachers, nil
}

func TestSubstitutionServiceAssignAndRemove(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewSubstitutionService(repo, &stubTeacherRoster{}, nil)

	assigned, err := svc.Assign(context.Background(), "sl-1", "Bu Sari")
	require.NoError(t, err)
	assert.Equal(t, "Bu Sari", assigned.Teacher)
	require.NotNil(t, assigned.OriginalTeacher)
	assert.Equal(t, "Pak Budi", *assigned.OriginalTeacher)
	assert.Len(t, repo.replaced, 1)

	restored, err := svc.Remove(context.Background(), "sl-1")
	require.NoError(t, err)
	assert.Equal(t, "Pak Budi", restored.Teacher)
	assert.Nil(t, restored.OriginalTeacher)
}

func TestSubstitutionServiceChainKeepsOriginal(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewSubstitutionService(repo, &stubTeacherRoster{}, nil)

	_, err := svc.Assign(context.Background(), "sl-1", "Bu Sari")
	require.NoError(t, err)
	chained, err := svc.Assign(context.Background(), "sl-1", "Pak Agus")
	require.NoError(t, err)

	assert.Equal(t, "Pak Agus", chained.Teacher)
	require.NotNil(t, chained.OriginalTeacher)
	assert.Equal(t, "Pak Budi", *chained.OriginalTeacher)
}

func TestSubstitutionServiceAssignBusyCandidate(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
		seedSlot("sl-2", models.WeekdayMonday, 1, "Bu Sari", "Grade 5/B"),
	}}
	svc := NewSubstitutionService(repo, &stubTeacherRoster{}, nil)

	_, err := svc.Assign(context.Background(), "sl-1", "Bu Sari")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.replaced)
}

func TestSubstitutionServiceSelfAssignment(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewSubstitutionService(repo, &stubTeacherRoster{}, nil)

	_, err := svc.Assign(context.Background(), "sl-1", "Pak Budi")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidArgument.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceRemoveWithoutSubstitution(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
	}}
	svc := NewSubstitutionService(repo, &stubTeacherRoster{}, nil)

	_, err := svc.Remove(context.Background(), "sl-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceAssignUnknownSlot(t *testing.T) {
	svc := NewSubstitutionService(&stubScheduleRepo{}, &stubTeacherRoster{}, nil)

	_, err := svc.Assign(context.Background(), "missing", "Bu Sari")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionServiceCandidates(t *testing.T) {
	repo := &stubScheduleRepo{slots: []models.ScheduleSlot{
		seedSlot("sl-1", models.WeekdayMonday, 1, "Pak Budi", "Grade 4/A"),
		seedSlot("sl-2", models.WeekdayMonday, 1, "Bu Sari", "Grade 5/B"),
	}}
	roster := &stubTeacherRoster{teachers: []models.Teacher{
		{ID: "t-1", FullName: "Pak Budi", Active: true},
		{ID: "t-2", FullName: "Bu Sari", Active: true},
		{ID: "t-3", FullName: "Pak Agus", Active: true},
	}}
	svc := NewSubstitutionService(repo, roster, nil)

	candidates, err := svc.Candidates(context.Background(), "sl-1")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Pak Agus", candidates[0].Teacher.FullName)
	assert.False(t, candidates[0].IsConflict)
	assert.Equal(t, "Bu Sari", candidates[1].Teacher.FullName)
	assert.True(t, candidates[1].IsConflict)
	require.NotNil(t, candidates[1].Conflict)
	assert.Equal(t, "sl-2", candidates[1].Conflict.Slot.ID)
}
