package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type studentListing interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type teacherListing interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
}

// RosterService exposes the student and teacher read surfaces backing the
// schedule and attendance workflows.
type RosterService struct {
	students studentListing
	teachers teacherListing
	logger   *zap.Logger
}

// NewRosterService instantiates RosterService.
func NewRosterService(students studentListing, teachers teacherListing, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{students: students, teachers: teachers, logger: logger}
}

// ListStudents returns students with pagination metadata.
func (s *RosterService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ListTeachers returns teachers with pagination metadata.
func (s *RosterService) ListTeachers(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
