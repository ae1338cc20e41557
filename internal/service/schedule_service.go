package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/engine"
	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSlot, int, error)
	ListAll(ctx context.Context) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	ReplaceAll(ctx context.Context, slots []models.ScheduleSlot) error
}

// CreateSlotRequest describes payload for adding a slot to the weekly grid.
type CreateSlotRequest struct {
	Day          string `json:"day" validate:"required,weekday"`
	Period       int    `json:"period" validate:"required,min=1,max=7"`
	Subject      string `json:"subject" validate:"required"`
	ClassRoom    string `json:"class_room" validate:"required"`
	Teacher      string `json:"teacher" validate:"required"`
	AcademicYear string `json:"academic_year"`
}

// UpdateSlotRequest edits an existing slot in place.
type UpdateSlotRequest struct {
	Day          string `json:"day" validate:"required,weekday"`
	Period       int    `json:"period" validate:"required,min=1,max=7"`
	Subject      string `json:"subject" validate:"required"`
	ClassRoom    string `json:"class_room" validate:"required"`
	Teacher      string `json:"teacher" validate:"required"`
	AcademicYear string `json:"academic_year"`
}

// ScheduleService coordinates the weekly schedule around the conflict rules.
// Writes follow the reference flow: snapshot, check, replace the whole
// collection. Check-then-replace is not atomic against concurrent writers;
// the host serializes schedule edits.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.Weekday(strings.ToUpper(fl.Field().String())).Valid()
	})
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// List returns slots with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSlot, *models.Pagination, error) {
	slots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return slots, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get loads a single slot.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	return slot, nil
}

// Create adds a slot after checking the double-booking invariant.
func (s *ScheduleService) Create(ctx context.Context, req CreateSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	slot := models.ScheduleSlot{
		Day:       models.Weekday(strings.ToUpper(req.Day)),
		Period:    req.Period,
		Subject:   req.Subject,
		ClassRoom: req.ClassRoom,
		Teacher:   req.Teacher,
	}
	if req.AcademicYear != "" {
		year := req.AcademicYear
		slot.AcademicYear = &year
	}

	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}

	candidate := models.SlotCandidate{
		Day:          slot.Day,
		Period:       slot.Period,
		Teacher:      slot.Teacher,
		ClassRoom:    slot.ClassRoom,
		AcademicYear: req.AcademicYear,
	}
	if conflict := engine.CheckConflict(candidate, snapshot, ""); conflict != nil {
		return nil, engine.ConflictError(*conflict)
	}

	next := append(snapshot, slot)
	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}
	created := next[len(next)-1]
	return &created, nil
}

// Update edits a slot in place, excluding it from its own conflict check.
// Changing the teacher of a substituted slot drops the substitution; the new
// assignment is the regular one.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}

	idx := -1
	for i := range snapshot {
		if snapshot[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}

	updated := snapshot[idx]
	keepSubstitution := updated.Teacher == req.Teacher
	updated.Day = models.Weekday(strings.ToUpper(req.Day))
	updated.Period = req.Period
	updated.Subject = req.Subject
	updated.ClassRoom = req.ClassRoom
	updated.Teacher = req.Teacher
	if !keepSubstitution {
		updated.OriginalTeacher = nil
	}
	if req.AcademicYear != "" {
		year := req.AcademicYear
		updated.AcademicYear = &year
	} else {
		updated.AcademicYear = nil
	}

	// A substituted slot keeps two teachers booked; both must be free at
	// the new day and period.
	teachers := []string{updated.HomeTeacher()}
	if updated.IsSubstituted() {
		teachers = append(teachers, updated.Teacher)
	}
	for _, teacher := range teachers {
		candidate := models.SlotCandidate{
			Day:          updated.Day,
			Period:       updated.Period,
			Teacher:      teacher,
			ClassRoom:    updated.ClassRoom,
			AcademicYear: req.AcademicYear,
		}
		if conflict := engine.CheckConflict(candidate, snapshot, id); conflict != nil {
			return nil, engine.ConflictError(*conflict)
		}
	}

	next := make([]models.ScheduleSlot, len(snapshot))
	copy(next, snapshot)
	next[idx] = updated
	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}
	return &next[idx], nil
}

// Delete removes a slot from the weekly grid.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}

	next := make([]models.ScheduleSlot, 0, len(snapshot))
	found := false
	for _, slot := range snapshot {
		if slot.ID == id {
			found = true
			continue
		}
		next = append(next, slot)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}
	return nil
}
