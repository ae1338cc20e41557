package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/engine"
	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	BulkUpsert(ctx context.Context, records []models.AttendanceRecord) error
}

type studentRoster interface {
	ListActive(ctx context.Context) ([]models.Student, error)
}

type slotReader interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
}

// completionInvalidator drops cached completion sets when a date's records
// change. Nil-safe at the call sites so tests can omit it.
type completionInvalidator interface {
	Invalidate(ctx context.Context, date time.Time)
}

// FieldEditRequest is one edit of one field on a student's daily record.
type FieldEditRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Field     string `json:"field" validate:"required,record_field"`
	Value     string `json:"value"`
}

// DaySheetItem carries one student's values when the whole sheet is saved.
type DaySheetItem struct {
	StudentID     string `json:"student_id" validate:"required"`
	Attendance    string `json:"attendance" validate:"required,attendance_status"`
	Participation string `json:"participation" validate:"omitempty,evaluation_score"`
	Homework      string `json:"homework" validate:"omitempty,evaluation_score"`
	Behavior      string `json:"behavior" validate:"omitempty,evaluation_score"`
	Notes         string `json:"notes"`
}

// SaveDaySheetRequest persists a full class sheet for a date.
type SaveDaySheetRequest struct {
	Date  string         `json:"date" validate:"required"`
	Items []DaySheetItem `json:"items" validate:"required,min=1,dive"`
}

// AttendanceService derives canonical daily records from edits and persists
// them. All rule logic lives in the engine; this service supplies snapshots
// and stores results.
type AttendanceService struct {
	records    attendanceRepository
	students   studentRoster
	slots      slotReader
	completion completionInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(records attendanceRepository, students studentRoster, slots slotReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("evaluation_score", func(fl validator.FieldLevel) bool {
		return models.EvaluationScore(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("record_field", func(fl validator.FieldLevel) bool {
		return models.RecordField(fl.Field().String()).Valid()
	})
	return &AttendanceService{records: records, students: students, slots: slots, validator: validate, logger: logger}
}

// SetCompletionInvalidator wires the completion cache after construction;
// the completion service is built later in the dependency graph.
func (s *AttendanceService) SetCompletionInvalidator(inv completionInvalidator) {
	s.completion = inv
}

// List returns records with pagination metadata.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ApplyFieldEdit derives and persists the next record for one field edit.
func (s *AttendanceService) ApplyFieldEdit(ctx context.Context, req FieldEditRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid field edit payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	var current *models.AttendanceRecord
	existing, err := s.records.FindByID(ctx, models.AttendanceRecordID(req.StudentID, date))
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	if err == nil {
		current = existing
	}

	next, err := engine.ApplyFieldEdit(current, req.StudentID, date, models.RecordField(req.Field), req.Value)
	if err != nil {
		return nil, err
	}

	stored, err := s.records.Upsert(ctx, &next)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store record")
	}
	if s.completion != nil {
		s.completion.Invalidate(ctx, date)
	}
	return stored, nil
}

// DaySheet renders one slot's roster for a date, joining persisted records
// and synthesizing defaults for students with none. Synthesized rows are
// display-only; nothing is written until the teacher saves.
func (s *AttendanceService) DaySheet(ctx context.Context, slotID string, date time.Time) ([]models.DaySheetRow, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	records, err := s.records.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}

	byStudent := make(map[string]models.AttendanceRecord, len(records))
	for _, record := range records {
		byStudent[record.StudentID] = record
	}

	var rows []models.DaySheetRow
	for _, student := range students {
		if !engine.MatchesClassRoom(student.ClassLabel, slot.ClassRoom) {
			continue
		}
		row := models.DaySheetRow{StudentID: student.ID, StudentName: student.FullName}
		if record, ok := byStudent[student.ID]; ok {
			row.Record = record
		} else {
			row.Record = engine.DefaultRecord(student.ID, date)
			row.Synthesized = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SaveDaySheet persists a whole class sheet atomically. Each item runs
// through the same derivation as single edits, with the attendance edit
// applied last so its normalization wins.
func (s *AttendanceService) SaveDaySheet(ctx context.Context, req SaveDaySheetRequest) ([]models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day sheet payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	seen := make(map[string]struct{}, len(req.Items))
	records := make([]models.AttendanceRecord, 0, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.StudentID]; ok {
			return nil, appErrors.Clone(appErrors.ErrConflict, "duplicate student in payload")
		}
		seen[item.StudentID] = struct{}{}

		record := engine.DefaultRecord(item.StudentID, date)
		edits := []struct {
			field models.RecordField
			value string
			apply bool
		}{
			{models.FieldParticipation, item.Participation, item.Participation != ""},
			{models.FieldHomework, item.Homework, item.Homework != ""},
			{models.FieldBehavior, item.Behavior, item.Behavior != ""},
			{models.FieldNotes, item.Notes, item.Notes != ""},
			{models.FieldAttendance, item.Attendance, true},
		}
		for _, edit := range edits {
			if !edit.apply {
				continue
			}
			record, err = engine.ApplyFieldEdit(&record, item.StudentID, date, edit.field, edit.value)
			if err != nil {
				return nil, err
			}
		}
		records = append(records, record)
	}

	if err := s.records.BulkUpsert(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store day sheet")
	}
	if s.completion != nil {
		s.completion.Invalidate(ctx, date)
	}
	return records, nil
}
