package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maarif-dev/school-ops-api/internal/models"
)

// ScheduleRepository provides persistence for weekly schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const slotColumns = "id, day, period, subject, class_room, teacher, original_teacher, academic_year, created_at, updated_at"

// List returns slots with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSlot, int, error) {
	base := "FROM schedule_slots WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Teacher != "" {
		conditions = append(conditions, fmt.Sprintf("(teacher = $%d OR original_teacher = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.Teacher)
	}
	if filter.ClassRoom != "" {
		conditions = append(conditions, fmt.Sprintf("class_room = $%d", len(args)+1))
		args = append(args, filter.ClassRoom)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"day":        true,
		"period":     true,
		"class_room": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "day"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, period ASC LIMIT %d OFFSET %d", slotColumns, base, sortBy, order, size, offset)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule slots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule slots: %w", err)
	}

	return slots, total, nil
}

// ListAll loads the whole slot collection, the snapshot the consistency
// engine works against.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots ORDER BY day ASC, period ASC", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list all schedule slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE id = $1", slotColumns)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ReplaceAll swaps the entire slot collection in one transaction. The
// reference system persists the schedule with whole-collection replace
// semantics; callers run their conflict checks against the snapshot first.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, slots []models.ScheduleSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedule_slots`); err != nil {
		return fmt.Errorf("clear schedule slots: %w", err)
	}

	now := time.Now().UTC()
	for i := range slots {
		payload := slots[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err = tx.NamedExecContext(ctx, `INSERT INTO schedule_slots (id, day, period, subject, class_room, teacher, original_teacher, academic_year, created_at, updated_at) VALUES (:id, :day, :period, :subject, :class_room, :teacher, :original_teacher, :academic_year, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("insert schedule slot: %w", err)
		}
		slots[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedule: %w", err)
	}
	return nil
}
