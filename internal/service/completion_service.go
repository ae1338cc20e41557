package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/engine"
	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type completionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CompletionService derives the day's completed-session set. The set is
// recomputed from snapshots on demand; the cache only holds a short-lived
// copy per date, dropped on any attendance write for that date.
type CompletionService struct {
	schedule scheduleRepository
	students studentRoster
	records  attendanceRepository
	cache    completionCache
	metrics  *MetricsService
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCompletionService constructs the completion service. cache may be nil,
// in which case every call recomputes.
func NewCompletionService(schedule scheduleRepository, students studentRoster, records attendanceRepository, cache completionCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *CompletionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionService{schedule: schedule, students: students, records: records, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

func completionKey(date time.Time) string {
	return fmt.Sprintf("completion:%s", date.Format("2006-01-02"))
}

// CompletedSet returns the ids of sessions whose roster is fully recorded
// for the date.
func (s *CompletionService) CompletedSet(ctx context.Context, date time.Time) (*models.CompletionSet, error) {
	if s.cache != nil {
		var ids []string
		err := s.cache.Get(ctx, completionKey(date), &ids)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			return &models.CompletionSet{Date: date, SlotIDs: ids}, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("completion cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	set, err := s.compute(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, completionKey(date), set.SlotIDs, s.ttl); err != nil {
			s.logger.Warn("completion cache write failed", zap.Error(err))
		}
	}
	return set, nil
}

// SlotCompletion reports one slot's roster coverage for the date.
func (s *CompletionService) SlotCompletion(ctx context.Context, slotID string, date time.Time) (*models.SlotCompletion, error) {
	slot, err := s.schedule.FindByID(ctx, slotID)
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

	roster := engine.RosterIDs(students, slot.ClassRoom)
	completion := engine.ComputeCompletion(*slot, roster, records, date)
	return &completion, nil
}

// Invalidate drops the cached set for a date after an attendance write.
func (s *CompletionService) Invalidate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, completionKey(date)); err != nil {
		s.logger.Warn("completion cache invalidation failed", zap.Error(err))
	}
}

func (s *CompletionService) compute(ctx context.Context, date time.Time) (*models.CompletionSet, error) {
	slots, err := s.schedule.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	records, err := s.records.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}

	set := engine.CompletedSlotIDs(slots, students, records, date)
	return &set, nil
}
