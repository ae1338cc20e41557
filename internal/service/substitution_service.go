package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/maarif-dev/school-ops-api/internal/engine"
	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

type teacherRoster interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

// SubstitutionService runs the substitute-teacher workflow on top of the
// engine's state machine: snapshot the schedule, apply the transition,
// persist the new collection.
type SubstitutionService struct {
	scheduleRepo scheduleRepository
	teachers     teacherRoster
	logger       *zap.Logger
}

// NewSubstitutionService instantiates SubstitutionService.
func NewSubstitutionService(scheduleRepo scheduleRepository, teachers teacherRoster, logger *zap.Logger) *SubstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{scheduleRepo: scheduleRepo, teachers: teachers, logger: logger}
}

// Assign puts candidateTeacher in front of the slot's class, preserving the
// original teacher for reversal.
func (s *SubstitutionService) Assign(ctx context.Context, slotID, candidateTeacher string) (*models.ScheduleSlot, error) {
	if candidateTeacher == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "candidate teacher required")
	}

	snapshot, err := s.scheduleRepo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}

	next, err := engine.AssignSubstitute(snapshot, slotID, candidateTeacher)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.ReplaceAll(ctx, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}

	s.logger.Info("substitute assigned",
		zap.String("slot_id", slotID),
		zap.String("substitute", candidateTeacher))
	return findSlot(next, slotID), nil
}

// Remove reverts an active substitution and restores the original teacher.
func (s *SubstitutionService) Remove(ctx context.Context, slotID string) (*models.ScheduleSlot, error) {
	snapshot, err := s.scheduleRepo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}

	next, err := engine.RemoveSubstitute(snapshot, slotID)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.ReplaceAll(ctx, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}

	s.logger.Info("substitute removed", zap.String("slot_id", slotID))
	return findSlot(next, slotID), nil
}

// Candidates lists the active teachers ranked for the slot: conflict-free
// first, conflicting ones after with their conflict attached.
func (s *SubstitutionService) Candidates(ctx context.Context, slotID string) ([]models.SubstituteCandidate, error) {
	snapshot, err := s.scheduleRepo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}

	roster, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher roster")
	}

	return engine.RankSubstituteCandidates(snapshot, slotID, roster)
}

func findSlot(slots []models.ScheduleSlot, slotID string) *models.ScheduleSlot {
	for i := range slots {
		if slots[i].ID == slotID {
			return &slots[i]
		}
	}
	return nil
}
