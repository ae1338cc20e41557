package engine

import (
	"fmt"

	"github.com/maarif-dev/school-ops-api/internal/models"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
)

// AssignSubstitute reassigns a slot to candidateTeacher and returns the new
// slot collection for the caller to persist. The input slice is never
// mutated. On the first substitution the regular teacher is captured in
// OriginalTeacher; re-substituting an already substituted slot only replaces
// Teacher, so the true original survives any chain of substitutions.
func AssignSubstitute(slots []models.ScheduleSlot, slotID, candidateTeacher string) ([]models.ScheduleSlot, error) {
	idx := indexOf(slots, slotID)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}
	slot := slots[idx]

	if candidateTeacher == slot.HomeTeacher() {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "candidate is the slot's own teacher")
	}
	if slot.IsSubstituted() && candidateTeacher == slot.Teacher {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "candidate is already substituting this slot")
	}

	candidate := models.SlotCandidate{
		Day:          slot.Day,
		Period:       slot.Period,
		Teacher:      candidateTeacher,
		ClassRoom:    slot.ClassRoom,
		AcademicYear: slot.Year(),
	}
	if conflict := CheckConflict(candidate, slots, slot.ID); conflict != nil {
		return nil, ConflictError(*conflict)
	}

	next := make([]models.ScheduleSlot, len(slots))
	copy(next, slots)
	if !slot.IsSubstituted() {
		original := slot.Teacher
		slot.OriginalTeacher = &original
	}
	slot.Teacher = candidateTeacher
	next[idx] = slot
	return next, nil
}

// RemoveSubstitute reverts an active substitution, restoring the original
// teacher. Calling it on a slot with no substitution is an invalid state, not
// a silent no-op.
func RemoveSubstitute(slots []models.ScheduleSlot, slotID string) ([]models.ScheduleSlot, error) {
	idx := indexOf(slots, slotID)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}
	slot := slots[idx]
	if !slot.IsSubstituted() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "slot has no active substitution")
	}

	next := make([]models.ScheduleSlot, len(slots))
	copy(next, slots)
	slot.Teacher = *slot.OriginalTeacher
	slot.OriginalTeacher = nil
	next[idx] = slot
	return next, nil
}

// RankSubstituteCandidates orders the given teachers for presentation:
// conflict-free candidates first, conflicting candidates after them with
// their conflict attached so the caller can still offer an explicit degraded
// choice. The slot's original teacher and current substitute are excluded.
func RankSubstituteCandidates(slots []models.ScheduleSlot, slotID string, teachers []models.Teacher) ([]models.SubstituteCandidate, error) {
	idx := indexOf(slots, slotID)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}
	slot := slots[idx]

	var free, busy []models.SubstituteCandidate
	for _, teacher := range teachers {
		if teacher.FullName == slot.HomeTeacher() || teacher.FullName == slot.Teacher {
			continue
		}
		candidate := models.SlotCandidate{
			Day:          slot.Day,
			Period:       slot.Period,
			Teacher:      teacher.FullName,
			ClassRoom:    slot.ClassRoom,
			AcademicYear: slot.Year(),
		}
		conflict := CheckConflict(candidate, slots, slot.ID)
		if conflict == nil {
			free = append(free, models.SubstituteCandidate{Teacher: teacher})
			continue
		}
		busy = append(busy, models.SubstituteCandidate{Teacher: teacher, Conflict: conflict, IsConflict: true})
	}
	return append(free, busy...), nil
}

// ConflictError converts a detected conflict into the shared typed error,
// carrying the conflicting slot as data.
func ConflictError(conflict models.SlotConflict) error {
	var message string
	switch conflict.Kind {
	case models.ConflictTeacher:
		message = fmt.Sprintf("teacher already booked on %s period %d (%s)", conflict.Slot.Day, conflict.Slot.Period, conflict.Slot.Subject)
	default:
		message = fmt.Sprintf("classroom %s already booked on %s period %d", conflict.Slot.ClassRoom, conflict.Slot.Day, conflict.Slot.Period)
	}
	domainErr := &models.SlotConflictError{Kind: conflict.Kind, Message: message, Conflict: conflict.Slot}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
}

func indexOf(slots []models.ScheduleSlot, slotID string) int {
	for i := range slots {
		if slots[i].ID == slotID {
			return i
		}
	}
	return -1
}
