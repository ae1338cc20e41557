// Package engine holds the schedule and attendance consistency rules as pure
// functions over plain records. It performs no I/O and keeps no state; callers
// hand it a snapshot, it hands back the next canonical state or a typed error.
package engine

import (
	"github.com/maarif-dev/school-ops-api/internal/models"
)

// CheckConflict determines whether a candidate slot collides with any
// existing slot on the same day and period. Teacher conflicts are reported
// before class conflicts when both exist. A slot identified by excludeID is
// ignored, which allows in-place edits to pass against themselves.
//
// An unset academic year on either side matches any year. This tolerant
// wildcard is deliberate and mirrors how mid-migration data behaves; do not
// tighten it to strict equality without revisiting cross-year slot reuse.
func CheckConflict(candidate models.SlotCandidate, existing []models.ScheduleSlot, excludeID string) *models.SlotConflict {
	for i := range existing {
		slot := existing[i]
		if !collides(candidate, slot, excludeID) {
			continue
		}
		if slot.Teacher == candidate.Teacher || (slot.OriginalTeacher != nil && *slot.OriginalTeacher == candidate.Teacher) {
			return &models.SlotConflict{Kind: models.ConflictTeacher, Slot: slot}
		}
	}
	for i := range existing {
		slot := existing[i]
		if !collides(candidate, slot, excludeID) {
			continue
		}
		if slot.ClassRoom == candidate.ClassRoom {
			return &models.SlotConflict{Kind: models.ConflictClass, Slot: slot}
		}
	}
	return nil
}

func collides(candidate models.SlotCandidate, slot models.ScheduleSlot, excludeID string) bool {
	if excludeID != "" && slot.ID == excludeID {
		return false
	}
	if slot.Day != candidate.Day || slot.Period != candidate.Period {
		return false
	}
	return sameYear(candidate.AcademicYear, slot.Year())
}

func sameYear(a, b string) bool {
	return a == "" || b == "" || a == b
}
