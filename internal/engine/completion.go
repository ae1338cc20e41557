package engine

import (
	"time"

	"github.com/maarif-dev/school-ops-api/internal/models"
)

// MatchesClassRoom reports whether a student's class label belongs to a
// slot's classroom. Labels match when equal, or when either string extends
// the other with a '/' or '_' separated suffix: class "Grade4" covers room
// "Grade4/A" and a "Grade4_B" student sits in a "Grade4" slot. The test runs
// in both directions on purpose; plain equality would break the
// parent/section naming convention.
func MatchesClassRoom(classLabel, room string) bool {
	if classLabel == room {
		return true
	}
	return extendsWith(room, classLabel) || extendsWith(classLabel, room)
}

func extendsWith(longer, shorter string) bool {
	if len(longer) <= len(shorter) || longer[:len(shorter)] != shorter {
		return false
	}
	sep := longer[len(shorter)]
	return sep == '/' || sep == '_'
}

// RosterIDs returns the ids of students whose class label matches the room,
// preserving input order.
func RosterIDs(students []models.Student, room string) []string {
	var ids []string
	for _, student := range students {
		if MatchesClassRoom(student.ClassLabel, room) {
			ids = append(ids, student.ID)
		}
	}
	return ids
}

// ComputeCompletion derives a slot's completion state for a date: the slot is
// complete when every roster student has a persisted record for exactly that
// date. The result is read-time derived state, recomputed from the snapshot
// on every call.
func ComputeCompletion(slot models.ScheduleSlot, rosterIDs []string, recordsForDate []models.AttendanceRecord, date time.Time) models.SlotCompletion {
	recorded := make(map[string]struct{}, len(recordsForDate))
	for _, record := range recordsForDate {
		if sameDate(record.Date, date) {
			recorded[record.StudentID] = struct{}{}
		}
	}

	covered := 0
	for _, id := range rosterIDs {
		if _, ok := recorded[id]; ok {
			covered++
		}
	}

	return models.SlotCompletion{
		SlotID:   slot.ID,
		Date:     date,
		Complete: covered == len(rosterIDs),
		Roster:   len(rosterIDs),
		Recorded: covered,
	}
}

// CompletedSlotIDs derives the day's completed-session set across the whole
// schedule. Membership gates the bulk-report action and nothing else.
func CompletedSlotIDs(slots []models.ScheduleSlot, students []models.Student, recordsForDate []models.AttendanceRecord, date time.Time) models.CompletionSet {
	set := models.CompletionSet{Date: date}
	for _, slot := range slots {
		roster := RosterIDs(students, slot.ClassRoom)
		if ComputeCompletion(slot, roster, recordsForDate, date).Complete {
			set.SlotIDs = append(set.SlotIDs, slot.ID)
		}
	}
	return set
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
