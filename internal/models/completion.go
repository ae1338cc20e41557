package models

import "time"

// SlotCompletion reports a single slot's completion state for a date.
type SlotCompletion struct {
	SlotID   string    `json:"slot_id"`
	Date     time.Time `json:"date"`
	Complete bool      `json:"complete"`
	Roster   int       `json:"roster"`
	Recorded int       `json:"recorded"`
}

// CompletionSet is the day's derived set of completed slot ids. Membership is
// advisory: it gates the bulk-report action and nothing else.
type CompletionSet struct {
	Date    time.Time `json:"date"`
	SlotIDs []string  `json:"slot_ids"`
}

// Contains reports membership of a slot id in the set.
func (c CompletionSet) Contains(slotID string) bool {
	for _, id := range c.SlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// BulkReportReceipt records a completed bulk-report send.
type BulkReportReceipt struct {
	SlotID            string     `json:"slot_id"`
	Date              time.Time  `json:"date"`
	Format            string     `json:"format"`
	Students          int        `json:"students"`
	GeneratedAt       time.Time  `json:"generated_at"`
	StoragePath       string     `json:"storage_path,omitempty"`
	DownloadToken     string     `json:"download_token,omitempty"`
	DownloadExpiresAt *time.Time `json:"download_expires_at,omitempty"`
}
