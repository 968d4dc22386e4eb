package models

import "time"

// HashMismatch reports a record whose on-disk digest no longer matches
// the sealed hash.
type HashMismatch struct {
	FileID       string `json:"file_id"`
	ExpectedHash string `json:"expected_hash"`
	ActualHash   string `json:"actual_hash"`
}

// ReconciliationResult classifies every discrepancy between the record
// store and the completed-record directory. A result containing
// discrepancies is still a successful reconciliation: finding them is
// the point.
type ReconciliationResult struct {
	CheckedAt          time.Time      `json:"checked_at"`
	RecordsChecked     int            `json:"records_checked"`
	FilesChecked       int            `json:"files_checked"`
	MissingFiles       []string       `json:"missing_files"`
	OrphanedRecords    []string       `json:"orphaned_records"`
	InconsistentHashes []HashMismatch `json:"inconsistent_hashes"`
	NewFiles           []string       `json:"new_files"`
}

// Clean reports whether no discrepancies were found.
func (r ReconciliationResult) Clean() bool {
	return len(r.MissingFiles) == 0 &&
		len(r.OrphanedRecords) == 0 &&
		len(r.InconsistentHashes) == 0 &&
		len(r.NewFiles) == 0
}
