package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ShortHashLength is the hex-prefix length used for short hashes and
// verification codes.
const ShortHashLength = 8

// AuditTrailEntry is the integrity artifact created atomically with its
// completed inspection. FileHash covers the exact persisted bytes; the
// verification code is a second, independent layer derived from record
// identity, hash and creation time.
type AuditTrailEntry struct {
	ID               string    `db:"id" json:"id"`
	InspectionID     string    `db:"inspection_id" json:"inspection_id"`
	FileHash         string    `db:"file_hash" json:"file_hash"`
	ShortHash        string    `db:"short_hash" json:"short_hash"`
	LongHash         string    `db:"long_hash" json:"long_hash"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	Inspector        string    `db:"inspector" json:"inspector"`
	VerificationCode string    `db:"verification_code" json:"verification_code"`
}

// Validate rejects entries with any missing hash component.
func (e AuditTrailEntry) Validate() error {
	if strings.TrimSpace(e.FileHash) == "" {
		return fmt.Errorf("audit entry %s: file hash is empty", e.ID)
	}
	if strings.TrimSpace(e.ShortHash) == "" {
		return fmt.Errorf("audit entry %s: short hash is empty", e.ID)
	}
	if strings.TrimSpace(e.LongHash) == "" {
		return fmt.Errorf("audit entry %s: long hash is empty", e.ID)
	}
	return nil
}

// VerificationCode deterministically derives the tamper-evidence code
// from the inspection id, file hash and creation time (epoch seconds).
// Recomputing from identical inputs always yields the same code; the
// store keeps created_at immutable to preserve this property.
func VerificationCode(inspectionID, fileHash string, createdAt time.Time) string {
	payload := fmt.Sprintf("%s|%s|%d", inspectionID, fileHash, createdAt.Unix())
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:ShortHashLength]
}

// ShortHash returns the 8-hex-character prefix of a full digest.
func ShortHash(fullHash string) string {
	if len(fullHash) < ShortHashLength {
		return fullHash
	}
	return fullHash[:ShortHashLength]
}
