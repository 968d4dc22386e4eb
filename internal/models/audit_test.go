package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationCodeDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	hash := strings.Repeat("ab", 32)

	first := VerificationCode("2026-03-14_Soil_Check_A_1a2b3c4d", hash, at)
	second := VerificationCode("2026-03-14_Soil_Check_A_1a2b3c4d", hash, at)
	assert.Equal(t, first, second)
	assert.Len(t, first, ShortHashLength)

	differentID := VerificationCode("2026-03-14_Soil_Check_B_1a2b3c4d", hash, at)
	assert.NotEqual(t, first, differentID)

	differentHash := VerificationCode("2026-03-14_Soil_Check_A_1a2b3c4d", strings.Repeat("cd", 32), at)
	assert.NotEqual(t, first, differentHash)

	differentTime := VerificationCode("2026-03-14_Soil_Check_A_1a2b3c4d", hash, at.Add(time.Second))
	assert.NotEqual(t, first, differentTime)
}

func TestVerificationCodeIgnoresSubSecond(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	withNanos := at.Add(500 * time.Millisecond)
	hash := strings.Repeat("ef", 32)

	// The code derives from epoch seconds; nanoseconds are truncated.
	assert.Equal(t,
		VerificationCode("id", hash, at),
		VerificationCode("id", hash, withNanos),
	)
}

func TestShortHash(t *testing.T) {
	full := strings.Repeat("9f", 32)
	short := ShortHash(full)
	assert.Len(t, short, 8)
	assert.Equal(t, full[:8], short)

	assert.Equal(t, "abc", ShortHash("abc"))
}

func TestAuditTrailEntryValidate(t *testing.T) {
	full := strings.Repeat("aa", 32)
	entry := AuditTrailEntry{
		ID:           "entry-1",
		InspectionID: "insp-1",
		FileHash:     full,
		ShortHash:    full[:8],
		LongHash:     full,
	}
	require.NoError(t, entry.Validate())

	noFile := entry
	noFile.FileHash = " "
	assert.Error(t, noFile.Validate())

	noShort := entry
	noShort.ShortHash = ""
	assert.Error(t, noShort.Validate())

	noLong := entry
	noLong.LongHash = ""
	assert.Error(t, noLong.Validate())
}
