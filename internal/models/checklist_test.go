package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityWeights(t *testing.T) {
	assert.Equal(t, 4, PriorityCritical.Weight())
	assert.Equal(t, 3, PriorityHigh.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 0, Priority("URGENT").Weight())
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("[CRITICAL]")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, p)

	p, err = ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestChecklistItemValidateCompletion(t *testing.T) {
	now := time.Now()
	by := "Jordan"

	valid := ChecklistItem{ID: "1.1", Description: "Check pH", Priority: PriorityHigh, IsCompleted: true, CompletedAt: &now, CompletedBy: &by}
	require.NoError(t, valid.Validate())

	missingTime := valid
	missingTime.CompletedAt = nil
	assert.Error(t, missingTime.Validate())

	missingBy := valid
	missingBy.CompletedBy = nil
	assert.Error(t, missingBy.Validate())

	blankBy := ""
	withBlank := valid
	withBlank.CompletedBy = &blankBy
	assert.Error(t, withBlank.Validate())

	incomplete := ChecklistItem{ID: "1.2", Description: "Check drainage", Priority: PriorityLow}
	assert.NoError(t, incomplete.Validate())
}

func TestComplianceScoreWeighted(t *testing.T) {
	items := []ChecklistItem{
		{Priority: PriorityCritical, IsCompleted: true},
		{Priority: PriorityHigh, IsCompleted: false},
		{Priority: PriorityMedium, IsCompleted: true},
		{Priority: PriorityLow, IsCompleted: false},
	}
	// completed 4+2 of total 4+3+2+1
	assert.InDelta(t, 0.6, ComplianceScore(items), 1e-9)
}

func TestComplianceScoreZeroItems(t *testing.T) {
	assert.Equal(t, 0.0, ComplianceScore(nil))
	assert.Equal(t, 0.0, ComplianceScore([]ChecklistItem{}))
}

func TestComplianceScoreAllCompleted(t *testing.T) {
	items := []ChecklistItem{
		{Priority: PriorityCritical, IsCompleted: true},
		{Priority: PriorityLow, IsCompleted: true},
	}
	assert.Equal(t, 1.0, ComplianceScore(items))
}

func TestHasCriticalGap(t *testing.T) {
	assert.True(t, HasCriticalGap([]ChecklistItem{
		{Priority: PriorityCritical, IsCompleted: false},
		{Priority: PriorityLow, IsCompleted: true},
	}))
	assert.False(t, HasCriticalGap([]ChecklistItem{
		{Priority: PriorityCritical, IsCompleted: true},
		{Priority: PriorityHigh, IsCompleted: false},
	}))
	assert.False(t, HasCriticalGap(nil))
}
