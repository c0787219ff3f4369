package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConflictGuardWithinBuffer(t *testing.T) {
	guard := NewConflictGuard(2 * time.Hour)
	start := time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC)

	assert.False(t, guard.HasConflict("ref-1", start))
	guard.Commit("ref-1", start)

	assert.True(t, guard.HasConflict("ref-1", start.Add(time.Hour)))
	assert.True(t, guard.HasConflict("ref-1", start.Add(-90*time.Minute)))
	assert.True(t, guard.HasConflict("ref-1", start))
}

func TestConflictGuardOutsideBuffer(t *testing.T) {
	guard := NewConflictGuard(2 * time.Hour)
	start := time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC)
	guard.Commit("ref-1", start)

	assert.False(t, guard.HasConflict("ref-1", start.Add(2*time.Hour)), "gap equal to the buffer is allowed")
	assert.False(t, guard.HasConflict("ref-1", start.Add(3*time.Hour)))
	assert.False(t, guard.HasConflict("ref-2", start.Add(time.Minute)), "commitments are per official")
}
