package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "yaplog-backend/pkg/errors"
)

func TestNewMemory_DerivesDayInUTC(t *testing.T) {
	// Late evening in a western timezone is already the next day in UTC.
	loc := time.FixedZone("PST", -8*3600)
	now := time.Date(2026, 2, 8, 23, 30, 0, 0, loc)

	memory, err := NewMemory("user-1", "late night thought", now)

	require.NoError(t, err)
	assert.Equal(t, "2026-02-09", memory.Day())
	assert.Equal(t, now.UTC(), memory.CreatedAt())
	assert.NotEmpty(t, memory.ID())
	assert.False(t, memory.Processed())
	assert.Nil(t, memory.Digest())
}

func TestNewMemory_RejectsEmptyContent(t *testing.T) {
	_, err := NewMemory("user-1", "   ", time.Now())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewMemory_RejectsEmptyOwner(t *testing.T) {
	_, err := NewMemory("", "content", time.Now())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestMemory_ApplyDigest_OnlyOnce(t *testing.T) {
	memory, err := NewMemory("user-1", "A good day. Met an old friend.", time.Now())
	require.NoError(t, err)

	digest := DeriveDigest(memory.Content(), time.Now())
	require.NoError(t, memory.ApplyDigest(digest))

	assert.True(t, memory.Processed())
	assert.Equal(t, digest, memory.Digest())

	err = memory.ApplyDigest(DeriveDigest(memory.Content(), time.Now()))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	// The original digest survives the rejected second attempt.
	assert.Equal(t, digest, memory.Digest())
}

func TestMemory_ApplyDigest_RejectsNil(t *testing.T) {
	memory, err := NewMemory("user-1", "content", time.Now())
	require.NoError(t, err)

	err = memory.ApplyDigest(nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, memory.Processed())
}

func TestReconstructMemory_KeepsStoredDay(t *testing.T) {
	// The stored day key wins even when createdAt would map elsewhere.
	createdAt := time.Date(2026, 2, 9, 7, 30, 0, 0, time.UTC)

	memory, err := ReconstructMemory("id-1", "user-1", "content", "2026-02-08", createdAt, nil)

	require.NoError(t, err)
	assert.Equal(t, "2026-02-08", memory.Day())
}
