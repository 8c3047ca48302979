package journal

import (
	"strings"
	"time"

	pkgerrors "yaplog-backend/pkg/errors"

	"github.com/google/uuid"
)

// DayLayout is the calendar-day key format stored on every memory.
// Lexicographic order on this layout equals chronological order.
const DayLayout = "2006-01-02"

// Memory is one unit of raw user-submitted text with a derived calendar day.
// Content, owner, day and creation time are immutable after construction.
// Derived fields live in a Digest that is attached exactly once by the
// digest processor; a nil digest means the memory is still unprocessed.
type Memory struct {
	id        string
	ownerID   string
	content   string
	day       string
	createdAt time.Time
	digest    *Digest
}

// NewMemory creates an unprocessed memory for the given owner. The day key
// is derived from the creation instant in UTC and never recomputed.
func NewMemory(ownerID, content string, now time.Time) (*Memory, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	created := now.UTC()
	return &Memory{
		id:        uuid.New().String(),
		ownerID:   ownerID,
		content:   content,
		day:       created.Format(DayLayout),
		createdAt: created,
	}, nil
}

// ReconstructMemory rebuilds a memory from repository data. The stored day
// key is taken as-is; it is not rederived from createdAt.
func ReconstructMemory(id, ownerID, content, day string, createdAt time.Time, digest *Digest) (*Memory, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("id cannot be empty")
	}
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if content == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	return &Memory{
		id:        id,
		ownerID:   ownerID,
		content:   content,
		day:       day,
		createdAt: createdAt,
		digest:    digest,
	}, nil
}

// ID returns the memory's unique identifier.
func (m *Memory) ID() string {
	return m.id
}

// OwnerID returns the authoring user's ID.
func (m *Memory) OwnerID() string {
	return m.ownerID
}

// Content returns the raw text as submitted.
func (m *Memory) Content() string {
	return m.content
}

// Day returns the calendar-day key (YYYY-MM-DD, UTC at write time).
func (m *Memory) Day() string {
	return m.day
}

// CreatedAt returns the creation instant.
func (m *Memory) CreatedAt() time.Time {
	return m.createdAt
}

// Processed reports whether the digest processor has handled this memory.
func (m *Memory) Processed() bool {
	return m.digest != nil
}

// Digest returns the derived fields, or nil while unprocessed.
func (m *Memory) Digest() *Digest {
	return m.digest
}

// ApplyDigest attaches the derived fields. It is the sole transition out of
// the unprocessed state and may succeed at most once.
func (m *Memory) ApplyDigest(d *Digest) error {
	if m.digest != nil {
		return pkgerrors.NewConflictError("memory is already processed")
	}
	if d == nil {
		return pkgerrors.NewValidationError("digest cannot be nil")
	}
	m.digest = d
	return nil
}
