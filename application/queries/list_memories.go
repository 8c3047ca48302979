package queries

import "errors"

// ListMemoriesQuery represents a query for an owner's full entry history
type ListMemoriesQuery struct {
	OwnerID string
}

// Validate validates the ListMemoriesQuery
func (q ListMemoriesQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	return nil
}

// MemoryView is the read model for a single memory entry. Derived fields
// are present only once the entry has been processed.
type MemoryView struct {
	ID                      string   `json:"id"`
	Content                 string   `json:"content"`
	Day                     string   `json:"date"`
	CreatedAt               string   `json:"createdAt"`
	Processed               bool     `json:"processed"`
	Essence                 *string  `json:"essence"`
	StructuredUnderstanding []string `json:"structuredUnderstanding"`
	Summary                 *string  `json:"summary"`
	ProcessedAt             *string  `json:"processedAt,omitempty"`
}

// ListMemoriesResult represents the result of listing memories
type ListMemoriesResult struct {
	Memories []MemoryView `json:"memories"`
}
