package commands

import (
	"errors"
	"strings"
)

// RecordMemoryCommand represents the command to record a new memory entry
type RecordMemoryCommand struct {
	OwnerID string `json:"owner_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Validate validates the RecordMemoryCommand
func (c RecordMemoryCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}
