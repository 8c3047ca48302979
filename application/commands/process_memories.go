package commands

import "errors"

// DefaultDigestBatchSize bounds a single digest run when the caller does
// not choose a batch size.
const DefaultDigestBatchSize = 100

// ProcessMemoriesCommand represents the command to run one digest batch
// over unprocessed memories.
type ProcessMemoriesCommand struct {
	// BatchSize caps the number of memories fetched in this run. Zero
	// means DefaultDigestBatchSize; negative values are invalid.
	BatchSize int `json:"batch_size"`
}

// Validate validates the ProcessMemoriesCommand
func (c ProcessMemoriesCommand) Validate() error {
	if c.BatchSize < 0 {
		return errors.New("batch size cannot be negative")
	}
	return nil
}

// Limit returns the effective batch cap for this run.
func (c ProcessMemoriesCommand) Limit() int {
	if c.BatchSize == 0 {
		return DefaultDigestBatchSize
	}
	return c.BatchSize
}
