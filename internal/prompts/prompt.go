// Package prompts manages the instructions sent to the sequencing engine.
// Each section has a built-in default that an active database override
// replaces. The output specification is fixed.
package prompts

import "github.com/google/uuid"

// Prompt is a named override for one prompt section.
type Prompt struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Section     Section   `json:"section"`
	Content     string    `json:"content"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
}

// CreateCommand carries the data needed to create a new override.
type CreateCommand struct {
	Name        string  `json:"name"`
	Section     Section `json:"section"`
	Content     string  `json:"content"`
	Description *string `json:"description"`
}

// UpdateCommand carries the data needed to update an existing override.
type UpdateCommand struct {
	Name        string  `json:"name"`
	Section     Section `json:"section"`
	Content     string  `json:"content"`
	Description *string `json:"description"`
}
