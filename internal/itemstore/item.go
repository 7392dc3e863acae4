package itemstore

import (
	"fmt"
	"unicode/utf8"

	"github.com/lumo-app/lumo/internal/sentinel"
)

// Field limits, in characters.
const (
	MaxNameLen        = 255
	MaxDescriptionLen = 1000
)

// ErrItemNotFound is returned when no item has the requested id.
const ErrItemNotFound = sentinel.Error("Item not found")

// ErrInvalidItem wraps every validation failure.
const ErrInvalidItem = sentinel.Error("invalid item")

// Item is one stored row. Timestamps are kept as SQLite writes them.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateInput is the payload of Create. An absent description is stored as
// the empty string.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Validate checks field lengths.
func (in CreateInput) Validate() error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	return validateDescription(in.Description)
}

// UpdateInput changes only the fields that are set. A description set to ""
// is stored as "".
type UpdateInput struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the fields that are set.
func (in UpdateInput) Validate() error {
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return err
		}
	}
	return validateDescription(in.Description)
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidItem)
	}
	if n > MaxNameLen {
		return fmt.Errorf("%w: name must be at most %d characters, got %d", ErrInvalidItem, MaxNameLen, n)
	}
	return nil
}

func validateDescription(d *string) error {
	if d == nil {
		return nil
	}
	if n := utf8.RuneCountInString(*d); n > MaxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters, got %d", ErrInvalidItem, MaxDescriptionLen, n)
	}
	return nil
}

// orEmpty returns the description to insert for a new item.
func orEmpty(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}
