package queries

import (
	"time"

	pkgerrors "wikiracer/pkg/errors"
	"wikiracer/pkg/utils"
)

// GetPageQuery asks for a cached page record by exact title
type GetPageQuery struct {
	Title string `json:"title" validate:"required"`
}

// Validate implements the bus.Query interface
func (q GetPageQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// PageView is the read model returned for a cached page record
type PageView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Links     []string  `json:"links"`
	Backlinks []string  `json:"backlinks"`
	Children  []string  `json:"children,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
