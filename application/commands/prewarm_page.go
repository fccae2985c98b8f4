package commands

import (
	pkgerrors "wikiracer/pkg/errors"
	"wikiracer/pkg/utils"
)

// PrewarmPageCommand fills the record store for a single title ahead of a
// race, so later searches hit the cache instead of the remote source
type PrewarmPageCommand struct {
	Title string `json:"title" validate:"required"`
}

// Validate implements the bus.Command interface
func (c PrewarmPageCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
