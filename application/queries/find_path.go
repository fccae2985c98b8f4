package queries

import (
	pkgerrors "wikiracer/pkg/errors"
	"wikiracer/pkg/utils"
)

// PathOutcome tags the result of a path search
type PathOutcome string

const (
	// OutcomeFound means a single-intermediate path was found
	OutcomeFound PathOutcome = "found"
	// OutcomeNotFound means both titles are valid but no first-hop link
	// of start connects to finish
	OutcomeNotFound PathOutcome = "not_found"
	// OutcomeInvalid means start or finish failed page validation
	OutcomeInvalid PathOutcome = "invalid"
)

// FindPathQuery asks for a traversal path between two article titles
type FindPathQuery struct {
	Start  string `json:"start" validate:"required"`
	Finish string `json:"finish" validate:"required"`
}

// Validate implements the bus.Query interface
func (q FindPathQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// PathResult is the tagged outcome of a path search. Callers branch on
// Outcome instead of parsing a message string: Found carries the path,
// NotFound carries an empty path, Invalid carries the offending title.
type PathResult struct {
	Outcome      PathOutcome `json:"outcome"`
	Path         []string    `json:"path"`
	InvalidTitle string      `json:"invalid_title,omitempty"`
}

// NewFoundResult builds a Found result with the given path
func NewFoundResult(path []string) *PathResult {
	return &PathResult{Outcome: OutcomeFound, Path: path}
}

// NewNotFoundResult builds a NotFound result with a defined empty path
func NewNotFoundResult() *PathResult {
	return &PathResult{Outcome: OutcomeNotFound, Path: []string{}}
}

// NewInvalidResult builds an Invalid result naming the title that failed
func NewInvalidResult(title string) *PathResult {
	return &PathResult{Outcome: OutcomeInvalid, Path: []string{}, InvalidTitle: title}
}
