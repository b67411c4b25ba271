package water

import "errors"

var (
	// ErrUnknownElement indicates an element name that is not one of the supported element types.
	ErrUnknownElement = errors.New("water: unknown element type")
	// ErrSolutionNotFound indicates a catalog lookup that matched nothing.
	ErrSolutionNotFound = errors.New("water: solution not found")
)
