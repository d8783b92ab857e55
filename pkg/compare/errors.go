package compare

import (
	"errors"
	"fmt"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Classified failures returned by Validate, Scan and Compare.
// Callers match them with errors.Is; the returned errors carry the offending path.
var (
	ErrMissingInput     = errors.New("please select both directories")
	ErrPathNotFound     = errors.New("selected directories do not exist")
	ErrNotDirectory     = errors.New("selected path is not a directory")
	ErrNoFilesToCompare = errors.New("no files to compare, please select directories with files")
)

// ReadError is a per-entry failure to stat, open or read one side of a common file.
// It is recorded in the result and never aborts the comparison.
type ReadError struct {
	Name string
	Side models.Side
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s (%s): %v", e.Name, e.Side, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// entryError converts the error into its report form
func (e *ReadError) entryError() models.EntryError {
	return models.EntryError{
		Name:  e.Name,
		Side:  e.Side,
		Error: e.Err.Error(),
	}
}
