package core

import (
	"errors"
	"fmt"
)

// Locator failures. Both are recoverable: the engine simply does not run.
var (
	// ErrProjectNotFound means no candidate directory carries a project marker.
	ErrProjectNotFound = errors.New("no Salesforce project found")

	// ErrSourceDirectoryNotFound means a project was found without force-app/main/default or src.
	ErrSourceDirectoryNotFound = errors.New("Salesforce source directory not found")
)

// ScanError reports a traversal failure. No partial report accompanies it.
type ScanError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan failed at %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying filesystem error.
func (e *ScanError) Unwrap() error {
	return e.Err
}
