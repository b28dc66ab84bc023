package registry

import (
	"fmt"
	"strings"
)

// CircularDependencyError reports a cycle in the registry dependency graph.
// It names the item that closed the cycle and aborts the entire tree build.
type CircularDependencyError struct {
	Name string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", e.Name)
}

// FetchError reports a failed retrieval of a schema, index, or item.
// StatusCode is zero for transport or decode failures.
type FetchError struct {
	Ref        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: registry returned status %d", e.Ref, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports that an item failed schema validation. Errors
// holds the full list of validation messages.
type ValidationError struct {
	Name   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %s failed validation: %s", e.Name, strings.Join(e.Errors, "; "))
}
