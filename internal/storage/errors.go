package storage

import "fmt"

// LoadError reports the table whose load failed. Tables loaded before it
// stay loaded.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
