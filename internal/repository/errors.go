// Package repository is the data access layer: thin structs over *sql.DB
// with hand-written SQL. Sentinel errors let handlers map failure scenarios
// to HTTP codes without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict signals state that forbids the operation, such as reporting
// the same support message twice. Handlers translate it to HTTP 409.
var ErrConflict = errors.New("conflict")
