// Package repository wraps all database access behind small per-entity
// types constructed once at startup with an explicit *gorm.DB handle.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no record. Callers must
// handle absence explicitly instead of testing for nil.
var ErrNotFound = errors.New("record not found")
