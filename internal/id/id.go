// Package id provides entity-id generation as an injectable capability
// so tests can produce deterministic ids.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces opaque unique ids for new entities.
type Generator interface {
	NewID() string
}

// UUID generates random uuid ids. The zero value is ready to use.
type UUID struct{}

// NewID returns a random uuid string.
func (UUID) NewID() string { return uuid.NewString() }

// Sequential generates "prefix-1", "prefix-2", ... Not safe for
// concurrent use; intended for tests and batch generation.
type Sequential struct {
	Prefix string
	n      int
}

// NewID returns the next sequential id.
func (s *Sequential) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}
