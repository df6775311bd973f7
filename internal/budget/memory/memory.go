package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"physiobudget/internal/budget"
	"physiobudget/internal/core"
)

var _ budget.Book = (*Store)(nil)

// Store keeps the single record set in memory. Edits replace one field at
// a time; readers always get a copy.
type Store struct {
	mu   sync.Mutex
	book core.Book
}

// New returns a store holding the default book.
func New() *Store {
	return &Store{book: core.NewBook()}
}

// NewFromFile seeds the default book with the YAML file at path. A missing
// file yields the defaults.
func NewFromFile(path string) (*Store, error) {
	b := core.NewBook()
	if path == "" {
		return &Store{book: b}, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Store{book: b}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if err := seed.Apply(&b); err != nil {
		return nil, fmt.Errorf("apply seed file %s: %w", path, err)
	}
	return &Store{book: b}, nil
}

// Snapshot returns a deep copy of the book.
func (s *Store) Snapshot(_ context.Context) (core.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Clone(), nil
}

// UpdateSession sets one field of one session.
func (s *Store) UpdateSession(_ context.Context, practitioner, day int, field core.SessionField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(practitioner, day)
	if err != nil {
		return err
	}
	return sess.Set(field, value)
}

// SetDuration sets the hour or minute half of one session's duration.
func (s *Store) SetDuration(_ context.Context, practitioner, day int, part core.DurationPart, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(practitioner, day)
	if err != nil {
		return err
	}
	return sess.SetDurationPart(part, value)
}

// RenamePractitioner replaces a practitioner's display name.
func (s *Store) RenamePractitioner(_ context.Context, practitioner int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if practitioner < 0 || practitioner >= len(s.book.Practitioners) {
		return fmt.Errorf("practitioner %d: %w", practitioner, budget.ErrNotFound)
	}
	s.book.Practitioners[practitioner].Name = name
	return nil
}

// SetOverhead sets one overhead amount.
func (s *Store) SetOverhead(_ context.Context, field core.OverheadField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Overheads.Set(field, value)
}

// session must be called with mu held.
func (s *Store) session(practitioner, day int) (*core.Session, error) {
	if practitioner < 0 || practitioner >= len(s.book.Practitioners) {
		return nil, fmt.Errorf("practitioner %d: %w", practitioner, budget.ErrNotFound)
	}
	week := s.book.Practitioners[practitioner].WeeklySessions
	if day < 0 || day >= len(week) {
		return nil, fmt.Errorf("day %d: %w", day, budget.ErrNotFound)
	}
	return &week[day], nil
}
