// Package kvstore provides the key-value backends that hold the register's
// persisted collections. Every backend stores opaque byte snapshots under
// string keys and overwrites them wholesale on Set.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the contract shared by all backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Observer receives timing information for backend operations.
type Observer interface {
	ObserveStorage(operation, key string, duration time.Duration, err error)
}

type instrumented struct {
	next     Store
	observer Observer
}

// Instrument wraps a store so every Get and Set is reported to the observer.
// Missing keys are reported without an error.
func Instrument(next Store, observer Observer) Store {
	if observer == nil {
		return next
	}
	return &instrumented{next: next, observer: observer}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	reported := err
	if errors.Is(err, ErrNotFound) {
		reported = nil
	}
	s.observer.ObserveStorage("get", key, time.Since(start), reported)
	return value, err
}

func (s *instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observer.ObserveStorage("set", key, time.Since(start), err)
	return err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}
