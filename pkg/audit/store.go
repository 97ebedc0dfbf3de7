// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit persists resolver diagnostic events.
package audit

import (
	"context"
	"sync"
	"time"
)

// Record is a persisted diagnostic event.
type Record struct {
	Pipeline    string    `json:"pipeline"`
	RunID       string    `json:"run_id"`
	Type        string    `json:"type"`
	State       string    `json:"state,omitempty"`
	Contributor string    `json:"contributor,omitempty"`
	Order       int       `json:"order,omitempty"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store persists audit records.
type Store interface {
	Record(ctx context.Context, record Record) error
	List(ctx context.Context, filter Filter) ([]Record, error)
}

// Filter limits audit queries.
type Filter struct {
	Pipeline string
	RunID    string
	Type     string
	Limit    int
}

func (f Filter) match(r Record) bool {
	if f.Pipeline != "" && r.Pipeline != f.Pipeline {
		return false
	}
	if f.RunID != "" && r.RunID != f.RunID {
		return false
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	return true
}

// MemoryStore keeps audit records in memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore returns an in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends an audit record.
func (s *MemoryStore) Record(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Timestamp = normalizeTime(record.Timestamp)
	s.records = append(s.records, record)
	return nil
}

// List returns filtered audit records in insertion order.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if !filter.match(r) {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// normalizeTime ensures timestamps are in UTC.
func normalizeTime(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return value.UTC()
}
