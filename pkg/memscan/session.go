// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package memscan

import (
	"context"
	"sync"

	"github.com/petar-djukic/memscan/pkg/types"
)

// Session serializes rescans of one project with last-writer-wins
// semantics. Starting a rescan cancels the one in flight, and a scan that
// finishes after a newer one started is discarded.
type Session struct {
	scanner *Scanner

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *types.ScanResult

	// afterScan runs between scan completion and publication. Tests use it
	// to start a competing rescan deterministically.
	afterScan func(gen uint64)
}

// NewSession returns a Session that scans with s.
func NewSession(s *Scanner) *Session {
	return &Session{scanner: s}
}

// Rescan scans root, superseding any scan in flight. It returns
// ErrSuperseded when a newer Rescan started before this one finished; the
// newer result is the one published.
func (s *Session) Rescan(ctx context.Context, root string) (*types.ScanResult, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	scanCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	result, err := s.scanner.Scan(scanCtx, root)
	if s.afterScan != nil {
		s.afterScan(gen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.scanner.log.Debug("discarding superseded scan", "generation", gen, "latest", s.gen)
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.latest = result
	return result, nil
}

// Latest returns the most recently published result, or nil before the
// first successful scan.
func (s *Session) Latest() *types.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close cancels the scan in flight, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
