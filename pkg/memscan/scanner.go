// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package memscan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/memscan/internal/aggregate"
	"github.com/petar-djukic/memscan/internal/discover"
	"github.com/petar-djukic/memscan/internal/scanner"
	"github.com/petar-djukic/memscan/pkg/types"
)

// cacheEntry stores the declarations of one file keyed by its absolute
// path. It is valid while the content digest and root-relative name are
// unchanged; timestamps are not trusted.
type cacheEntry struct {
	digest uint64
	size   int
	rel    string
	decls  []types.Declaration
}

// fileOutcome is the result of scanning one discovered file.
type fileOutcome struct {
	decls  []types.Declaration
	skip   *types.SkippedFile
	cached bool
}

// Scanner scans Rust source trees. It is safe for concurrent use; scans
// share the parse cache.
type Scanner struct {
	cfg   Config
	log   *slog.Logger
	cache *lru.Cache[string, cacheEntry]

	mu    sync.Mutex
	stats Stats
}

// New validates the config and returns a ready-to-use Scanner.
func New(cfg Config) (*Scanner, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	cache, err := lru.New[string, cacheEntry](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Scanner{cfg: cfg, log: cfg.Logger, cache: cache}, nil
}

// Stats returns the counters of the most recent scan.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// DiscoverOptions returns the discovery options derived from the config.
func (s *Scanner) DiscoverOptions() discover.Options {
	return discover.Options{
		Extensions:       s.cfg.Extensions,
		ExtraExcludes:    s.cfg.Exclude,
		RespectGitignore: s.cfg.RespectGitignore,
		ChangedOnly:      s.cfg.ChangedOnly,
	}
}

// Scan discovers and scans every source file under root and returns the
// aggregated result. Unreadable files are recorded in Skipped; an
// unreadable root returns an error wrapping ErrScanUnavailable. An empty
// tree yields an empty result.
func (s *Scanner) Scan(ctx context.Context, root string) (*types.ScanResult, error) {
	start := time.Now()
	s.mu.Lock()
	s.stats = Stats{}
	s.mu.Unlock()

	files, err := discover.Discover(ctx, root, s.DiscoverOptions())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, discover.ErrRootUnreadable) {
			return nil, fmt.Errorf("%w: %v", ErrScanUnavailable, err)
		}
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanUnavailable, err)
	}

	// Each goroutine writes only its own slot.
	outcomes := make([]fileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(s.cfg.Concurrency, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.scanFile(absRoot, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := aggregate.NewBuilder()
	var skipped []types.SkippedFile
	var st Stats
	for _, o := range outcomes {
		if o.skip != nil {
			skipped = append(skipped, *o.skip)
			st.FilesSkipped++
			continue
		}
		b.Add(o.decls)
		st.FilesProcessed++
		if o.cached {
			st.CacheHits++
		} else {
			st.ParseCount++
		}
	}
	result := b.Result()
	result.Skipped = skipped

	s.mu.Lock()
	s.stats = st
	s.mu.Unlock()

	s.log.Debug("scan complete",
		"root", absRoot,
		"files", st.FilesProcessed,
		"skipped", st.FilesSkipped,
		"cache_hits", st.CacheHits,
		"declarations", len(result.Declarations),
		"total_size", result.TotalSize,
		"elapsed", time.Since(start))
	return result, nil
}

// scanFile reads and scans one file. Files whose content is unchanged
// since the last scan are served from the cache without parsing.
func (s *Scanner) scanFile(absRoot, path string) fileOutcome {
	rel := relPath(absRoot, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return s.skip(rel, err)
	}
	digest := xxhash.Sum64(data)
	if e, ok := s.cache.Get(path); ok && e.rel == rel && e.size == len(data) && e.digest == digest {
		s.log.Debug("cache hit", "file", rel)
		return fileOutcome{decls: e.decls, cached: true}
	}

	decls := scanner.ScanFile(rel, string(data))
	s.cache.Add(path, cacheEntry{digest: digest, size: len(data), rel: rel, decls: decls})
	return fileOutcome{decls: decls}
}

func (s *Scanner) skip(rel string, err error) fileOutcome {
	s.log.Debug("skipping unreadable file", "file", rel, "error", err)
	return fileOutcome{skip: &types.SkippedFile{File: rel, Reason: err.Error()}}
}

// relPath returns path relative to root with forward slashes.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
