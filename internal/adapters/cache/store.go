// Package cache implements the two-tier memoization store for built solids:
// an in-memory map in front of a directory of durable exact-geometry
// artifacts, with at-most-once builds per key.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// DefaultDir is the durable artifact directory relative to the working
// directory.
const DefaultDir = "part_cache"

// Store implements ports.SolidStore. The in-memory tier is a mutex-guarded
// map; duplicate builds for an identical key are correctness-neutral but
// wasteful, so concurrent requests for one key are single-flighted.
type Store struct {
	kernel ports.Kernel
	logger ports.Logger
	tracer ports.Tracer

	dir        string
	persistent atomic.Bool

	mu    sync.RWMutex
	mem   map[domain.PartKey]ports.Solid
	group singleflight.Group
}

var _ ports.SolidStore = (*Store)(nil)

// NewStore creates a store with its persistent tier rooted at dir.
func NewStore(kernel ports.Kernel, logger ports.Logger, tracer ports.Tracer, dir string) *Store {
	s := &Store{
		kernel: kernel,
		logger: logger,
		tracer: tracer,
		dir:    filepath.Clean(dir),
		mem:    make(map[domain.PartKey]ports.Solid),
	}
	s.persistent.Store(true)
	return s
}

// SetPersistent toggles the persistent tier for this run.
func (s *Store) SetPersistent(enabled bool) {
	s.persistent.Store(enabled)
}

// GetOrBuild returns the cached solid for key, loading it from disk or
// building it exactly once on a miss.
func (s *Store) GetOrBuild(ctx context.Context, key domain.PartKey, build func() (ports.Solid, error)) (ports.Solid, error) {
	_, span := s.tracer.Start(ctx, "store.get_or_build")
	defer span.End()
	span.SetAttribute("part_kind", string(key.Kind))
	span.SetAttribute("order", key.Order)

	if cached, ok := s.lookup(key); ok {
		span.AddEvent("cache_hit")
		s.logger.Info(fmt.Sprintf("cache hit: %s", describe(key)))
		return cached, nil
	}

	if loaded, ok := s.loadArtifact(key); ok {
		span.AddEvent("disk_load")
		s.logger.Info(fmt.Sprintf("cache load from disk: %s", describe(key)))
		return loaded, nil
	}

	span.AddEvent("cache_miss")
	s.logger.Info(fmt.Sprintf("cache miss, building: %s", describe(key)))

	built, err, _ := s.group.Do(key.Encode(), func() (any, error) {
		// A concurrent flight may have populated the map while this call
		// waited its turn.
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}
		solid, err := build()
		if err != nil {
			return nil, wrapBuildErr(err, key)
		}
		if solid.Err() != nil {
			return nil, wrapBuildErr(solid.Err(), key)
		}
		s.insert(key, solid)
		return solid, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return built.(ports.Solid), nil
}

func wrapBuildErr(err error, key domain.PartKey) error {
	werr := zerr.With(zerr.Wrap(err, "part build failed"), "part_kind", string(key.Kind))
	return zerr.With(werr, "order", key.Order)
}

func (s *Store) lookup(key domain.PartKey) (ports.Solid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	solid, ok := s.mem[key]
	return solid, ok
}

func (s *Store) insert(key domain.PartKey, solid ports.Solid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[key] = solid
}

// loadArtifact tries the persistent tier. A corrupt or unreadable artifact
// must not crash the build: it degrades to a rebuild and is overwritten on
// the next flush.
func (s *Store) loadArtifact(key domain.PartKey) (ports.Solid, bool) {
	if !s.persistent.Load() {
		return nil, false
	}
	path := filepath.Join(s.dir, key.FileName())
	data, err := os.ReadFile(path) //nolint:gosec // Path derives from the quantized part key
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(fmt.Sprintf("unreadable cache artifact %s: %v", path, err))
		}
		return nil, false
	}
	solid, err := s.kernel.Decode(data)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("%v: %s, rebuilding", domain.ErrCorruptArtifact, path))
		return nil, false
	}
	s.insert(key, solid)
	return solid, true
}

// Flush mirrors in-memory entries to the persistent tier. Entries that
// already have an artifact are skipped; flushing happens once per run, not
// per build, to avoid write amplification during deep recursion.
func (s *Store) Flush() error {
	if !s.persistent.Load() {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, solid := range s.mem {
		path := filepath.Join(s.dir, key.FileName())
		if _, err := os.Stat(path); err == nil {
			continue
		}
		data, err := s.kernel.Encode(solid)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to encode cache artifact"), "part_kind", string(key.Kind))
		}
		//nolint:gosec // Path derives from the quantized part key
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write cache artifact"), "path", path)
		}
	}
	return nil
}

// Clean removes every durable artifact.
func (s *Store) Clean() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return zerr.Wrap(err, "failed to remove cache directory")
	}
	return nil
}

// Len reports the number of in-memory entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mem)
}

func describe(key domain.PartKey) string {
	if key.Order == domain.NoOrder {
		return string(key.Kind)
	}
	return fmt.Sprintf("%s[%d]", key.Kind, key.Order)
}
