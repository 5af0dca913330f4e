// Package catalog holds the authoritative sequence of production cases.
//
// The Store is the only writer of the sequence. Every read returns deep copies so that callers can never mutate the
// shared state, and every mutation is written through to a Snapshotter before it becomes visible.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
	"gopkg.in/yaml.v3"
)

// SnapshotKey is the key under which the case sequence is persisted.
const SnapshotKey = "myungji_cases"

var (
	// ErrMalformedSnapshot is returned by Load when the stored snapshot cannot be decoded.
	ErrMalformedSnapshot = errors.NewSentinel("malformed case snapshot")
	// ErrNotFound is returned by Get for an unknown case id.
	ErrNotFound = errors.NewSentinel("case not found")
)

//go:embed seed.yaml
var seedYAML []byte

// Snapshotter persists serialized documents by key.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, key string) ([]byte, bool, error)
	WriteSnapshot(ctx context.Context, key string, value []byte) error
}

type Store struct {
	mu        sync.RWMutex
	cases     []models.Case
	snapshots Snapshotter
	logger    *slog.Logger
}

func NewStore(snapshots Snapshotter, logger *slog.Logger) *Store {
	return &Store{
		snapshots: snapshots,
		logger:    logger.With("source", "catalog"),
	}
}

// Seed returns the built-in default cases.
func Seed() ([]models.Case, error) {
	var cases []models.Case
	if err := yaml.Unmarshal(seedYAML, &cases); err != nil {
		return nil, errors.Wrap(err, "decode seed dataset")
	}
	return cases, nil
}

// Load reads the persisted sequence. When nothing has been persisted yet, the seed dataset is stored and used.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.snapshots.ReadSnapshot(ctx, SnapshotKey)
	if err != nil {
		return errors.Wrap(err, "read snapshot")
	}

	if !ok {
		var seed []models.Case
		if seed, err = Seed(); err != nil {
			return err
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "no case snapshot found, seeding", slog.Int("cases", len(seed)))
		return s.Replace(ctx, seed)
	}

	var cases []models.Case
	if err = json.Unmarshal(raw, &cases); err != nil {
		return errors.Wrap(errors.Join(ErrMalformedSnapshot, err), "decode snapshot")
	}

	s.mu.Lock()
	s.cases = cases
	s.mu.Unlock()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cases loaded", slog.Int("cases", len(cases)))
	return nil
}

// Replace swaps the whole sequence. The snapshot is written first so that a failed write leaves the store unchanged.
func (s *Store) Replace(ctx context.Context, cases []models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(ctx, models.CloneCases(cases))
}

func (s *Store) replaceLocked(ctx context.Context, cases []models.Case) error {
	if cases == nil {
		cases = []models.Case{}
	}
	raw, err := json.Marshal(cases)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err = s.snapshots.WriteSnapshot(ctx, SnapshotKey, raw); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	s.cases = cases
	return nil
}

// Upsert replaces the case with the same id in place or appends c when its id is new.
func (s *Store) Upsert(ctx context.Context, c models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.CloneCases(s.cases)
	c = c.Clone()
	if i := slices.IndexFunc(next, func(existing models.Case) bool { return existing.ID == c.ID }); i >= 0 {
		next[i] = c
	} else {
		next = append(next, c)
	}
	if err := s.replaceLocked(ctx, next); err != nil {
		return errors.Wrap(err, "upsert case", slog.String("case_id", c.ID))
	}
	return nil
}

// Delete removes the case with id. Unknown ids leave the sequence unchanged.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(models.CloneCases(s.cases), func(c models.Case) bool { return c.ID == id })
	if err := s.replaceLocked(ctx, next); err != nil {
		return errors.Wrap(err, "delete case", slog.String("case_id", id))
	}
	return nil
}

// List returns a copy of every case in order.
func (s *Store) List() []models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCases(s.cases)
}

// Get returns a copy of the case with id or ErrNotFound.
func (s *Store) Get(id string) (models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cases {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return models.Case{}, errors.Wrap(ErrNotFound, "get case", slog.String("case_id", id))
}

// ByCategory returns the cases in category. An empty category matches every case.
func (s *Store) ByCategory(category string) []models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matching []models.Case
	for _, c := range s.cases {
		if category == "" || c.Category == category {
			matching = append(matching, c.Clone())
		}
	}
	return matching
}

// Latest returns the first n cases.
func (s *Store) Latest(n int) []models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCases(s.cases[:max(0, min(n, len(s.cases)))])
}
