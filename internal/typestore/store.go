// Package typestore caches fetched type documents for the lifetime of a
// generation run. All resolvers of a run share one Store.
package typestore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the type document stored at an absolute path.
// Implementations return an error wrapping ErrNotFound when nothing exists there.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (any, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, path string) (any, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) (any, error) {
	return f(ctx, path)
}

// Store is a cache-or-load view over a Fetcher. Concurrent fetches of the same
// path share a single in-flight call.
type Store struct {
	fetcher Fetcher
	docs    *xsync.Map[string, any]
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewStore creates a store backed by fetcher. A nil fetcher makes the store
// serve preloaded documents only.
func NewStore(fetcher Fetcher, logger zerolog.Logger) *Store {
	return &Store{
		fetcher: fetcher,
		docs:    xsync.NewMap[string, any](),
		logger:  logger.With().Str("component", "typestore").Logger(),
	}
}

// Preload seeds the cache with an already parsed document
func (s *Store) Preload(path string, doc any) {
	s.docs.Store(filepath.Clean(path), doc)
}

// Fetch returns the document at path, loading it on the first request
func (s *Store) Fetch(ctx context.Context, path string) (any, error) {
	path = filepath.Clean(path)
	if doc, ok := s.docs.Load(path); ok {
		return doc, nil
	}

	doc, err, _ := s.group.Do(path, func() (any, error) {
		if doc, ok := s.docs.Load(path); ok {
			return doc, nil
		}
		if s.fetcher == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}

		s.logger.Debug().Str("path", path).Msg("fetching type document")
		doc, err := s.fetcher.Fetch(ctx, path)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		s.docs.Store(path, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Len returns the number of cached documents
func (s *Store) Len() int {
	return s.docs.Size()
}
