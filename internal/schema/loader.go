package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bergundy/nexus-idl/internal/typestore"
)

// NativeDocument is a native schema paired with the absolute path it was loaded from
type NativeDocument struct {
	Path   string
	Schema *Schema
}

// TypeDocument is a plain JSON Schema document. Name is derived from the file name.
type TypeDocument struct {
	Path string
	Name string
	Tree any
}

// LoadResult holds every loaded document in argument order
type LoadResult struct {
	Natives []NativeDocument
	Types   []TypeDocument
}

// Loader reads schema files and seeds the shared type store with their contents
type Loader struct {
	store  *typestore.Store
	logger zerolog.Logger
}

// NewLoader creates a loader that registers documents into store
func NewLoader(store *typestore.Store, logger zerolog.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger.With().Str("component", "loader").Logger(),
	}
}

// Load parses all files in parallel. Results keep the order of files, not the
// order in which parsing finished.
func (l *Loader) Load(ctx context.Context, files []string) (*LoadResult, error) {
	docs := make([]*Document, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			path, err := filepath.Abs(file)
			if err != nil {
				return fmt.Errorf("load schema %s: %w", file, err)
			}
			doc, err := ParseFile(path)
			if err != nil {
				return fmt.Errorf("load schema %s: %w", file, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for _, doc := range docs {
		l.store.Preload(doc.Path, doc.Tree)
		if doc.Native != nil {
			result.Natives = append(result.Natives, NativeDocument{Path: doc.Path, Schema: doc.Native})
			l.logger.Debug().Str("path", doc.Path).Int("services", len(doc.Native.Services)).Msg("loaded native schema")
			continue
		}
		result.Types = append(result.Types, TypeDocument{
			Path: doc.Path,
			Name: strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path)),
			Tree: doc.Tree,
		})
		l.logger.Debug().Str("path", doc.Path).Msg("loaded type schema")
	}

	return result, nil
}

// FileFetcher loads JSON or YAML type documents from disk on demand
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, path string) (any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, typestore.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	raw, err := ToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}
