package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match json schema",
			patterns: SchemaPatterns,
			path:     "/project/schemas/services.json",
			want:     true,
		},
		{
			name:     "match yaml schema",
			patterns: SchemaPatterns,
			path:     "/project/services.yml",
			want:     true,
		},
		{
			name:     "recursive pattern prefix is ignored",
			patterns: []string{"**/*.json"},
			path:     "/project/a/b/types.json",
			want:     true,
		},
		{
			name:     "no match",
			patterns: SchemaPatterns,
			path:     "/project/readme.md",
			want:     false,
		},
		{
			name:     "exclude overrides pattern",
			patterns: SchemaPatterns,
			exclude:  []string{"package.json"},
			path:     "/project/package.json",
			want:     false,
		},
		{
			name:     "editor swap files",
			patterns: []string{"*.json*"},
			exclude:  []string{"*~", "*.swp"},
			path:     "/project/services.json~",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}
			assert.Equal(t, tt.want, w.shouldWatch(tt.path))
		})
	}
}

func TestWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	nested := filepath.Join(dir, "types")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0755))

	batches := make(chan []string, 10)
	w, err := New(SchemaPatterns, []string{"node_modules"}, 200*time.Millisecond, func(ctx context.Context, paths []string) {
		batches <- paths
	}, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddDirectory(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the watcher time to start
	time.Sleep(50 * time.Millisecond)

	// Test: a burst of writes in several directories arrives as one batch
	services := filepath.Join(dir, "services.json")
	person := filepath.Join(nested, "person.json")
	require.NoError(t, os.WriteFile(services, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(person, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "x.json"), []byte("{}"), 0644))

	select {
	case paths := <-batches:
		assert.Equal(t, []string{services, person}, paths)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
