package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bergundy/nexus-idl/internal/schema"
)

// DefaultKind is the kind reported for resolved types that do not declare one
const DefaultKind = "object"

// Store is the type document source shared by all resolvers of a run
type Store interface {
	Fetch(ctx context.Context, path string) (any, error)
}

// Type is the canonical description of a resolved reference
type Type struct {
	Title string
	Kind  string
	// Void is set when the reference was absent and Title holds the caller's
	// spelling of "no value".
	Void bool
}

// Resolver resolves type references relative to a single schema document
type Resolver struct {
	store Store
	path  string
}

// New creates a resolver anchored at the schema document stored at path
func New(store Store, path string) *Resolver {
	return &Resolver{store: store, path: path}
}

// Resolve maps ref to a named type. A void ref yields void verbatim without
// touching the store.
func (r *Resolver) Resolve(ctx context.Context, service, operation string, ref *schema.TypeRef, void string) (Type, error) {
	if ref.IsVoid() {
		return Type{Title: void, Void: true}, nil
	}

	t, err := r.lookup(ctx, ref.Ref)
	if err != nil {
		err.Service, err.Operation = service, operation
		return Type{}, err
	}
	return t, nil
}

// Lookup maps a raw $ref string to a named type outside of any operation,
// e.g. for references between type documents.
func (r *Resolver) Lookup(ctx context.Context, ref string) (Type, error) {
	t, err := r.lookup(ctx, ref)
	if err != nil {
		return Type{}, err
	}
	return t, nil
}

func (r *Resolver) lookup(ctx context.Context, ref string) (Type, *Error) {
	fail := func(reason string, err error) (Type, *Error) {
		return Type{}, &Error{Ref: ref, Reason: reason, Err: err}
	}

	location, fragment, hasFragment := strings.Cut(ref, "#")
	path := r.lookupPath(location)

	node, err := r.store.Fetch(ctx, path)
	if err != nil {
		return fail("could not fetch "+path, err)
	}

	if hasFragment && fragment != "" {
		for _, part := range strings.Split(strings.TrimPrefix(fragment, "/"), "/") {
			next, ok := child(node, unescape(part))
			if !ok {
				return fail(fmt.Sprintf("no such segment %q", part), nil)
			}
			node = next
		}
	}

	obj, ok := node.(map[string]any)
	if !ok {
		return fail(`missing "title" property`, nil)
	}
	title, ok := obj["title"].(string)
	if !ok {
		return fail(`missing "title" property`, nil)
	}

	kind := DefaultKind
	if k, ok := obj["type"].(string); ok && k != "" {
		kind = k
	}

	return Type{Title: title, Kind: kind}, nil
}

// ResolvePair resolves an operation's input and output concurrently
func (r *Resolver) ResolvePair(ctx context.Context, service, operation string, input, output *schema.TypeRef, void string) (Type, Type, error) {
	var in, out Type

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in, err = r.Resolve(gctx, service, operation, input, void)
		return err
	})
	g.Go(func() error {
		var err error
		out, err = r.Resolve(gctx, service, operation, output, void)
		return err
	})
	if err := g.Wait(); err != nil {
		return Type{}, Type{}, err
	}

	return in, out, nil
}

func (r *Resolver) lookupPath(location string) string {
	switch {
	case location == "":
		return filepath.Clean(r.path)
	case filepath.IsAbs(location):
		return filepath.Clean(location)
	default:
		return filepath.Join(filepath.Dir(r.path), location)
	}
}

func child(node any, key string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[key]
		return v, ok && v != nil
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], n[i] != nil
	default:
		return nil, false
	}
}

func unescape(segment string) string {
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
}
