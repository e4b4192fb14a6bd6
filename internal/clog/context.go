// Package clog carries a per-request attribute bag through context.Context and
// installs slog handlers that attach it to every record.
package clog

import (
	"context"
	"maps"
	"sync"
)

// ErrorAttributeKey is the attribute under which AddError stores an error.
const ErrorAttributeKey = "error.message"

type bag struct {
	mu    sync.RWMutex
	attrs map[string]any
}

type bagKey struct{}

// ContextWithSlog returns a context carrying an empty attribute bag.
func ContextWithSlog(ctx context.Context) context.Context {
	return context.WithValue(ctx, bagKey{}, &bag{attrs: make(map[string]any)})
}

func fromContext(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(bagKey{}).(*bag)
	return b, ok
}

// AddAttribute sets key in the context's bag. It is a no-op without a bag.
func AddAttribute(ctx context.Context, key string, value any) {
	b, ok := fromContext(ctx)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attrs[key] = value
}

// AddAttributes merges attrs into the context's bag.
func AddAttributes(ctx context.Context, attrs map[string]any) {
	b, ok := fromContext(ctx)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	maps.Copy(b.attrs, attrs)
}

// AddError records err on the context's bag.
func AddError(ctx context.Context, err error) {
	AddAttribute(ctx, ErrorAttributeKey, err)
}

// GetAttribute returns the value stored under key, or the zero T.
func GetAttribute[T any](ctx context.Context, key string) T {
	var zero T
	b, ok := fromContext(ctx)
	if !ok {
		return zero
	}
	b.mu.RLock()
	v, ok := b.attrs[key]
	b.mu.RUnlock()
	if !ok {
		return zero
	}
	typed, ok := v.(T)
	if !ok {
		return zero
	}
	return typed
}

// GetError returns the error recorded by AddError.
func GetError(ctx context.Context) error {
	return GetAttribute[error](ctx, ErrorAttributeKey)
}

// GetAttributes returns a copy of the context's bag, or nil.
func GetAttributes(ctx context.Context) map[string]any {
	b, ok := fromContext(ctx)
	if !ok {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.attrs)
}
