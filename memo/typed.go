package memo

import (
	"context"
	"fmt"
	"reflect"
)

// Unary memoizes a one-argument function. Only Apply reaches the
// computation, so every stored entry was computed from a valid A.
type Unary[A, R any] struct {
	m *Memo[R]
}

// NewUnary wraps fn. A single argument is keyed by its bare value.
func NewUnary[A, R any](cfg Config, fn func(context.Context, A) (R, error)) (*Unary[A, R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	m, err := New(cfg, func(ctx context.Context, args Args) (R, error) {
		var zero R
		if err := checkArity(args, 1); err != nil {
			return zero, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return zero, err
		}
		return fn(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return &Unary[A, R]{m: m}, nil
}

// Apply returns fn(a), computing it at most once while the entry survives.
func (u *Unary[A, R]) Apply(ctx context.Context, a A) (R, error) {
	return u.m.Call(ctx, a)
}

// Contains reports whether fn(a) is stored.
func (u *Unary[A, R]) Contains(a A) (bool, error) {
	return u.m.Contains(NewArgs(a))
}

// Name returns the configured name.
func (u *Unary[A, R]) Name() string {
	return u.m.Name()
}

// Len returns the number of stored entries.
func (u *Unary[A, R]) Len() int {
	return u.m.Len()
}

// Capacity returns the maximum number of entries.
func (u *Unary[A, R]) Capacity() int {
	return u.m.Capacity()
}

// Keys returns the stored keys, oldest first.
func (u *Unary[A, R]) Keys() []Key {
	return u.m.Keys()
}

// Stats returns a snapshot of the counters.
func (u *Unary[A, R]) Stats() Stats {
	return u.m.Stats()
}

// Binary memoizes a two-argument function.
type Binary[A, B, R any] struct {
	m *Memo[R]
}

// NewBinary wraps fn.
func NewBinary[A, B, R any](cfg Config, fn func(context.Context, A, B) (R, error)) (*Binary[A, B, R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	m, err := New(cfg, func(ctx context.Context, args Args) (R, error) {
		var zero R
		if err := checkArity(args, 2); err != nil {
			return zero, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return zero, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return zero, err
		}
		return fn(ctx, a, b)
	})
	if err != nil {
		return nil, err
	}
	return &Binary[A, B, R]{m: m}, nil
}

// Apply returns fn(x, y).
func (b *Binary[A, B, R]) Apply(ctx context.Context, x A, y B) (R, error) {
	return b.m.Call(ctx, x, y)
}

// Contains reports whether fn(x, y) is stored.
func (b *Binary[A, B, R]) Contains(x A, y B) (bool, error) {
	return b.m.Contains(NewArgs(x, y))
}

// Name returns the configured name.
func (b *Binary[A, B, R]) Name() string {
	return b.m.Name()
}

// Len returns the number of stored entries.
func (b *Binary[A, B, R]) Len() int {
	return b.m.Len()
}

// Capacity returns the maximum number of entries.
func (b *Binary[A, B, R]) Capacity() int {
	return b.m.Capacity()
}

// Keys returns the stored keys, oldest first.
func (b *Binary[A, B, R]) Keys() []Key {
	return b.m.Keys()
}

// Stats returns a snapshot of the counters.
func (b *Binary[A, B, R]) Stats() Stats {
	return b.m.Stats()
}

// Ternary memoizes a three-argument function.
type Ternary[A, B, C, R any] struct {
	m *Memo[R]
}

// NewTernary wraps fn.
func NewTernary[A, B, C, R any](cfg Config, fn func(context.Context, A, B, C) (R, error)) (*Ternary[A, B, C, R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	m, err := New(cfg, func(ctx context.Context, args Args) (R, error) {
		var zero R
		if err := checkArity(args, 3); err != nil {
			return zero, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return zero, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return zero, err
		}
		c, err := argAt[C](args, 2)
		if err != nil {
			return zero, err
		}
		return fn(ctx, a, b, c)
	})
	if err != nil {
		return nil, err
	}
	return &Ternary[A, B, C, R]{m: m}, nil
}

// Apply returns fn(x, y, z).
func (t *Ternary[A, B, C, R]) Apply(ctx context.Context, x A, y B, z C) (R, error) {
	return t.m.Call(ctx, x, y, z)
}

// Contains reports whether fn(x, y, z) is stored.
func (t *Ternary[A, B, C, R]) Contains(x A, y B, z C) (bool, error) {
	return t.m.Contains(NewArgs(x, y, z))
}

// Name returns the configured name.
func (t *Ternary[A, B, C, R]) Name() string {
	return t.m.Name()
}

// Len returns the number of stored entries.
func (t *Ternary[A, B, C, R]) Len() int {
	return t.m.Len()
}

// Capacity returns the maximum number of entries.
func (t *Ternary[A, B, C, R]) Capacity() int {
	return t.m.Capacity()
}

// Keys returns the stored keys, oldest first.
func (t *Ternary[A, B, C, R]) Keys() []Key {
	return t.m.Keys()
}

// Stats returns a snapshot of the counters.
func (t *Ternary[A, B, C, R]) Stats() Stats {
	return t.m.Stats()
}

func checkArity(args Args, n int) error {
	if len(args.Positional) != n || len(args.Named) != 0 {
		return fmt.Errorf("%w: want %d positional arguments, got %d positional and %d named",
			ErrArgumentMismatch, n, len(args.Positional), len(args.Named))
	}
	return nil
}

// argAt returns the i-th positional value as T. A nil interface is accepted
// only when T itself can be nil.
func argAt[T any](args Args, i int) (T, error) {
	var zero T
	v := args.Positional[i]
	if v == nil {
		if nilable(reflect.TypeFor[T]()) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: argument %d is nil, want %s", ErrArgumentMismatch, i, reflect.TypeFor[T]())
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %s", ErrArgumentMismatch, i, v, reflect.TypeFor[T]())
	}
	return t, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}
