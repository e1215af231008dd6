// Package passcode holds the process-wide shared passcode that users present
// to become verified, together with the durable slots it is persisted to.
//
// The in-memory value is authoritative between Init and Flush. Rotation and
// verification are serialized through one RWMutex: Rotate holds the write
// lock across the revocation cascade, Check holds the read lock across the
// caller's onMatch hook.
package passcode

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophgate/internal/common"
)

// Store is a single durable string slot.
type Store interface {
	// Load returns common.ErrorNotFound when nothing has been saved yet.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
}

type Register struct {
	mu    sync.RWMutex
	value string
	store Store
}

func NewRegister(store Store) *Register {
	return &Register{store: store}
}

// Init loads the persisted passcode. When the slot is empty, fallback is
// adopted and written back.
func (r *Register) Init(ctx context.Context, fallback string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.store.Load(ctx)
	switch {
	case err == nil:
		r.value = v
		return nil
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("load passcode: %w", err)
	}

	if err := r.store.Save(ctx, fallback); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	r.value = fallback
	return nil
}

func (r *Register) Get() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the passcode without touching any user record.
func (r *Register) Set(ctx context.Context, value string) error {
	if value == "" {
		return fmt.Errorf("%w: passcode must not be empty", common.ErrorValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Save(ctx, value); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	r.value = value
	return nil
}

// Rotate runs cascade, persists value and only then swaps it in. On any
// error the previous passcode stays current.
func (r *Register) Rotate(ctx context.Context, value string, cascade func(ctx context.Context) error) error {
	if value == "" {
		return fmt.Errorf("%w: passcode must not be empty", common.ErrorValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cascade != nil {
		if err := cascade(ctx); err != nil {
			return err
		}
	}
	if err := r.store.Save(ctx, value); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	r.value = value
	return nil
}

// Check compares candidate with the current passcode in constant time and,
// on a match, runs onMatch before releasing the lock. It reports whether the
// candidate matched; onMatch errors are returned as is.
func (r *Register) Check(ctx context.Context, candidate string, onMatch func(ctx context.Context) error) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.value == "" || subtle.ConstantTimeCompare([]byte(r.value), []byte(candidate)) != 1 {
		return false, nil
	}
	if onMatch != nil {
		if err := onMatch(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Flush writes the current value to the store.
func (r *Register) Flush(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.value == "" {
		return nil
	}
	if err := r.store.Save(ctx, r.value); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	return nil
}
