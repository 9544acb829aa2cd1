package reactfx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDescriptor is returned when a descriptor document cannot be decoded.
	ErrInvalidDescriptor = errors.New("reactfx: invalid effect descriptor")

	// ErrUnknownEffectType is returned by Registry.Lookup for a tag with no
	// registered renderer. Decoding never fails on an unknown tag; the
	// descriptor becomes an UnknownEffect.
	ErrUnknownEffectType = errors.New("reactfx: unknown effect type")

	// ErrClosed is returned when submitting to a scheduler or manager after teardown.
	ErrClosed = errors.New("reactfx: closed")
)

// EffectError reports a failure contained to one effect instance: a callback
// that panicked or a cleanup function that returned an error.
type EffectError struct {
	ID   InstanceID
	Type EffectType
	Op   string // "progress", "complete", "state", "cleanup", "render"
	Err  error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("reactfx: effect %s (%s) %s: %v", e.ID, e.Type, e.Op, e.Err)
}

func (e *EffectError) Unwrap() error {
	return e.Err
}

// recoverError converts a recovered panic value into an error.
func recoverError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

// guard runs fn and converts a panic into an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverError(r)
		}
	}()
	fn()
	return nil
}
