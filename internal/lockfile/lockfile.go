// Package lockfile serializes deploys against the same project.
//
// Locks are advisory flock(2) locks on a file under the project's
// .pulley directory, so two pulley processes on the same machine
// cannot run a deploy concurrently. Lock state lives in the kernel,
// which means a crashed process releases its lock automatically.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = 100 * time.Millisecond

// DefaultTimeout bounds how long Acquire waits for a concurrent deploy
// to finish before giving up.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when the lock is still held when the wait
// expires.
var ErrTimeout = errors.New("another deploy is already running")

// Lock is a held deploy lock. Release it when the deploy finishes.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on path, retrying until timeout
// elapses. A non-positive timeout uses DefaultTimeout.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to acquire deploy lock: %w", err)
	}
	if !ok {
		return nil, ErrTimeout
	}

	return &Lock{fl: fl}, nil
}

// Release drops the lock. The lock file itself stays behind; only the
// kernel lock state matters.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to release deploy lock: %w", err)
	}
	return nil
}

// Probe reports whether something currently holds the lock at path,
// without waiting.
func Probe(path string) (bool, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		// No .pulley directory means nothing can hold the lock.
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to probe deploy lock: %w", err)
	}
	if ok {
		_ = fl.Unlock()
		return false, nil
	}
	return true, nil
}
