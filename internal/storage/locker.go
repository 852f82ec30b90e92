package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// AdvisoryLocker guards a monitoring cycle so replicas sharing a database
// never evaluate the same tick concurrently.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Locker implements AdvisoryLocker on PostgreSQL session locks. No rows are
// read or written.
type Locker struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLocker wires a pgx pool into a Locker.
func NewLocker(pool *pgxpool.Pool, logger zerolog.Logger) *Locker {
	return &Locker{pool: pool, logger: logger.With().Str("component", "cycle_lock").Logger()}
}

// Close releases the underlying pool resources.
func (l *Locker) Close() {
	if l == nil || l.pool == nil {
		return
	}
	l.pool.Close()
}

// TryAdvisoryLock attempts to acquire the lock and returns a release func.
func (l *Locker) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	if l == nil || l.pool == nil {
		return nil, false, ErrNotConfigured
	}

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, advisoryUnlockSQL, key); err != nil {
			l.logger.Warn().Err(err).Int64("key", key).Msg("advisory unlock failed")
		}
		conn.Release()
	}
	return unlock, true, nil
}

var _ AdvisoryLocker = (*Locker)(nil)
