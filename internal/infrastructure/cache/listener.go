package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"aquaops/internal/domain/ledger"
	"aquaops/pkg/logger"
)

// ChannelLedgerChanged is the NOTIFY channel carrying committed change lists.
const ChannelLedgerChanged = "ledger_changed"

// Listener relays ledger_changed notifications from other instances to
// local invalidators.
type Listener struct {
	pool    *pgxpool.Pool
	targets ledger.Invalidators

	// Lifecycle
	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewListener creates a listener that forwards changes to targets.
func NewListener(pool *pgxpool.Pool, targets ...ledger.Invalidator) *Listener {
	return &Listener{pool: pool, targets: targets}
}

// Start begins listening for NOTIFY events.
func (l *Listener) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started {
		return
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.started = true

	l.wg.Add(1)
	go l.listenLoop()
	logger.Info(l.ctx, "ledger change listener started")
}

// Stop gracefully stops the listener.
func (l *Listener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.cancel = nil
	l.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
	logger.Info(context.Background(), "ledger change listener stopped")
}

func (l *Listener) listenLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		// LISTEN needs a dedicated connection
		conn, err := l.pool.Acquire(l.ctx)
		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			logger.Error(l.ctx, "failed to acquire connection for LISTEN", "error", err)
			time.Sleep(time.Second)
			continue
		}

		if _, err := conn.Exec(l.ctx, "LISTEN "+ChannelLedgerChanged); err != nil {
			logger.Error(l.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			time.Sleep(time.Second)
			continue
		}

		// Anything cached before the subscription may be stale.
		l.dispatch(ledger.Change{Entity: ledger.EntityTotalBottles})

		l.waitForNotifications(conn)
		conn.Release()
	}
}

func (l *Listener) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		ctx, cancel := context.WithTimeout(l.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			if conn.Conn().IsClosed() {
				logger.Warn(l.ctx, "LISTEN connection lost, reconnecting", "error", err)
				return
			}
			// Timeout is expected, continue listening
			continue
		}

		l.handleNotification(notification.Payload)
	}
}

func (l *Listener) handleNotification(payload string) {
	var changes []ledger.Change
	if err := json.Unmarshal([]byte(payload), &changes); err != nil {
		logger.Warn(l.ctx, "malformed ledger_changed payload", "payload", payload, "error", err)
		// Unknown scope: drop everything.
		changes = []ledger.Change{{Entity: ledger.EntityTotalBottles}}
	}
	l.dispatch(changes...)
}

func (l *Listener) dispatch(changes ...ledger.Change) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(l.ctx, "invalidator panic recovered", "panic", r)
		}
	}()
	if err := l.targets.Invalidate(l.ctx, changes); err != nil {
		logger.Warn(l.ctx, "invalidation from notification failed", "error", err)
	}
}
