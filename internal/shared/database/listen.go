package database

import (
	"context"
	"fmt"
)

// Listen acquires a dedicated connection, issues LISTEN on the given channel
// and delivers notification payloads until ctx is cancelled. The returned
// channel is closed when the listener stops; callers that need resilience
// against dropped connections should re-invoke Listen and keep their
// last-known-good state in the meantime.
func (db *DB) Listen(ctx context.Context, channel string) (<-chan string, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listener connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+sanitizeChannel(channel)); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				// ctx cancellation or a dropped connection; either way the
				// stream ends and the consumer decides whether to resubscribe.
				return
			}
			select {
			case out <- n.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// sanitizeChannel strips anything that is not a plain identifier character.
// Channel names are compile-time constants in this codebase; this guards
// against accidental interpolation, not hostile input.
func sanitizeChannel(channel string) string {
	out := make([]byte, 0, len(channel))
	for i := 0; i < len(channel); i++ {
		c := channel[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		}
	}
	return string(out)
}
