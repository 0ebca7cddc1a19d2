// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/roombot-project/roombot/lib/clock"
)

// InboxConfig configures the inbox long-poll loop.
type InboxConfig struct {
	// Timeout is the long-poll timeout in milliseconds. The platform
	// holds the connection open this long when the inbox is empty.
	// Default: 30000 (30s).
	Timeout int

	// MaxBackoff is the longest wait between retries after transient
	// inbox errors. The loop backs off exponentially from 1 second.
	// Default: 30 seconds.
	MaxBackoff time.Duration
}

// MessageHandler is called once per inbound message. The next poll
// starts after the handler returns, so handlers should not block for
// extended periods.
type MessageHandler func(ctx context.Context, message Message)

// RunInboxLoop drives the inbox long-poll until ctx is cancelled,
// handing each message to handler in arrival order. Transient errors
// are logged and retried with exponential backoff; the cursor is only
// advanced after a successful poll, so no message is skipped across a
// retry.
func RunInboxLoop(ctx context.Context, session *Session, config InboxConfig, handler MessageHandler, clk clock.Clock, logger *slog.Logger) {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30000
	}
	maxBackoff := config.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = 30 * time.Second
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	backoff := time.Second
	since := ""

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		response, err := session.Messages(ctx, MessagesOptions{
			Since:   since,
			Timeout: timeout,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			logger.Error("inbox poll failed, retrying", "error", err, "backoff", backoff)
			select {
			case <-ctx.Done():
				return
			case <-clk.After(backoff):
			}
			backoff *= 2
			continue
		}

		backoff = time.Second
		since = response.Next

		for _, message := range response.Messages {
			handler(ctx, message)
		}
	}
}
