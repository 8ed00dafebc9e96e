// Package console prints notifications instead of delivering them. It is the
// messenger for local runs without a bot token.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"foodrelay/internal/core/ports"
)

var _ ports.Messenger = (*Messenger)(nil)

type Messenger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewMessenger writes to out, or to stdout when out is nil.
func NewMessenger(out io.Writer) *Messenger {
	if out == nil {
		out = os.Stdout
	}
	return &Messenger{out: out}
}

func (m *Messenger) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := fmt.Fprintf(m.out, "--- notification to chat %d ---\n%s\n--- end ---\n", chatID, text)
	return err
}
