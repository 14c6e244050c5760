package preview

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/goterm"
)

// Display draws a frame sized to the terminal and keeps it on screen until a
// key is pressed or ctx is done.
func Display(ctx context.Context, draw func(width, height int) *Buffer) error {
	screen, err := goterm.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Close()

	width, height := screen.Size()
	if err := draw(width, height).Flush(screen); err != nil {
		return err
	}

	waitForKey(ctx, os.Stdin)
	return nil
}

// waitForKey returns after one byte arrives on r or ctx is done.
// goterm exposes no input source, so the read happens on r directly and
// cannot be interrupted: after cancellation the reader goroutine stays
// blocked until r yields or the process exits.
func waitForKey(ctx context.Context, r io.Reader) {
	keys := make(chan struct{}, 1)
	go func() {
		buf := make([]byte, 1)
		_, _ = r.Read(buf)
		keys <- struct{}{}
	}()

	select {
	case <-ctx.Done():
	case <-keys:
	}
}
