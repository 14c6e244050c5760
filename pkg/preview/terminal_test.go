package preview

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitForKey_ReturnsOnInput(t *testing.T) {
	done := make(chan struct{})
	go func() {
		waitForKey(context.Background(), strings.NewReader("q"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waitForKey did not return after a key")
	}
}

func TestWaitForKey_ReturnsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		waitForKey(ctx, r)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("waitForKey returned before any input or cancellation")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waitForKey ignored cancellation")
	}
	assert.Error(t, ctx.Err())
}
