package testutil

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/arthur-debert/endfix/pkg/host"
)

// SafeBuffer is a bytes.Buffer safe for one writer goroutine and one reader
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// RunLoop runs loop in a goroutine until the returned stop function is
// called or the test ends
func RunLoop(t *testing.T, loop *host.Loop) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	t.Cleanup(stop)
	return stop
}
