package scanner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSource hands out a fixed decode stream and records releases.
type fakeSource struct {
	mu      sync.Mutex
	decodes chan string
	stops   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{decodes: make(chan string, 1)}
}

func (f *fakeSource) Start(ctx context.Context) (<-chan string, error) {
	return f.decodes, nil
}

func (f *fakeSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeSource) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func TestScanReturnsFirstDecode(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.decodes <- "BT000001"
	m := NewManager(src)

	code, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if code != "BT000001" {
		t.Fatalf("code = %q, want BT000001", code)
	}
	if src.stopCount() == 0 {
		t.Fatal("source not released after a successful scan")
	}
	if m.Scanning() {
		t.Fatal("manager still marked scanning after completion")
	}
}

func TestScanCancelReleasesSource(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	m := NewManager(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.Scan(ctx)
		done <- err
	}()

	// Let the session take the source, then cancel before any decode.
	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if src.stopCount() == 0 {
		t.Fatal("source not released after cancellation")
	}
	if m.Scanning() {
		t.Fatal("manager still marked scanning after cancellation")
	}
}

func TestScanRejectsSecondSession(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	m := NewManager(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		m.Scan(ctx)
		close(done)
	}()

	<-started
	time.Sleep(20 * time.Millisecond)

	if _, err := m.Scan(context.Background()); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second session err = %v, want ErrSessionActive", err)
	}

	cancel()
	<-done

	// After the first session released the source, a new one may start.
	src.decodes <- "BT000002"
	if _, err := m.Scan(context.Background()); err != nil {
		t.Fatalf("scan after release: %v", err)
	}
}

func TestScanSourceClosedWithoutDecode(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	close(src.decodes)
	m := NewManager(src)

	if _, err := m.Scan(context.Background()); !errors.Is(err, ErrSourceClosed) {
		t.Fatalf("err = %v, want ErrSourceClosed", err)
	}
}

func TestReaderSource(t *testing.T) {
	t.Parallel()

	src := NewReaderSource(strings.NewReader("\nBT000001\n4901234567894\n"))
	m := NewManager(src)

	code, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if code != "BT000001" {
		t.Fatalf("code = %q, want first non-empty line", code)
	}
}
