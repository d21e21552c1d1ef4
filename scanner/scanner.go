package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
)

// Source is one hardware decode stream. Start begins capture and returns a
// channel of decoded strings; the channel closes when the source stops.
// Stop releases the underlying capture resource and must be safe to call
// more than once. Symbology choice is the source's concern.
type Source interface {
	Start(ctx context.Context) (<-chan string, error)
	Stop() error
}

var (
	// ErrSessionActive means a scan session is already running; the previous
	// session must release the capture resource first.
	ErrSessionActive = errors.New("scan session already active")
	// ErrSourceClosed means the source stopped without decoding anything.
	ErrSourceClosed = errors.New("scan source closed without a decode")
)

// Manager serializes access to a Source: at most one scan session at a time,
// and the source is released on every exit path.
type Manager struct {
	source Source

	mu       sync.Mutex
	scanning bool
}

func NewManager(source Source) *Manager {
	return &Manager{source: source}
}

// Scanning reports whether a session currently holds the source.
func (m *Manager) Scanning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanning
}

// Scan runs one session: start the source, wait for the first decoded value,
// stop the source. Cancelling the context aborts the session with ctx.Err()
// and leaves no other state behind. Whatever happens, the source is stopped
// before Scan returns.
func (m *Manager) Scan(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.scanning {
		m.mu.Unlock()
		return "", ErrSessionActive
	}
	m.scanning = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.scanning = false
		m.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	decodes, err := m.source.Start(ctx)
	if err != nil {
		m.source.Stop()
		return "", err
	}
	defer m.source.Stop()

	select {
	case code, ok := <-decodes:
		if !ok {
			return "", ErrSourceClosed
		}
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ReaderSource adapts a line-oriented reader to a Source. Keyboard-wedge
// scanners present as a keyboard and terminate each code with Enter, so a
// terminal or serial stream works as capture hardware.
type ReaderSource struct {
	r io.Reader

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Start(ctx context.Context) (<-chan string, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	out := make(chan string)
	scan := bufio.NewScanner(s.r)

	go func() {
		defer close(out)
		for scan.Scan() {
			line := scan.Text()
			if line == "" {
				continue
			}
			select {
			case out <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *ReaderSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}
