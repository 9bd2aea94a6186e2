package persist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrStopped = errors.New("persist: writer stopped")

// Store is the write half of the key-value collaborator.
type Store interface {
	Set(ctx context.Context, key, value string) error
}

type Result struct {
	Key string
	Err error
	At  time.Time
}

// Writer applies key-value writes on a background goroutine. Callers never
// wait for a write. Pending writes to the same key are coalesced so only the
// latest value is stored (every value is a full snapshot, so last write
// wins). Results are offered on C without blocking; results nobody reads are
// counted as dropped.
type Writer struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
	pending map[string]string
	order   []string
	out     chan Result
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	written uint64
}

func NewWriter(store Store, bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Writer{
		store:   store,
		timeout: 5 * time.Second,
		pending: make(map[string]string),
		out:     make(chan Result, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (w *Writer) C() <-chan Result {
	return w.out
}

func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop()
}

// Stop writes everything still pending, then closes C.
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if !w.started {
		w.started = true
		go w.loop()
	}
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

func (w *Writer) Persist(key, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	w.signalWakeup()
	return nil
}

func (w *Writer) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

func (w *Writer) Written() uint64 {
	return atomic.LoadUint64(&w.written)
}

func (w *Writer) loop() {
	defer close(w.doneCh)
	defer close(w.out)

	for {
		key, value, ok := w.next()
		if ok {
			w.write(key, value)
			continue
		}
		select {
		case <-w.wakeup:
		case <-w.stopCh:
			for {
				key, value, ok := w.next()
				if !ok {
					return
				}
				w.write(key, value)
			}
		}
	}
}

func (w *Writer) next() (string, string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.order) == 0 {
		return "", "", false
	}
	key := w.order[0]
	w.order = w.order[1:]
	value := w.pending[key]
	delete(w.pending, key)
	return key, value, true
}

func (w *Writer) write(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	err := w.store.Set(ctx, key, value)
	cancel()
	if err == nil {
		atomic.AddUint64(&w.written, 1)
	}
	select {
	case w.out <- Result{Key: key, Err: err, At: time.Now().UTC()}:
	default:
		atomic.AddUint64(&w.dropped, 1)
	}
}

func (w *Writer) signalWakeup() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

// Sync writes through immediately. Used by one-shot CLI commands.
type Sync struct {
	Store   Store
	Timeout time.Duration
}

func (s Sync) Persist(key, value string) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Store.Set(ctx, key, value)
}
