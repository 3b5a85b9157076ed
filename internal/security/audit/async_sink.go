package audit

import (
	"context"
	"log"
	"sync"
	"time"
)

// AsyncSink delivers events to another Sink from a single background worker.
// Record never blocks: when the buffer is full the event is dropped and logged.
type AsyncSink struct {
	next    Sink
	events  chan Event
	timeout time.Duration
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncSink starts a worker that forwards buffered events to next
func NewAsyncSink(next Sink, bufferSize int) *AsyncSink {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	s := &AsyncSink{
		next:    next,
		events:  make(chan Event, bufferSize),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}

	go s.run()

	return s
}

// Record queues the event for delivery
func (s *AsyncSink) Record(_ context.Context, event Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		log.Printf("audit: sink closed, dropping %s event for %s", event.Type, event.TransactionID)
		return nil
	}

	select {
	case s.events <- event:
	default:
		log.Printf("audit: buffer full, dropping %s event for %s", event.Type, event.TransactionID)
	}
	return nil
}

// Close stops accepting events and waits until the buffer is drained
func (s *AsyncSink) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.events)
		s.mu.Unlock()
	})
	<-s.done
}

func (s *AsyncSink) run() {
	defer close(s.done)

	for event := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.next.Record(ctx, event); err != nil {
			log.Printf("audit: failed to record %s event for %s: %v", event.Type, event.TransactionID, err)
		}
		cancel()
	}
}
