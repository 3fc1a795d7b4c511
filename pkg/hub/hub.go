package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// DefaultRingSize is the per-topic ring capacity. A subscriber that falls
// behind by more than this receives a Lagged error.
const DefaultRingSize = 1024

var (
	// ErrNoSuchChain is returned by Subscribe when no ingestor has
	// registered the requested chain key.
	ErrNoSuchChain = errors.New("hub: no such chain")

	// ErrClosed is returned by Recv once the publisher has closed the
	// topic and the subscriber has drained every retained message.
	ErrClosed = errors.New("hub: topic closed")
)

// Lagged reports that a subscriber fell behind the ring and missed
// messages. The subscriber's cursor has been advanced to the oldest
// retained message; the next Recv resumes from there.
type Lagged struct {
	Missed uint64
}

func (l Lagged) Error() string {
	return fmt.Sprintf("hub: subscriber lagged, missed %d messages", l.Missed)
}

// topic is one chain key's ring buffer. head is the sequence number of
// the next publish; the ring retains messages [head-len(ring), head).
type topic struct {
	mu     sync.Mutex
	ring   []*proto.GenericDataProto
	head   uint64
	closed bool
	notify chan struct{}
}

func newTopic(size int) *topic {
	return &topic{
		ring:   make([]*proto.GenericDataProto, size),
		notify: make(chan struct{}),
	}
}

// Hub multiplexes one publisher per chain key to any number of
// subscribers, each with its own ring cursor.
type Hub struct {
	mu       sync.RWMutex
	topics   map[types.ChainKey]*topic
	ringSize int
}

// New creates a hub. ringSize values below DefaultRingSize are raised
// to it.
func New(ringSize int) *Hub {
	if ringSize < DefaultRingSize {
		ringSize = DefaultRingSize
	}
	return &Hub{
		topics:   make(map[types.ChainKey]*topic),
		ringSize: ringSize,
	}
}

// Publisher is the sending half of a topic. Each ingestor uniquely owns
// one; closing it ends every subscriber's stream.
type Publisher struct {
	hub *Hub
	key types.ChainKey
	t   *topic
}

// Subscriber is an independent receiving handle with its own cursor.
type Subscriber struct {
	t      *topic
	cursor uint64
}

// Register creates the topic for a chain key and returns its publisher.
// Registering a key twice is a configuration error.
func (h *Hub) Register(key types.ChainKey) (*Publisher, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[key]; ok {
		return nil, fmt.Errorf("hub: chain %s already registered", key)
	}
	t := newTopic(h.ringSize)
	h.topics[key] = t
	return &Publisher{hub: h, key: key, t: t}, nil
}

// Subscribe returns a new subscriber positioned at the topic's current
// head: it receives every message published after this instant.
func (h *Hub) Subscribe(key types.ChainKey) (*Subscriber, error) {
	h.mu.RLock()
	t, ok := h.topics[key]
	h.mu.RUnlock()
	if !ok {
		return nil, ErrNoSuchChain
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrNoSuchChain
	}
	return &Subscriber{t: t, cursor: t.head}, nil
}

// Has reports whether a topic exists for the chain key.
func (h *Hub) Has(key types.ChainKey) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.topics[key]
	return ok
}

// Publish appends a message to the ring. It never blocks: slow
// subscribers are the subscriber's problem.
func (p *Publisher) Publish(msg *proto.GenericDataProto) {
	t := p.t
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.ring[t.head%uint64(len(t.ring))] = msg
	t.head++
	notify := t.notify
	t.notify = make(chan struct{})
	t.mu.Unlock()

	close(notify)
}

// Close tears the topic down. Subscribers drain what the ring retains,
// then observe ErrClosed.
func (p *Publisher) Close() {
	t := p.t
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	notify := t.notify
	t.mu.Unlock()

	close(notify)

	p.hub.mu.Lock()
	delete(p.hub.topics, p.key)
	p.hub.mu.Unlock()
}

// Recv returns the next message in publish order. It blocks until a
// message is available, the topic closes (ErrClosed), the subscriber is
// overrun (Lagged), or ctx is done.
func (s *Subscriber) Recv(ctx context.Context) (*proto.GenericDataProto, error) {
	t := s.t
	for {
		t.mu.Lock()
		size := uint64(len(t.ring))
		if t.head > size && s.cursor < t.head-size {
			missed := t.head - size - s.cursor
			s.cursor = t.head - size
			t.mu.Unlock()
			return nil, Lagged{Missed: missed}
		}
		if s.cursor < t.head {
			msg := t.ring[s.cursor%size]
			s.cursor++
			t.mu.Unlock()
			return msg, nil
		}
		if t.closed {
			t.mu.Unlock()
			return nil, ErrClosed
		}
		notify := t.notify
		t.mu.Unlock()

		select {
		case <-notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
