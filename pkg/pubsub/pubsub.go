package pubsub

import (
	"context"
	"errors"
	"sync"
)

// ErrShutdown is returned when subscribing to a broker that has been shut down.
var ErrShutdown = errors.New("pubsub: broker is shut down")

// DefaultBuffer is the per-subscription channel capacity used when none is given.
const DefaultBuffer = 64

// Broker fans typed messages out to topic subscribers.
// Delivery never blocks the publisher: a subscriber whose buffer is full
// misses the message.
type Broker[T any] struct {
	subscribers map[string]map[*Subscription[T]]struct{}
	buffer      int
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription receives the messages published on one topic.
type Subscription[T any] struct {
	topic     string
	channel   chan T
	broker    *Broker[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBroker creates a broker whose subscriptions buffer up to buffer messages.
func NewBroker[T any](buffer int) *Broker[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker[T]{
		subscribers: make(map[string]map[*Subscription[T]]struct{}),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers a subscription on topic. It is removed when ctx is
// cancelled, when Unsubscribe is called, or when the broker shuts down.
func (b *Broker[T]) Subscribe(ctx context.Context, topic string) (*Subscription[T], error) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil, ErrShutdown
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topic:   topic,
		channel: make(chan T, b.buffer),
		broker:  b,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription[T]]struct{})
	}
	b.subscribers[topic][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.Unsubscribe()
		}
	}()

	return sub, nil
}

// Publish delivers msg to every current subscriber of topic and returns how
// many subscribers accepted it.
func (b *Broker[T]) Publish(topic string, msg T) int {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return 0
	}
	b.shutdownMu.Unlock()

	// Channels are only closed under the write lock, so holding the read
	// lock keeps every send ahead of any close. Sends never block.
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for sub := range b.subscribers[topic] {
		if sub.send(msg) {
			delivered++
		}
	}
	return delivered
}

// SubscriberCount returns the number of subscribers on topic
func (b *Broker[T]) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes every subscription. Later publishes are dropped.
func (b *Broker[T]) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	b.mu.Lock()
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()

	close(b.shutdown)
}

// C returns the channel messages arrive on. It is closed when the
// subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.channel
}

// Topic returns the subscribed topic
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	if subs := s.broker.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.broker.subscribers, s.topic)
		}
	}
	s.close()
}

// send is a non-blocking delivery. Callers hold the broker's read lock.
func (s *Subscription[T]) send(msg T) bool {
	select {
	case s.channel <- msg:
		return true
	default:
		return false
	}
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
