package bus

import (
	"context"
	"strconv"
	"sync"

	"github.com/linanwx/nagochat/logger"
)

const defaultBufferSize = 100

// Handler receives one event. Each call runs on its own goroutine.
type Handler func(ctx context.Context, event *Event)

// Bus delivers published events to the handlers subscribed to their type.
// Publish never blocks; a single loop goroutine drains the queue.
type Bus struct {
	mu     sync.RWMutex
	byType map[EventType]map[string]Handler
	owner  map[string]EventType
	nextID int64

	queue     chan *Event
	done      chan struct{}
	closeOnce sync.Once
	loop      sync.WaitGroup
	inflight  sync.WaitGroup
}

// NewBus starts a bus that queues up to bufferSize events.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	b := &Bus{
		byType: make(map[EventType]map[string]Handler),
		owner:  make(map[string]EventType),
		queue:  make(chan *Event, bufferSize),
		done:   make(chan struct{}),
	}
	b.loop.Add(1)
	go b.run()
	return b
}

// Subscribe registers handler for eventType and returns an id for
// Unsubscribe.
func (b *Bus) Subscribe(eventType EventType, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := "sub-" + strconv.FormatInt(b.nextID, 10)
	if b.byType[eventType] == nil {
		b.byType[eventType] = make(map[string]Handler)
	}
	b.byType[eventType][id] = handler
	b.owner[id] = eventType
	logger.Debug("subscription added", "id", id, "eventType", eventType)
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	typ, ok := b.owner[id]
	if !ok {
		return
	}
	delete(b.owner, id)
	delete(b.byType[typ], id)
	if len(b.byType[typ]) == 0 {
		delete(b.byType, typ)
	}
}

// Publish queues event and reports whether it was accepted. It returns false
// once the bus is closed or while the queue is full.
func (b *Bus) Publish(event *Event) bool {
	select {
	case <-b.done:
		logger.Warn("bus closed, event dropped", "type", event.Type)
		return false
	default:
	}
	select {
	case b.queue <- event:
		logger.Debug("event published", "type", event.Type, "source", event.Source)
		return true
	default:
		logger.Warn("event queue full, event dropped", "type", event.Type)
		return false
	}
}

// Close stops accepting events, dispatches whatever is queued and waits for
// running handlers. It is safe to call more than once.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.done) })
	b.loop.Wait()
	b.inflight.Wait()
}

func (b *Bus) run() {
	defer b.loop.Done()
	for {
		select {
		case event := <-b.queue:
			b.fanOut(event)
		case <-b.done:
			for len(b.queue) > 0 {
				b.fanOut(<-b.queue)
			}
			return
		}
	}
}

func (b *Bus) fanOut(event *Event) {
	b.mu.RLock()
	handlers := make(map[string]Handler, len(b.byType[event.Type]))
	for id, h := range b.byType[event.Type] {
		handlers[id] = h
	}
	b.mu.RUnlock()

	ctx := context.Background()
	for id, h := range handlers {
		b.inflight.Add(1)
		go b.call(ctx, id, h, event)
	}
}

func (b *Bus) call(ctx context.Context, id string, h Handler, event *Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panic", "subscription", id, "type", event.Type, "panic", r)
		}
	}()
	h(ctx, event)
}
