package thread

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linanwx/nagochat/logger"
)

// Manager keeps one thread per session key and schedules their execution.
type Manager struct {
	cfg            *Config
	mu             sync.Mutex
	threads        map[string]*Thread
	maxConcurrency int
	signal         chan struct{} // aggregated notification from all threads
	wg             sync.WaitGroup
}

// NewManager creates a thread manager.
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = defaultTurnTimeout
	}
	return &Manager{
		cfg:            cfg,
		threads:        make(map[string]*Thread),
		maxConcurrency: defaultMaxConcurrency,
		signal:         make(chan struct{}, 1),
	}
}

// Run is the manager's scheduling loop. It starts runnable threads up to
// maxConcurrency in parallel and retires idle ones. Blocks until ctx is
// cancelled, then waits for running turns to finish.
func (m *Manager) Run(ctx context.Context) {
	sem := make(chan struct{}, m.maxConcurrency)
	gc := time.NewTicker(gcInterval)
	defer gc.Stop()
	defer m.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.signal:
			m.scheduleReady(ctx, sem)
		case <-gc.C:
			m.collectIdle(defaultThreadTTL)
		}
	}
}

// scheduleReady starts a goroutine for every idle thread with pending messages.
func (m *Manager) scheduleReady(ctx context.Context, sem chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.threads {
		if t.state != threadIdle || !t.hasMessages() {
			continue
		}
		t.state = threadRunning
		m.wg.Add(1)

		go func(th *Thread) {
			defer m.wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			th.RunOnce(ctx)

			m.mu.Lock()
			th.state = threadIdle
			hasMore := th.hasMessages()
			m.mu.Unlock()

			if hasMore {
				m.notify()
			}
		}(t)
	}
}

// collectIdle drops threads that have had nothing to do for ttl.
func (m *Manager) collectIdle(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, t := range m.threads {
		if t.state != threadIdle || t.wakers > 0 || t.hasMessages() {
			continue
		}
		t.mu.Lock()
		idle := time.Since(t.lastActiveAt)
		t.mu.Unlock()
		if idle >= ttl {
			delete(m.threads, key)
			removed++
		}
	}
	if removed > 0 {
		logger.Debug("idle threads collected", "removed", removed)
	}
	return removed
}

// notify sends a non-blocking signal to the run loop.
func (m *Manager) notify() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Wake enqueues msg on the thread for sessionKey, creating it if needed. The
// thread cannot be collected while the message is on its way to the inbox.
func (m *Manager) Wake(sessionKey string, msg *WakeMessage) {
	t := m.acquire(sessionKey)
	defer m.release(t)
	t.Enqueue(msg)
}

func (m *Manager) acquire(sessionKey string) *Thread {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.threadLocked(sessionKey)
	t.wakers++
	return t
}

func (m *Manager) release(t *Thread) {
	m.mu.Lock()
	t.wakers--
	m.mu.Unlock()
}

// Thread returns the thread for sessionKey, creating it if needed.
func (m *Manager) Thread(sessionKey string) *Thread {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threadLocked(sessionKey)
}

func (m *Manager) threadLocked(sessionKey string) *Thread {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		sessionKey = "main"
	}
	if t, ok := m.threads[sessionKey]; ok {
		return t
	}
	t := &Thread{
		id:           "thread-" + uuid.NewString()[:8],
		mgr:          m,
		sessionKey:   sessionKey,
		state:        threadIdle,
		inbox:        make(chan *WakeMessage, defaultInboxSize),
		signal:       m.signal,
		lastActiveAt: time.Now(),
	}
	m.threads[sessionKey] = t
	return t
}

// Len returns the number of live threads.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.threads)
}
