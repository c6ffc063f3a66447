package channel

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/AlexandreRouma/vhf-framing/internal/bits"
	"github.com/AlexandreRouma/vhf-framing/internal/frame"
	"github.com/AlexandreRouma/vhf-framing/internal/metrics"
)

// Session represents one receive channel and its deframer. The deframer
// itself is single-threaded; the session mutex is the external
// serialization the deframer requires.
type Session struct {
	Name      string
	StartTime time.Time

	deframer     *frame.Deframer
	lastActivity time.Time

	// Counters, guarded by mu.
	bitsPushed      uint64
	framesExtracted uint64
	syncAcquired    uint64
	syncLost        uint64
	framesThisRun   uint64

	mu sync.Mutex
}

// Stats is a point-in-time snapshot of a session's counters.
type Stats struct {
	Name            string    `json:"name"`
	FrameType       string    `json:"frame_type"`
	Synchronized    bool      `json:"synchronized"`
	BitsPushed      uint64    `json:"bits_pushed"`
	FramesExtracted uint64    `json:"frames_extracted"`
	SyncAcquired    uint64    `json:"sync_acquired"`
	SyncLost        uint64    `json:"sync_lost"`
	StartTime       time.Time `json:"start_time"`
	LastActivity    time.Time `json:"last_activity"`
}

// Manager manages all active channel sessions
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *slog.Logger
	timeout  time.Duration
	metrics  *metrics.Metrics

	stop    chan struct{}
	stopped sync.Once
}

// NewManager creates a channel manager. m may be nil when Prometheus
// instrumentation is not wanted (tests). A timeout of zero disables the
// idle reaper.
func NewManager(logger *slog.Logger, timeout time.Duration, m *metrics.Metrics) *Manager {
	mgr := &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
		timeout:  timeout,
		metrics:  m,
		stop:     make(chan struct{}),
	}
	if timeout > 0 {
		go mgr.reapIdleSessions()
	}
	return mgr
}

// CreateSession creates a session for the named channel, bound to one
// frame type for its whole life. Creating a channel that already exists
// returns the existing session untouched.
func (m *Manager) CreateSession(name string, t frame.FrameType) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[name]; ok {
		m.logger.Warn("Channel session already exists",
			slog.String("channel", name),
		)
		return existing, nil
	}

	d, err := frame.NewDeframer(t)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", name, err)
	}

	now := time.Now()
	s := &Session{
		Name:         name,
		StartTime:    now,
		deframer:     d,
		lastActivity: now,
	}
	m.sessions[name] = s

	if m.metrics != nil {
		m.metrics.ChannelsCreated.Inc()
		m.metrics.ActiveChannels.Set(float64(len(m.sessions)))
	}
	m.logger.Info("Channel session created",
		slog.String("channel", name),
		slog.String("frame_type", t.String()),
	)
	return s, nil
}

// GetSession returns the session for name, or nil when none exists.
func (m *Manager) GetSession(name string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[name]
}

// RemoveSession drops the named session.
func (m *Manager) RemoveSession(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(name, "removed")
}

func (m *Manager) removeLocked(name, reason string) {
	s, ok := m.sessions[name]
	if !ok {
		return
	}
	delete(m.sessions, name)
	if m.metrics != nil {
		m.metrics.ChannelsRemoved.Inc()
		m.metrics.ActiveChannels.Set(float64(len(m.sessions)))
	}
	s.mu.Lock()
	frames := s.framesExtracted
	s.mu.Unlock()
	m.logger.Info("Channel session removed",
		slog.String("channel", name),
		slog.String("reason", reason),
		slog.Uint64("frames_extracted", frames),
	)
}

// Push routes a batch of sliced bits to the named channel's deframer
// and reports the extraction result. The channel must have been created
// first.
func (m *Manager) Push(name string, in bits.Bits) (frame.Fields, bool, error) {
	s := m.GetSession(name)
	if s == nil {
		return frame.Fields{}, false, fmt.Errorf("channel %s: no such session", name)
	}
	fields, extracted := s.push(in, m.metrics)
	return fields, extracted, nil
}

func (s *Session) push(in bits.Bits, m *metrics.Metrics) (frame.Fields, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasSynced := s.deframer.Synchronized()
	fields, extracted := s.deframer.PushBits(in)
	isSynced := s.deframer.Synchronized()

	s.bitsPushed += uint64(len(in))
	s.lastActivity = time.Now()
	if extracted {
		s.framesExtracted++
		s.framesThisRun++
	}

	// Lock transitions are observed at batch granularity; feed one
	// frame length per batch to see every transition.
	if !wasSynced && isSynced {
		s.syncAcquired++
		s.framesThisRun = 1
		if m != nil {
			m.SyncAcquired.Inc()
		}
	} else if wasSynced && !isSynced {
		s.syncLost++
		if m != nil {
			m.SyncLost.Inc()
			m.SyncRunFrames.Observe(float64(s.framesThisRun))
		}
		s.framesThisRun = 0
	}

	if m != nil {
		m.BitsProcessed.Add(float64(len(in)))
		if extracted {
			m.FramesExtracted.Inc()
		}
	}
	return fields, extracted
}

// Synchronized reports whether the session's deframer holds frame lock.
func (s *Session) Synchronized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deframer.Synchronized()
}

// Stats returns a snapshot of the session's counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Name:            s.Name,
		FrameType:       s.deframer.FrameType().String(),
		Synchronized:    s.deframer.Synchronized(),
		BitsPushed:      s.bitsPushed,
		FramesExtracted: s.framesExtracted,
		SyncAcquired:    s.syncAcquired,
		SyncLost:        s.syncLost,
		StartTime:       s.StartTime,
		LastActivity:    s.lastActivity,
	}
}

// ActiveSessions returns the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// AllStats returns snapshots for every session, ordered by channel name.
func (m *Manager) AllStats() []Stats {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	stats := make([]Stats, 0, len(sessions))
	for _, s := range sessions {
		stats = append(stats, s.Stats())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// Stop halts the idle reaper. Sessions remain readable afterwards.
func (m *Manager) Stop() {
	m.stopped.Do(func() { close(m.stop) })
}

func (m *Manager) reapIdleSessions() {
	ticker := time.NewTicker(m.timeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.reapOnce(time.Now())
		}
	}
}

func (m *Manager) reapOnce(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastActivity)
		s.mu.Unlock()
		if idle > m.timeout {
			m.removeLocked(name, "idle timeout")
		}
	}
}
