// Package voice runs per-session transcript workers.
//
// Audio capture and speech-to-text live outside this service; an external
// transcriber pushes finished utterances into a session queue and a worker
// goroutine feeds them through transcript correction into the tilt engine.
package voice

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/metrics"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/speech"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
)

const defaultQueueSize = 64

var (
	ErrSessionNotFound = errors.New("voice session not found")
	ErrQueueFull       = errors.New("voice session queue full")
)

// Utterance is one transcribed chunk of speech for one user.
type Utterance struct {
	UserID   string         `json:"user_id"`
	Text     string         `json:"text"`
	Features *AudioFeatures `json:"features,omitempty"`
}

// SignalSink is the subset of the tilt engine the voice path needs.
type SignalSink interface {
	RecordSignal(ctx context.Context, userID, text string) tilt.SignalResult
	RecordMagnitude(userID string, magnitude int, trigger string) tilt.SignalResult
}

type session struct {
	id    uuid.UUID
	queue chan Utterance
}

// Manager owns the set of active voice sessions and their workers.
type Manager struct {
	mu        sync.Mutex
	engine    SignalSink
	sessions  map[uuid.UUID]*session
	queueSize int
	wg        sync.WaitGroup
}

func NewManager(engine SignalSink) *Manager {
	return &Manager{
		engine:    engine,
		sessions:  make(map[uuid.UUID]*session),
		queueSize: defaultQueueSize,
	}
}

// Open creates a new session and starts its worker. Returns the session ID
// the transcriber uses to submit utterances.
func (m *Manager) Open() uuid.UUID {
	s := &session{
		id:    uuid.New(),
		queue: make(chan Utterance, m.queueSize),
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.wg.Add(1)
	go m.worker(s)

	metrics.VoiceSessionsActive.Inc()
	slog.Info("Voice session opened", "session_uuid", s.id.String())
	return s.id
}

// Close stops a session's worker after draining its queue. Returns false if
// the session does not exist.
func (m *Manager) Close(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	close(s.queue)
	metrics.VoiceSessionsActive.Dec()
	slog.Info("Voice session closed", "session_uuid", id.String())
	return true
}

// Submit queues an utterance for processing. Never blocks: a full queue
// drops the utterance and reports ErrQueueFull.
//
// The send happens under m.mu: Close and Shutdown remove the session from
// the map under the same lock before closing its queue, so a session found
// here cannot have its queue closed until the send has completed.
func (m *Manager) Submit(id uuid.UUID, u Utterance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	select {
	case s.queue <- u:
		return nil
	default:
		metrics.VoiceUtterancesDropped.Inc()
		return ErrQueueFull
	}
}

// Sessions returns the IDs of all open sessions.
func (m *Manager) Sessions() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown closes every session and waits for the workers to drain.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for id, s := range m.sessions {
		close(s.queue)
		delete(m.sessions, id)
		metrics.VoiceSessionsActive.Dec()
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *Manager) worker(s *session) {
	defer m.wg.Done()

	ctx := context.Background()
	for u := range s.queue {
		m.process(ctx, s.id, u)
	}
}

func (m *Manager) process(ctx context.Context, sessionID uuid.UUID, u Utterance) {
	if u.Text != "" {
		corrected := speech.CorrectTranscript(u.Text)
		result := m.engine.RecordSignal(ctx, u.UserID, corrected)
		metrics.VoiceUtterancesProcessed.Inc()

		if result.Recorded {
			slog.Debug("Voice signal recorded",
				"session_uuid", sessionID.String(),
				"user_id", u.UserID,
				"magnitude", result.Magnitude,
				"score", result.Score,
			)
		}
	}

	if u.Features != nil {
		if magnitude := u.Features.Magnitude(); magnitude != 0 {
			m.engine.RecordMagnitude(u.UserID, magnitude, "elevated voice indicators")
		}
	}
}
